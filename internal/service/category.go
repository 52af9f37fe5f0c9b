package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/id"
	"github.com/bookclubapp/bookclub-server/internal/slug"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// CategoryService manages a group's categories and their activation.
type CategoryService struct {
	store  store.Store
	graph  *graph.Graph
	logger *slog.Logger

	// pick returns a uniform index in [0, n). Replaced in tests.
	pick func(n int) int
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, graph *graph.Graph, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		graph:  graph,
		logger: logger,
		pick:   rand.IntN,
	}
}

// CategoryRequest carries the editable fields of a category. Field order is
// validation precedence.
type CategoryRequest struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Slug    string `json:"slug" validate:"slug"`
	ImageID string `json:"image_id" validate:"required"`
}

// CategoryDetail bundles a category with its book and the book's opinions.
type CategoryDetail struct {
	Category *domain.BookCategory  `json:"category"`
	State    domain.CategoryState  `json:"state"`
	Book     *domain.Book          `json:"book,omitempty"`
	Opinions []*domain.OpinionView `json:"opinions"`
}

// SwitchResult reports both sides of an active-category switch.
type SwitchResult struct {
	Previous *domain.BookCategory `json:"previous,omitempty"`
	Current  *domain.BookCategory `json:"current"`
}

// Create adds a dormant category to the group.
func (s *CategoryService) Create(ctx context.Context, userID, groupSlug string, req CategoryRequest) (*domain.BookCategory, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	key, err := slug.NormalizeCategory("slug", req.Slug)
	if err != nil {
		return nil, err
	}

	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	if err := s.graph.CheckImageUsable(ctx, group.ID, req.ImageID); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate(id.Category)
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	category := &domain.BookCategory{
		ID:      categoryID,
		GroupID: group.ID,
		Slug:    key,
		Name:    strings.TrimSpace(req.Name),
		ImageID: req.ImageID,
	}
	category.InitTimestamps()

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.DuplicateKeyf("slug", "category slug %q is already taken in this group", key)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"group_id", group.ID,
		"slug", category.Slug,
	)
	return category, nil
}

// List returns the group's categories in creation order.
func (s *CategoryService) List(ctx context.Context, userID, groupSlug string) ([]*domain.BookCategory, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get returns a category with its book and opinions.
func (s *CategoryService) Get(ctx context.Context, userID, groupSlug, categorySlug string) (*CategoryDetail, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	category, err := categoryInGroup(ctx, s.store, group, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, category)
}

// Active returns the group's active category, or NotFound when none is active.
func (s *CategoryService) Active(ctx context.Context, userID, groupSlug string) (*CategoryDetail, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	category, err := s.store.GetActiveCategory(ctx, group.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no active category")
		}
		return nil, fmt.Errorf("get active category: %w", err)
	}
	return s.detail(ctx, category)
}

func (s *CategoryService) detail(ctx context.Context, category *domain.BookCategory) (*CategoryDetail, error) {
	d := &CategoryDetail{
		Category: category,
		State:    category.State(),
		Opinions: []*domain.OpinionView{},
	}

	book, err := s.store.GetBookByCategory(ctx, category.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("get book: %w", err)
	}
	d.Book = book

	if d.Opinions, err = s.store.ListOpinionViews(ctx, book.ID); err != nil {
		return nil, fmt.Errorf("list opinions: %w", err)
	}
	return d, nil
}

// Update changes a category's name, slug or image. previousSlug addresses the
// category as it is now.
func (s *CategoryService) Update(ctx context.Context, userID, groupSlug, previousSlug string, req CategoryRequest) (*domain.BookCategory, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	key, err := slug.NormalizeCategory("slug", req.Slug)
	if err != nil {
		return nil, err
	}

	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}

	return s.graph.UpdateCategory(ctx, group.ID, previousSlug, graph.CategoryChanges{
		Name:    strings.TrimSpace(req.Name),
		Slug:    key,
		ImageID: req.ImageID,
	})
}

// Delete removes a category with its book and opinions.
func (s *CategoryService) Delete(ctx context.Context, userID, groupSlug, categorySlug string) (*graph.DeleteResult, error) {
	category, err := s.adminCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.graph.DeleteCategory(ctx, category.ID)
}

// Activate makes a category the group's active one.
func (s *CategoryService) Activate(ctx context.Context, userID, groupSlug, categorySlug string) (*domain.BookCategory, error) {
	category, err := s.adminCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.graph.Activate(ctx, category.ID)
}

// Deactivate ends the category's active period.
func (s *CategoryService) Deactivate(ctx context.Context, userID, groupSlug, categorySlug string) (*domain.BookCategory, error) {
	category, err := s.adminCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.graph.Deactivate(ctx, category.ID)
}

// Switch replaces the group's active category with the given one.
func (s *CategoryService) Switch(ctx context.Context, userID, groupSlug, categorySlug string) (*SwitchResult, error) {
	category, err := s.adminCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	previous, current, err := s.graph.SwitchActive(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return &SwitchResult{Previous: previous, Current: current}, nil
}

// Draw picks a dormant category uniformly at random and activates it. Picked categories
// are never drawn again; once none are dormant the draw reports NotFound.
func (s *CategoryService) Draw(ctx context.Context, userID, groupSlug string) (*domain.BookCategory, error) {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var dormant []*domain.BookCategory
	for _, c := range categories {
		switch c.State() {
		case domain.CategoryActive:
			return nil, domainerrors.Conflictf("category %q is already active", c.Slug)
		case domain.CategoryDormant:
			dormant = append(dormant, c)
		}
	}
	if len(dormant) == 0 {
		return nil, domainerrors.NotFound("no dormant category left to draw")
	}

	chosen := dormant[s.pick(len(dormant))]
	s.logger.Info("category drawn",
		"group_id", group.ID,
		"category_id", chosen.ID,
		"candidates", len(dormant),
	)
	return s.graph.Activate(ctx, chosen.ID)
}

func (s *CategoryService) adminCategory(ctx context.Context, userID, groupSlug, categorySlug string) (*domain.BookCategory, error) {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	return categoryInGroup(ctx, s.store, group, categorySlug)
}
