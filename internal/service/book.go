package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/id"
	"github.com/bookclubapp/bookclub-server/internal/slug"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// BookService manages the book chosen for a category.
type BookService struct {
	store  store.Store
	graph  *graph.Graph
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, graph *graph.Graph, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		graph:  graph,
		logger: logger,
	}
}

// BookRequest carries the fields of a book. Field order is validation precedence.
type BookRequest struct {
	Title     string    `json:"title" validate:"notblank,max=200"`
	Author    string    `json:"author" validate:"notblank,max=200"`
	DateStart time.Time `json:"date_start" validate:"required"`
	DateEnd   time.Time `json:"date_end" validate:"required,gtefield=DateStart"`
}

// Create attaches a book to a category. A category holds at most one book.
func (s *BookService) Create(ctx context.Context, userID, groupSlug, categorySlug string, req BookRequest) (*domain.Book, error) {
	key, err := validateBook(req)
	if err != nil {
		return nil, err
	}

	category, err := s.memberCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.Book)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		ID:         bookID,
		CategoryID: category.ID,
		Slug:       key,
		Title:      strings.TrimSpace(req.Title),
		Author:     strings.TrimSpace(req.Author),
		DateStart:  req.DateStart,
		DateEnd:    req.DateEnd,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.DuplicateKeyf("category", "category %q already has a book", category.Slug)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book added",
		"book_id", book.ID,
		"category_id", category.ID,
		"slug", book.Slug,
	)
	return book, nil
}

// Get returns the category's book.
func (s *BookService) Get(ctx context.Context, userID, groupSlug, categorySlug string) (*domain.Book, error) {
	category, err := s.memberCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	return bookOf(ctx, s.store, category)
}

// Update replaces the category's book details. The slug follows the title.
func (s *BookService) Update(ctx context.Context, userID, groupSlug, categorySlug string, req BookRequest) (*domain.Book, error) {
	key, err := validateBook(req)
	if err != nil {
		return nil, err
	}

	category, err := s.memberCategory(ctx, userID, groupSlug, categorySlug)
	if err != nil {
		return nil, err
	}
	book, err := bookOf(ctx, s.store, category)
	if err != nil {
		return nil, err
	}

	book.Slug = key
	book.Title = strings.TrimSpace(req.Title)
	book.Author = strings.TrimSpace(req.Author)
	book.DateStart = req.DateStart
	book.DateEnd = req.DateEnd
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// Delete removes the category's book and its opinions. Admin only.
func (s *BookService) Delete(ctx context.Context, userID, groupSlug, categorySlug string) (*graph.DeleteResult, error) {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	category, err := categoryInGroup(ctx, s.store, group, categorySlug)
	if err != nil {
		return nil, err
	}
	book, err := bookOf(ctx, s.store, category)
	if err != nil {
		return nil, err
	}
	return s.graph.DeleteBook(ctx, book.ID)
}

func (s *BookService) memberCategory(ctx context.Context, userID, groupSlug, categorySlug string) (*domain.BookCategory, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	return categoryInGroup(ctx, s.store, group, categorySlug)
}

// validateBook checks req and derives the book's slug from its title.
func validateBook(req BookRequest) (string, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return "", err
	}
	return slug.DeriveBookKey(req.Title)
}
