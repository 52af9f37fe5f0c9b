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
	"github.com/bookclubapp/bookclub-server/internal/id"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// OpinionService records and lists members' opinions of books.
type OpinionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewOpinionService creates a new opinion service.
func NewOpinionService(store store.Store, logger *slog.Logger) *OpinionService {
	return &OpinionService{
		store:  store,
		logger: logger,
	}
}

// OpinionRequest carries a new opinion. Field order is validation precedence.
type OpinionRequest struct {
	Rate        *int   `json:"rate" validate:"required,gte=0,lte=10"`
	Description string `json:"description" validate:"notblank,max=2000"`
	BookID      string `json:"book_id" validate:"required"`
}

// Add records userID's opinion of req.BookID, which must belong to the group.
// Members may leave any number of opinions.
func (s *OpinionService) Add(ctx context.Context, userID, groupSlug string, req OpinionRequest) (*domain.OpinionView, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}

	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	if err := s.checkBookInGroup(ctx, group, req.BookID); err != nil {
		return nil, err
	}

	opinionID, err := id.Generate(id.Opinion)
	if err != nil {
		return nil, fmt.Errorf("generate opinion ID: %w", err)
	}

	op := &domain.Opinion{
		ID:          opinionID,
		BookID:      req.BookID,
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		Rate:        *req.Rate,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateOpinion(ctx, op); err != nil {
		return nil, fmt.Errorf("create opinion: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	s.logger.Info("opinion added",
		"opinion_id", op.ID,
		"book_id", op.BookID,
		"user_id", userID,
		"rate", op.Rate,
	)

	return &domain.OpinionView{
		CreatedAt:   op.CreatedAt,
		ID:          op.ID,
		UserID:      userID,
		UserName:    user.DisplayName(),
		Description: op.Description,
		Severity:    domain.RateSeverity(op.Rate),
		Rate:        op.Rate,
	}, nil
}

// ListForBook returns the opinions of a category's book in the order they were given.
func (s *OpinionService) ListForBook(ctx context.Context, userID, groupSlug, categorySlug string) ([]*domain.OpinionView, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
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

	views, err := s.store.ListOpinionViews(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("list opinions: %w", err)
	}
	return views, nil
}

// checkBookInGroup reports a missing book, or one from another group, as a
// validation failure on book_id.
func (s *OpinionService) checkBookInGroup(ctx context.Context, group *domain.BookGroup, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.ValidationField("book_id", "does not exist")
	}
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}

	category, err := s.store.GetCategory(ctx, book.CategoryID)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category.GroupID != group.ID {
		return domainerrors.ValidationField("book_id", "does not exist")
	}
	return nil
}
