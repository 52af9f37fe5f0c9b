// Package service holds the book-club use cases. Services validate input, resolve
// the acting user's rights and delegate multi-entity work to package graph.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store"
	"github.com/bookclubapp/bookclub-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// groupForMember resolves a group by slug for a member. Non-members get NotFound so
// group existence is not disclosed.
func groupForMember(ctx context.Context, q store.Queries, userID, groupSlug string) (*domain.BookGroup, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	group, err := q.GetGroupBySlug(ctx, groupSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	member, err := q.IsMember(ctx, group.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, domainerrors.NotFound("group not found")
	}

	return group, nil
}

// groupForAdmin resolves a group by slug and requires userID to be its admin.
func groupForAdmin(ctx context.Context, q store.Queries, userID, groupSlug string) (*domain.BookGroup, error) {
	group, err := groupForMember(ctx, q, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	if !domain.IsGroupAdmin(group, userID) {
		return nil, domainerrors.Forbidden("only the group admin can do this")
	}
	return group, nil
}

// categoryInGroup resolves a category by slug within group.
func categoryInGroup(ctx context.Context, q store.Queries, group *domain.BookGroup, categorySlug string) (*domain.BookCategory, error) {
	category, err := q.GetCategoryBySlug(ctx, group.ID, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("category not found")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// bookOf returns the category's book, or NotFound when none was chosen yet.
func bookOf(ctx context.Context, q store.Queries, category *domain.BookCategory) (*domain.Book, error) {
	book, err := q.GetBookByCategory(ctx, category.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}
