package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// GroupChanges are the mutable fields of a group. Values are already validated.
type GroupChanges struct {
	Name string
	Slug string
}

// UpdateGroup applies changes to the group currently addressed by previousSlug.
// Dependents reference the group by ID, so a slug change leaves them untouched.
func (g *Graph) UpdateGroup(ctx context.Context, previousSlug string, ch GroupChanges) (*domain.BookGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var group *domain.BookGroup
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		group, err = q.GetGroupBySlug(ctx, previousSlug)
		if err != nil {
			return notFound(err, "group")
		}

		if ch.Slug != group.Slug {
			if _, err := q.GetGroupBySlug(ctx, ch.Slug); err == nil {
				return domainerrors.InvalidKey("slug", "is already taken")
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("check slug: %w", err)
			}
		}

		group.Name = ch.Name
		group.Slug = ch.Slug
		group.Touch()
		if err := q.UpdateGroup(ctx, group); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domainerrors.InvalidKey("slug", "is already taken")
			}
			return fmt.Errorf("update group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previousSlug != group.Slug {
		g.logger.Info("group renamed",
			"group_id", group.ID,
			"from", previousSlug,
			"to", group.Slug,
		)
	}
	return group, nil
}

// CategoryChanges are the mutable fields of a category. Values are already validated.
type CategoryChanges struct {
	Name    string
	Slug    string
	ImageID string
}

// UpdateCategory applies changes to the category addressed by previousSlug within
// the group. The book and its opinions follow the category by ID.
func (g *Graph) UpdateCategory(ctx context.Context, groupID, previousSlug string, ch CategoryChanges) (*domain.BookCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category *domain.BookCategory
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		category, err = q.GetCategoryBySlug(ctx, groupID, previousSlug)
		if err != nil {
			return notFound(err, "category")
		}

		if ch.Slug != category.Slug {
			if _, err := q.GetCategoryBySlug(ctx, groupID, ch.Slug); err == nil {
				return domainerrors.InvalidKey("slug", "is already taken")
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("check slug: %w", err)
			}
		}

		if ch.ImageID != category.ImageID {
			if err := checkImageUsable(ctx, q, groupID, ch.ImageID); err != nil {
				return err
			}
		}

		category.Name = ch.Name
		category.Slug = ch.Slug
		category.ImageID = ch.ImageID
		category.Touch()
		if err := q.UpdateCategory(ctx, category); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domainerrors.InvalidKey("slug", "is already taken")
			}
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previousSlug != category.Slug {
		g.logger.Info("category renamed",
			"category_id", category.ID,
			"group_id", groupID,
			"from", previousSlug,
			"to", category.Slug,
		)
	}
	return category, nil
}

// checkImageUsable verifies that imageID exists and belongs to the shared pool or
// to the group.
func checkImageUsable(ctx context.Context, q store.Queries, groupID, imageID string) error {
	img, err := q.GetImage(ctx, imageID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.ValidationField("image_id", "does not exist")
	}
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}
	if !img.UsableBy(groupID) {
		return domainerrors.ValidationField("image_id", "does not exist")
	}
	return nil
}

// CheckImageUsable is checkImageUsable on the store's connection pool.
func (g *Graph) CheckImageUsable(ctx context.Context, groupID, imageID string) error {
	return checkImageUsable(ctx, g.store, groupID, imageID)
}
