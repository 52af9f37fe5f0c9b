package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// Activate makes the category its group's current one. It fails with a Conflict
// when another category of the group is already active; no other category is
// modified. Use SwitchActive to replace the current one.
func (g *Graph) Activate(ctx context.Context, categoryID string) (*domain.BookCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category *domain.BookCategory
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		category, err = q.GetCategory(ctx, categoryID)
		if err != nil {
			return notFound(err, "category")
		}

		if err := ensureNoneActive(ctx, q, category.GroupID); err != nil {
			return err
		}
		if err := category.Activate(); err != nil {
			return err
		}
		return saveActivation(ctx, q, category)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("category activated",
		"category_id", category.ID,
		"group_id", category.GroupID,
	)
	return category, nil
}

// Deactivate ends the category's active period. It stays picked.
func (g *Graph) Deactivate(ctx context.Context, categoryID string) (*domain.BookCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category *domain.BookCategory
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		category, err = q.GetCategory(ctx, categoryID)
		if err != nil {
			return notFound(err, "category")
		}
		if err := category.Deactivate(); err != nil {
			return err
		}
		if err := q.UpdateCategory(ctx, category); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("category deactivated",
		"category_id", category.ID,
		"group_id", category.GroupID,
	)
	return category, nil
}

// SwitchActive deactivates the group's current category, if any, and activates
// the target in the same transaction. The returned previous category is nil when
// nothing was active.
func (g *Graph) SwitchActive(ctx context.Context, targetID string) (previous, current *domain.BookCategory, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	err = g.store.WithTx(ctx, func(q store.Queries) error {
		var err error
		current, err = q.GetCategory(ctx, targetID)
		if err != nil {
			return notFound(err, "category")
		}
		if current.IsActive {
			return domainerrors.Conflictf("category %q is already active", current.Slug)
		}

		previous, err = q.GetActiveCategory(ctx, current.GroupID)
		switch {
		case err == nil:
			if err := previous.Deactivate(); err != nil {
				return err
			}
			if err := q.UpdateCategory(ctx, previous); err != nil {
				return fmt.Errorf("deactivate previous: %w", err)
			}
		case errors.Is(err, store.ErrNotFound):
			previous = nil
		default:
			return fmt.Errorf("get active category: %w", err)
		}

		if err := current.Activate(); err != nil {
			return err
		}
		return saveActivation(ctx, q, current)
	})
	if err != nil {
		return nil, nil, err
	}

	attrs := []any{"category_id", current.ID, "group_id", current.GroupID}
	if previous != nil {
		attrs = append(attrs, "previous_id", previous.ID)
	}
	g.logger.Info("active category switched", attrs...)
	return previous, current, nil
}

func ensureNoneActive(ctx context.Context, q store.Queries, groupID string) error {
	active, err := q.GetActiveCategory(ctx, groupID)
	switch {
	case err == nil:
		return domainerrors.Conflictf("category %q is already active", active.Slug)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("get active category: %w", err)
	}
}

// saveActivation persists an activated category. A unique violation means a
// concurrent activation won the race.
func saveActivation(ctx context.Context, q store.Queries, c *domain.BookCategory) error {
	if err := q.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("another category is already active")
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}
