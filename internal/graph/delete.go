package graph

import (
	"context"
	"errors"
	"fmt"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// DeleteResult counts the rows removed by a cascading delete.
type DeleteResult struct {
	Opinions   int64 `json:"opinions"`
	Books      int64 `json:"books"`
	Categories int64 `json:"categories"`
	Members    int64 `json:"members"`
	Images     int64 `json:"images"`
}

// DeleteGroup removes a group and everything that belongs to it. Shared-pool
// images survive; images uploaded to the group are removed along with their bytes.
func (g *Graph) DeleteGroup(ctx context.Context, groupID string) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		res      DeleteResult
		imageIDs []string
	)
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetGroup(ctx, groupID); err != nil {
			return notFound(err, "group")
		}

		var err error
		if res.Opinions, err = q.DeleteOpinionsByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete opinions: %w", err)
		}
		if res.Books, err = q.DeleteBooksByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete books: %w", err)
		}
		if res.Categories, err = q.DeleteCategoriesByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete categories: %w", err)
		}
		if res.Members, err = q.DeleteMembershipsByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}

		owned, err := q.ListImagesOwnedBy(ctx, groupID)
		if err != nil {
			return fmt.Errorf("list group images: %w", err)
		}
		for _, img := range owned {
			if err := q.DeleteImage(ctx, img.ID); err != nil {
				if errors.Is(err, store.ErrReferenced) {
					return domainerrors.Referencedf("image %s is used outside the group", img.ID)
				}
				return fmt.Errorf("delete image %s: %w", img.ID, err)
			}
			imageIDs = append(imageIDs, img.ID)
		}
		res.Images = int64(len(imageIDs))

		if err := q.DeleteGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.deleteBlobs(ctx, imageIDs)

	g.logger.Info("group deleted",
		"group_id", groupID,
		"opinions", res.Opinions,
		"books", res.Books,
		"categories", res.Categories,
		"members", res.Members,
		"images", res.Images,
	)
	return &res, nil
}

// DeleteCategory removes a category together with its book and the book's opinions.
// The category's image is left in place.
func (g *Graph) DeleteCategory(ctx context.Context, categoryID string) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res DeleteResult
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			return notFound(err, "category")
		}

		book, err := q.GetBookByCategory(ctx, categoryID)
		switch {
		case err == nil:
			if res.Opinions, err = q.DeleteOpinionsByBook(ctx, book.ID); err != nil {
				return fmt.Errorf("delete opinions: %w", err)
			}
			if err := q.DeleteBook(ctx, book.ID); err != nil {
				return fmt.Errorf("delete book: %w", err)
			}
			res.Books = 1
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get book: %w", err)
		}

		if err := q.DeleteCategory(ctx, categoryID); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		res.Categories = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("category deleted",
		"category_id", categoryID,
		"opinions", res.Opinions,
		"books", res.Books,
	)
	return &res, nil
}

// DeleteBook removes a book and its opinions.
func (g *Graph) DeleteBook(ctx context.Context, bookID string) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res DeleteResult
	err := g.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetBook(ctx, bookID); err != nil {
			return notFound(err, "book")
		}

		var err error
		if res.Opinions, err = q.DeleteOpinionsByBook(ctx, bookID); err != nil {
			return fmt.Errorf("delete opinions: %w", err)
		}
		if err := q.DeleteBook(ctx, bookID); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		res.Books = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("book deleted",
		"book_id", bookID,
		"opinions", res.Opinions,
	)
	return &res, nil
}

// DeleteImage removes an image that no category references.
// Referenced images are refused, never detached from their categories.
func (g *Graph) DeleteImage(ctx context.Context, imageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := g.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetImage(ctx, imageID); err != nil {
			return notFound(err, "image")
		}

		n, err := q.CountCategoriesByImage(ctx, imageID)
		if err != nil {
			return fmt.Errorf("count image references: %w", err)
		}
		if n > 0 {
			return domainerrors.Referencedf("image is used by %d categories", n)
		}

		if err := q.DeleteImage(ctx, imageID); err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return domainerrors.Referenced("image is still referenced")
			}
			return fmt.Errorf("delete image: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.deleteBlobs(ctx, []string{imageID})

	g.logger.Info("image deleted", "image_id", imageID)
	return nil
}
