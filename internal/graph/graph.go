// Package graph owns every operation that touches more than one entity: cascading
// deletes, slug renames, and category activation. Each operation runs in a single
// store transaction, so a failure leaves the graph exactly as it was.
//
// The schema's foreign keys are restrictive. Nothing is removed implicitly; the
// deletion order below is the only place dependents are cleaned up:
//
//	group    -> opinions, books, categories, memberships, owned images, group
//	category -> opinions, book, category
//	book     -> opinions, book
//	image    -> refused while any category references it
package graph

import (
	"context"
	"errors"
	"log/slog"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// BlobDeleter removes stored image bytes.
type BlobDeleter interface {
	Delete(ctx context.Context, imageID string) error
}

// Graph performs cross-entity operations against the store.
type Graph struct {
	store  store.Store
	blobs  BlobDeleter
	logger *slog.Logger
}

// New creates a Graph. blobs may be nil when image bytes are not managed.
func New(s store.Store, blobs BlobDeleter, logger *slog.Logger) *Graph {
	return &Graph{
		store:  s,
		blobs:  blobs,
		logger: logger,
	}
}

// notFound maps store.ErrNotFound to a domain NotFound naming what was missing.
// Other errors pass through unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("%s not found", what)
	}
	return err
}

// deleteBlobs removes image bytes after the owning transaction committed.
// Failures are logged: the metadata rows are already gone and the bytes are unreachable.
func (g *Graph) deleteBlobs(ctx context.Context, imageIDs []string) {
	if g.blobs == nil {
		return
	}
	for _, imageID := range imageIDs {
		if err := g.blobs.Delete(ctx, imageID); err != nil {
			g.logger.Warn("failed to delete image blob",
				"image_id", imageID,
				"error", err,
			)
		}
	}
}
