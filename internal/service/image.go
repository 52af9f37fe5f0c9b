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
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// ImageService manages the image pool categories draw their pictures from.
type ImageService struct {
	store     store.Store
	graph     *graph.Graph
	blobs     images.Storage
	processor *images.Processor
	logger    *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(
	store store.Store,
	graph *graph.Graph,
	blobs images.Storage,
	processor *images.Processor,
	logger *slog.Logger,
) *ImageService {
	return &ImageService{
		store:     store,
		graph:     graph,
		blobs:     blobs,
		processor: processor,
		logger:    logger,
	}
}

// UploadRequest carries an image either as raw bytes or as a base64 data URL.
type UploadRequest struct {
	Data    []byte `json:"-"`
	DataURL string `json:"data_url,omitempty"`
	AltText string `json:"alt_text,omitempty" validate:"max=300"`
}

// Upload stores an image in the group's part of the pool.
func (s *ImageService) Upload(ctx context.Context, userID, groupSlug string, req UploadRequest) (*domain.Image, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, group.ID, req)
}

// UploadShared stores an image in the pool shared by every group. Used by the seed tool.
func (s *ImageService) UploadShared(ctx context.Context, req UploadRequest) (*domain.Image, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	return s.save(ctx, "", req)
}

func (s *ImageService) save(ctx context.Context, groupID string, req UploadRequest) (*domain.Image, error) {
	data := req.Data
	if len(data) == 0 && req.DataURL != "" {
		var err error
		if data, err = images.DecodeDataURL(req.DataURL); err != nil {
			return nil, err
		}
	}

	processed, err := s.processor.Process(data)
	if err != nil {
		return nil, err
	}

	imageID, err := id.Generate(id.Image)
	if err != nil {
		return nil, fmt.Errorf("generate image ID: %w", err)
	}

	img := &domain.Image{
		CreatedAt:   time.Now(),
		ID:          imageID,
		GroupID:     groupID,
		ContentType: processed.ContentType,
		AltText:     strings.TrimSpace(req.AltText),
		BlurHash:    processed.BlurHash,
		Size:        int64(len(processed.Data)),
		Width:       processed.Width,
		Height:      processed.Height,
	}

	// Bytes first: a row must never point at a missing blob.
	if err := s.blobs.Save(ctx, img.ID, img.ContentType, processed.Data); err != nil {
		return nil, fmt.Errorf("save image blob: %w", err)
	}
	if err := s.store.CreateImage(ctx, img); err != nil {
		if delErr := s.blobs.Delete(ctx, img.ID); delErr != nil {
			s.logger.Warn("failed to remove orphaned image blob",
				"image_id", img.ID,
				"error", delErr,
			)
		}
		return nil, fmt.Errorf("create image: %w", err)
	}

	s.logger.Info("image uploaded",
		"image_id", img.ID,
		"group_id", groupID,
		"content_type", img.ContentType,
		"size", img.Size,
	)
	return img, nil
}

// List returns the images the group's categories may use: the shared pool
// followed by the group's own uploads.
func (s *ImageService) List(ctx context.Context, userID, groupSlug string) ([]*domain.Image, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	imgs, err := s.store.ListImagesForGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return imgs, nil
}

// Delete removes one of the group's own images. Shared images cannot be removed
// through a group, and images still used by a category are refused.
func (s *ImageService) Delete(ctx context.Context, userID, groupSlug, imageID string) error {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return err
	}

	img, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("image not found")
		}
		return fmt.Errorf("get image: %w", err)
	}
	if img.GroupID != group.ID {
		return domainerrors.NotFound("image not found")
	}

	return s.graph.DeleteImage(ctx, img.ID)
}

// Open returns an image's metadata and bytes. Image resources are public.
func (s *ImageService) Open(ctx context.Context, imageID string) (*domain.Image, []byte, error) {
	if !id.Is(imageID, id.Image) {
		return nil, nil, domainerrors.NotFound("image not found")
	}

	img, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("image not found")
		}
		return nil, nil, fmt.Errorf("get image: %w", err)
	}

	data, err := s.blobs.Get(ctx, img.ID)
	if err != nil {
		if errors.Is(err, images.ErrNotFound) {
			s.logger.Warn("image blob missing", "image_id", img.ID)
			return nil, nil, domainerrors.NotFound("image not found")
		}
		return nil, nil, fmt.Errorf("read image blob: %w", err)
	}
	return img, data, nil
}
