package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/bookclubapp/bookclub-server/internal/config"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
)

// ImageStorage wraps the configured blob backend for image bytes.
type ImageStorage struct {
	images.Storage
}

// ProvideImageStorage provides the filesystem or S3 image backend.
func ProvideImageStorage(i do.Injector) (*ImageStorage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Storage.Backend {
	case config.StorageS3:
		s3Storage, err := images.NewS3Storage(context.Background(), images.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			Prefix:    cfg.Storage.S3Prefix,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 image storage: %w", err)
		}
		log.Info("Image storage initialized", "backend", "s3", "bucket", cfg.Storage.S3Bucket)
		return &ImageStorage{Storage: s3Storage}, nil

	default:
		fsStorage, err := images.NewFileStorage(cfg.Storage.ImagesPath)
		if err != nil {
			return nil, fmt.Errorf("image storage: %w", err)
		}
		log.Info("Image storage initialized", "backend", "fs", "path", cfg.Storage.ImagesPath)
		return &ImageStorage{Storage: fsStorage}, nil
	}
}

// ProvideImageProcessor provides the upload validator and metadata extractor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(cfg.Storage.MaxUploadBytes, log.Logger), nil
}

// ProvideGraph provides the relationship manager that owns cascades and activation.
func ProvideGraph(i do.Injector) (*graph.Graph, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	blobs := do.MustInvoke[*ImageStorage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return graph.New(storeHandle.Store, blobs.Storage, log.Logger), nil
}
