package imagestore

import (
	"context"
	"fmt"

	"github.com/jafarshop/storefront/internal/config"
)

// New builds the configured image storage backend
func New(ctx context.Context, cfg config.ImageConfig) (Storage, error) {
	switch cfg.Backend {
	case "none", "":
		return Noop{}, nil

	case "local":
		return NewLocal(cfg.LocalDir, cfg.URLPrefix), nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return nil, fmt.Errorf("s3 image storage requires IMAGE_S3_REGION, IMAGE_S3_BUCKET, IMAGE_S3_PUBLIC_BASE_URL")
		}
		return NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})

	default:
		return nil, fmt.Errorf("unknown image storage backend: %s", cfg.Backend)
	}
}
