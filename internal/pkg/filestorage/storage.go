package filestorage

import (
	"context"
	"fmt"

	"github.com/yigit/councilcms/internal/config"
)

// NewBlobStorage returns the object store selected by cfg.Provider
func NewBlobStorage(ctx context.Context, cfg config.BlobConfig) (DocumentStorage, error) {
	switch cfg.Provider {
	case config.BlobProviderS3, "":
		return NewS3Storage(ctx, cfg)
	case config.BlobProviderGCS:
		return NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob provider %q", cfg.Provider)
	}
}
