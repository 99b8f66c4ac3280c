package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// LocalStorage keeps documents as files in a directory on the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where documents are stored
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is created when it does not exist yet.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("storage directory is not set")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Location returns the full filesystem path for a document
func (ls *LocalStorage) Location(name string) string {
	return filepath.Join(ls.basePath, filepath.Base(name))
}

// Read returns the document contents
func (ls *LocalStorage) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ls.Location(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Write stores data through a temporary file that is synced and renamed over
// the target, so readers never observe a partially written document.
func (ls *LocalStorage) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dstPath := ls.Location(name)
	tmpPath := filepath.Join(ls.basePath, "."+filepath.Base(name)+"."+uuid.NewString()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to create temporary file")
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to replace document")
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	logger.Debug().Str("path", dstPath).Int("bytes", len(data)).Msg("Document written")
	return nil
}
