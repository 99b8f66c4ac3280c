package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/yigit/councilcms/internal/config"
	"github.com/yigit/councilcms/internal/pkg/logger"
	"google.golang.org/api/option"
)

// GCSStorage keeps documents as objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	client  *storage.Client
	bucket  *storage.BucketHandle
	name    string
	prefix  string
	timeout time.Duration
}

// NewGCSStorage creates the storage client. Without a credentials file the
// application default credentials are used.
func NewGCSStorage(ctx context.Context, cfg config.BlobConfig) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs storage: bucket not set")
	}

	clientOpts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs storage: failed in creating storage client: %w", err)
	}

	return &GCSStorage{
		client:  client,
		bucket:  client.Bucket(cfg.Bucket),
		name:    cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		timeout: config.ParseDuration(cfg.Timeout, 30*time.Second),
	}, nil
}

func (g *GCSStorage) key(name string) string {
	if g.prefix == "" {
		return name
	}
	return g.prefix + "/" + name
}

// Location returns the gs:// URL of a document
func (g *GCSStorage) Location(name string) string {
	return "gs://" + g.name + "/" + g.key(name)
}

// Read downloads the object
func (g *GCSStorage) Read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	r, err := g.bucket.Object(g.key(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		logger.Error().Err(err).Str("location", g.Location(name)).Msg("GCS read failed")
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read %q: %w", name, err)
	}
	return data, nil
}

// Write uploads the object. The new generation becomes visible only after Close succeeds.
func (g *GCSStorage) Write(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	w := g.bucket.Object(g.key(name)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		logger.Error().Err(err).Str("location", g.Location(name)).Msg("GCS write failed")
		return err
	}
	if err := w.Close(); err != nil {
		logger.Error().Err(err).Str("location", g.Location(name)).Msg("GCS close writer failed")
		return err
	}
	logger.Debug().Str("location", g.Location(name)).Int("bytes", len(data)).Msg("GCS write ok")
	return nil
}

// Close releases the client
func (g *GCSStorage) Close() error {
	return g.client.Close()
}
