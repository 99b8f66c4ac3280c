package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/councilcms/internal/app/models"
	appRepos "github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/config"
	"github.com/yigit/councilcms/internal/db"
	"github.com/yigit/councilcms/internal/pkg/filestorage"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

// CurrentBackends returns the set of backends the current stores live on
func CurrentBackends(cfg *config.Config) map[string]bool {
	need := map[string]bool{}
	for _, ct := range appModels.AllContentTypes {
		need[cfg.BackendFor(ct.String())] = true
	}
	return need
}

// BackendMap returns content type -> backend name, as reported by /health
func BackendMap(cfg *config.Config) map[string]string {
	out := make(map[string]string, len(appModels.AllContentTypes))
	for _, ct := range appModels.AllContentTypes {
		out[ct.String()] = cfg.BackendFor(ct.String())
	}
	return out
}

// OpenBackends connects to every backend in need using settings. The
// relational backend is passed in already connected.
func OpenBackends(ctx context.Context, settings config.BackendSettings, need map[string]bool, pool *pgxpool.Pool, m *metrics.Metrics, lgr zerolog.Logger) (appRepos.Backends, error) {
	b := appRepos.Backends{Metrics: m, DynamoTablePrefix: settings.DynamoDB.TablePrefix}

	if need[config.BackendPostgres] {
		if pool == nil {
			return b, fmt.Errorf("postgres backend selected but no database connection is available")
		}
		b.Postgres = pool
	}

	if need[config.BackendFile] {
		ls, err := filestorage.NewLocalStorage(settings.File.Dir)
		if err != nil {
			return b, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		b.Files = ls
		lgr.Info().Str("dir", settings.File.Dir).Msg("File backend ready")
	}

	if need[config.BackendBlob] {
		blob, err := filestorage.NewBlobStorage(ctx, settings.Blob)
		if err != nil {
			return b, fmt.Errorf("failed to initialize blob backend: %w", err)
		}
		b.Blob = blob
		lgr.Info().Str("provider", settings.Blob.Provider).Str("bucket", settings.Blob.Bucket).Msg("Blob backend ready")
	}

	if need[config.BackendDynamoDB] {
		client, err := db.NewDynamoDBClient(ctx, settings.DynamoDB)
		if err != nil {
			return b, fmt.Errorf("failed to initialize dynamodb backend: %w", err)
		}
		b.Dynamo = client
	}

	return b, nil
}

// LegacyOpener opens legacy sources on demand from the legacy settings
func LegacyOpener(ctx context.Context, cfg *config.Config, m *metrics.Metrics, lgr zerolog.Logger) func(backend string) (*appRepos.LegacySources, error) {
	return func(backend string) (*appRepos.LegacySources, error) {
		b, err := OpenBackends(ctx, cfg.Legacy.BackendSettings, map[string]bool{backend: true}, nil, m, lgr)
		if err != nil {
			return nil, err
		}
		return appRepos.NewLegacySources(backend, b)
	}
}
