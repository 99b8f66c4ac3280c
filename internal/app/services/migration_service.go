package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/migrations"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

// SourceOpener opens the legacy stores of one backend
type SourceOpener func(backend string) (*repositories.LegacySources, error)

// MigrationService defines the admin-triggered legacy import
type MigrationService interface {
	// Migrate copies ct from the named legacy backend, or the configured
	// default source when source is empty.
	Migrate(ctx context.Context, ct models.ContentType, source string, mode migrations.Mode) (*migrations.Report, error)
	DefaultSource() string
}

// migrationServiceImpl implements the MigrationService interface
type migrationServiceImpl struct {
	repos         *repositories.Repositories
	open          SourceOpener
	defaultSource string
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewMigrationService creates a migration service writing into repos
func NewMigrationService(repos *repositories.Repositories, open SourceOpener, defaultSource string, m *metrics.Metrics, lgr zerolog.Logger) MigrationService {
	return &migrationServiceImpl{
		repos:         repos,
		open:          open,
		defaultSource: defaultSource,
		metrics:       m,
		logger:        lgr,
	}
}

func (s *migrationServiceImpl) DefaultSource() string { return s.defaultSource }

// Migrate runs the migration of one content type
func (s *migrationServiceImpl) Migrate(ctx context.Context, ct models.ContentType, source string, mode migrations.Mode) (*migrations.Report, error) {
	if source == "" {
		source = s.defaultSource
	}
	src, err := s.open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy source %q: %v", apperrors.ErrBadRequest, source, err)
	}

	runner, ok := migrations.NewRunners(src, s.repos, s.logger, s.metrics)[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownContentType, ct)
	}
	return runner.Run(ctx, migrations.Options{Mode: mode})
}
