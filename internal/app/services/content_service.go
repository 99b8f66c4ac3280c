package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
)

// ContentService defines the operations the HTTP layer runs against one content type
type ContentService[R models.Record] interface {
	ContentType() models.ContentType
	Backend() string
	// New returns an empty record to bind a request body into
	New() R

	GetForDisplay(ctx context.Context) (any, error)
	GetDisplayByID(ctx context.Context, id string) (any, error)

	List(ctx context.Context) ([]R, error)
	GetByID(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, record R) (R, error)
	// Update applies patch to the stored record. When expectedUpdatedAt is set
	// and no longer matches, the update is rejected with apperrors.ErrConflict.
	Update(ctx context.Context, id string, expectedUpdatedAt *time.Time, patch repositories.Patch[R]) (R, error)
	Delete(ctx context.Context, id string) error
}

// contentServiceImpl implements the ContentService interface
type contentServiceImpl[R models.Record] struct {
	contentType models.ContentType
	store       repositories.Store[R]
	display     dto.Display[R]
	newRecord   func() R
	logger      zerolog.Logger
}

// NewContentService creates a content service over store
func NewContentService[R models.Record](ct models.ContentType, store repositories.Store[R], display dto.Display[R], newRecord func() R, lgr zerolog.Logger) ContentService[R] {
	return &contentServiceImpl[R]{
		contentType: ct,
		store:       store,
		display:     display,
		newRecord:   newRecord,
		logger:      lgr.With().Str("content_type", ct.String()).Logger(),
	}
}

func (s *contentServiceImpl[R]) ContentType() models.ContentType { return s.contentType }

func (s *contentServiceImpl[R]) Backend() string { return s.store.Backend() }

func (s *contentServiceImpl[R]) New() R { return s.newRecord() }

// GetForDisplay returns the public projection of every record
func (s *contentServiceImpl[R]) GetForDisplay(ctx context.Context) (any, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", s.contentType, err)
	}
	return s.display.List(records), nil
}

// GetDisplayByID returns the public projection of one record. Records the
// projection hides are reported as not found.
func (s *contentServiceImpl[R]) GetDisplayByID(ctx context.Context, id string) (any, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, ok := s.display.One(record)
	if !ok {
		return nil, s.notFound()
	}
	return view, nil
}

// List returns full records ordered newest first
func (s *contentServiceImpl[R]) List(ctx context.Context) ([]R, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", s.contentType, err)
	}
	out := make([]R, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].GetCreatedAt(), out[j].GetCreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return out[i].GetID() < out[j].GetID()
	})
	return out, nil
}

// GetByID retrieves one full record
func (s *contentServiceImpl[R]) GetByID(ctx context.Context, id string) (R, error) {
	var zero R
	if id == "" {
		return zero, s.notFound()
	}
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return zero, s.notFound()
		}
		return zero, fmt.Errorf("error retrieving %s %q: %w", s.contentType, id, err)
	}
	return record, nil
}

// Create stores a new record under a generated id
func (s *contentServiceImpl[R]) Create(ctx context.Context, record R) (R, error) {
	created, err := s.store.Create(ctx, record)
	if err != nil {
		return created, fmt.Errorf("error creating %s: %w", s.contentType, err)
	}
	s.logger.Info().Str("id", created.GetID()).Msg("Record created")
	return created, nil
}

// Update applies patch inside the store's read-modify-write section
func (s *contentServiceImpl[R]) Update(ctx context.Context, id string, expectedUpdatedAt *time.Time, patch repositories.Patch[R]) (R, error) {
	guarded := func(current R) error {
		if expectedUpdatedAt != nil && !current.GetUpdatedAt().Equal(*expectedUpdatedAt) {
			return apperrors.NewConflictError(fmt.Sprintf("%s %q was modified by someone else", s.contentType.Label(), id))
		}
		if patch != nil {
			return patch(current)
		}
		return nil
	}

	updated, err := s.store.Update(ctx, id, guarded)
	if err != nil {
		var zero R
		if repositories.IsNotFound(err) {
			return zero, s.notFound()
		}
		return zero, fmt.Errorf("error updating %s %q: %w", s.contentType, id, err)
	}
	s.logger.Info().Str("id", id).Msg("Record updated")
	return updated, nil
}

// Delete removes a record
func (s *contentServiceImpl[R]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return s.notFound()
		}
		return fmt.Errorf("error deleting %s %q: %w", s.contentType, id, err)
	}
	s.logger.Info().Str("id", id).Msg("Record deleted")
	return nil
}

// notFound produces the error rendered as {"error": "<Label> not found"}
func (s *contentServiceImpl[R]) notFound() error {
	return apperrors.NewResourceNotFoundError(s.contentType.Label() + " not found")
}
