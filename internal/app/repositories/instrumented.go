package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

// instrumentedStore counts and times every call of the wrapped store
type instrumentedStore[R models.Record] struct {
	next        Store[R]
	contentType string
	m           *metrics.Metrics
}

// Instrument wraps store with prometheus metrics. A nil m returns store unchanged.
func Instrument[R models.Record](ct models.ContentType, store Store[R], m *metrics.Metrics) Store[R] {
	if m == nil {
		return store
	}
	return &instrumentedStore[R]{next: store, contentType: string(ct), m: m}
}

func (s *instrumentedStore[R]) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		result = "error"
	default:
		result = "rejected"
	}
	backend := s.next.Backend()
	s.m.StoreOps.WithLabelValues(s.contentType, backend, op, result).Inc()
	s.m.StoreDuration.WithLabelValues(s.contentType, backend, op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore[R]) Backend() string { return s.next.Backend() }

func (s *instrumentedStore[R]) GetAll(ctx context.Context) (map[string]R, error) {
	start := time.Now()
	records, err := s.next.GetAll(ctx)
	s.observe("get_all", start, err)
	return records, err
}

func (s *instrumentedStore[R]) GetStored(ctx context.Context) (map[string]R, []RecordError, error) {
	start := time.Now()
	records, bad, err := s.next.GetStored(ctx)
	s.observe("get_stored", start, err)
	return records, bad, err
}

func (s *instrumentedStore[R]) GetByID(ctx context.Context, id string) (R, error) {
	start := time.Now()
	r, err := s.next.GetByID(ctx, id)
	s.observe("get", start, err)
	return r, err
}

func (s *instrumentedStore[R]) Create(ctx context.Context, record R) (R, error) {
	start := time.Now()
	r, err := s.next.Create(ctx, record)
	s.observe("create", start, err)
	return r, err
}

func (s *instrumentedStore[R]) Update(ctx context.Context, id string, patch Patch[R]) (R, error) {
	start := time.Now()
	r, err := s.next.Update(ctx, id, patch)
	s.observe("update", start, err)
	return r, err
}

func (s *instrumentedStore[R]) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedStore[R]) Insert(ctx context.Context, record R) (R, error) {
	start := time.Now()
	r, err := s.next.Insert(ctx, record)
	s.observe("insert", start, err)
	return r, err
}

func (s *instrumentedStore[R]) Clear(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.next.Clear(ctx)
	s.observe("clear", start, err)
	return n, err
}
