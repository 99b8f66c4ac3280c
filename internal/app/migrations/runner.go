package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

// Mode selects what happens to records already present in the target
type Mode string

const (
	// ModeSkipExisting keeps target records and inserts only missing ids
	ModeSkipExisting Mode = "skip"
	// ModeReplace clears the target before copying
	ModeReplace Mode = "replace"
)

// ParseMode validates a mode name. Empty means ModeSkipExisting.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSkipExisting:
		return ModeSkipExisting, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", fmt.Errorf("%w: unknown migration mode %q", apperrors.ErrBadRequest, s)
}

// Options configures one run
type Options struct {
	Mode Mode
}

// RecordError names a legacy record that could not be copied
type RecordError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Report is the verification summary of a run
type Report struct {
	RunID       string         `json:"runId"`
	ContentType string         `json:"contentType"`
	Source      string         `json:"source"`
	Target      string         `json:"target"`
	Mode        Mode           `json:"mode"`
	Read        int            `json:"read"`
	Inserted    int            `json:"inserted"`
	Skipped     int            `json:"skipped"`
	Cleared     int            `json:"cleared"`
	Total       int            `json:"total"`
	ByCategory  map[string]int `json:"byCategory"`
	Errors      []RecordError  `json:"errors"`
	// SourceUnavailable is set when the legacy backend could not be read
	SourceUnavailable bool      `json:"sourceUnavailable,omitempty"`
	StartedAt         time.Time `json:"startedAt"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// Migrated reports whether the run inserted at least one record
func (r *Report) Migrated() bool {
	return r.Inserted > 0
}

// Migration copies one content type from a legacy backend into its current store
type Migration interface {
	ContentType() models.ContentType
	Run(ctx context.Context, opts Options) (*Report, error)
}

// Runner moves every record of a content type from Source into Target,
// translating each one with Map. Records are processed one at a time.
type Runner[L models.Record, R models.Record] struct {
	Type    models.ContentType
	Source  repositories.Source[L]
	Target  repositories.Store[R]
	Map     func(id string, legacy L) (R, error)
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

func (r *Runner[L, R]) ContentType() models.ContentType { return r.Type }

func (r *Runner[L, R]) count(outcome string, n int) {
	if r.Metrics != nil && n > 0 {
		r.Metrics.MigrationRecords.WithLabelValues(string(r.Type), outcome).Add(float64(n))
	}
}

// Run executes the migration. Failures of single records are collected in the
// report; an error is returned only when the target cannot be used at all.
func (r *Runner[L, R]) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModeSkipExisting
	}
	report := &Report{
		RunID:       uuid.NewString(),
		ContentType: string(r.Type),
		Source:      r.Source.Backend(),
		Target:      r.Target.Backend(),
		Mode:        opts.Mode,
		ByCategory:  map[string]int{},
		Errors:      []RecordError{},
		StartedAt:   time.Now().UTC(),
	}
	lgr := r.Logger.With().
		Str("run_id", report.RunID).
		Str("content_type", report.ContentType).
		Str("source", report.Source).
		Str("target", report.Target).
		Str("mode", string(opts.Mode)).
		Logger()
	lgr.Info().Msg("Migration started")

	legacy, undecodable, err := r.Source.GetStored(ctx)
	if err != nil {
		// the legacy backend is optional; nothing to copy is not a failure
		lgr.Warn().Err(err).Msg("Legacy backend unavailable, nothing migrated")
		report.SourceUnavailable = true
	}
	report.Read = len(legacy) + len(undecodable)
	for _, bad := range undecodable {
		lgr.Warn().Err(bad.Err).Str("id", bad.ID).Msg("Legacy record could not be decoded")
		report.Errors = append(report.Errors, RecordError{ID: bad.ID, Error: bad.Err.Error()})
	}

	if len(legacy) == 0 {
		r.count("failed", len(report.Errors))
		if err := r.verify(ctx, report); err != nil {
			return report, err
		}
		lgr.Info().Int("total", report.Total).Msg("No legacy records, migration finished")
		return report, nil
	}

	// defaults served for a missing target are not stored records
	existing, damaged, err := r.Target.GetStored(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Target backend unavailable, migration aborted")
		return report, fmt.Errorf("read target %s: %w", r.Type, err)
	}
	for _, bad := range damaged {
		var zero R
		existing[bad.ID] = zero
	}

	if opts.Mode == ModeReplace && len(existing) > 0 {
		lgr.Warn().Int("records", len(existing)).Msg("Replace mode: clearing target before migration")
		cleared, err := r.Target.Clear(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to clear target, migration aborted")
			return report, fmt.Errorf("clear target %s: %w", r.Type, err)
		}
		report.Cleared = cleared
		existing = map[string]R{}
	}

	ids := make([]string, 0, len(legacy))
	for id := range legacy {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := existing[id]; ok {
			report.Skipped++
			continue
		}

		record, err := r.Map(id, legacy[id])
		if err != nil {
			lgr.Warn().Err(err).Str("id", id).Msg("Legacy record could not be mapped")
			report.Errors = append(report.Errors, RecordError{ID: id, Error: err.Error()})
			continue
		}

		if _, err := r.Target.Insert(ctx, record); err != nil {
			if errors.Is(err, repositories.ErrAlreadyExists) {
				report.Skipped++
				continue
			}
			lgr.Warn().Err(err).Str("id", id).Msg("Failed to insert migrated record")
			report.Errors = append(report.Errors, RecordError{ID: id, Error: err.Error()})
			continue
		}
		report.Inserted++
	}

	r.count("inserted", report.Inserted)
	r.count("skipped", report.Skipped)
	r.count("failed", len(report.Errors))

	if err := r.verify(ctx, report); err != nil {
		return report, err
	}

	lgr.Info().
		Int("read", report.Read).
		Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Int("total", report.Total).
		Msg("Migration finished")
	return report, nil
}

// verify re-reads the target and fills the totals of report
func (r *Runner[L, R]) verify(ctx context.Context, report *Report) error {
	defer func() { report.FinishedAt = time.Now().UTC() }()

	final, damaged, err := r.Target.GetStored(ctx)
	if err != nil {
		return fmt.Errorf("verify target %s: %w", r.Type, err)
	}
	report.Total = len(final) + len(damaged)
	for _, rec := range final {
		report.ByCategory[models.CategoryOf(rec)]++
	}
	if len(damaged) > 0 {
		report.ByCategory["undecodable"] += len(damaged)
	}
	return nil
}
