package repositories

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
)

// Record store errors
var (
	ErrNotFound      = apperrors.ErrResourceNotFound
	ErrAlreadyExists = apperrors.ErrResourceAlreadyExists
)

// Patch mutates a loaded record in place. It runs inside the store's
// read-modify-write section, so returning an error (e.g. apperrors.ErrConflict)
// aborts the update without persisting anything.
type Patch[R models.Record] func(R) error

// RecordError is a stored record that could not be decoded.
type RecordError struct {
	ID  string
	Err error
}

func (e RecordError) Error() string { return fmt.Sprintf("record %q: %v", e.ID, e.Err) }

func (e RecordError) Unwrap() error { return e.Err }

// Source is the read side of a store, all a migration needs from a legacy backend.
type Source[R models.Record] interface {
	Backend() string
	// GetAll serves the default dataset while the backing resource is missing.
	GetAll(ctx context.Context) (map[string]R, error)
	// GetStored returns only persisted records and never the defaults.
	// A record that fails to decode is reported in the second result and
	// does not fail the read.
	GetStored(ctx context.Context) (map[string]R, []RecordError, error)
}

// Store is CRUD access to one content type on exactly one backend.
type Store[R models.Record] interface {
	Source[R]
	// GetByID returns ErrNotFound when id does not resolve.
	GetByID(ctx context.Context, id string) (R, error)
	// Create derives the id from the record's title and stamps both timestamps.
	Create(ctx context.Context, record R) (R, error)
	// Update applies patch to the stored record and refreshes updatedAt.
	Update(ctx context.Context, id string, patch Patch[R]) (R, error)
	Delete(ctx context.Context, id string) error
	// Insert stores record under its existing id, keeping its timestamps when set.
	Insert(ctx context.Context, record R) (R, error)
	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

var zeroTime time.Time

// isNil reports a nil record, e.g. a JSON null entry in a document.
func isNil(r any) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Clock returns the current time. Stores take one so tests can pin time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

// now returns the clock time at the resolution every backend can round trip.
func (c Clock) now() time.Time {
	if c == nil {
		c = systemClock
	}
	return c().UTC().Truncate(time.Microsecond)
}

// stampUpdate restores the stored createdAt and moves updatedAt forward
// after a patch has been applied to r.
func (c Clock) stampUpdate(r models.Record, createdAt, updatedAt time.Time) {
	models.Normalize(r)
	r.SetTimestamps(createdAt, c.touch(updatedAt))
}

// touch returns the next updatedAt for a record last stamped at prev.
// Two mutations inside the same microsecond still get increasing stamps.
func (c Clock) touch(prev time.Time) time.Time {
	now := c.now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

// stampNew sets createdAt/updatedAt on a record that is about to be inserted.
// Timestamps already present (migrated records) are kept.
func (c Clock) stampNew(r models.Record) {
	models.Normalize(r)
	now := c.now()
	created, updated := r.GetCreatedAt(), r.GetUpdatedAt()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() || updated.Before(created) {
		updated = created
	}
	r.SetTimestamps(created.UTC().Truncate(time.Microsecond), updated.UTC().Truncate(time.Microsecond))
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into an identifier base, e.g. "Hack Day" -> "hack-day".
func Slugify(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		normalized = title
	}
	normalized = nonSlugChars.ReplaceAllString(strings.ToLower(normalized), "-")
	return strings.Trim(normalized, "-")
}

// maxSlugAttempts bounds the counter suffix search.
const maxSlugAttempts = 1000

// uniqueID picks base, base-2, base-3, ... until exists reports a free id.
func uniqueID(ctx context.Context, title string, exists func(ctx context.Context, id string) (bool, error)) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = uuid.NewString()[:8]
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("%w: no free identifier for %q", ErrAlreadyExists, base)
}

// IsNotFound reports whether err is the normal not-found outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func notFound(ct models.ContentType, id string) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %q not found", ct.Label(), id))
}

func alreadyExists(ct models.ContentType, id string) error {
	return apperrors.NewCustomError(ErrAlreadyExists, fmt.Sprintf("%s %q already exists", ct.Label(), id))
}

func unavailable(ct models.ContentType, backend, op string, cause error) error {
	return apperrors.NewStorageError(fmt.Sprintf("%s store (%s) %s failed", ct, backend, op), cause)
}
