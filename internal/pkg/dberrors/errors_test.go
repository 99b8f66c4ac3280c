package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifiesPgErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "cms_events_pkey"})
	missing := &pgconn.PgError{Code: "42P01"}

	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsUndefinedTableError(dup))

	assert.True(t, IsUndefinedTableError(missing))
	assert.False(t, IsDuplicateKeyError(missing))

	assert.False(t, IsDuplicateKeyError(errors.New("plain")))
}

func TestPrimaryKeyViolation(t *testing.T) {
	pkey := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "site_settings_pkey"})
	other := &pgconn.PgError{Code: "23505", ConstraintName: "site_settings_key_key"}

	assert.True(t, IsPrimaryKeyViolation(pkey))
	assert.False(t, IsPrimaryKeyViolation(other))
	assert.True(t, IsDuplicateKeyError(other))
	assert.False(t, IsPrimaryKeyViolation(&pgconn.PgError{Code: "42P01"}))

	assert.Equal(t, "site_settings_key_key", ConstraintName(other))
	assert.Empty(t, ConstraintName(errors.New("plain")))
}
