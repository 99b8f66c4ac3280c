package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// Schema holds the SQL files that create the content tables
//
//go:embed sql/*.sql
var Schema embed.FS

// Migrator applies schema migrations to the relational backend
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// applyFile executes one SQL file inside a transaction and records its version.
// The version is the filename prefix before the first underscore ("001_x.sql" => "001").
func (m *Migrator) applyFile(ctx context.Context, fsys fs.FS, name string) error {
	filename := path.Base(name)
	version := strings.Split(filename, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("file", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error occurred during SQL migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Str("file", filename).Msg("Migration file successfully applied")
	return nil
}

// Apply runs every *.sql file of fsys in lexical order
func (m *Migrator) Apply(ctx context.Context, fsys fs.FS) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		files, err = fs.Glob(fsys, "sql/*.sql")
		if err != nil {
			return fmt.Errorf("failed to list migrations: %w", err)
		}
	}
	sort.Strings(files)

	for _, file := range files {
		if err := m.applyFile(ctx, fsys, file); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDefault applies dir when it exists and the embedded schema otherwise
func (m *Migrator) ApplyDefault(ctx context.Context, dir string) error {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logger.Info().Str("dir", dir).Msg("Applying migrations from directory")
			return m.Apply(ctx, os.DirFS(dir))
		}
	}
	return m.Apply(ctx, Schema)
}
