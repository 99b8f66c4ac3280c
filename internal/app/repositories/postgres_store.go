package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/db"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/dberrors"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// postgresStore keeps one row per record in a table per content type
type postgresStore[R models.Record] struct {
	contentType models.ContentType
	db          *pgxpool.Pool
	table       Table[R]
	opts        Options[R]
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a relational store for table
func NewPostgresStore[R models.Record](ct models.ContentType, pool *pgxpool.Pool, table Table[R], opts Options[R]) Store[R] {
	return &postgresStore[R]{
		contentType: ct,
		db:          pool,
		table:       table,
		opts:        opts,
		sb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *postgresStore[R]) Backend() string { return "postgres" }

func (s *postgresStore[R]) selectColumns() []string {
	return append([]string{"id", "created_at", "updated_at"}, s.table.Columns()...)
}

// values encodes the payload columns in Columns order
func (s *postgresStore[R]) values(r R) ([]any, error) {
	values := make([]any, len(s.table.columns))
	for i, c := range s.table.columns {
		v := c.value(r)
		if c.json {
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode column %s: %w", c.name, err)
			}
			v = encoded
		}
		values[i] = v
	}
	return values, nil
}

// scan reads one row produced by selectColumns
func (s *postgresStore[R]) scan(row pgx.Row) (R, error) {
	var zero R
	r := s.table.New()

	var (
		id                   string
		createdAt, updatedAt time.Time
	)
	targets := []any{&id, &createdAt, &updatedAt}
	holders := make([]*[]byte, len(s.table.columns))
	for i, c := range s.table.columns {
		if c.json {
			holders[i] = new([]byte)
			targets = append(targets, holders[i])
			continue
		}
		targets = append(targets, c.dest(r))
	}

	if err := row.Scan(targets...); err != nil {
		return zero, err
	}

	for i, c := range s.table.columns {
		if holders[i] == nil || len(*holders[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(*holders[i], c.dest(r)); err != nil {
			return zero, RecordError{ID: id, Err: fmt.Errorf("decode column %s: %w", c.name, err)}
		}
	}

	r.SetID(id)
	r.SetTimestamps(createdAt.UTC(), updatedAt.UTC())
	return r, nil
}

func (s *postgresStore[R]) GetAll(ctx context.Context) (map[string]R, error) {
	records, bad, missing, err := s.selectAll(ctx)
	if err != nil {
		return nil, err
	}
	if missing {
		logger.Debug().Str("table", s.table.Name).Msg("Table missing, serving default dataset")
		return keyed(s.opts.defaults()), nil
	}
	if len(bad) > 0 {
		return nil, unavailable(s.contentType, s.Backend(), "scan", bad[0])
	}
	return records, nil
}

func (s *postgresStore[R]) GetStored(ctx context.Context) (map[string]R, []RecordError, error) {
	records, bad, _, err := s.selectAll(ctx)
	return records, bad, err
}

// selectAll reads every row. Rows whose JSON columns do not decode are
// collected in bad; missing reports an undefined table.
func (s *postgresStore[R]) selectAll(ctx context.Context) (map[string]R, []RecordError, bool, error) {
	sql, args, err := s.sb.Select(s.selectColumns()...).
		From(s.table.Name).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to build select %s query: %w", s.table.Name, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUndefinedTableError(err) {
			return map[string]R{}, nil, true, nil
		}
		return nil, nil, false, unavailable(s.contentType, s.Backend(), "select", err)
	}
	defer rows.Close()

	records := map[string]R{}
	var bad []RecordError
	for rows.Next() {
		r, err := s.scan(rows)
		var recErr RecordError
		if errors.As(err, &recErr) {
			bad = append(bad, recErr)
			continue
		}
		if err != nil {
			return nil, nil, false, unavailable(s.contentType, s.Backend(), "scan", err)
		}
		records[r.GetID()] = r
	}
	if err := rows.Err(); err != nil {
		if dberrors.IsUndefinedTableError(err) {
			return map[string]R{}, nil, true, nil
		}
		return nil, nil, false, unavailable(s.contentType, s.Backend(), "select", err)
	}
	return records, bad, false, nil
}

func (s *postgresStore[R]) GetByID(ctx context.Context, id string) (R, error) {
	var zero R
	sql, args, err := s.sb.Select(s.selectColumns()...).
		From(s.table.Name).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build get %s query: %w", s.table.Name, err)
	}

	r, err := s.scan(s.db.QueryRow(ctx, sql, args...))
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, pgx.ErrNoRows):
		return zero, notFound(s.contentType, id)
	case dberrors.IsUndefinedTableError(err):
		if r, ok := keyed(s.opts.defaults())[id]; ok {
			return r, nil
		}
		return zero, notFound(s.contentType, id)
	default:
		return zero, unavailable(s.contentType, s.Backend(), "get", err)
	}
}

func (s *postgresStore[R]) exists(ctx context.Context, id string) (bool, error) {
	sql, args, err := s.sb.Select("1").
		From(s.table.Name).
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}
	var found bool
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, unavailable(s.contentType, s.Backend(), "exists", err)
	}
	return found, nil
}

func (s *postgresStore[R]) insert(ctx context.Context, r R) error {
	values, err := s.values(r)
	if err != nil {
		return unavailable(s.contentType, s.Backend(), "encode", err)
	}
	sql, args, err := s.sb.Insert(s.table.Name).
		Columns(s.selectColumns()...).
		Values(append([]any{r.GetID(), r.GetCreatedAt(), r.GetUpdatedAt()}, values...)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert %s query: %w", s.table.Name, err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsPrimaryKeyViolation(err) {
			return alreadyExists(s.contentType, r.GetID())
		}
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("%s %q violates %s", s.contentType.Label(), r.GetID(), dberrors.ConstraintName(err)))
		}
		logger.Error().Err(err).Str("table", s.table.Name).Str("id", r.GetID()).Msg("Error executing insert query")
		return unavailable(s.contentType, s.Backend(), "insert", err)
	}
	return nil
}

func (s *postgresStore[R]) Create(ctx context.Context, record R) (R, error) {
	var zero R
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		id, err := uniqueID(ctx, record.SlugSource(), s.exists)
		if err != nil {
			return zero, err
		}
		record.SetID(id)
		record.SetTimestamps(zeroTime, zeroTime)
		s.opts.Clock.stampNew(record)

		err = s.insert(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			return zero, err
		}
	}
	return zero, alreadyExists(s.contentType, record.GetID())
}

// Update locks the row, applies patch and writes every payload column back
func (s *postgresStore[R]) Update(ctx context.Context, id string, patch Patch[R]) (R, error) {
	var updated R
	err := db.WithTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := s.sb.Select(s.selectColumns()...).
			From(s.table.Name).
			Where(squirrel.Eq{"id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock %s query: %w", s.table.Name, err)
		}

		current, err := s.scan(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFound(s.contentType, id)
			}
			return unavailable(s.contentType, s.Backend(), "lock", err)
		}

		createdAt, updatedAt := current.GetCreatedAt(), current.GetUpdatedAt()
		if patch != nil {
			if err := patch(current); err != nil {
				return err
			}
		}
		current.SetID(id)
		s.opts.Clock.stampUpdate(current, createdAt, updatedAt)

		values, err := s.values(current)
		if err != nil {
			return unavailable(s.contentType, s.Backend(), "encode", err)
		}
		set := map[string]any{"updated_at": current.GetUpdatedAt()}
		for i, name := range s.table.Columns() {
			set[name] = values[i]
		}

		sql, args, err = s.sb.Update(s.table.Name).
			SetMap(set).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update %s query: %w", s.table.Name, err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return unavailable(s.contentType, s.Backend(), "update", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return updated, nil
}

func (s *postgresStore[R]) Delete(ctx context.Context, id string) error {
	sql, args, err := s.sb.Delete(s.table.Name).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", s.table.Name, err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return unavailable(s.contentType, s.Backend(), "delete", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return notFound(s.contentType, id)
	}
	return nil
}

func (s *postgresStore[R]) Insert(ctx context.Context, record R) (R, error) {
	var zero R
	if record.GetID() == "" {
		return zero, fmt.Errorf("insert %s: record has no id", s.contentType)
	}
	s.opts.Clock.stampNew(record)
	if err := s.insert(ctx, record); err != nil {
		return zero, err
	}
	return record, nil
}

func (s *postgresStore[R]) Clear(ctx context.Context) (int, error) {
	sql, args, err := s.sb.Delete(s.table.Name).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build clear %s query: %w", s.table.Name, err)
	}
	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, unavailable(s.contentType, s.Backend(), "clear", err)
	}
	return int(cmdTag.RowsAffected()), nil
}
