// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/foodwaste/portal/internal/domain"
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string

	// maxWorkers bounds the reports RunAllReports runs at once.
	maxWorkers int
}

var _ domain.Repository = (*SQLRepository)(nil)

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (*SQLRepository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported driver: %s", domain.ErrInvalidInput, cfg.Driver)
	}

	if err != nil {
		return nil, storeErr("open", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	workers := 4
	if cfg.MaxOpenConns > 0 && cfg.MaxOpenConns < workers {
		workers = cfg.MaxOpenConns
	}

	repo := &SQLRepository{
		db:         db,
		driver:     cfg.Driver,
		maxWorkers: workers,
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, storeErr("migrate", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas(r.driver) {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// exec runs a single auto-committed write. Writes cannot be cancelled once
// issued, so the caller's cancellation is detached; deadlines go with it.
func (r *SQLRepository) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.db.ExecContext(context.WithoutCancel(ctx), r.rebind(query), args...); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// queryAll runs query and scans every row into a T. The rows are closed on
// every exit path, returning the connection to the pool.
func queryAll[T any](ctx context.Context, r *SQLRepository, query string, args []any, scan func(*sql.Rows, *T) error) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}

// storeErr tags a driver error as ErrStoreUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// foldFunc names the SQL function that case-folds text for matching.
func (r *SQLRepository) foldFunc() string {
	if r.driver == "sqlite" {
		return sqliteFold
	}
	return "LOWER"
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
// Placeholders inside single quoted literals are left alone.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	inLiteral := false
	for i := 0; i < len(query); i++ {
		switch {
		case query[i] == '\'':
			inLiteral = !inLiteral
			result = append(result, query[i])
		case query[i] == '?' && !inLiteral:
			result = append(result, '$')
			result = strconv.AppendInt(result, int64(n), 10)
			n++
		default:
			result = append(result, query[i])
		}
	}
	return string(result)
}
