package repository

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/foodwaste/portal/internal/domain"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// sqliteFold is a Unicode case-folding SQL function. SQLite's built-in LOWER
// only folds ASCII.
const sqliteFold = "fold"

var (
	registerFoldOnce sync.Once
	registerFoldErr  error
)

// registerFold installs sqliteFold on the driver. Registration is process
// wide and must precede the first connection.
func registerFold() error {
	registerFoldOnce.Do(func() {
		registerFoldErr = sqlite.RegisterDeterministicScalarFunction(sqliteFold, 1, foldValue)
	})
	return registerFoldErr
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return cases.Fold().String(v), nil
	case []byte:
		return cases.Fold().String(string(v)), nil
	default:
		return v, nil
	}
}

// openSQLite opens a SQLite database connection.
// Uses modernc.org/sqlite for pure Go implementation (no CGO required).
func openSQLite(cfg domain.RepositoryConfig) (*sql.DB, error) {
	if err := registerFold(); err != nil {
		return nil, fmt.Errorf("failed to register %s function: %w", sqliteFold, err)
	}

	path := cfg.SQLitePath
	if path == "" {
		path = "./food_wastage.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL lets report reads proceed while a write is in flight.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}
