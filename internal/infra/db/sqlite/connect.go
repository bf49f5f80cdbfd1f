package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/sqlgrid"
)

const defaultPath = "inspect.db"

// fileParams makes concurrent writers from other processes wait for the
// write lock at BEGIN instead of failing mid transaction.
const fileParams = "_pragma=busy_timeout(5000)&_txlock=immediate"

// Connect opens a single-writer SQLite database file, creating parent dirs.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = defaultPath
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
		dsn = path + "?" + fileParams
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// OpenGrid connects and returns a migrated grid backend.
func OpenGrid(ctx context.Context, path string) (*sqlgrid.Store, error) {
	db, err := Connect(ctx, path)
	if err != nil {
		return nil, err
	}
	store := sqlgrid.New(db, sqlgrid.SQLite)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
