package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/sqlgrid"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenGrid connects and returns a migrated grid backend.
func OpenGrid(ctx context.Context, dsn string) (*sqlgrid.Store, error) {
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	store := sqlgrid.New(db, sqlgrid.MySQL)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
