// Package sqlgrid stores inspection grids in a relational database: one row
// per non-empty cell keyed by (store, worksheet, row, col).
package sqlgrid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

var (
	_ domain.Backend        = (*Store)(nil)
	_ domain.HeaderAppender = (*Worksheet)(nil)
)

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the grid tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// CreateStore registers a top-level store. Existing stores are left alone.
func (s *Store) CreateStore(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(s.dialect.insertStore), name)
	return err
}

// Check pings the database; it satisfies the health checker contract.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for tests and shutdown.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Open(ctx context.Context, name string) (domain.Spreadsheet, error) {
	var got string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT name FROM grid_stores WHERE name=?`), name).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &Spreadsheet{s: s, name: got}, nil
}

type Spreadsheet struct {
	s    *Store
	name string
}

func (sp *Spreadsheet) Name() string { return sp.name }

func (sp *Spreadsheet) Worksheet(ctx context.Context, title string, rows, cols int) (domain.Worksheet, error) {
	d := sp.s.dialect
	if _, err := sp.s.db.ExecContext(ctx, d.Rebind(d.insertSheet), sp.name, title, rows, cols); err != nil {
		return nil, fmt.Errorf("ensure worksheet %s: %w", title, err)
	}
	return &Worksheet{s: sp.s, store: sp.name, title: title}, nil
}

type Worksheet struct {
	s     *Store
	store string
	title string
}

func (w *Worksheet) Title() string { return w.title }

func (w *Worksheet) q(query string) string { return w.s.dialect.Rebind(query) }

func (w *Worksheet) ColValues(ctx context.Context, col int) ([]string, error) {
	return w.line(ctx, `
SELECT row_idx, value FROM grid_cells
WHERE store_name=? AND title=? AND col_idx=? AND value <> ''
ORDER BY row_idx`, col)
}

func (w *Worksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	return w.line(ctx, `
SELECT col_idx, value FROM grid_cells
WHERE store_name=? AND title=? AND row_idx=? AND value <> ''
ORDER BY col_idx`, row)
}

// line reads one row or column as (position, value) pairs into a dense slice.
func (w *Worksheet) line(ctx context.Context, query string, at int) ([]string, error) {
	rows, err := w.s.db.QueryContext(ctx, w.q(query), w.store, w.title, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var pos int
		var v string
		if err := rows.Scan(&pos, &v); err != nil {
			return nil, err
		}
		for len(out) < pos-1 {
			out = append(out, "")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (w *Worksheet) AllValues(ctx context.Context) ([][]string, error) {
	const query = `
SELECT row_idx, col_idx, value FROM grid_cells
WHERE store_name=? AND title=? AND value <> ''`
	rows, err := w.s.db.QueryContext(ctx, w.q(query), w.store, w.title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type entry struct {
		row, col int
		value    string
	}
	var entries []entry
	maxRow, maxCol := 0, 0
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.row, &e.col, &e.value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		maxRow = max(maxRow, e.row)
		maxCol = max(maxCol, e.col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([][]string, maxRow)
	for i := range out {
		out[i] = make([]string, maxCol)
	}
	for _, e := range entries {
		out[e.row-1][e.col-1] = e.value
	}
	return out, nil
}

func (w *Worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	_, err := w.s.db.ExecContext(ctx, w.q(w.s.dialect.upsertValue), w.store, w.title, row, col, value)
	return err
}

func (w *Worksheet) UpdateColumn(ctx context.Context, col, startRow int, values []string) (retErr error) {
	if startRow < 1 || col < 1 {
		return fmt.Errorf("range start (%d,%d) out of range", startRow, col)
	}
	tx, err := w.s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, w.q(w.s.dialect.upsertValue))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, v := range values {
		if _, err := stmt.ExecContext(ctx, w.store, w.title, startRow+i, col, v); err != nil {
			return fmt.Errorf("write row %d: %w", startRow+i, err)
		}
	}
	return tx.Commit()
}

func (w *Worksheet) Emphasize(ctx context.Context, row, col int, e domain.Emphasis) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	_, err := w.s.db.ExecContext(ctx, w.q(w.s.dialect.upsertStyle), w.store, w.title, row, col, e.String())
	return err
}

// Style reads back the emphasis stored for a cell.
func (w *Worksheet) Style(ctx context.Context, row, col int) (domain.Emphasis, error) {
	var raw string
	err := w.s.db.QueryRowContext(ctx, w.q(`
SELECT style FROM grid_cells
WHERE store_name=? AND title=? AND row_idx=? AND col_idx=?`), w.store, w.title, row, col).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Emphasis{}, nil
	}
	if err != nil {
		return domain.Emphasis{}, err
	}
	return domain.ParseEmphasis(raw)
}

// headerAttempts bounds how often a header append that lost a race is retried.
const headerAttempts = 5

// AppendHeaderIfAbsent appends value to row 1 inside a transaction. The
// worksheet row is locked first where the engine supports it, and the new
// header is inserted without upsert, so two writers racing for the same
// column collide on the primary key at worst; the loser retries and finds
// the header.
func (w *Worksheet) AppendHeaderIfAbsent(ctx context.Context, value string) (int, error) {
	col, err := retry(ctx, headerAttempts, w.s.dialect.retryable, func() (int, error) {
		return w.appendHeader(ctx, value)
	})
	if err != nil {
		return 0, fmt.Errorf("append header %q: %w", value, err)
	}
	return col, nil
}

// retry runs fn until it succeeds, fails with an error retryable does not
// accept, or attempts run out. Waits grow linearly between attempts.
func retry(ctx context.Context, attempts int, retryable func(error) bool, fn func() (int, error)) (int, error) {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var v int
		v, err = fn()
		if err == nil {
			return v, nil
		}
		if !retryable(err) || attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return 0, errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return 0, err
}

func (w *Worksheet) appendHeader(ctx context.Context, value string) (col int, retErr error) {
	tx, err := w.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if lock := w.s.dialect.lockSheet; lock != "" {
		var title string
		if err := tx.QueryRowContext(ctx, w.q(lock), w.store, w.title).Scan(&title); err != nil {
			return 0, fmt.Errorf("lock worksheet: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, w.q(`
SELECT col_idx FROM grid_cells
WHERE store_name=? AND title=? AND row_idx=1 AND value=?
ORDER BY col_idx LIMIT 1`), w.store, w.title, value).Scan(&col)
	switch {
	case err == nil:
		return col, tx.Commit()
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	var last int
	if err := tx.QueryRowContext(ctx, w.q(`
SELECT COALESCE(MAX(col_idx), 0) FROM grid_cells
WHERE store_name=? AND title=? AND row_idx=1 AND value <> ''`), w.store, w.title).Scan(&last); err != nil {
		return 0, err
	}
	col = last + 1

	// a style-only placeholder would block the insert below
	if _, err := tx.ExecContext(ctx, w.q(`
DELETE FROM grid_cells
WHERE store_name=? AND title=? AND row_idx=1 AND col_idx=? AND value=''`), w.store, w.title, col); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, w.q(`
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,1,?,?,'')`), w.store, w.title, col, value); err != nil {
		return 0, err
	}
	return col, tx.Commit()
}
