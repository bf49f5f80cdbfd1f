package sqlgrid

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db, SQLite)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.CreateStore(ctx, "tvp plant"))
	require.NoError(t, s.CreateStore(ctx, "tvp plant"))
	return s
}

func openSheet(t *testing.T, s *Store) *Worksheet {
	t.Helper()
	ctx := context.Background()
	sp, err := s.Open(ctx, "tvp plant")
	require.NoError(t, err)
	ws, err := sp.Worksheet(ctx, "TN5_Data", domain.DefaultRowCapacity, domain.DefaultColCapacity)
	require.NoError(t, err)
	return ws.(*Worksheet)
}

func TestStore_OpenMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Open(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrStoreNotFound)
	require.NoError(t, s.Check(context.Background()))
}

func TestWorksheet_ReadWrite(t *testing.T) {
	ctx := context.Background()
	ws := openSheet(t, newTestStore(t))

	require.NoError(t, ws.UpdateColumn(ctx, 1, 1, []string{"TAG", "A - x", "A - y"}))
	require.NoError(t, ws.UpdateCell(ctx, 1, 2, "2026/10/15"))
	require.NoError(t, ws.UpdateCell(ctx, 3, 2, "OK [08:00]"))
	require.NoError(t, ws.UpdateCell(ctx, 3, 2, "NG [08:10] 🚨"))

	col, err := ws.ColValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "A - x", "A - y"}, col)

	col, err = ws.ColValues(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026/10/15", "", "NG [08:10] 🚨"}, col)

	all, err := ws.AllValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"TAG", "2026/10/15"},
		{"A - x", ""},
		{"A - y", "NG [08:10] 🚨"},
	}, all)

	require.NoError(t, ws.UpdateCell(ctx, 3, 2, ""))
	row, err := ws.RowValues(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A - y"}, row)
}

func TestWorksheet_Emphasis(t *testing.T) {
	ctx := context.Background()
	ws := openSheet(t, newTestStore(t))

	require.NoError(t, ws.UpdateCell(ctx, 2, 2, "v"))
	require.NoError(t, ws.Emphasize(ctx, 2, 2, domain.AnomalyEmphasis))
	e, err := ws.Style(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.AnomalyEmphasis, e)

	// styling must not touch the value
	row, err := ws.RowValues(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "v"}, row)

	require.NoError(t, ws.Emphasize(ctx, 2, 2, domain.Emphasis{}))
	e, err = ws.Style(ctx, 2, 2)
	require.NoError(t, err)
	assert.True(t, e.IsZero())
}

func TestWorksheet_AppendHeaderIfAbsent(t *testing.T) {
	ctx := context.Background()
	ws := openSheet(t, newTestStore(t))
	require.NoError(t, ws.UpdateCell(ctx, 1, 1, domain.HeaderTag))

	col, err := ws.AppendHeaderIfAbsent(ctx, "2026/10/14")
	require.NoError(t, err)
	assert.Equal(t, 2, col)

	col, err = ws.AppendHeaderIfAbsent(ctx, "2026/10/15")
	require.NoError(t, err)
	assert.Equal(t, 3, col)

	col, err = ws.AppendHeaderIfAbsent(ctx, "2026/10/14")
	require.NoError(t, err)
	assert.Equal(t, 2, col)

	var wg sync.WaitGroup
	cols := make([]int, 8)
	for i := range cols {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := ws.AppendHeaderIfAbsent(ctx, "2026/10/16")
			assert.NoError(t, err)
			cols[i] = c
		}(i)
	}
	wg.Wait()
	for _, c := range cols {
		assert.Equal(t, 4, c)
	}

	header, err := ws.RowValues(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "2026/10/14", "2026/10/15", "2026/10/16"}, header)
}

func TestDialect_Rebind(t *testing.T) {
	assert.Equal(t, "a=$1 AND b=$2", Postgres.Rebind("a=? AND b=?"))
	assert.Equal(t, "a=? AND b=?", MySQL.Rebind("a=? AND b=?"))
}

func TestDialect_Retryable(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"mysql duplicate", MySQL, &mysql.MySQLError{Number: 1062}, true},
		{"mysql deadlock", MySQL, fmt.Errorf("insert header: %w", &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}), true},
		{"mysql lock wait", MySQL, &mysql.MySQLError{Number: 1205}, true},
		{"mysql syntax", MySQL, &mysql.MySQLError{Number: 1064}, false},
		{"mysql text", MySQL, assertErr("Error 1062 (23000): Duplicate entry"), true},
		{"postgres unique", Postgres, &pq.Error{Code: "23505"}, true},
		{"postgres serialization", Postgres, &pq.Error{Code: "40001"}, true},
		{"postgres deadlock", Postgres, fmt.Errorf("lock worksheet: %w", &pq.Error{Code: "40P01"}), true},
		{"postgres undefined table", Postgres, &pq.Error{Code: "42P01"}, false},
		{"sqlite unique", SQLite, assertErr("constraint failed: UNIQUE constraint failed: grid_cells.col_idx (1555)"), true},
		{"sqlite busy", SQLite, assertErr("database is locked (5) (SQLITE_BUSY)"), true},
		{"sqlite not null", SQLite, assertErr("constraint failed: NOT NULL constraint failed: grid_cells.value (1299)"), false},
		{"nil", SQLite, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.retryable(tt.err))
		})
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}

	// loses the race once, then finds the header
	calls := 0
	col, err := retry(ctx, headerAttempts, MySQL.retryable, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, deadlock
		}
		return 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, col)
	assert.Equal(t, 2, calls)

	calls = 0
	_, err = retry(ctx, headerAttempts, MySQL.retryable, func() (int, error) {
		calls++
		return 0, &mysql.MySQLError{Number: 1064}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	_, err = retry(ctx, 3, MySQL.retryable, func() (int, error) {
		calls++
		return 0, deadlock
	})
	require.ErrorIs(t, err, deadlock)
	assert.Equal(t, 3, calls)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = retry(cancelled, headerAttempts, MySQL.retryable, func() (int, error) { return 0, deadlock })
	require.ErrorIs(t, err, context.Canceled)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
