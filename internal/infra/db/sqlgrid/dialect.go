package sqlgrid

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Dialect carries the statements that differ between SQL engines.
// Statements are written with ? placeholders and rebound per dialect.
type Dialect struct {
	Name string

	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool

	upsertValue    string
	upsertStyle    string
	insertStore    string
	insertSheet    string
	// lockSheet serializes header appends on one worksheet; empty when the
	// engine already serializes writers
	lockSheet string
	// retryable reports a header append that lost a race: a key collision,
	// a deadlock, a busy database or a serialization failure
	retryable func(err error) bool
}

var MySQL = Dialect{
	Name: "mysql",
	upsertValue: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,?,'')
ON DUPLICATE KEY UPDATE value=VALUES(value)`,
	upsertStyle: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,'',?)
ON DUPLICATE KEY UPDATE style=VALUES(style)`,
	insertStore: `INSERT IGNORE INTO grid_stores (name) VALUES (?)`,
	insertSheet: `
INSERT IGNORE INTO grid_worksheets (store_name, title, row_capacity, col_capacity)
VALUES (?,?,?,?)`,
	lockSheet: `
SELECT title FROM grid_worksheets WHERE store_name=? AND title=? FOR UPDATE`,
	retryable: mysqlRetryable,
}

var Postgres = Dialect{
	Name:     "postgres",
	numbered: true,
	upsertValue: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,?,'')
ON CONFLICT (store_name, title, row_idx, col_idx) DO UPDATE SET value=EXCLUDED.value`,
	upsertStyle: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,'',?)
ON CONFLICT (store_name, title, row_idx, col_idx) DO UPDATE SET style=EXCLUDED.style`,
	insertStore: `INSERT INTO grid_stores (name) VALUES (?) ON CONFLICT (name) DO NOTHING`,
	insertSheet: `
INSERT INTO grid_worksheets (store_name, title, row_capacity, col_capacity)
VALUES (?,?,?,?)
ON CONFLICT (store_name, title) DO NOTHING`,
	lockSheet: `
SELECT title FROM grid_worksheets WHERE store_name=? AND title=? FOR UPDATE`,
	retryable: postgresRetryable,
}

var SQLite = Dialect{
	Name: "sqlite",
	upsertValue: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,?,'')
ON CONFLICT (store_name, title, row_idx, col_idx) DO UPDATE SET value=excluded.value`,
	upsertStyle: `
INSERT INTO grid_cells (store_name, title, row_idx, col_idx, value, style)
VALUES (?,?,?,?,'',?)
ON CONFLICT (store_name, title, row_idx, col_idx) DO UPDATE SET style=excluded.style`,
	insertStore: `INSERT INTO grid_stores (name) VALUES (?) ON CONFLICT (name) DO NOTHING`,
	insertSheet: `
INSERT INTO grid_worksheets (store_name, title, row_capacity, col_capacity)
VALUES (?,?,?,?)
ON CONFLICT (store_name, title) DO NOTHING`,
	retryable: containsAny("UNIQUE constraint failed", "database is locked", "database table is locked", "SQLITE_BUSY"),
}

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// duplicate entry, lock wait timeout, deadlock
var mysqlRetryCodes = map[uint16]bool{1062: true, 1205: true, 1213: true}

func mysqlRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return mysqlRetryCodes[me.Number]
	}
	return containsAny("Error 1062", "Error 1205", "Error 1213")(err)
}

// unique_violation, serialization_failure, deadlock_detected, lock_not_available
var postgresRetryCodes = map[pq.ErrorCode]bool{"23505": true, "40001": true, "40P01": true, "55P03": true}

func postgresRetryable(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return postgresRetryCodes[pe.Code]
	}
	return containsAny("duplicate key", "deadlock detected", "could not serialize")(err)
}

func containsAny(needles ...string) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}
		msg := err.Error()
		for _, n := range needles {
			if strings.Contains(msg, n) {
				return true
			}
		}
		return false
	}
}
