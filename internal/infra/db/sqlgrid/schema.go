package sqlgrid

// schema is portable across MySQL, Postgres and SQLite. VARCHAR(191) keeps
// the composite keys inside MySQL's utf8mb4 index limit.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS grid_stores (
	name VARCHAR(191) NOT NULL PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS grid_worksheets (
	store_name   VARCHAR(191) NOT NULL,
	title        VARCHAR(191) NOT NULL,
	row_capacity INT NOT NULL,
	col_capacity INT NOT NULL,
	PRIMARY KEY (store_name, title)
)`,
	`CREATE TABLE IF NOT EXISTS grid_cells (
	store_name VARCHAR(191) NOT NULL,
	title      VARCHAR(191) NOT NULL,
	row_idx    INT NOT NULL,
	col_idx    INT NOT NULL,
	value      TEXT NOT NULL,
	style      VARCHAR(255) NOT NULL DEFAULT '',
	PRIMARY KEY (store_name, title, row_idx, col_idx)
)`,
}
