// Package memory is a process-local grid backend used by tests and the
// "memory" driver.
package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

var _ domain.Backend = (*Backend)(nil)

// Backend holds named spreadsheets in memory. It is safe for concurrent use.
type Backend struct {
	mu     sync.RWMutex
	stores map[string]*Spreadsheet
}

// New creates a backend with the given stores already present.
func New(storeNames ...string) *Backend {
	b := &Backend{stores: make(map[string]*Spreadsheet)}
	for _, n := range storeNames {
		b.Create(n)
	}
	return b
}

// Create adds an empty store, keeping an existing one untouched.
func (b *Backend) Create(name string) *Spreadsheet {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.stores[name]; ok {
		return s
	}
	s := &Spreadsheet{name: name, sheets: make(map[string]*Worksheet)}
	b.stores[name] = s
	return s
}

func (b *Backend) Open(_ context.Context, name string) (domain.Spreadsheet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, name)
	}
	return s, nil
}

type Spreadsheet struct {
	name   string
	mu     sync.Mutex
	sheets map[string]*Worksheet
}

func (s *Spreadsheet) Name() string { return s.name }

func (s *Spreadsheet) Worksheet(_ context.Context, title string, rows, cols int) (domain.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[title]
	if !ok {
		ws = &Worksheet{
			title:  title,
			rows:   rows,
			cols:   cols,
			cells:  make(map[cell]string),
			styles: make(map[cell]domain.Emphasis),
		}
		s.sheets[title] = ws
	}
	return ws, nil
}

// Worksheets lists the titles created so far.
func (s *Spreadsheet) Worksheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sheets))
	for t := range s.sheets {
		out = append(out, t)
	}
	return out
}

type cell struct{ row, col int }

type Worksheet struct {
	title      string
	mu         sync.RWMutex
	rows, cols int
	cells      map[cell]string
	styles     map[cell]domain.Emphasis
}

func (w *Worksheet) Title() string { return w.title }

// Capacity returns the (rows, cols) the worksheet currently spans.
func (w *Worksheet) Capacity() (int, int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rows, w.cols
}

func (w *Worksheet) ColValues(_ context.Context, col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("column %d out of range", col)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	last := 0
	for c, v := range w.cells {
		if c.col == col && v != "" && c.row > last {
			last = c.row
		}
	}
	out := make([]string, last)
	for r := 1; r <= last; r++ {
		out[r-1] = w.cells[cell{r, col}]
	}
	return out, nil
}

func (w *Worksheet) RowValues(_ context.Context, row int) ([]string, error) {
	if row < 1 {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	last := 0
	for c, v := range w.cells {
		if c.row == row && v != "" && c.col > last {
			last = c.col
		}
	}
	out := make([]string, last)
	for col := 1; col <= last; col++ {
		out[col-1] = w.cells[cell{row, col}]
	}
	return out, nil
}

func (w *Worksheet) AllValues(_ context.Context) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	maxRow, maxCol := 0, 0
	for c, v := range w.cells {
		if v == "" {
			continue
		}
		maxRow = max(maxRow, c.row)
		maxCol = max(maxCol, c.col)
	}
	out := make([][]string, maxRow)
	for r := range out {
		row := make([]string, maxCol)
		for c := range row {
			row[c] = w.cells[cell{r + 1, c + 1}]
		}
		out[r] = row
	}
	return out, nil
}

func (w *Worksheet) UpdateCell(_ context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.set(row, col, value)
	return nil
}

func (w *Worksheet) UpdateColumn(_ context.Context, col, startRow int, values []string) error {
	if startRow < 1 || col < 1 {
		return fmt.Errorf("range start (%d,%d) out of range", startRow, col)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, v := range values {
		w.set(startRow+i, col, v)
	}
	return nil
}

func (w *Worksheet) Emphasize(_ context.Context, row, col int, e domain.Emphasis) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if e.IsZero() {
		delete(w.styles, cell{row, col})
		return nil
	}
	w.styles[cell{row, col}] = e
	return nil
}

// Style returns the emphasis applied to a cell.
func (w *Worksheet) Style(row, col int) domain.Emphasis {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.styles[cell{row, col}]
}

// set grows the sheet past its capacity instead of failing; caller holds mu.
func (w *Worksheet) set(row, col int, value string) {
	if value == "" {
		delete(w.cells, cell{row, col})
	} else {
		w.cells[cell{row, col}] = value
	}
	w.rows = max(w.rows, row)
	w.cols = max(w.cols, col)
}
