package inspection

import (
	"context"
	"fmt"
	"strings"
)

// HeaderTag is the literal in cell (1, 1) of every grid.
const HeaderTag = "TAG"

// Capacity a worksheet is created with. Backends may grow past it.
const (
	DefaultRowCapacity = 1000
	DefaultColCapacity = 50
)

// Backend is the remote tabular store holding named spreadsheets.
type Backend interface {
	// Open fails with ErrStoreNotFound when the store does not exist.
	Open(ctx context.Context, name string) (Spreadsheet, error)
}

// Spreadsheet is one top-level store.
type Spreadsheet interface {
	Name() string
	// Worksheet gets or creates a worksheet with at least the given capacity.
	Worksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
}

// Worksheet addresses cells by 1-based (row, col). Reads return strings with
// trailing empty cells trimmed.
type Worksheet interface {
	Title() string
	ColValues(ctx context.Context, col int) ([]string, error)
	RowValues(ctx context.Context, row int) ([]string, error)
	AllValues(ctx context.Context) ([][]string, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
	// UpdateColumn writes values into col starting at startRow in one call.
	UpdateColumn(ctx context.Context, col, startRow int, values []string) error
	// Emphasize applies a visual marking. Callers treat it as best effort.
	Emphasize(ctx context.Context, row, col int, e Emphasis) error
}

// HeaderAppender is implemented by worksheets that can append a row-1 header
// atomically on the backend side.
type HeaderAppender interface {
	// AppendHeaderIfAbsent returns the column holding value in row 1,
	// appending it after the last header when absent.
	AppendHeaderIfAbsent(ctx context.Context, value string) (int, error)
}

// SnapshotStore receives exported grid snapshots.
type SnapshotStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Emphasis is a cell styling instruction. The zero value clears styling.
type Emphasis struct {
	Background string `json:"background,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Bold       bool   `json:"bold,omitempty"`
}

// AnomalyEmphasis marks anomalous readings.
var AnomalyEmphasis = Emphasis{Background: "#ffcccc", Foreground: "#c00000", Bold: true}

func (e Emphasis) IsZero() bool { return e == Emphasis{} }

// String encodes the emphasis as "bg=..;fg=..;bold" for storage.
func (e Emphasis) String() string {
	var parts []string
	if e.Background != "" {
		parts = append(parts, "bg="+e.Background)
	}
	if e.Foreground != "" {
		parts = append(parts, "fg="+e.Foreground)
	}
	if e.Bold {
		parts = append(parts, "bold")
	}
	return strings.Join(parts, ";")
}

// ParseEmphasis decodes Emphasis.String.
func ParseEmphasis(s string) (Emphasis, error) {
	var e Emphasis
	if s == "" {
		return e, nil
	}
	for _, part := range strings.Split(s, ";") {
		k, v, _ := strings.Cut(part, "=")
		switch k {
		case "bg":
			e.Background = v
		case "fg":
			e.Foreground = v
		case "bold":
			e.Bold = true
		default:
			return Emphasis{}, fmt.Errorf("unknown emphasis attribute %q", k)
		}
	}
	return e, nil
}
