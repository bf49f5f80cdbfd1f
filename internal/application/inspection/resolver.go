package inspection

import (
	"context"
	"slices"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// Resolver maps (tag, date) onto grid coordinates and keeps the grid's
// structure in line with the catalog.
type Resolver struct {
	catalog *domain.Catalog
	backend domain.Backend
	store   string
	locks   AreaLocks
}

func NewResolver(catalog *domain.Catalog, backend domain.Backend, store string) *Resolver {
	return &Resolver{catalog: catalog, backend: backend, store: store}
}

// EnsureWorksheet opens the area's grid, creating it on first use, and
// repairs its header column.
func (r *Resolver) EnsureWorksheet(ctx context.Context, area domain.Area) (domain.Worksheet, error) {
	sp, err := r.backend.Open(ctx, r.store)
	if err != nil {
		return nil, unavailable("open store", err)
	}
	ws, err := sp.Worksheet(ctx, area.WorksheetTitle(), domain.DefaultRowCapacity, domain.DefaultColCapacity)
	if err != nil {
		return nil, unavailable("open worksheet", err)
	}
	if err := r.EnsureHeaderColumn(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// EnsureHeaderColumn rewrites column 1 in full unless it already starts with
// exactly "TAG" followed by every catalog tag in order.
func (r *Resolver) EnsureHeaderColumn(ctx context.Context, ws domain.Worksheet) error {
	expected := r.catalog.HeaderColumn()
	existing, err := ws.ColValues(ctx, 1)
	if err != nil {
		return unavailable("read header column", err)
	}
	if len(existing) >= len(expected) && slices.Equal(existing[:len(expected)], expected) {
		return nil
	}
	if err := ws.UpdateColumn(ctx, 1, 1, expected); err != nil {
		return unavailable("write header column", err)
	}
	return nil
}

// ResolveRow returns the 1-based row of tag: its catalog position plus the header row.
func (r *Resolver) ResolveRow(tag domain.Tag) (int, error) {
	i, err := r.catalog.TagIndex(tag)
	if err != nil {
		return 0, err
	}
	return i + 2, nil
}

// ResolveColumn returns the column headed by date, appending it when absent.
// Appends are serialized per area so the first write of a day creates
// exactly one column.
func (r *Resolver) ResolveColumn(ctx context.Context, area domain.Area, ws domain.Worksheet, date string) (int, error) {
	unlock := r.locks.Lock(area)
	defer unlock()

	if ha, ok := ws.(domain.HeaderAppender); ok {
		col, err := ha.AppendHeaderIfAbsent(ctx, date)
		if err != nil {
			return 0, unavailable("append date column", err)
		}
		return col, nil
	}

	header, err := ws.RowValues(ctx, 1)
	if err != nil {
		return 0, unavailable("read header row", err)
	}
	if i := slices.Index(header, date); i >= 0 {
		return i + 1, nil
	}
	col := len(header) + 1
	if err := ws.UpdateCell(ctx, 1, col, date); err != nil {
		return 0, unavailable("append date column", err)
	}
	return col, nil
}

// LookupColumn finds the column headed by date without creating it.
func (r *Resolver) LookupColumn(ctx context.Context, ws domain.Worksheet, date string) (int, bool, error) {
	header, err := ws.RowValues(ctx, 1)
	if err != nil {
		return 0, false, unavailable("read header row", err)
	}
	i := slices.Index(header, date)
	if i < 0 {
		return 0, false, nil
	}
	return i + 1, true, nil
}
