package inspection

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// Snapshot points at an exported copy of a grid.
type Snapshot struct {
	Area domain.Area `json:"area"`
	Key  string      `json:"key"`
	URL  string      `json:"url"`
	Rows int         `json:"rows"`
}

// Export writes the area's whole grid as CSV to the snapshot store.
func (s *Service) Export(ctx context.Context, code string) (Snapshot, error) {
	if s.snapshots == nil {
		return Snapshot{}, ErrExportDisabled
	}
	area, err := s.ParseArea(code)
	if err != nil {
		return Snapshot{}, err
	}
	ws, err := s.resolver.EnsureWorksheet(ctx, area)
	if err != nil {
		return Snapshot{}, err
	}
	data, err := ws.AllValues(ctx)
	if err != nil {
		return Snapshot{}, unavailable("read grid", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(data); err != nil {
		return Snapshot{}, fmt.Errorf("encode csv: %w", err)
	}

	key := path.Join(s.store, ws.Title(), s.now().Format("20060102-150405")+".csv")
	url, err := s.snapshots.Upload(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		return Snapshot{}, fmt.Errorf("upload snapshot: %w", err)
	}
	s.logger.Info("grid exported", zap.String("area", string(area)), zap.String("key", key))
	return Snapshot{Area: area, Key: key, URL: url, Rows: len(data)}, nil
}
