package inspection

import (
	"context"
	"slices"
	"strings"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// ProgressItem is the state of one catalog tag for the day.
type ProgressItem struct {
	Tag       domain.Tag `json:"tag"`
	Value     string     `json:"value"`
	Complete  bool       `json:"complete"`
	Anomalous bool       `json:"anomalous"`
}

// Report is the completion list for an area on one day. When Started is
// false nobody has written that day and Items is empty.
type Report struct {
	Area      domain.Area    `json:"area"`
	Date      string         `json:"date"`
	Started   bool           `json:"started"`
	Items     []ProgressItem `json:"items"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
}

// Ratio is Completed/Total, 0 for an empty catalog.
func (r Report) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Total)
}

// Missing lists the tags not yet filled.
func (r Report) Missing() []domain.Tag {
	var out []domain.Tag
	for _, it := range r.Items {
		if !it.Complete {
			out = append(out, it.Tag)
		}
	}
	return out
}

// Progress rebuilds today's completion list for an area. It walks the
// catalog, not the grid, so points never written still show up as missing.
func (s *Service) Progress(ctx context.Context, code string) (Report, error) {
	area, err := s.ParseArea(code)
	if err != nil {
		return Report{}, err
	}
	date := s.Today()
	report := Report{Area: area, Date: date, Items: []ProgressItem{}, Total: s.catalog.Len()}

	ws, err := s.resolver.EnsureWorksheet(ctx, area)
	if err != nil {
		return Report{}, err
	}
	data, err := ws.AllValues(ctx)
	if err != nil {
		return Report{}, unavailable("read grid", err)
	}
	if len(data) == 0 {
		return report, nil
	}
	col := slices.Index(data[0], date)
	if col < 0 {
		return report, nil
	}
	report.Started = true

	// catalog rows sit at fixed positions under the header; anything past
	// them is stale and never read, even when it repeats a tag
	for i, tag := range s.catalog.Tags() {
		v := ""
		if r := i + 1; r < len(data) && col < len(data[r]) {
			v = data[r][col]
		}
		item := ProgressItem{Tag: tag, Value: v, Complete: v != ""}
		if rec, ok := domain.ParseRecord(v); ok {
			item.Anomalous = rec.Anomalous
		} else {
			item.Anomalous = strings.Contains(v, domain.AnomalyMarker)
		}
		if item.Complete {
			report.Completed++
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}
