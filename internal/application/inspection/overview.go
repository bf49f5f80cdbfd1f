package inspection

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// AreaSummary is the same-day completion count of one area.
type AreaSummary struct {
	Area      domain.Area `json:"area"`
	Started   bool        `json:"started"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
}

const overviewParallelism = 4

// Overview reports today's completion for every configured area, reading
// the grids concurrently. Any failing area fails the whole overview.
func (s *Service) Overview(ctx context.Context) ([]AreaSummary, error) {
	out := make([]AreaSummary, len(s.areas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewParallelism)
	for i, area := range s.areas {
		g.Go(func() error {
			rep, err := s.Progress(gctx, string(area))
			if err != nil {
				return err
			}
			out[i] = AreaSummary{Area: area, Started: rep.Started, Completed: rep.Completed, Total: rep.Total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
