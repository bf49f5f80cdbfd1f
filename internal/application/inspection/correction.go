package inspection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// Clear blanks today's cell for tag. Clearing an empty cell succeeds; a day
// without a column yields ErrNoColumnForToday. The cell's marking is reset
// on a best-effort basis.
func (s *Service) Clear(ctx context.Context, code string, tag domain.Tag) error {
	area, err := s.ParseArea(code)
	if err != nil {
		return err
	}
	row, err := s.resolver.ResolveRow(tag)
	if err != nil {
		return err
	}
	ws, err := s.resolver.EnsureWorksheet(ctx, area)
	if err != nil {
		return err
	}
	date := s.Today()
	col, ok, err := s.resolver.LookupColumn(ctx, ws, date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", domain.ErrNoColumnForToday, area, date)
	}
	if err := ws.UpdateCell(ctx, row, col, ""); err != nil {
		return unavailable("clear reading", err)
	}
	if err := ws.Emphasize(ctx, row, col, domain.Emphasis{}); err != nil {
		s.logger.Warn("clearing emphasis failed",
			zap.String("area", string(area)),
			zap.String("tag", string(tag)),
			zap.Error(err))
	}
	s.logger.Info("reading cleared",
		zap.String("area", string(area)),
		zap.String("tag", string(tag)),
		zap.String("date", date))
	return nil
}
