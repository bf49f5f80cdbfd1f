package inspection

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// Submission is one reading handed over by an input surface.
type Submission struct {
	Area      string
	Category  string
	Point     string
	Reading   domain.Reading
	Note      string
	Submitter string
}

// Receipt describes what was written.
type Receipt struct {
	ID       string          `json:"id"`
	Area     domain.Area     `json:"area"`
	Tag      domain.Tag      `json:"tag"`
	Date     string          `json:"date"`
	Row      int             `json:"row"`
	Col      int             `json:"col"`
	Value    string          `json:"value"`
	Record   domain.Record   `json:"record"`
	Judgment domain.Judgment `json:"judgment"`
}

// Submit judges a reading and upserts it into today's cell for its tag.
// A later submission for the same tag and day overwrites the cell. Structural
// errors abort before anything is written; emphasis failures are only logged.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	area, err := s.ParseArea(sub.Area)
	if err != nil {
		return Receipt{}, err
	}
	tag := domain.MakeTag(sub.Category, sub.Point)
	point, err := s.catalog.Point(tag)
	if err != nil {
		return Receipt{}, err
	}
	row, err := s.resolver.ResolveRow(tag)
	if err != nil {
		return Receipt{}, err
	}

	judgment := domain.Judge(point, sub.Reading)
	now := s.now()
	rec := domain.NewRecord(judgment, now, sub.Submitter, sub.Note)
	date := now.Format(domain.DateLayout)

	ws, err := s.resolver.EnsureWorksheet(ctx, area)
	if err != nil {
		return Receipt{}, err
	}
	col, err := s.resolver.ResolveColumn(ctx, area, ws, date)
	if err != nil {
		return Receipt{}, err
	}
	value := rec.String()
	if err := ws.UpdateCell(ctx, row, col, value); err != nil {
		return Receipt{}, unavailable("write reading", err)
	}

	// a normal overwrite drops the marking left by an earlier anomalous one
	emphasis := domain.Emphasis{}
	if judgment.Anomalous {
		emphasis = domain.AnomalyEmphasis
	}
	if err := ws.Emphasize(ctx, row, col, emphasis); err != nil {
		s.logger.Warn("emphasis failed",
			zap.String("area", string(area)),
			zap.String("tag", string(tag)),
			zap.Error(err))
	}

	r := Receipt{
		ID:       uuid.NewString(),
		Area:     area,
		Tag:      tag,
		Date:     date,
		Row:      row,
		Col:      col,
		Value:    value,
		Record:   rec,
		Judgment: judgment,
	}
	s.logger.Info("reading recorded",
		zap.String("id", r.ID),
		zap.String("area", string(area)),
		zap.String("tag", string(tag)),
		zap.String("date", date),
		zap.Bool("anomalous", judgment.Anomalous),
		zap.String("submitter", rec.Submitter))
	return r, nil
}
