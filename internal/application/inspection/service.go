// Package inspection implements the record synchronization use cases:
// submitting readings, reporting progress, correcting entries and exporting
// grid snapshots.
package inspection

import (
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/tvp-inspect/internal/application"
	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// Service is safe for concurrent use. Each call is one synchronous sequence
// of backend round trips; nothing is cached between calls.
type Service struct {
	catalog   *domain.Catalog
	resolver  *Resolver
	store     string
	snapshots domain.SnapshotStore
	clock     application.Clock
	location  *time.Location
	areas     []domain.Area
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithClock(c application.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLocation sets the time zone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithAreas(areas ...domain.Area) Option {
	return func(s *Service) {
		if len(areas) > 0 {
			s.areas = append([]domain.Area(nil), areas...)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSnapshots enables Export.
func WithSnapshots(store domain.SnapshotStore) Option {
	return func(s *Service) { s.snapshots = store }
}

// NewService wires the engine around an immutable catalog and a backend
// holding the store named storeName.
func NewService(catalog *domain.Catalog, backend domain.Backend, storeName string, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		resolver: NewResolver(catalog, backend, storeName),
		store:    storeName,
		clock:    application.SystemClock{},
		location: time.Local,
		areas:    domain.DefaultAreas,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Catalog() *domain.Catalog { return s.catalog }

func (s *Service) Resolver() *Resolver { return s.resolver }

func (s *Service) Areas() []domain.Area { return append([]domain.Area(nil), s.areas...) }

// ParseArea validates an area code against the configured set.
func (s *Service) ParseArea(code string) (domain.Area, error) {
	return domain.ParseArea(code, s.areas)
}

func (s *Service) now() time.Time { return s.clock.Now().In(s.location) }

// Today is the date header used for the current day.
func (s *Service) Today() string { return s.now().Format(domain.DateLayout) }
