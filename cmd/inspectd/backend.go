package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appinspect "github.com/bryanwahyu/tvp-inspect/internal/application/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/config"
	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	mysqlp "github.com/bryanwahyu/tvp-inspect/internal/infra/db/mysql"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/postgres"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/sqlgrid"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/db/sqlite"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/grid/memory"
	minioStore "github.com/bryanwahyu/tvp-inspect/internal/infra/storage"
	"github.com/bryanwahyu/tvp-inspect/internal/middleware"
)

// grid is the opened backend plus what the commands need around it.
type grid struct {
	backend domain.Backend
	// sql is nil for the memory driver
	sql *sqlgrid.Store
}

func (g *grid) Close() error {
	if g.sql == nil {
		return nil
	}
	return g.sql.DB().Close()
}

// CreateStore bootstraps the named store. The memory driver always has it.
func (g *grid) CreateStore(ctx context.Context, name string) error {
	if g.sql == nil {
		return nil
	}
	return g.sql.CreateStore(ctx, name)
}

func (g *grid) Checker() middleware.HealthChecker {
	if g.sql == nil {
		return middleware.CheckerFunc(func(context.Context) error { return nil })
	}
	return g.sql
}

func openGrid(ctx context.Context, c *config.Config) (*grid, error) {
	var (
		store *sqlgrid.Store
		err   error
	)
	switch c.Store.Driver {
	case config.DriverMemory:
		return &grid{backend: memory.New(c.Store.Name)}, nil
	case config.DriverMySQL:
		store, err = mysqlp.OpenGrid(ctx, c.MySQLDSN())
	case config.DriverPostgres:
		store, err = postgres.OpenGrid(ctx, c.PostgresDSN())
	case config.DriverSQLite:
		store, err = sqlite.OpenGrid(ctx, c.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connect error: %w", c.Store.Driver, err)
	}
	return &grid{backend: store, sql: store}, nil
}

// newService wires the engine for c. snapshots may be nil.
func newService(c *config.Config, g *grid, snapshots domain.SnapshotStore, log *zap.Logger) (*appinspect.Service, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	areas := make([]domain.Area, 0, len(c.Areas))
	for _, a := range c.Areas {
		areas = append(areas, domain.Area(a))
	}
	opts := []appinspect.Option{
		appinspect.WithLocation(loc),
		appinspect.WithAreas(areas...),
		appinspect.WithLogger(log),
	}
	if snapshots != nil {
		opts = append(opts, appinspect.WithSnapshots(snapshots))
	}
	return appinspect.NewService(domain.PlantCatalog(), g.backend, c.Store.Name, opts...), nil
}

// openSnapshots connects to MinIO when configured.
func openSnapshots(ctx context.Context, c *config.Config) (*minioStore.Store, error) {
	if !c.MinioEnabled() {
		return nil, nil
	}
	store, err := minioStore.New(ctx,
		c.Minio.Endpoint,
		c.Minio.Region,
		c.Minio.BucketName,
		c.Minio.AccessKey,
		c.Minio.SecretKey,
		c.Minio.UseSSL,
	)
	if err != nil {
		return nil, fmt.Errorf("minio init error: %w", err)
	}
	return store, nil
}
