// Package server wires the RecipeBox server together: the record store, the
// asset store, the services, the REST API and the gRPC health endpoint, and
// runs them until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/assets"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/rest"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/recipebox/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	janitor *assets.Janitor
	http    *rest.Server
	health  *gs.HealthServer
}

// NewApp connects the stores described by c, applies migrations and builds
// the servers. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(w, c.LogLevel)

	um, err := repomanager.New(ctx, repomanager.Options{
		Driver:   c.DatabaseDriver,
		DSN:      c.DatabaseDSN,
		Database: c.DatabaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := um.RunMigrations(ctx); err != nil {
		_ = um.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	store, err := assets.Open(ctx, assets.Options{
		Driver: c.AssetDriver,
		Dir:    c.UploadDir,
		S3: assets.S3Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			Endpoint:        c.S3BaseEndpoint,
			AccessKeyID:     c.S3AccessKey,
			SecretAccessKey: c.S3SecretKey,
			PathStyle:       c.S3PathStyle,
		},
	})
	if err != nil {
		_ = um.Close(ctx)
		return nil, fmt.Errorf("asset store init error: %w", err)
	}

	janitor := assets.NewJanitor(store, logger, c.AssetRetireTimeout)
	rs := services.NewRecipeService(um, janitor, logger)
	us := services.NewUserService(um, c, logger)

	httpServer := rest.NewServer(c, rest.Deps{
		Recipes: rs,
		Users:   us,
		Assets:  store,
		Janitor: janitor,
		Store:   um,
	}, logger)

	return &App{
		config:  c,
		logger:  logger,
		manager: um,
		janitor: janitor,
		http:    httpServer,
		health:  gs.NewHealthServer(c.GRPCAddr, um, logger),
	}, nil
}

// Run serves until ctx is done or SIGINT, SIGTERM or SIGQUIT arrives, then
// drains pending asset deletions and closes the record store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.HTTPAddr,
		"grpc", app.config.GRPCAddr,
		"database", app.config.DatabaseDriver,
		"assets", app.config.AssetDriver,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Start(gctx) })
	g.Go(func() error { return app.health.Run(gctx) })

	runErr := g.Wait()

	app.janitor.Wait()
	closeErr := app.manager.Close(context.WithoutCancel(ctx))

	if err := errors.Join(runErr, closeErr); err != nil {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}

	app.logger.Info(ctx, "app stopped gracefully")
	return nil
}
