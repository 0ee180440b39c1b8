package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Kosench/traced-url-shortener/internal/config"
	"github.com/Kosench/traced-url-shortener/internal/database"
	"github.com/Kosench/traced-url-shortener/internal/handler"
	"github.com/Kosench/traced-url-shortener/internal/redisdb"
	"github.com/Kosench/traced-url-shortener/internal/repository"
	"github.com/Kosench/traced-url-shortener/internal/service"
	"github.com/Kosench/traced-url-shortener/internal/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	config  *config.Config
	logger  *zap.Logger
	handler http.Handler
	server  *http.Server
	tracing *tracing.Provider
	closers []io.Closer
}

// New opens the configured store, prepares its schema and builds the HTTP
// stack. Call Run to serve, or Close to release resources without serving.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		config: cfg,
		logger: logger,
	}

	urlRepo, err := a.openRepository()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tp, err := tracing.NewProvider(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.tracing = tp

	urlService := service.NewURLService(urlRepo, cfg.GetBaseURL(), cfg.App.ShortCodeLength, tp.Tracer(), logger)
	urlHandler := handler.NewURLHandler(urlService, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.handler = handler.NewRouter(urlHandler, logger, handler.RouterConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		AllowedOrigins: cfg.GetAllowedOrigins(),
		TracerProvider: tp.TracerProvider(),
		Propagators:    tp.Propagators(),
	})

	a.server = &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        a.handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return a, nil
}

func (a *App) openRepository() (repository.URLRepository, error) {
	driver := a.config.Storage.Driver

	switch driver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(a.config.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		a.closers = append(a.closers, db)

		if err := database.MigrateSQLite(db); err != nil {
			return nil, err
		}
		a.logger.Info("Storage ready", zap.String("driver", driver))
		return repository.NewSQLURLRepository(db), nil

	case config.DriverPostgres:
		dsn := database.PostgresDSN(a.config.Database)
		db, err := database.OpenPostgresDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, db)

		if err := database.MigratePostgres(dsn); err != nil {
			return nil, err
		}
		a.logger.Info("Storage ready", zap.String("driver", driver))
		return repository.NewSQLURLRepository(db), nil

	case config.DriverRedis:
		client, err := redisdb.NewRedisClient(a.config.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.logger.Info("Storage ready", zap.String("driver", driver))
		return repository.NewRedisURLRepository(client), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is canceled, then drains in-flight requests within
// the configured shutdown timeout and releases resources.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("base_url", a.config.GetBaseURL()),
			zap.String("storage", a.config.Storage.Driver),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
	case serveErr = <-errCh:
		if serveErr != nil {
			a.logger.Error("Server failed", zap.Error(serveErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracing != nil {
		if err := a.tracing.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to flush traces", zap.Error(err))
		}
		a.tracing = nil
	}

	if err := a.Close(); err != nil {
		a.logger.Error("Failed to close storage", zap.Error(err))
	}

	a.logger.Info("Server stopped")
	return serveErr
}

// Close releases storage connections and the tracer provider.
func (a *App) Close() error {
	var errs []error

	if a.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		a.tracing = nil
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
