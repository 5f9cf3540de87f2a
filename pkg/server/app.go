package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/stream"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
	pkgqueue "CoinPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	handler   xhttp.Handler
	hub       *stream.Hub
	queue     *pkgqueue.RedisQueue
	scheduler *usecase.RefreshScheduler
	recorder  drepo.Recorder
	publisher drepo.Publisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. Hub, queue,
// scheduler may be nil when the corresponding feature is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	hub *stream.Hub,
	queue *pkgqueue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	recorder drepo.Recorder,
	publisher drepo.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		hub:       hub,
		queue:     queue,
		scheduler: scheduler,
		recorder:  recorder,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.recorder != nil {
		if err := a.recorder.Init(ctx); err != nil {
			a.log.Error("recorder init error", applogger.Error(err))
			return err
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.hub != nil && a.cfg.Stream.Enabled {
		a.hub.RegisterRoutes(a.httpServer.Echo(), a.cfg.Stream.Path)
		a.log.Info("price stream enabled", applogger.String("path", a.cfg.Stream.Path))
	}

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.log.Error("queue start error", applogger.Error(err))
			return err
		}
		a.queue.StartRetryProcessor()
	}

	if a.scheduler != nil {
		go a.scheduler.Run(ctx)
		a.log.Info("refresh scheduler started",
			applogger.Strings("symbols", a.cfg.Refresh.Symbols),
			applogger.String("interval", a.cfg.Refresh.Interval.String()),
		)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.log.Warn("recorder close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
