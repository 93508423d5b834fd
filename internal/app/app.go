package app

import (
	"context"
	"fmt"
	"time"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/http"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/observability"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/envutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Log       *logger.Logger
	Cfg       Config
	Store     store.Store
	Generator generation.Generator
	Services  Services
	Server    *http.Server

	otelShutdown func(context.Context) error
}

// New loads configuration from the environment and wires the API.
func New() (*App, error) {
	LoadDotEnv(nil)
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Environment: cfg.LogMode,
	})
	a, err := NewWithConfig(log, cfg)
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}
	a.otelShutdown = otelShutdown
	return a, nil
}

// NewWithConfig wires the API from an explicit config.
func NewWithConfig(log *logger.Logger, cfg Config) (*App, error) {
	st, err := OpenStore(log, cfg)
	if err != nil {
		return nil, err
	}
	gen, err := OpenGenerator(log, cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	svcs, err := wireServices(log, cfg, st, gen)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	handlers := wireHandlers(log, svcs)
	middleware := wireMiddleware(log, svcs)

	return &App{
		Log:       log,
		Cfg:       cfg,
		Store:     st,
		Generator: gen,
		Services:  svcs,
		Server:    wireServer(log, cfg, handlers, middleware),
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := a.Cfg.Addr()
	a.Log.Info("Starting API", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("Store close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
