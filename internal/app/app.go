package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/odds-board/internal/config"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/infrastructure/document"
	"github.com/riskibarqy/odds-board/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/odds-board/internal/interfaces/httpapi"
	"github.com/riskibarqy/odds-board/internal/observability"
	"github.com/riskibarqy/odds-board/internal/platform/cache"
	idgen "github.com/riskibarqy/odds-board/internal/platform/id"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
	"github.com/riskibarqy/odds-board/internal/usecase"
	"github.com/sourcegraph/conc"
)

// App owns the HTTP server and the background work behind it: the one-time
// document load and the idle session sweeper.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	server   *http.Server
	loader   *document.Loader
	sessions *usecase.SessionService
	metrics  *observability.Metrics

	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	metrics := observability.NewMetrics()

	matchRepo := memory.NewMatchRepository()
	sessionRepo := memory.NewSessionRepository()

	source := document.NewSource(cfg.DocumentSource, cfg.DocumentFetchTimeout, cfg.DocumentMaxBytes)
	loader := document.NewLoader(source, document.NewDecoder(cfg.DocumentWorkers), matchRepo, logger).
		WithObserver(metrics)

	var pivots *cache.Store[[]matchodds.Table]
	if cfg.CacheEnabled {
		pivots = cache.NewStore[[]matchodds.Table](0)
		metrics.TrackPivotCache(func() int { return pivots.Stats().Entries })
	}

	searchSvc := usecase.NewSearchService(matchRepo, usecase.SearchOptions{
		SuggestionLimit: cfg.SearchSuggestionLimit,
		HintLimit:       cfg.SearchHintLimit,
	}, metrics)
	boardSvc := usecase.NewBoardService(matchRepo, searchSvc, pivots, logger, metrics)
	sessionSvc := usecase.NewSessionService(
		sessionRepo,
		matchRepo,
		boardSvc,
		idgen.NewUUIDGenerator(),
		usecase.SessionOptions{
			IdleTimeout:       cfg.SessionIdleTimeout,
			CountdownInterval: cfg.CountdownInterval,
		},
		logger,
		metrics,
	)

	handler := httpapi.NewHandler(matchRepo, searchSvc, boardSvc, sessionSvc, cfg.CORSAllowedOrigins, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:            httpapi.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:            metrics.Handler(),
		Observer:           metrics,
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		loader:   loader,
		sessions: sessionSvc,
		metrics:  metrics,
	}, nil
}

func (a *App) Server() *http.Server {
	return a.server
}

// Start launches the document load and the session sweeper. Both stop when ctx is
// cancelled or Shutdown is called.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Go(func() {
		// The error is already recorded in the match repository and logged.
		_ = a.loader.Load(ctx)
	})
	a.wg.Go(func() {
		a.sessions.RunSweeper(ctx, a.cfg.SessionSweepInterval)
	})
}

// Shutdown drains HTTP traffic, stops background work and tears down every session.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	a.sessions.Shutdown()
	return err
}
