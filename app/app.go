// Package app wires the stock catalog, the analysis orchestrator and the
// HTTP API into a running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"stock-sector-analyzer/analysis"
	"stock-sector-analyzer/api"
	"stock-sector-analyzer/cache"
	"stock-sector-analyzer/config"
	"stock-sector-analyzer/database"
	"stock-sector-analyzer/llm"
	"stock-sector-analyzer/notifications"
	"stock-sector-analyzer/realtime"
	"stock-sector-analyzer/sheets"
)

// App represents the main application
type App struct {
	config       *config.Config
	db           *database.Database
	redis        *cache.RedisClient
	history      *database.HistoryRepository
	broker       *realtime.Broker
	catalog      *Catalog
	orchestrator *Orchestrator
	webhooks     *notifications.WebhookManager
	scheduler    *cron.Cron
	server       *http.Server
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application and blocks until shutdown
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Redis (optional)
	if a.config.Redis.Enabled {
		log.Info().Msg("🧠 Connecting to Redis...")
		a.redis = cache.NewRedisClient(a.config.Redis.Host, a.config.Redis.Port, a.config.Redis.Password)
	}

	// 2. Analysis archive (optional)
	if a.config.Database.Enabled {
		log.Info().Msg("🗄️ Connecting to database...")
		db, err := database.Connect(
			a.config.Database.Host,
			a.config.Database.Port,
			a.config.Database.Name,
			a.config.Database.User,
			a.config.Database.Password,
		)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		a.db = db

		a.history = database.NewHistoryRepository(db)
		if err := a.history.InitSchema(); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
	}

	// 3. Realtime broker
	a.broker = realtime.NewBroker()
	go a.broker.Run(ctx)

	// 4. Analysis provider
	provider, model := a.buildProvider(ctx)
	a.orchestrator = NewOrchestrator(provider, NewSession(), a.broker)
	if a.history != nil {
		a.orchestrator.SetArchive(a.history, model)
	}

	// 5. Webhooks
	if len(a.config.Webhook.URLs) > 0 {
		var deliveries notifications.DeliveryLog
		if a.history != nil {
			deliveries = a.history
		}
		a.webhooks = notifications.NewWebhookManager(a.config.Webhook.URLs, a.config.Webhook.Timeout, a.config.Webhook.Attempts, deliveries)
		a.orchestrator.SetNotifier(a.webhooks)
		log.Info().Int("urls", len(a.config.Webhook.URLs)).Msg("🔔 Webhook notifications enabled")
	}

	// 6. Stock catalog
	var csvCache sheets.CSVCache
	if a.redis != nil && a.config.Sheet.CacheTTL > 0 {
		csvCache = cache.NewSheetStore(a.redis, a.config.Sheet.CacheTTL)
	}
	a.catalog = NewCatalog(sheets.NewClient(a.config.Sheet.CSVBaseURL, csvCache), a.config.Sheet.URL, a.broker)

	// a failed first load is reported by /api/groups
	_ = a.catalog.Load(ctx)

	if spec := a.config.Sheet.RefreshCron; spec != "" {
		scheduler, err := a.catalog.Schedule(ctx, spec)
		if err != nil {
			return fmt.Errorf("invalid STOCKS_REFRESH_CRON %q: %w", spec, err)
		}
		a.scheduler = scheduler
	}

	// 7. API server
	handler := api.NewServer(a.catalog, a.orchestrator, a.broker, a.config.PublicDir)
	if a.history != nil {
		handler.SetHistory(a.history)
	}
	a.server = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", a.config.HTTPPort),
		Handler:           handler.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.server.Addr).Msg("🚀 API Server starting")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	return a.gracefulShutdown(cancel, serverErr)
}

// buildProvider creates the analysis provider; it returns nil when analysis is disabled
func (a *App) buildProvider(ctx context.Context) (analysis.Provider, string) {
	generator, err := llm.New(ctx, a.config.LLM)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			log.Warn().Msg("⚠️ No LLM API key configured, analysis DISABLED")
		} else {
			log.Error().Err(err).Msg("❌ Failed to create analysis provider, analysis DISABLED")
		}
		return nil, ""
	}
	log.Info().Str("provider", a.config.LLM.Provider).Str("model", generator.Model()).Msg("✅ Analysis ENABLED")

	var provider analysis.Provider = analysis.NewLLMProvider(generator, llm.WebSearchEnabled(a.config.LLM))
	if a.redis != nil && a.config.LLM.CacheTTL > 0 {
		provider = analysis.NewCachedProvider(provider, cache.NewAnalysisStore(a.redis), a.config.LLM.CacheTTL)
		log.Info().Dur("ttl", a.config.LLM.CacheTTL).Msg("🧠 Analysis cache enabled")
	}
	return provider, generator.Model()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc, serverErr <-chan error) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-interrupt:
		log.Info().Msg("🛑 Shutdown signal received, initiating graceful shutdown...")
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("❌ API Server failed")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Error stopping API server")
		}

		if a.scheduler != nil {
			<-a.scheduler.Stop().Done()
		}

		if a.webhooks != nil {
			if err := a.webhooks.Wait(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Pending webhook deliveries abandoned")
			}
		}

		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing database")
			} else {
				log.Info().Msg("✅ Database connection closed")
			}
		}

		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing redis")
		}
	}()

	select {
	case <-shutdownComplete:
		log.Info().Msg("✅ Graceful shutdown completed")
		return runErr
	case <-shutdownCtx.Done():
		log.Warn().Msg("⚠️ Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
