package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoparts_backend/internal/admin"
	"autoparts_backend/internal/bot"
	"autoparts_backend/internal/catalog"
	"autoparts_backend/internal/config"
	"autoparts_backend/internal/events"
	apphttp "autoparts_backend/internal/http"
	"autoparts_backend/internal/leads"
	"autoparts_backend/internal/notify"
	"autoparts_backend/internal/partsapi"
	"autoparts_backend/internal/queue"
	"autoparts_backend/internal/translate"
	"autoparts_backend/internal/webhook"
	"autoparts_backend/internal/whatsapp"
	"autoparts_backend/migrations"
	"autoparts_backend/platform/ai/openai"
	"autoparts_backend/platform/db"
	"autoparts_backend/platform/logger"
	"autoparts_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg.DatabaseURL, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	var redisCache *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("invalid REDIS_URL", "error", err)
			panic("invalid REDIS_URL: " + err.Error())
		}
		redisCache = redis.NewClient(opt)
		defer redisCache.Close()
	}

	// ========================================================================
	// Upstream Clients
	// ========================================================================

	var completer bot.Completer
	if cfg.OpenAIEnabled() {
		completer = openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.UpstreamTimeout,
		})
		log.Info("language model client initialized", "model", cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY not configured; using deterministic fallbacks only")
	}

	var translator bot.Translator
	if cfg.TranslateEnabled() {
		translator = translate.New(cfg.TranslateAPIURL, cfg.TranslateAPIKey, cfg.UpstreamTimeout, redisCache, log)
		log.Info("translation client initialized")
	}

	var provider bot.PartsProvider
	if cfg.ChassisAPIEnabled() {
		provider = partsapi.New(cfg.ChassisAPIBaseURL, cfg.ChassisAPIKey, cfg.UpstreamTimeout, log)
		log.Info("external parts provider initialized")
	}

	var messenger bot.Messenger
	if cfg.WhatsAppEnabled() {
		messenger = whatsapp.NewClient(cfg.MetaAccessToken, cfg.MetaPhoneNumberID, log)
		log.Info("whatsapp outbound client initialized")
	} else {
		log.Warn("Meta credentials not configured; outbound replies disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogRepo := catalog.NewRepository(pool)
	leadsRepo := leads.NewRepository(pool)
	rotation := leads.NewAgentRotation(cfg.SalesAgents)

	classifier := bot.NewClassifier(completer, translator, log)
	resolver := bot.NewResolver(catalogRepo, provider, log)
	synthesizer := bot.NewSynthesizer(completer, translator, log)
	orchestrator := bot.NewOrchestrator(classifier, resolver, synthesizer, leadsRepo, rotation, messenger, eventBus, log)

	// Lead notification emails subscribe to domain events (not HTTP-facing)
	if cfg.EmailEnabled() {
		sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFromAddress, cfg.EmailFromName)
		notify.NewSubscriber(sender, cfg.LeadsNotifyEmail, log).Register(eventBus)
		log.Info("lead notification emails enabled", "to", cfg.LeadsNotifyEmail)
	}

	dispatcher, worker, closeQueue := initQueue(cfg, orchestrator, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	webhookModule := webhook.NewModule(cfg.MetaVerifyToken, cfg.MetaAppSecret, dispatcher, val, log)
	adminModule := admin.NewModule(cfg, catalogRepo, leadsRepo, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := apphttp.NewRouter(cfg.Env, log, db.NewPoolAdapter(pool), webhookModule, adminModule)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			log.Info("queue worker started", "concurrency", cfg.WorkerConcurrency)
			return worker.Run()
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		if worker != nil {
			worker.Shutdown()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initQueue wires inbound message dispatch. With Redis configured messages go
// through asynq; without it they run inline so the webhook still works in
// single-process deployments.
func initQueue(cfg *config.Config, orchestrator *bot.Orchestrator, log *logger.Logger) (webhook.Dispatcher, *queue.Worker, func()) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; processing messages inline")
		return queue.NewInlineDispatcher(orchestrator), nil, nil
	}

	client, err := queue.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to initialize queue client", "error", err)
		panic("failed to initialize queue client: " + err.Error())
	}

	worker, err := queue.NewWorker(cfg.RedisURL, cfg.WorkerConcurrency, orchestrator, log)
	if err != nil {
		log.Error("failed to initialize queue worker", "error", err)
		panic("failed to initialize queue worker: " + err.Error())
	}

	return client, worker, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
