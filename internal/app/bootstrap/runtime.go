package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkinno/projects/internal/adapters/ai"
	"github.com/inkinno/projects/internal/adapters/cache"
	eventadapter "github.com/inkinno/projects/internal/adapters/events"
	httpadapter "github.com/inkinno/projects/internal/adapters/http"
	"github.com/inkinno/projects/internal/adapters/memory"
	"github.com/inkinno/projects/internal/adapters/postgres"
	"github.com/inkinno/projects/internal/adapters/security"
	"github.com/inkinno/projects/internal/application"
	"github.com/inkinno/projects/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	outbox     *eventadapter.OutboxWorker
	// inProcessOutbox is set when the outbox lives in memory and only the API process can relay it.
	inProcessOutbox bool
	cleanupFn       func(context.Context)
}

type storage struct {
	services ports.ServiceRepository
	events   ports.EventRepository
	outbox   ports.OutboxRepository
	inMemory bool
	closeFn  func()
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cleanup := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
		store.closeFn()
	}

	var cacheStore ports.Cache
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			cleanup()
			return nil, redisErr
		}
		closers = append(closers, redisClient)
		cacheStore = cache.NewRedisCache(redisClient)
	}

	classifier, err := newClassifier(cfg, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	var identity ports.IdentityVerifier
	if !cfg.AuthDisabled {
		verifier, verifierErr := security.NewGoogleIdentityVerifier(ctx, cfg.GoogleClientID)
		if verifierErr != nil {
			cleanup()
			return nil, verifierErr
		}
		identity = verifier
	} else {
		logger.WarnContext(ctx, "authentication disabled; api is open to any caller",
			"module", "bootstrap",
			"layer", "runtime",
		)
	}
	sessions, err := newSessionSigner(cfg, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:        cfg.ServiceID,
			ServicesCacheTTL:   cfg.ServicesCacheTTL,
			CascadeConcurrency: cfg.CascadeConcurrency,
			AllowedEmail:       cfg.AllowedEmail,
			SessionTTL:         cfg.SessionTTL,
			AuthDisabled:       cfg.AuthDisabled,
		},
		Services:   store.services,
		Events:     store.events,
		Outbox:     store.outbox,
		Classifier: classifier,
		Cache:      cacheStore,
		Identity:   identity,
		Sessions:   sessions,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.topicByEvent())
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, store.outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxClaimTTL, cfg.OutboxMaxRetries)

	return &Runtime{
		cfg:             cfg,
		logger:          logger,
		httpServer:      httpServer,
		grpcServer:      grpcServer,
		outbox:          outbox,
		inProcessOutbox: store.inMemory,
		cleanupFn: func(context.Context) {
			cleanup()
		},
	}, nil
}

func openStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage, error) {
	if cfg.DatabaseURL == "" {
		logger.WarnContext(ctx, "no database configured; timeline data is kept in memory",
			"module", "bootstrap",
			"layer", "runtime",
		)
		repos := memory.NewRepositories()
		return storage{
			services: repos.Services,
			events:   repos.Events,
			outbox:   repos.Outbox,
			inMemory: true,
			closeFn:  func() {},
		}, nil
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return storage{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return storage{}, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return storage{}, err
	}
	repos := postgres.NewRepositories(db)
	return storage{
		services: repos.Services,
		events:   repos.Events,
		outbox:   repos.Outbox,
		closeFn:  func() { _ = sqlDB.Close() },
	}, nil
}

func newClassifier(cfg Config, logger *slog.Logger) (ports.EventClassifier, error) {
	if cfg.AIAPIKey == "" {
		logger.Warn("no classifier api key configured; using keyword classifier",
			"module", "bootstrap",
			"layer", "runtime",
		)
		return ai.NewKeywordClassifier(), nil
	}
	return ai.NewLLMClassifier(ai.LLMConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})
}

func newSessionSigner(cfg Config, logger *slog.Logger) (ports.SessionSigner, error) {
	if cfg.SessionSecret != "" {
		return security.NewJWTSigner(cfg.SessionSecret)
	}
	if !cfg.AuthDisabled {
		logger.Warn("SESSION_SECRET not set; sessions will not survive a restart",
			"module", "bootstrap",
			"layer", "runtime",
		)
	}
	return security.NewEphemeralJWTSigner()
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		r.cleanupFn(ctx)
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 3)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	if r.inProcessOutbox {
		go func() {
			if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}
	r.logger.InfoContext(ctx, "timeline api started",
		"module", "bootstrap",
		"layer", "runtime",
		"http_port", r.cfg.HTTPPort,
		"grpc_port", r.cfg.GRPCPort,
	)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", runErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	if r.inProcessOutbox {
		r.cleanupFn(ctx)
		return errors.New("outbox worker requires DB_URL; the in-memory outbox is relayed by the api process")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanupFn(context.Background())

	err := r.outbox.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
