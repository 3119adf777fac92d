// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/analytics"
	"github.com/capitalize-ai/assistant-gateway/internal/config"
	"github.com/capitalize-ai/assistant-gateway/internal/dataapi"
	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/dialogflow"
	"github.com/capitalize-ai/assistant-gateway/internal/handler"
	"github.com/capitalize-ai/assistant-gateway/internal/interp"
	"github.com/capitalize-ai/assistant-gateway/internal/middleware"
	"github.com/capitalize-ai/assistant-gateway/internal/natsclient"
	"github.com/capitalize-ai/assistant-gateway/internal/session"
	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
	"github.com/capitalize-ai/assistant-gateway/pkg/tracing"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "assistant-gateway", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for the analytics ingest stream
	natsClient, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer natsClient.Close()

	streamManager := natsclient.NewStreamManager(natsClient)
	if err := streamManager.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure stream", zap.Error(err))
		os.Exit(1)
	}

	sessions, err := buildSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to build session store", zap.Error(err))
		os.Exit(1)
	}

	projects := dataapi.NewLocal(cfg.ProjectDataDir)
	dispatcher := analytics.NewDispatcher(streamManager, cfg.AnalyticsBlocklist)

	// Node handlers and the turn manager
	commandHandler := dialog.NewCommandHandler(dialog.CommandOptions{MatchAction: cfg.CommandMatchAction})
	interactionHandler := dialog.NewInteractionHandler(commandHandler, dialog.NewNoMatchHandler(), dialog.NewNoInputHandler())
	cycler := interp.New(interactionHandler)

	manager := dialogflow.NewManager(sessions, dispatcher, projects, cycler, cfg, log)

	healthHandler := handler.NewHealthHandler(natsClient)
	webhookHandler := handler.NewWebhookHandler(manager, log)
	stateHandler := handler.NewStateHandler(sessions, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Platform webhook; the platform authenticates out of band
	r.Route("/webhook", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/{versionID}", webhookHandler.HandleES)
	})

	// Session state management
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/state/{userID}", func(r chi.Router) {
			r.Get("/", stateHandler.Get)
			r.Delete("/", stateHandler.Delete)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// buildSessionStore selects the session backend from configuration.
func buildSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, error) {
	switch cfg.SessionSource {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStore(client, cfg.SessionTTL), nil

	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		log.Info("using dynamo session store", zap.String("table", cfg.DynamoTable))
		return session.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable, cfg.SessionTTL), nil

	case "memory", "":
		log.Info("using in-memory session store")
		return session.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown session source %q", cfg.SessionSource)
	}
}
