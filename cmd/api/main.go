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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dev-surajtapkeer/voxora/internal/config"
	"github.com/dev-surajtapkeer/voxora/internal/handler"
	"github.com/dev-surajtapkeer/voxora/internal/llm"
	"github.com/dev-surajtapkeer/voxora/internal/middleware"
	natsclient "github.com/dev-surajtapkeer/voxora/internal/nats"
	"github.com/dev-surajtapkeer/voxora/internal/service"
	"github.com/dev-surajtapkeer/voxora/internal/store"
	"github.com/dev-surajtapkeer/voxora/pkg/logger"
	"github.com/dev-surajtapkeer/voxora/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "voxora-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the database
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	// Connect to NATS
	nc, err := natsclient.Connect(ctx, natsclient.Config{
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
	defer nc.Close()

	// Ensure JetStream streams exist
	streamManager := natsclient.NewStreamManager(nc)
	if err := streamManager.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure message stream", zap.Error(err))
		os.Exit(1)
	}
	eventPublisher := natsclient.NewEventPublisher(nc)
	if err := eventPublisher.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure event stream", zap.Error(err))
		os.Exit(1)
	}

	// Initialize LLM client for reply suggestions
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client, reply suggestions disabled")
		}
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client, reply suggestions disabled")
		}
	}

	// Initialize services
	conversationSvc := service.NewConversationService(st, eventPublisher, log)
	messageSvc := service.NewMessageService(streamManager, st, log)
	adminSvc := service.NewAdminService(st, eventPublisher, log)
	widgetSvc := service.NewWidgetService(st, log)
	dashboardSvc := service.NewDashboardService(st, log)
	suggestionSvc := service.NewSuggestionService(llmClient, streamManager, st, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(nc)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(messageSvc, suggestionSvc, log)
	teamHandler := handler.NewTeamHandler(adminSvc, log)
	agentHandler := handler.NewAgentHandler(adminSvc, log)
	widgetHandler := handler.NewWidgetHandler(widgetSvc, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Put("/assign", conversationHandler.Assign)
				r.Put("/status", conversationHandler.SetStatus)
				r.Put("/priority", conversationHandler.SetPriority)
				r.Post("/tags", conversationHandler.Tag)
				r.Delete("/tags", conversationHandler.Untag)

				// Messages
				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Send)
				r.Post("/suggest", messageHandler.Suggest)
			})
		})

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireScope(middleware.ScopeAdmin))

			r.Get("/teams", teamHandler.List)
			r.Post("/teams", teamHandler.Create)
			r.Get("/teams/{id}", teamHandler.Get)
			r.Put("/teams/{id}", teamHandler.Update)
			r.Delete("/teams/{id}", teamHandler.Delete)

			r.Get("/agents", agentHandler.List)
			r.Post("/agents/invite", agentHandler.Invite)
			r.Get("/agents/{id}", agentHandler.Get)
			r.Put("/agents/{id}", agentHandler.Update)
			r.Delete("/agents/{id}", agentHandler.Delete)
			r.Post("/agents/{id}/resend-invite", agentHandler.ResendInvite)

			r.Post("/create-widget", widgetHandler.Create)
			r.Get("/widget", widgetHandler.Get)
			r.Put("/widget", widgetHandler.Update)

			r.Get("/stats/dashboard", dashboardHandler.Stats)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
