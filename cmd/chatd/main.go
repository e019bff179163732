// Package main is the entry point for chatd, the bundled dev backend. It
// implements the conversation wire contract the chat client expects, with an
// in-memory store and optional LLM-backed replies.
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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/parley-ai/chat-console/internal/config"
	"github.com/parley-ai/chat-console/internal/handler"
	"github.com/parley-ai/chat-console/internal/llm"
	"github.com/parley-ai/chat-console/internal/middleware"
	"github.com/parley-ai/chat-console/internal/service"
	"github.com/parley-ai/chat-console/pkg/logger"
	"github.com/parley-ai/chat-console/pkg/tracing"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chatd")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "chatd", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Pick a reply provider: whichever API key is configured, else canned.
	var replier service.Replier = service.CannedReplier{}
	switch {
	case cfg.AnthropicAPIKey != "":
		client, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client, using canned replies", zap.Error(err))
		} else {
			replier = service.NewLLMReplier(client, cfg.ReplyModel)
		}
	case cfg.OpenAIAPIKey != "":
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client, using canned replies", zap.Error(err))
		} else {
			replier = service.NewLLMReplier(client, cfg.ReplyModel)
		}
	}
	log.Info("reply provider selected", zap.String("provider", replier.Name()))

	store := service.NewConversationService(log)
	messageSvc := service.NewMessageService(store, replier, log)

	healthHandler := handler.NewHealthHandler()
	conversationHandler := handler.NewConversationHandler(store, log)
	messageHandler := handler.NewMessageHandler(messageSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	// The reference backend allows any origin; browser frontends talk to
	// chatd directly during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	// StripSlashes above makes the reference backend's trailing-slash
	// collection routes land here too.
	r.Mount("/", handler.Routes(conversationHandler, messageHandler, healthHandler))

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
