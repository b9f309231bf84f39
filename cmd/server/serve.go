package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coinchat-backend/internal/database"
	"coinchat-backend/internal/handlers"
	"coinchat-backend/internal/middleware"
	"coinchat-backend/internal/normalizer"
	"coinchat-backend/internal/router"
	"coinchat-backend/internal/secrets"
	"coinchat-backend/internal/services"
)

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("🚀 Starting CoinChat Backend...")

	// ──── Step 1: Environment (loaded before the logger) ────
	logger.Info("✓ Environment variables loaded", zap.String("env", cfg.Env))

	// ──── Step 2: Resolve Gemini API Key ────
	if cfg.GeminiAPIKey == "" && cfg.GeminiAPIKeyParam != "" {
		store, err := secrets.NewParamStore(ctx)
		if err != nil {
			return fmt.Errorf("✗ parameter store unavailable: %w", err)
		}
		key, err := store.ResolveAPIKey(ctx, cfg.GeminiAPIKeyParam)
		if err != nil {
			return fmt.Errorf("✗ Gemini API key lookup failed: %w", err)
		}
		cfg.GeminiAPIKey = key
		logger.Info("✓ Gemini API key loaded from parameter store", zap.String("param", cfg.GeminiAPIKeyParam))
	}

	// ──── Step 3: Initialize Gemini Client ────
	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:         cfg.GeminiAPIKey,
		Model:          cfg.GeminiModel,
		BaseURL:        cfg.GeminiBaseURL,
		Transport:      cfg.GeminiTransport,
		Temperature:    cfg.GeminiTemperature,
		Timeout:        cfg.GeminiTimeout,
		MaxRetries:     cfg.GeminiMaxRetries,
		ConcurrentReqs: cfg.GeminiConcurrentReqs,
	}, logger.Named("gemini"))
	if err != nil {
		return fmt.Errorf("✗ Gemini client initialization failed: %w", err)
	}
	defer gemini.Close()
	if gemini.Configured() {
		logger.Info("✓ Gemini client initialized", zap.String("provider", gemini.Name()), zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("Gemini API key not configured; chat requests will fail")
	}

	// ──── Step 4: Load Instruction Manuals ────
	chatPrompts, err := services.NewPromptAssembler(services.PersonaChat, cfg.InstructionPath)
	if err != nil {
		return fmt.Errorf("✗ chat instructions: %w", err)
	}
	moodPrompts, err := services.NewPromptAssembler(services.PersonaMoodBot, "")
	if err != nil {
		return fmt.Errorf("✗ moodbot instructions: %w", err)
	}
	logger.Info("✓ Instruction manuals loaded")

	// ──── Step 5: Rate Limiter ────
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("✗ Redis connection failed: %w", err)
		}
		defer rdb.Close()
		limiter = middleware.NewRedisRateLimiter(rdb, "ratelimit:chat", cfg.ChatRateLimit, cfg.ChatRateWindow)
		logger.Info("✓ Redis rate limiter connected")
	} else {
		mem := middleware.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)
		defer mem.Stop()
		limiter = mem
		logger.Info("✓ In-memory rate limiter started")
	}

	// ──── Step 6: Handlers & Router ────
	n := normalizer.New()
	r := router.New(router.Handlers{
		Chat:      handlers.NewChatHandler(gemini, chatPrompts, n, logger.Named("chat")),
		MoodBot:   handlers.NewChatHandler(gemini, moodPrompts, n, logger.Named("moodbot")),
		Analytics: handlers.NewAnalyticsHandler(services.NewYouTubeService(logger.Named("youtube")), logger),
		Health:    handlers.NewHealthHandler(gemini),
	}, limiter, cfg.FrontendURL, logger.Named("http"))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.ReadTimeout,
	}

	// ──── Step 7: Serve until signalled ────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(fmt.Sprintf("✓ CoinChat Backend ready on http://localhost:%s", cfg.Port))
		logger.Info(fmt.Sprintf("  API: http://localhost:%s/api", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
