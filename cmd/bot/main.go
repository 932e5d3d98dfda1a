package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearttalk-bot/internal/bot"
	"github.com/hearttalk-bot/internal/config"
	"github.com/hearttalk-bot/internal/llm"
	"github.com/hearttalk-bot/internal/telegram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration; missing credentials end the process before any connection is made
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("provider", cfg.LLMProvider.String()).
		Str("model", cfg.LLMModel).
		Int("max_input_length", cfg.MaxInputLength).
		Msg("Starting HeartTalk bot")

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize completion provider
	logger.Info().Msg("Initializing LLM provider...")
	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close LLM provider")
		}
	}()

	// Initialize Telegram transport
	logger.Info().Msg("Initializing Telegram client...")
	transport, err := telegram.New(cfg.TelegramToken, cfg.APIEndpoint, cfg.LogLevel == "debug", logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Telegram client")
	}

	bot.New(cfg, transport, provider, logger)

	logger.Info().
		Str("username", transport.Username()).
		Interface("allowed_chat_ids", cfg.AllowedChatIDs).
		Msg("Bot initialized successfully")

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start bot in a goroutine; Start returns once running handlers are done
	botDone := make(chan error, 1)
	go func() {
		botDone <- transport.Start(ctx)
	}()

	logger.Info().Msg("Bot is running. Press Ctrl+C to stop.")

	// Wait for termination signal or bot exit
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case err := <-botDone:
		if err != nil {
			logger.Error().Err(err).Msg("Bot stopped with error")
		}
		logger.Info().Msg("Bot stopped")
		return
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	cancel()

	// Give in-flight replies some time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn().Msg("Shutdown timeout exceeded, some requests may be lost")
	case <-botDone:
		logger.Info().Msg("Graceful shutdown completed")
	}

	logger.Info().Msg("Bot stopped")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
