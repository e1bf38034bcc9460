package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"omr-grader/internal/config"
	"omr-grader/internal/logging"
	"omr-grader/internal/omr"
	"omr-grader/internal/server"
)

func main() {
	logger := logging.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// A broken key or grid refuses to boot rather than failing per sheet.
	key, err := omr.LoadAnswerKey(cfg.KeyPath)
	if err != nil {
		logger.Fatalf("Error loading answer key %s: %v", cfg.KeyPath, err)
	}
	processor, err := omr.NewProcessor(cfg.GridSpec(), key, cfg.MarkThreshold)
	if err != nil {
		logger.Fatalf("Invalid grading configuration: %v", err)
	}

	srv, err := server.NewServer(
		server.WithFiber(server.NewFiber(cfg)),
		server.WithLogger(logger),
		server.WithConfig(cfg),
		server.WithValidator(config.NewValidator()),
		server.WithProcessor(processor),
		server.WithMiddleware(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	srv.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("OMR grading server started on port %s", cfg.Port)

	<-sigChan
	logger.Info("Shutting down server...")
}
