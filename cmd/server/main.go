package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/scalynx/idea-validator/internal/api"
	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/engine"
	"github.com/scalynx/idea-validator/internal/logging"
	"github.com/scalynx/idea-validator/internal/storage"
)

func main() {
	_ = godotenv.Load()

	// 1. Config
	cfg := config.Load()

	// Setup Logging
	entry := logging.New(cfg.Log.Level, cfg.Log.Format, "validator-api")
	entry.Info("Starting Idea Validator API Service")

	if err := cfg.Validate(); err != nil {
		entry.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Storage
	store, err := storage.NewFileStorage(cfg.Artifacts.Dir)
	if err != nil {
		entry.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// 3. Engine
	eng, err := engine.NewEngine(cfg, entry, store)
	if err != nil {
		entry.Fatalf("Failed to initialize engine (run `trainer train` first): %v", err)
	}

	// SIGHUP reloads artifacts after a retrain
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			if err := eng.Reload(); err != nil {
				entry.WithError(err).Error("Reload failed, keeping current pipeline")
			}
		}
	}()

	// 4. API Server
	server := api.NewServer(eng, cfg.Server, entry)
	if err := server.Start(); err != nil {
		entry.Fatal(err)
	}
}
