package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golden-cross/src/app"
	"golden-cross/src/config"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/server"
)

const shutdownTimeout = 10 * time.Second

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)
	defer appLogger.Sync()

	// 1. Setup Components
	pipeline, err := app.New(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to build dashboard: %v", err)
	}
	defer pipeline.Close()

	// 2. Setup Server
	var srv interfaces.IDashboardServer
	srv, err = server.NewDashboardServer(
		config.MConfig,
		pipeline.Service,
		pipeline.Cache,
		pipeline.Sources,
		appLogger.Named("Server"),
	)
	if err != nil {
		appLogger.Critical("Failed to init server: %v", err)
	}

	// 3. Start Server
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server failed: %v", err)
		}
		return
	case <-quit:
		appLogger.Info("Shutting down...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("Server shutdown error: %v", err)
	}
	appLogger.Info("Shutdown complete.")
}
