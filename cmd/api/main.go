package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assetledger/assetledger/internal/server"
	"github.com/assetledger/assetledger/internal/telemetry"
)

func main() {
	jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(telemetry.NewTraceHandler(jsonHandler)))

	shutdownTelemetry, err := telemetry.Setup(context.Background(), "assetledger-api")
	if err != nil {
		log.Fatal(err)
	}

	app, err := server.NewApp()
	if err != nil {
		log.Fatal(err)
	}

	// Server startup
	go func() {
		log.Printf("API server starting on %s", app.Addr())
		if err := app.ListenAndServe(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
		os.Exit(1)
	}
	if err := shutdownTelemetry(ctx); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}

	log.Println("API server exited properly")
}
