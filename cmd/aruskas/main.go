package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aruskas/internal/auth"
	"aruskas/internal/cashflow"
	"aruskas/internal/cli"
	"aruskas/internal/events"
	"aruskas/internal/log"
	"aruskas/internal/notify"
	"aruskas/internal/store"
	"aruskas/internal/web"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	sessions := cli.OpenSessionStore(logger, cfg)
	defer sessions.Close()

	authStore := auth.NewStore(cli.BuildAuthStrategy(cfg), sessions)
	if err := authStore.CheckAuth(context.Background()); err != nil {
		logger.Error("Failed to restore session state", log.FieldError, err)
	}

	// Mutation events are optional; without an AMQP URL the store simply
	// skips publishing.
	var publisher store.Publisher
	if cfg.AMQPURL != "" {
		eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", log.FieldError, err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		publisher = eventsClient
		logger.Info("Mutation events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	notifier := notify.NewWithDuration(cfg.NotifyDuration)
	api := cashflow.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	flows := store.New(api, notifier, publisher, store.WritePolicy(cfg.WritePolicy))

	server, err := web.NewServer(cfg, flows, authStore, notifier)
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting aruskas server", "port", cfg.Port, "api", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
