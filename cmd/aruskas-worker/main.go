package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"aruskas/internal/cashflow"
	"aruskas/internal/cli"
	"aruskas/internal/events"
	"aruskas/internal/log"
	"aruskas/internal/sheets"
	"aruskas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mirror sheets.Mirror
	if os.Getenv("GOOGLE_SPREADSHEET_ID") != "" {
		m, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", log.FieldError, err)
			os.Exit(1)
		}
		mirror = m
		logger.Info("Google Sheets mirror enabled")
	} else {
		mirror = sheets.NewMemoryMirror()
		logger.Info("No GOOGLE_SPREADSHEET_ID set, mirroring in memory only")
	}

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	deliveries, err := eventsClient.Consume()
	if err != nil {
		logger.Error("Failed to start consumer", log.FieldError, err)
		os.Exit(1)
	}

	api := cashflow.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	mirrorWorker := worker.NewMirrorWorker(api, mirror)

	logger.Info("Worker started", "queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case d, ok := <-deliveries:
				if !ok {
					logger.Info("Delivery channel closed")
					return nil
				}
				msg, err := events.MutationMessageFromJSON(d.Body)
				if err != nil {
					logger.Error("Failed to decode mutation message", log.FieldError, err)
					_ = d.Nack(false, false)
					continue
				}
				if err := mirrorWorker.HandleMutation(ctx, msg); err != nil {
					logger.Error("Failed to mirror mutation",
						"op", msg.Op, "id", msg.ID, log.FieldError, err)
					// Requeue once via the broker; a poison message ends
					// up dropped on the second failure.
					_ = d.Nack(false, !d.Redelivered)
					continue
				}
				_ = d.Ack(false)
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
