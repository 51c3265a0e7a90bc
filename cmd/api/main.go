package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andresv1112/taskflow-artisanal-auth/pkg/api"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := config.NewLogger("taskflow")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    "taskflow",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := config.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := api.StartServer(cfg, metrics, logger); err != nil {
			log.Fatal("Server error:", err)
		}
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}
