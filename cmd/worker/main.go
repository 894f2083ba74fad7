package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/williamdagle/clinic-admin-api/internal/config"
	"github.com/williamdagle/clinic-admin-api/internal/repository/postgres"
	internalworker "github.com/williamdagle/clinic-admin-api/internal/worker"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
	"github.com/williamdagle/clinic-admin-api/pkg/messaging/redis"
	"github.com/williamdagle/clinic-admin-api/pkg/metrics"
	"github.com/williamdagle/clinic-admin-api/pkg/worker"
)

func setupHealthCheck(logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			logg.Fatal(err, "health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		logg.Fatal(err, "failed to create redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	formRepo := postgres.NewFormRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  time.Duration(cfg.Outbox.PollIntervalSeconds) * time.Second,
			RetryAttempts: 3,
			RetryDelay:    time.Second,
			Retention:     time.Duration(cfg.Outbox.RetentionDays) * 24 * time.Hour,
		},
		logg,
		metrics.NewMetrics("clinic", "worker"),
	)

	compliance := internalworker.NewComplianceWorker(formRepo, broker, logg)

	setupHealthCheck(logg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logg.Info("shutting down workers")
		cancel()
	}()

	go func() {
		if err := compliance.Start(ctx); err != nil {
			logg.Error(err, "compliance worker stopped")
		}
	}()

	processor.Start(ctx)
}
