package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/ledger-audit/consumer"
	"github.com/radieske/bet-tracker/internal/ledger-audit/repository"
	"github.com/radieske/bet-tracker/internal/shared/config"
	"github.com/radieske/bet-tracker/internal/shared/db"
	"github.com/radieske/bet-tracker/internal/shared/kafka"
	"github.com/radieske/bet-tracker/internal/shared/logger"
	"github.com/radieske/bet-tracker/internal/shared/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required for the audit worker")
	}

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres para a trilha de auditoria
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	repo := repository.NewPostgresRepo(pg)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Kafka consumer (consumer group ledger-audit) e DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicLedgerEvents, "ledger-audit")
	defer reader.Close()

	var dlq *kafka.Writer
	if cfg.TopicLedgerEventDLQ != "" {
		dlq = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicLedgerEventDLQ)
		defer dlq.Close()
	}

	proc := &consumer.Processor{
		Log:     log,
		Reader:  reader,
		Repo:    repo,
		Retries: 3,
		Backoff: 300 * time.Millisecond,
	}
	if dlq != nil {
		proc.DLQ = dlq
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, pg.PingContext)
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	log.Info("ledger-audit-worker started",
		zap.String("consume", cfg.TopicLedgerEvents),
		zap.String("dlq", cfg.TopicLedgerEventDLQ),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("processor stopped with error", zap.Error(err))
	}
	log.Info("ledger-audit-worker stopped")
}
