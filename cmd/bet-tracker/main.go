package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/shared/config"
	"github.com/radieske/bet-tracker/internal/shared/logger"
	"github.com/radieske/bet-tracker/internal/shared/metrics"
	"github.com/radieske/bet-tracker/internal/store"
	thttp "github.com/radieske/bet-tracker/internal/tracker-service/http"
	"github.com/radieske/bet-tracker/internal/tracker-service/producer"
	"github.com/radieske/bet-tracker/internal/tracker-service/session"
)

func main() {
	_ = godotenv.Load() // .env é opcional

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Store do ledger conforme LEDGER_BACKEND
	ledgerStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("ledger store", zap.String("backend", cfg.LedgerBackend), zap.Error(err))
	}
	defer ledgerStore.Close()

	// Publicação de eventos do ledger (desligada sem KAFKA_BROKERS)
	publ, closePubl := producer.New(cfg.KafkaBrokers, cfg.TopicLedgerEvents)
	defer closePubl()
	if cfg.KafkaEnabled() {
		log.Info("ledger events enabled", zap.String("topic", cfg.TopicLedgerEvents))
	}

	// Sessão: falha no carregamento inicial não vira ledger vazio
	sess := session.New(log, ledgerStore, publ, cfg.UnitSize)
	if err := sess.Load(ctx); err != nil {
		log.Fatal("ledger load", zap.Error(err))
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, sess.Ping)

	// HTTP público (dashboard)
	api := thttp.NewServer(log, sess, cfg.CORSOrigins)
	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("bet-tracker listening",
			zap.String("addr", apiSrv.Addr),
			zap.String("backend", cfg.LedgerBackend),
			zap.Float64("unit_size", cfg.UnitSize),
		)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
