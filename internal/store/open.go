package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/shared/cache"
	"github.com/radieske/bet-tracker/internal/shared/config"
	"github.com/radieske/bet-tracker/internal/shared/db"
)

// Open conecta o backend escolhido em LEDGER_BACKEND e devolve o store instrumentado
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (LedgerStore, error) {
	var s LedgerStore

	backend := cfg.LedgerBackend
	if backend == "" {
		backend = config.BackendYAML
	}

	switch backend {
	case config.BackendPostgres:
		conn, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		sqlStore := NewSQL(conn, DialectPostgres)
		if err := sqlStore.Migrate(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		s = sqlStore

	case config.BackendSQLite:
		conn, err := db.ConnectSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		sqlStore := NewSQL(conn, DialectSQLite)
		if err := sqlStore.Migrate(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		s = sqlStore

	case config.BackendRedis:
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		s = NewRedis(rdb, cfg.RedisLedgerKey)

	case config.BackendYAML:
		s = NewYAMLFile(cfg.LedgerFile)

	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}

	log.Info("ledger store ready", zap.String("backend", backend))
	return Instrument(backend, s), nil
}
