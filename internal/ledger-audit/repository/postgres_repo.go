package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

// PostgresRepo grava a trilha de auditoria do ledger (tabela ledger_audit)
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

func (r *PostgresRepo) Migrate(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS ledger_audit (
			event_id        TEXT PRIMARY KEY,
			kind            TEXT NOT NULL,
			position        INTEGER NOT NULL,
			bet             JSONB,
			previous_result TEXT NOT NULL DEFAULT '',
			unit_size       DOUBLE PRECISION NOT NULL,
			ts              TIMESTAMPTZ NOT NULL,
			recorded_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate ledger_audit: %w", err)
	}
	return nil
}

// Insert é idempotente por event_id: reentregas do Kafka não duplicam linhas.
// Devolve false quando o evento já estava gravado.
func (r *PostgresRepo) Insert(ctx context.Context, e events.LedgerEvent) (bool, error) {
	var bet []byte
	if e.Bet != nil {
		b, err := json.Marshal(e.Bet)
		if err != nil {
			return false, fmt.Errorf("marshal bet: %w", err)
		}
		bet = b
	}

	const q = `
		INSERT INTO ledger_audit
		  (event_id, kind, position, bet, previous_result, unit_size, ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (event_id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q,
		e.EventID, e.Kind, e.Position, nullableJSON(bet), e.PreviousResult, e.UnitSize, e.Ts,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
