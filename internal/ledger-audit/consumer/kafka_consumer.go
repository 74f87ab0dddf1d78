package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/shared/metrics"
	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

var errInvalidEvent = errors.New("invalid ledger event")

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// AuditWriter persiste um evento; false = já gravado (reentrega)
type AuditWriter interface {
	Insert(ctx context.Context, e events.LedgerEvent) (bool, error)
}

// Processor consome ledger_events e grava a trilha de auditoria.
// Mensagens inválidas ou que falham após as tentativas vão para a DLQ.
type Processor struct {
	Log    *zap.Logger
	Reader messageReader
	Repo   AuditWriter
	DLQ    messageWriter // opcional

	Retries int           // tentativas extras de gravação
	Backoff time.Duration // espera base entre tentativas
}

// Run inicia o loop principal de consumo até o contexto ser cancelado
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			metrics.AuditEvents.WithLabelValues("unknown", "read_error").Inc()
			if err := sleepCtx(ctx, 500*time.Millisecond); err != nil {
				return err
			}
			continue
		}

		if err := p.Handle(ctx, m); err != nil {
			p.Log.Error("ledger event dead-lettered", zap.ByteString("key", m.Key), zap.Error(err))
		}
	}
}

// Handle processa uma mensagem; erro significa que ela foi para a DLQ
func (p *Processor) Handle(ctx context.Context, m kafka.Message) error {
	var ev events.LedgerEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return p.deadLetter(ctx, m, "unknown", fmt.Errorf("%w: %w", errInvalidEvent, err))
	}
	if ev.EventID == "" || ev.Kind == "" {
		return p.deadLetter(ctx, m, "unknown", fmt.Errorf("%w: missing event_id or kind", errInvalidEvent))
	}

	var (
		inserted bool
		err      error
	)
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			if cerr := sleepCtx(ctx, time.Duration(attempt)*p.Backoff); cerr != nil {
				// o offset já foi lido; a mensagem só não se perde se for para a DLQ
				dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				return p.deadLetter(dctx, m, ev.Kind, fmt.Errorf("retry aborted: %w: %w", cerr, err))
			}
		}
		if inserted, err = p.Repo.Insert(ctx, ev); err == nil {
			break
		}
		p.Log.Warn("audit insert failed", zap.String("event_id", ev.EventID), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	if err != nil {
		return p.deadLetter(ctx, m, ev.Kind, err)
	}

	outcome := "stored"
	if !inserted {
		outcome = "duplicate"
	}
	metrics.AuditEvents.WithLabelValues(ev.Kind, outcome).Inc()
	p.Log.Debug("ledger event audited",
		zap.String("event_id", ev.EventID),
		zap.String("kind", ev.Kind),
		zap.Int("index", ev.Position),
		zap.String("outcome", outcome),
	)
	return nil
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, kind string, cause error) error {
	metrics.AuditEvents.WithLabelValues(kind, "dead_letter").Inc()
	if p.DLQ == nil {
		return cause
	}
	dlq := kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(cause.Error())},
		},
	}
	if err := p.DLQ.WriteMessages(ctx, dlq); err != nil {
		return fmt.Errorf("%w (dlq write: %v)", cause, err)
	}
	return cause
}

// sleepCtx espera d ou até o contexto ser cancelado
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
