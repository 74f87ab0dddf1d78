package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/bet-tracker/internal/ledger"
	"github.com/radieske/bet-tracker/internal/shared/metrics"
)

var (
	// ErrUnavailable indica que o recurso de armazenamento não respondeu ou a escrita falhou
	ErrUnavailable = errors.New("ledger store unavailable")
	// ErrIndexOutOfRange indica posição inexistente no ledger
	ErrIndexOutOfRange = errors.New("ledger index out of range")
	// ErrCorrupt indica linha gravada que não decodifica como aposta válida
	ErrCorrupt = errors.New("ledger store corrupt")
)

// LedgerStore é a lista durável de apostas.
// A posição de cada aposta é o seu índice para UpdateAt e DeleteAt; assume-se
// que ninguém altera o store entre um LoadAll e a mutação seguinte.
type LedgerStore interface {
	LoadAll(ctx context.Context) ([]ledger.Bet, error)
	Append(ctx context.Context, b ledger.Bet) error
	UpdateAt(ctx context.Context, index int, b ledger.Bet) error
	DeleteAt(ctx context.Context, index int) error
	Ping(ctx context.Context) error
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

func corrupt(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCorrupt, what, err)
}

func outOfRange(index int) error {
	return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
}

// instrumented registra métricas de cada operação do store
type instrumented struct {
	backend string
	next    LedgerStore
}

// Instrument envolve o store com contadores e histogramas do Prometheus
func Instrument(backend string, s LedgerStore) LedgerStore {
	return &instrumented{backend: backend, next: s}
}

func (i *instrumented) LoadAll(ctx context.Context) (bets []ledger.Bet, err error) {
	defer func(start time.Time) { metrics.ObserveStore(i.backend, "load_all", start, err) }(time.Now())
	return i.next.LoadAll(ctx)
}

func (i *instrumented) Append(ctx context.Context, b ledger.Bet) (err error) {
	defer func(start time.Time) { metrics.ObserveStore(i.backend, "append", start, err) }(time.Now())
	return i.next.Append(ctx, b)
}

func (i *instrumented) UpdateAt(ctx context.Context, index int, b ledger.Bet) (err error) {
	defer func(start time.Time) { metrics.ObserveStore(i.backend, "update_at", start, err) }(time.Now())
	return i.next.UpdateAt(ctx, index, b)
}

func (i *instrumented) DeleteAt(ctx context.Context, index int) (err error) {
	defer func(start time.Time) { metrics.ObserveStore(i.backend, "delete_at", start, err) }(time.Now())
	return i.next.DeleteAt(ctx, index)
}

func (i *instrumented) Ping(ctx context.Context) error { return i.next.Ping(ctx) }

func (i *instrumented) Close() error { return i.next.Close() }
