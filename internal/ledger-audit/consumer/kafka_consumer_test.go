package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

type fakeRepo struct {
	seen  map[string]bool
	fails int // falhas antes do primeiro sucesso
	calls int
}

func (f *fakeRepo) Insert(ctx context.Context, e events.LedgerEvent) (bool, error) {
	f.calls++
	if f.fails > 0 {
		f.fails--
		return false, errors.New("connection reset")
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[e.EventID] {
		return false, nil
	}
	f.seen[e.EventID] = true
	return true, nil
}

type fakeDLQ struct {
	msgs []kafka.Message
}

func (f *fakeDLQ) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func message(t *testing.T, e events.LedgerEvent) kafka.Message {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(e.EventID), Value: b}
}

func settled(id string) events.LedgerEvent {
	return events.LedgerEvent{
		EventID:        id,
		Kind:           events.KindBetSettled,
		Position:       1,
		Bet:            &events.LedgerBet{Date: "2026-10-19", Sport: "NFL", Odds: "-110", Units: 1, Result: "win", Profit: 90.91},
		PreviousResult: "pending",
		UnitSize:       100,
		Ts:             time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandle_StoresOnceAndSkipsDuplicates(t *testing.T) {
	repo := &fakeRepo{}
	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop(), Repo: repo, DLQ: dlq}

	m := message(t, settled("evt-1"))
	require.NoError(t, p.Handle(context.Background(), m))
	require.NoError(t, p.Handle(context.Background(), m))

	assert.Len(t, repo.seen, 1)
	assert.Empty(t, dlq.msgs)
}

func TestHandle_RetriesThenSucceeds(t *testing.T) {
	repo := &fakeRepo{fails: 2}
	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop(), Repo: repo, DLQ: dlq, Retries: 3}

	require.NoError(t, p.Handle(context.Background(), message(t, settled("evt-2"))))
	assert.Equal(t, 3, repo.calls)
	assert.Empty(t, dlq.msgs)
}

func TestHandle_DeadLettersAfterRetries(t *testing.T) {
	repo := &fakeRepo{fails: 10}
	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop(), Repo: repo, DLQ: dlq, Retries: 2}

	err := p.Handle(context.Background(), message(t, settled("evt-3")))
	require.Error(t, err)
	assert.Equal(t, 3, repo.calls)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "evt-3", string(dlq.msgs[0].Key))
	assert.Equal(t, "error", dlq.msgs[0].Headers[0].Key)
}

func TestHandle_InvalidPayloadGoesToDLQ(t *testing.T) {
	repo := &fakeRepo{}
	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop(), Repo: repo, DLQ: dlq}

	err := p.Handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.ErrorIs(t, err, errInvalidEvent)

	err = p.Handle(context.Background(), kafka.Message{Value: []byte(`{"kind":"bet_recorded"}`)})
	assert.ErrorIs(t, err, errInvalidEvent)

	assert.Len(t, dlq.msgs, 2)
	assert.Zero(t, repo.calls)
}

func TestHandle_StopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &fakeRepo{fails: 10}
	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop(), Repo: repo, DLQ: dlq, Retries: 5, Backoff: time.Hour}

	err := p.Handle(ctx, message(t, settled("evt-4")))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, repo.calls)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "evt-4", string(dlq.msgs[0].Key))
}

type scriptedReader struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &fakeRepo{}
	reader := &scriptedReader{
		msgs:   []kafka.Message{message(t, settled("a")), message(t, settled("b"))},
		cancel: cancel,
	}
	p := &Processor{Log: zap.NewNop(), Reader: reader, Repo: repo}

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, repo.seen, 2)
}

type failingReader struct {
	calls int
}

func (r *failingReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.calls++
	return kafka.Message{}, errors.New("broker unreachable")
}

func TestRun_ReadErrorBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	reader := &failingReader{}
	p := &Processor{Log: zap.NewNop(), Reader: reader, Repo: &fakeRepo{}}

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, reader.calls)
}
