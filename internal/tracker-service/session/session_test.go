package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/ledger"
	"github.com/radieske/bet-tracker/internal/store"
	"github.com/radieske/bet-tracker/internal/tracker-service/session"
	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

// memStore implementa store.LedgerStore em memória com falhas programáveis
type memStore struct {
	mu        sync.Mutex
	bets      []ledger.Bet
	loads     int
	failLoad  bool
	failWrite bool
}

func (m *memStore) LoadAll(ctx context.Context) ([]ledger.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.failLoad {
		return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
	}
	out := make([]ledger.Bet, len(m.bets))
	copy(out, m.bets)
	return out, nil
}

func (m *memStore) Append(ctx context.Context, b ledger.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("%w: write failed", store.ErrUnavailable)
	}
	m.bets = append(m.bets, b)
	return nil
}

func (m *memStore) UpdateAt(ctx context.Context, index int, b ledger.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("%w: write failed", store.ErrUnavailable)
	}
	if index < 0 || index >= len(m.bets) {
		return store.ErrIndexOutOfRange
	}
	m.bets[index] = b
	return nil
}

func (m *memStore) DeleteAt(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("%w: write failed", store.ErrUnavailable)
	}
	if index < 0 || index >= len(m.bets) {
		return store.ErrIndexOutOfRange
	}
	m.bets = append(m.bets[:index], m.bets[index+1:]...)
	return nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close() error                   { return nil }

type recordingPublisher struct {
	events []events.LedgerEvent
}

func (p *recordingPublisher) PublishLedgerEvent(ctx context.Context, e events.LedgerEvent) error {
	p.events = append(p.events, e)
	return nil
}

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func input(odds string, units float64, result ledger.Result) ledger.BetInput {
	return ledger.BetInput{
		Date:    today,
		Sport:   ledger.SportNHL,
		BetType: ledger.BetTypeStraight,
		BetLine: "Rangers ML",
		Odds:    odds,
		Units:   units,
		Result:  result,
	}
}

func newSession(t *testing.T, st *memStore) (*session.Session, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	s := session.New(zap.NewNop(), st, pub, 100)
	require.NoError(t, s.Load(context.Background()))
	return s, pub
}

func TestLoad_FailureIsSurfaced(t *testing.T) {
	st := &memStore{failLoad: true}
	s := session.New(zap.NewNop(), st, nil, 100)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrUnavailable)

	_, err = s.Summary(context.Background(), today)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestAdd(t *testing.T) {
	st := &memStore{}
	s, pub := newSession(t, st)

	var notified []string
	s.OnChange(func(kind string) { notified = append(notified, kind) })

	idx, b, err := s.Add(context.Background(), input("2.5x", 2, ledger.ResultWin))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 300, b.Profit, 1e-9)
	assert.Equal(t, "2.5x", b.Odds)

	require.Len(t, st.bets, 1)
	assert.Equal(t, b, st.bets[0])

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.KindBetRecorded, pub.events[0].Kind)
	assert.Equal(t, "2026-10-19", pub.events[0].Bet.Date)
	assert.Equal(t, []string{events.KindBetRecorded}, notified)
}

func TestAdd_InvalidOddsCreatesNothing(t *testing.T) {
	st := &memStore{}
	s, pub := newSession(t, st)

	_, _, err := s.Add(context.Background(), input("abc", 1, ledger.ResultPending))
	assert.ErrorIs(t, err, ledger.ErrInvalidOdds)
	assert.Empty(t, st.bets)
	assert.Empty(t, pub.events)

	bets, err := s.Bets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestAdd_StoreFailureMarksStale(t *testing.T) {
	st := &memStore{}
	s, pub := newSession(t, st)
	loadsBefore := st.loads

	st.failWrite = true
	_, _, err := s.Add(context.Background(), input("-110", 1, ledger.ResultPending))
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Empty(t, pub.events)

	st.failWrite = false
	bets, err := s.Bets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bets)
	assert.Equal(t, loadsBefore+1, st.loads)
}

func TestStaleReloadFailureIsSurfaced(t *testing.T) {
	st := &memStore{}
	s, _ := newSession(t, st)

	st.failWrite = true
	_, _, err := s.Add(context.Background(), input("-110", 1, ledger.ResultPending))
	require.Error(t, err)

	st.failLoad = true
	_, err = s.Rows(context.Background(), ledger.Filter{})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestUpdateResult(t *testing.T) {
	st := &memStore{}
	s, pub := newSession(t, st)

	_, _, err := s.Add(context.Background(), input("+150", 1, ledger.ResultPending))
	require.NoError(t, err)

	b, err := s.UpdateResult(context.Background(), 0, ledger.ResultWin)
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultWin, b.Result)
	assert.InDelta(t, 150, b.Profit, 1e-9)
	assert.Equal(t, b, st.bets[0])

	require.Len(t, pub.events, 2)
	last := pub.events[1]
	assert.Equal(t, events.KindBetSettled, last.Kind)
	assert.Equal(t, "pending", last.PreviousResult)
	assert.Equal(t, "win", last.Bet.Result)

	_, err = s.UpdateResult(context.Background(), 3, ledger.ResultLoss)
	assert.ErrorIs(t, err, store.ErrIndexOutOfRange)

	_, err = s.UpdateResult(context.Background(), 0, ledger.Result("void"))
	assert.ErrorIs(t, err, ledger.ErrUnknownResult)
}

func TestDelete_ShiftsPositions(t *testing.T) {
	st := &memStore{}
	s, _ := newSession(t, st)

	for _, line := range []string{"a", "b", "c"} {
		in := input("-110", 1, ledger.ResultPending)
		in.BetLine = line
		_, _, err := s.Add(context.Background(), in)
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(context.Background(), 1))

	rows, err := s.Rows(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Bet.BetLine)
	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, "c", rows[1].Bet.BetLine)

	assert.ErrorIs(t, s.Delete(context.Background(), 2), store.ErrIndexOutOfRange)
}

func TestUnitSize(t *testing.T) {
	st := &memStore{}
	s, _ := newSession(t, st)

	_, _, err := s.Add(context.Background(), input("2.0", 1, ledger.ResultWin))
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetUnitSize(0), session.ErrInvalidUnitSize)
	require.NoError(t, s.SetUnitSize(50))
	assert.Equal(t, 50.0, s.UnitSize())

	bets, err := s.Bets(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100, bets[0].Profit, 1e-9)

	b, err := s.UpdateResult(context.Background(), 0, ledger.ResultWin)
	require.NoError(t, err)
	assert.InDelta(t, 50, b.Profit, 1e-9)
}

func TestSummaryAndCalendar(t *testing.T) {
	st := &memStore{}
	s, _ := newSession(t, st)

	for _, in := range []ledger.BetInput{
		input("-110", 2, ledger.ResultPending),
		input("-110", 1.5, ledger.ResultPending),
		input("2.0", 1, ledger.ResultWin),
		input("2.0", 1, ledger.ResultLoss),
	} {
		_, _, err := s.Add(context.Background(), in)
		require.NoError(t, err)
	}

	sum, err := s.Summary(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Counts.Open)
	assert.InDelta(t, 350, sum.Counts.OpenExposure, 1e-9)
	assert.InDelta(t, 50, sum.WinRatePct, 1e-9)
	assert.Equal(t, "L1", sum.Streaks.Current)

	cal, err := s.Calendar(context.Background(), 2026, time.October)
	require.NoError(t, err)
	assert.InDelta(t, 0, cal.DayTotal(19), 1e-9)
	assert.InDelta(t, 0, cal.Total, 1e-9)
}
