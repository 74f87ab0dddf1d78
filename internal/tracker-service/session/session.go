package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/ledger"
	"github.com/radieske/bet-tracker/internal/shared/metrics"
	"github.com/radieske/bet-tracker/internal/store"
	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

// ErrInvalidUnitSize indica valor por unit zero, negativo ou ausente
var ErrInvalidUnitSize = errors.New("unit size must be positive")

// Publisher publica eventos do ledger após cada mutação confirmada no store
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, e events.LedgerEvent) error
}

// Listener é chamado depois de cada mutação, fora do lock da sessão
type Listener func(kind string)

// Session é dona do ledger em memória, do unit size e do store.
// Toda interação é serializada pelo mutex; o store é escrito antes da memória.
type Session struct {
	log   *zap.Logger
	store store.LedgerStore
	publ  Publisher

	mu       sync.Mutex
	bets     []ledger.Bet
	unitSize float64
	loaded   bool
	stale    bool // escrita falhou: memória não é confiável até o próximo load

	lmu       sync.RWMutex
	listeners []Listener
}

func New(log *zap.Logger, s store.LedgerStore, p Publisher, unitSize float64) *Session {
	if unitSize <= 0 {
		unitSize = 100
	}
	return &Session{log: log, store: s, publ: p, unitSize: unitSize}
}

// OnChange registra um listener de mutações
func (s *Session) OnChange(l Listener) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, l)
	s.lmu.Unlock()
}

// Load substitui o ledger em memória pelo conteúdo do store.
// Em caso de falha a sessão não inicia com ledger vazio: o erro é devolvido.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

func (s *Session) reload(ctx context.Context) error {
	bets, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("ledger load failed", zap.Error(err))
		return fmt.Errorf("load ledger: %w", err)
	}
	s.bets = bets
	s.loaded = true
	s.stale = false
	s.refreshGauges()
	s.log.Debug("ledger loaded", zap.Int("bets", len(bets)))
	return nil
}

// ensureFresh recarrega quando nunca carregou ou após uma escrita com falha
func (s *Session) ensureFresh(ctx context.Context) error {
	if s.loaded && !s.stale {
		return nil
	}
	return s.reload(ctx)
}

func (s *Session) UnitSize() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unitSize
}

// SetUnitSize vale para cálculos novos; profits já gravados não são recalculados
func (s *Session) SetUnitSize(v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidUnitSize, v)
	}
	s.mu.Lock()
	s.unitSize = v
	s.refreshGauges()
	s.mu.Unlock()

	s.log.Info("unit size changed", zap.Float64("unit_size", v))
	return nil
}

// Bets devolve uma cópia do ledger na ordem do store
func (s *Session) Bets(ctx context.Context) ([]ledger.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	out := make([]ledger.Bet, len(s.bets))
	copy(out, s.bets)
	return out, nil
}

func (s *Session) Summary(ctx context.Context, today time.Time) (ledger.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFresh(ctx); err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(s.bets, today, s.unitSize), nil
}

func (s *Session) Calendar(ctx context.Context, year int, month time.Month) (ledger.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFresh(ctx); err != nil {
		return ledger.Calendar{}, err
	}
	return ledger.MonthTotals(s.bets, year, month), nil
}

func (s *Session) Rows(ctx context.Context, f ledger.Filter) ([]ledger.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return f.Apply(s.bets), nil
}

// Add valida, grava no store e só então acrescenta à memória.
// Devolve a posição da nova aposta no ledger.
func (s *Session) Add(ctx context.Context, in ledger.BetInput) (int, ledger.Bet, error) {
	s.mu.Lock()
	if err := s.ensureFresh(ctx); err != nil {
		s.mu.Unlock()
		return 0, ledger.Bet{}, err
	}
	unitSize := s.unitSize

	b, err := ledger.NewBet(in, unitSize)
	if err != nil {
		s.mu.Unlock()
		metrics.ValidationRejections.WithLabelValues(rejectionReason(err)).Inc()
		s.log.Warn("bet rejected", zap.String("sport", string(in.Sport)), zap.String("odds", in.Odds), zap.Error(err))
		return 0, ledger.Bet{}, err
	}

	if err := s.store.Append(ctx, b); err != nil {
		s.stale = true
		s.mu.Unlock()
		s.log.Error("append bet failed", zap.Error(err))
		return 0, ledger.Bet{}, err
	}
	s.bets = append(s.bets, b)
	index := len(s.bets) - 1
	s.refreshGauges()
	s.mu.Unlock()

	s.log.Info("bet recorded",
		zap.Int("index", index),
		zap.String("sport", string(b.Sport)),
		zap.String("result", string(b.Result)),
		zap.Float64("profit", b.Profit),
	)
	s.emit(ctx, events.LedgerEvent{Kind: events.KindBetRecorded, Position: index, Bet: eventBet(b), UnitSize: unitSize})
	return index, b, nil
}

// UpdateResult troca o resultado e recalcula o profit; o registro inteiro é regravado
func (s *Session) UpdateResult(ctx context.Context, index int, result ledger.Result) (ledger.Bet, error) {
	s.mu.Lock()
	if err := s.ensureFresh(ctx); err != nil {
		s.mu.Unlock()
		return ledger.Bet{}, err
	}
	if index < 0 || index >= len(s.bets) {
		s.mu.Unlock()
		return ledger.Bet{}, fmt.Errorf("%w: %d", store.ErrIndexOutOfRange, index)
	}
	unitSize := s.unitSize
	prev := s.bets[index]

	updated, err := prev.Settle(result, unitSize)
	if err != nil {
		s.mu.Unlock()
		metrics.ValidationRejections.WithLabelValues(rejectionReason(err)).Inc()
		return ledger.Bet{}, err
	}

	if err := s.store.UpdateAt(ctx, index, updated); err != nil {
		s.stale = true
		s.mu.Unlock()
		s.log.Error("update bet failed", zap.Int("index", index), zap.Error(err))
		return ledger.Bet{}, err
	}
	s.bets[index] = updated
	s.refreshGauges()
	s.mu.Unlock()

	s.log.Info("bet settled",
		zap.Int("index", index),
		zap.String("previous", string(prev.Result)),
		zap.String("result", string(updated.Result)),
		zap.Float64("profit", updated.Profit),
	)
	s.emit(ctx, events.LedgerEvent{
		Kind:           events.KindBetSettled,
		Position:       index,
		Bet:            eventBet(updated),
		PreviousResult: string(prev.Result),
		UnitSize:       unitSize,
	})
	return updated, nil
}

// Delete remove a aposta; as posições seguintes deslocam uma casa
func (s *Session) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	if err := s.ensureFresh(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	if index < 0 || index >= len(s.bets) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", store.ErrIndexOutOfRange, index)
	}
	unitSize := s.unitSize
	removed := s.bets[index]

	if err := s.store.DeleteAt(ctx, index); err != nil {
		s.stale = true
		s.mu.Unlock()
		s.log.Error("delete bet failed", zap.Int("index", index), zap.Error(err))
		return err
	}
	s.bets = append(s.bets[:index], s.bets[index+1:]...)
	s.refreshGauges()
	s.mu.Unlock()

	s.log.Info("bet deleted", zap.Int("index", index), zap.String("sport", string(removed.Sport)))
	s.emit(ctx, events.LedgerEvent{Kind: events.KindBetDeleted, Position: index, Bet: eventBet(removed), UnitSize: unitSize})
	return nil
}

// Ping verifica o store; usado pelo /healthz
func (s *Session) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// emit publica o evento e avisa os listeners; falha de publicação não desfaz a mutação
func (s *Session) emit(ctx context.Context, e events.LedgerEvent) {
	metrics.LedgerMutations.WithLabelValues(e.Kind).Inc()

	if s.publ != nil {
		if err := s.publ.PublishLedgerEvent(ctx, e); err != nil {
			s.log.Warn("publish ledger event", zap.String("kind", e.Kind), zap.Int("index", e.Position), zap.Error(err))
		}
	}

	s.lmu.RLock()
	ls := s.listeners
	s.lmu.RUnlock()
	for _, l := range ls {
		l(e.Kind)
	}
}

// refreshGauges deve ser chamado com s.mu travado
func (s *Session) refreshGauges() {
	c := ledger.StatusCounts(s.bets, s.unitSize)
	metrics.OpenBets.Set(float64(c.Open))
	metrics.OpenExposure.Set(c.OpenExposure)
}

func eventBet(b ledger.Bet) *events.LedgerBet {
	return &events.LedgerBet{
		Date:    ledger.FormatDate(b.Date),
		Sport:   string(b.Sport),
		BetType: string(b.BetType),
		BetLine: b.BetLine,
		Odds:    b.Odds,
		Units:   b.Units,
		Result:  string(b.Result),
		Profit:  b.Profit,
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidOdds):
		return "odds"
	case errors.Is(err, ledger.ErrInvalidUnits):
		return "units"
	case errors.Is(err, ledger.ErrUnknownSport):
		return "sport"
	case errors.Is(err, ledger.ErrUnknownBetType):
		return "bet_type"
	case errors.Is(err, ledger.ErrUnknownResult):
		return "result"
	case errors.Is(err, ledger.ErrInvalidDate):
		return "date"
	}
	return "other"
}
