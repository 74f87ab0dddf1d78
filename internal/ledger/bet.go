package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout é o formato usado para datas de aposta em todos os adaptadores
const DateLayout = "2006-01-02"

// MinEntryUnits é o menor stake aceito no cadastro de uma aposta
const MinEntryUnits = 0.5

var (
	ErrInvalidOdds    = errors.New("invalid odds")
	ErrInvalidUnits   = errors.New("invalid units")
	ErrUnknownSport   = errors.New("unknown sport")
	ErrUnknownBetType = errors.New("unknown bet type")
	ErrUnknownResult  = errors.New("unknown result")
	ErrInvalidDate    = errors.New("invalid date")
)

type Sport string

const (
	SportNBA   Sport = "NBA"
	SportNHL   Sport = "NHL"
	SportNFL   Sport = "NFL"
	SportMLB   Sport = "MLB"
	SportOther Sport = "Other"
)

// Sports lista os esportes na ordem exibida pelo dashboard
var Sports = []Sport{SportNBA, SportNHL, SportNFL, SportMLB, SportOther}

func (s Sport) Valid() bool {
	for _, v := range Sports {
		if s == v {
			return true
		}
	}
	return false
}

func ParseSport(s string) (Sport, error) {
	sp := Sport(strings.TrimSpace(s))
	if !sp.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
	}
	return sp, nil
}

type BetType string

const (
	BetTypeStraight BetType = "Straight"
	BetTypeParlay   BetType = "Parlay"
)

var BetTypes = []BetType{BetTypeStraight, BetTypeParlay}

func (t BetType) Valid() bool {
	return t == BetTypeStraight || t == BetTypeParlay
}

func ParseBetType(s string) (BetType, error) {
	t := BetType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBetType, s)
	}
	return t, nil
}

type Result string

const (
	ResultPending Result = "pending"
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
	ResultPush    Result = "push"
)

var Results = []Result{ResultPending, ResultWin, ResultLoss, ResultPush}

func (r Result) Valid() bool {
	switch r {
	case ResultPending, ResultWin, ResultLoss, ResultPush:
		return true
	}
	return false
}

// Settled indica win, loss ou push
func (r Result) Settled() bool {
	return r.Valid() && r != ResultPending
}

func ParseResult(s string) (Result, error) {
	r := Result(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResult, s)
	}
	return r, nil
}

// Bet é o único registro do ledger.
// Profit é derivado de (Units, Odds, Result, unit size) e só é recalculado
// quando o resultado muda.
type Bet struct {
	Date    time.Time
	Sport   Sport
	BetType BetType
	BetLine string
	Odds    string // texto original, preservado para exibição e reparse
	Units   float64
	Result  Result
	Profit  float64
}

// BetInput representa os campos do formulário "Add Bet"
type BetInput struct {
	Date    time.Time
	Sport   Sport
	BetType BetType
	BetLine string
	Odds    string
	Units   float64
	Result  Result
}

// NewBet valida a entrada e constrói a aposta com o profit já calculado.
// Nenhum registro parcial é criado: qualquer erro de validação devolve Bet vazio.
func NewBet(in BetInput, unitSize float64) (Bet, error) {
	if in.Date.IsZero() {
		return Bet{}, ErrInvalidDate
	}
	if !in.Sport.Valid() {
		return Bet{}, fmt.Errorf("%w: %q", ErrUnknownSport, in.Sport)
	}
	if !in.BetType.Valid() {
		return Bet{}, fmt.Errorf("%w: %q", ErrUnknownBetType, in.BetType)
	}
	if in.Result == "" {
		in.Result = ResultPending
	}
	if !in.Result.Valid() {
		return Bet{}, fmt.Errorf("%w: %q", ErrUnknownResult, in.Result)
	}
	if in.Units < MinEntryUnits {
		return Bet{}, fmt.Errorf("%w: %v (min %v)", ErrInvalidUnits, in.Units, MinEntryUnits)
	}

	profit, err := ProfitFor(in.Units, in.Odds, in.Result, unitSize)
	if err != nil {
		return Bet{}, err
	}

	return Bet{
		Date:    Day(in.Date),
		Sport:   in.Sport,
		BetType: in.BetType,
		BetLine: in.BetLine,
		Odds:    in.Odds,
		Units:   in.Units,
		Result:  in.Result,
		Profit:  profit,
	}, nil
}

// Settle devolve uma cópia da aposta com o novo resultado e profit recalculado
func (b Bet) Settle(result Result, unitSize float64) (Bet, error) {
	if !result.Valid() {
		return Bet{}, fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}
	profit, err := ProfitFor(b.Units, b.Odds, result, unitSize)
	if err != nil {
		return Bet{}, err
	}
	b.Result = result
	b.Profit = profit
	return b, nil
}

// Risk é o valor em dinheiro apostado (units * unit size)
func (b Bet) Risk(unitSize float64) float64 {
	return b.Units * unitSize
}

// Day normaliza um instante para a meia-noite UTC do mesmo dia civil
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
