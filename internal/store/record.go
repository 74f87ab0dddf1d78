package store

import (
	"fmt"

	"github.com/radieske/bet-tracker/internal/ledger"
)

// record é a linha persistida, uma coluna por campo da aposta
// (date, sport, bet_type, bet_line, odds, units, result, profit)
type record struct {
	Date    string  `json:"date" yaml:"date"`
	Sport   string  `json:"sport" yaml:"sport"`
	BetType string  `json:"bet_type" yaml:"bet_type"`
	BetLine string  `json:"bet_line" yaml:"bet_line"`
	Odds    string  `json:"odds" yaml:"odds"`
	Units   float64 `json:"units" yaml:"units"`
	Result  string  `json:"result" yaml:"result"`
	Profit  float64 `json:"profit" yaml:"profit"`
}

func toRecord(b ledger.Bet) record {
	return record{
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

func (r record) bet() (ledger.Bet, error) {
	date, err := ledger.ParseDate(r.Date)
	if err != nil {
		return ledger.Bet{}, err
	}
	sport, err := ledger.ParseSport(r.Sport)
	if err != nil {
		return ledger.Bet{}, err
	}
	betType, err := ledger.ParseBetType(r.BetType)
	if err != nil {
		return ledger.Bet{}, err
	}
	result, err := ledger.ParseResult(r.Result)
	if err != nil {
		return ledger.Bet{}, err
	}
	if r.Units <= 0 {
		return ledger.Bet{}, fmt.Errorf("%w: %v", ledger.ErrInvalidUnits, r.Units)
	}

	return ledger.Bet{
		Date:    date,
		Sport:   sport,
		BetType: betType,
		BetLine: r.BetLine,
		Odds:    r.Odds,
		Units:   r.Units,
		Result:  result,
		Profit:  r.Profit,
	}, nil
}

func decodeRecords(recs []record) ([]ledger.Bet, error) {
	bets := make([]ledger.Bet, 0, len(recs))
	for i, r := range recs {
		b, err := r.bet()
		if err != nil {
			return nil, corrupt(fmt.Sprintf("decode row %d", i), err)
		}
		bets = append(bets, b)
	}
	return bets, nil
}
