package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Faixa de odds decimais: [1.01, 10)
const (
	minDecimalOdds = 1.01
	maxDecimalOdds = 10
)

// ParseOdds converte o texto de odds em número.
// Aceita "2.5", "2.5x", "2.5X", " +150 ", "-110".
func ParseOdds(text string) (float64, error) {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "x", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidOdds)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOdds, text)
	}
	return v, nil
}

// ComputeProfit calcula o profit em units.
// A ordem dos casos importa: a faixa decimal é testada antes das regras americanas.
func ComputeProfit(units, odds float64, result Result) float64 {
	decimal := odds >= minDecimalOdds && odds < maxDecimalOdds

	switch {
	case result == ResultPending:
		return 0
	case decimal && result == ResultWin:
		return units * (odds - 1)
	case decimal && result == ResultLoss:
		return -units
	case result == ResultWin && odds > 0:
		return units * (odds / 100)
	case result == ResultWin && odds < 0:
		return units * (100 / math.Abs(odds))
	case result == ResultLoss:
		return -units
	default:
		// push, ou win com odds == 0
		return 0
	}
}

// ProfitFor faz parse das odds e devolve o profit em dinheiro
func ProfitFor(units float64, oddsText string, result Result, unitSize float64) (float64, error) {
	odds, err := ParseOdds(oddsText)
	if err != nil {
		return 0, err
	}
	return ComputeProfit(units, odds, result) * unitSize, nil
}
