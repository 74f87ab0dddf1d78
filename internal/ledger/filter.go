package ledger

import "fmt"

type View string

const (
	ViewAll    View = "All"
	ViewOpen   View = "Open"
	ViewClosed View = "Closed"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewOpen, ViewClosed:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Filter reproduz os filtros da sidebar do Tracker.
// Listas vazias equivalem a "todos selecionados".
type Filter struct {
	View     View
	Sports   []Sport
	BetTypes []BetType
	Results  []Result
}

// Row é uma aposta exibida junto com sua posição no ledger
type Row struct {
	Index int
	Bet   Bet
}

func (f Filter) Match(b Bet) bool {
	switch f.View {
	case ViewOpen:
		if b.Result != ResultPending {
			return false
		}
	case ViewClosed:
		if b.Result == ResultPending {
			return false
		}
	}
	return contains(f.Sports, b.Sport) &&
		contains(f.BetTypes, b.BetType) &&
		contains(f.Results, b.Result)
}

// Apply devolve as apostas que passam no filtro, na ordem do ledger
func (f Filter) Apply(bets []Bet) []Row {
	rows := make([]Row, 0, len(bets))
	for i, b := range bets {
		if f.Match(b) {
			rows = append(rows, Row{Index: i, Bet: b})
		}
	}
	return rows
}

func contains[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
