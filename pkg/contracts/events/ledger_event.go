package events

import "time"

// Tipos de evento publicados no tópico "ledger_events"
const (
	KindBetRecorded = "bet_recorded"
	KindBetSettled  = "bet_settled"
	KindBetDeleted  = "bet_deleted"
)

// LedgerBet é a forma serializada de uma aposta nos eventos
type LedgerBet struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Sport   string  `json:"sport"`
	BetType string  `json:"bet_type"`
	BetLine string  `json:"bet_line"`
	Odds    string  `json:"odds"`
	Units   float64 `json:"units"`
	Result  string  `json:"result"`
	Profit  float64 `json:"profit"`
}

// LedgerEvent é emitido pelo bet-tracker após cada mutação confirmada no store
type LedgerEvent struct {
	EventID        string     `json:"event_id"`
	Kind           string     `json:"kind"`
	Position       int        `json:"position"` // índice da aposta no ledger no momento da mutação
	Bet            *LedgerBet `json:"bet,omitempty"`
	PreviousResult string     `json:"previous_result,omitempty"` // só em bet_settled
	UnitSize       float64    `json:"unit_size"`
	Ts             time.Time  `json:"ts"`
}
