package dto

// AddBetRequest corresponde ao formulário "Add Bet"
type AddBetRequest struct {
	Date    string  `json:"date"` // YYYY-MM-DD; vazio = hoje
	Sport   string  `json:"sport"`
	BetType string  `json:"bet_type"`
	BetLine string  `json:"bet_line"`
	Odds    string  `json:"odds"` // "-110", "+150", "2.5x"
	Units   float64 `json:"units"`
	Result  string  `json:"result"` // vazio = pending
}

type UpdateResultRequest struct {
	Result string `json:"result"`
}

type SettingsRequest struct {
	UnitSize float64 `json:"unit_size"`
}
