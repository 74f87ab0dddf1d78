package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-tracker/internal/ledger"
)

// Tons de exibição de valores em dinheiro
const (
	TonePositive = "positive"
	ToneNegative = "negative"
	ToneNeutral  = "neutral"
)

// ErrorResponse é o corpo de qualquer resposta de erro da API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

type BetRow struct {
	Index   int     `json:"index"`
	Date    string  `json:"date"`
	Sport   string  `json:"sport"`
	BetType string  `json:"bet_type"`
	BetLine string  `json:"bet_line"`
	Odds    string  `json:"odds"`
	Units   float64 `json:"units"`
	Result  string  `json:"result"`
	Profit  float64 `json:"profit"`
	Display string  `json:"profit_display"`
	Tone    string  `json:"tone"`
}

type CountsView struct {
	Open         int     `json:"open"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	OpenExposure float64 `json:"open_exposure"`
}

type WindowsView struct {
	Today     float64 `json:"today"`
	Last7Days float64 `json:"last_7_days"`
	Last30    float64 `json:"last_30_days"`
}

type SummaryView struct {
	Counts        CountsView     `json:"counts"`
	Windows       WindowsView    `json:"windows"`
	WinRatePct    float64        `json:"win_rate_pct"`
	ROIPct        float64        `json:"roi_pct"`
	SettledProfit float64        `json:"settled_profit"`
	SettledRisk   float64        `json:"settled_risk"`
	Streaks       ledger.Streaks `json:"streaks"`
}

type TrackerResponse struct {
	UnitSize float64     `json:"unit_size"`
	Summary  SummaryView `json:"summary"`
	Rows     []BetRow    `json:"rows"`
}

type CalendarCell struct {
	Day    int     `json:"day"` // 0 = célula vazia
	Profit float64 `json:"profit"`
	Tone   string  `json:"tone"`
}

type CalendarResponse struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	MonthName string           `json:"month_name"`
	Total     float64          `json:"total"`
	Tone      string           `json:"tone"`
	Weeks     [][]CalendarCell `json:"weeks"`
}

type SettingsResponse struct {
	UnitSize float64 `json:"unit_size"`
}

// Money arredonda um valor em dólar para centavos
func Money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Pct arredonda percentuais para uma casa, como o dashboard exibe
func Pct(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// Tone classifica o valor já arredondado em centavos
func Tone(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	switch d.Sign() {
	case 1:
		return TonePositive
	case -1:
		return ToneNegative
	}
	return ToneNeutral
}

// SignedDollars formata "+$90.91", "-$100.00" ou "$0.00"
func SignedDollars(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	switch d.Sign() {
	case 1:
		return "+$" + d.StringFixed(2)
	case -1:
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$0.00"
}

func NewBetRow(r ledger.Row) BetRow {
	b := r.Bet
	return BetRow{
		Index:   r.Index,
		Date:    ledger.FormatDate(b.Date),
		Sport:   string(b.Sport),
		BetType: string(b.BetType),
		BetLine: b.BetLine,
		Odds:    b.Odds,
		Units:   b.Units,
		Result:  string(b.Result),
		Profit:  Money(b.Profit),
		Display: SignedDollars(b.Profit),
		Tone:    Tone(b.Profit),
	}
}

func NewSummaryView(s ledger.Summary) SummaryView {
	return SummaryView{
		Counts: CountsView{
			Open:         s.Counts.Open,
			Wins:         s.Counts.Wins,
			Losses:       s.Counts.Losses,
			Pushes:       s.Counts.Pushes,
			OpenExposure: Money(s.Counts.OpenExposure),
		},
		Windows: WindowsView{
			Today:     Money(s.Windows.Today),
			Last7Days: Money(s.Windows.Last7Days),
			Last30:    Money(s.Windows.Last30),
		},
		WinRatePct:    Pct(s.WinRatePct),
		ROIPct:        Pct(s.ROIPct),
		SettledProfit: Money(s.SettledProfit),
		SettledRisk:   Money(s.SettledRisk),
		Streaks:       s.Streaks,
	}
}

func NewCalendarResponse(c ledger.Calendar) CalendarResponse {
	weeks := make([][]CalendarCell, 0, len(c.Weeks))
	for _, wk := range c.Weeks {
		row := make([]CalendarCell, 0, 7)
		for _, d := range wk {
			cell := CalendarCell{Day: d, Tone: ToneNeutral}
			if d > 0 {
				v := c.DayTotal(d)
				cell.Profit = Money(v)
				cell.Tone = Tone(v)
			}
			row = append(row, cell)
		}
		weeks = append(weeks, row)
	}
	return CalendarResponse{
		Year:      c.Year,
		Month:     int(c.Month),
		MonthName: c.Month.String(),
		Total:     Money(c.Total),
		Tone:      Tone(c.Total),
		Weeks:     weeks,
	}
}
