package ledger

import (
	"slices"
	"strconv"
	"time"
)

// NeutralStreak é exibido quando não há streak ativa
const NeutralStreak = "-"

// Counts agrupa a quantidade de apostas por resultado e a exposição em aberto
type Counts struct {
	Open         int     `json:"open"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	OpenExposure float64 `json:"open_exposure"`
}

// Windows é o profit liquidado de hoje, últimos 7 e últimos 30 dias
type Windows struct {
	Today     float64 `json:"today"`
	Last7Days float64 `json:"last_7_days"`
	Last30    float64 `json:"last_30_days"`
}

type Streaks struct {
	Current   string `json:"current"` // "W3", "L1" ou NeutralStreak
	BestWin   int    `json:"best_win"`
	WorstLoss int    `json:"worst_loss"`
}

// Summary é o conjunto de métricas da aba Tracker
type Summary struct {
	Counts        Counts  `json:"counts"`
	Windows       Windows `json:"windows"`
	WinRatePct    float64 `json:"win_rate_pct"`
	ROIPct        float64 `json:"roi_pct"`
	SettledProfit float64 `json:"settled_profit"`
	SettledRisk   float64 `json:"settled_risk"`
	Streaks       Streaks `json:"streaks"`
}

func StatusCounts(bets []Bet, unitSize float64) Counts {
	var c Counts
	for _, b := range bets {
		switch b.Result {
		case ResultPending:
			c.Open++
			c.OpenExposure += b.Risk(unitSize)
		case ResultWin:
			c.Wins++
		case ResultLoss:
			c.Losses++
		case ResultPush:
			c.Pushes++
		}
	}
	return c
}

// WindowProfit soma o profit das apostas liquidadas por janela de datas.
// As janelas terminam em today; apostas com data futura ficam de fora.
func WindowProfit(bets []Bet, today time.Time) Windows {
	today = Day(today)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	var w Windows
	for _, b := range bets {
		if !b.Result.Settled() {
			continue
		}
		d := Day(b.Date)
		if d.After(today) {
			continue
		}
		if d.Equal(today) {
			w.Today += b.Profit
		}
		if !d.Before(weekAgo) {
			w.Last7Days += b.Profit
		}
		if !d.Before(monthAgo) {
			w.Last30 += b.Profit
		}
	}
	return w
}

// WinRate é wins / (wins + losses) * 100; pushes e pendentes não entram
func WinRate(bets []Bet) float64 {
	var wins, losses int
	for _, b := range bets {
		switch b.Result {
		case ResultWin:
			wins++
		case ResultLoss:
			losses++
		}
	}
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses) * 100
}

// SettledTotals devolve o profit e o risco somados das apostas liquidadas
func SettledTotals(bets []Bet, unitSize float64) (profit, risk float64) {
	for _, b := range bets {
		if !b.Result.Settled() {
			continue
		}
		profit += b.Profit
		risk += b.Risk(unitSize)
	}
	return profit, risk
}

func ROI(bets []Bet, unitSize float64) float64 {
	return roiPct(SettledTotals(bets, unitSize))
}

// roiPct devolve 0 quando não há risco liquidado
func roiPct(profit, risk float64) float64 {
	if risk == 0 {
		return 0
	}
	return profit / risk * 100
}

// ComputeStreaks percorre as apostas liquidadas em ordem de data.
// Apostas do mesmo dia mantêm a ordem de inserção (sort estável).
func ComputeStreaks(bets []Bet) Streaks {
	settled := make([]Bet, 0, len(bets))
	for _, b := range bets {
		if b.Result.Settled() {
			settled = append(settled, b)
		}
	}
	slices.SortStableFunc(settled, func(a, b Bet) int {
		return Day(a.Date).Compare(Day(b.Date))
	})

	var (
		s       Streaks
		kind    Result
		current int
	)
	for _, b := range settled {
		switch b.Result {
		case ResultWin, ResultLoss:
			if kind == b.Result {
				current++
			} else {
				kind = b.Result
				current = 1
			}
			if kind == ResultWin && current > s.BestWin {
				s.BestWin = current
			}
			if kind == ResultLoss && current > s.WorstLoss {
				s.WorstLoss = current
			}
		default:
			kind = ""
			current = 0
		}
	}

	switch {
	case kind == ResultWin && current > 0:
		s.Current = "W" + strconv.Itoa(current)
	case kind == ResultLoss && current > 0:
		s.Current = "L" + strconv.Itoa(current)
	default:
		s.Current = NeutralStreak
	}
	return s
}

func Summarize(bets []Bet, today time.Time, unitSize float64) Summary {
	profit, risk := SettledTotals(bets, unitSize)
	s := Summary{
		Counts:        StatusCounts(bets, unitSize),
		Windows:       WindowProfit(bets, today),
		WinRatePct:    WinRate(bets),
		SettledProfit: profit,
		SettledRisk:   risk,
		ROIPct:        roiPct(profit, risk),
		Streaks:       ComputeStreaks(bets),
	}
	return s
}
