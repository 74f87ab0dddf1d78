package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/bet-tracker/internal/ledger"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func bet(date time.Time, result ledger.Result, units, profit float64) ledger.Bet {
	return ledger.Bet{
		Date:    date,
		Sport:   ledger.SportNFL,
		BetType: ledger.BetTypeStraight,
		BetLine: "Chiefs -3",
		Odds:    "-110",
		Units:   units,
		Result:  result,
		Profit:  profit,
	}
}

func TestStatusCounts(t *testing.T) {
	bets := []ledger.Bet{
		bet(day(0), ledger.ResultPending, 2, 0),
		bet(day(0), ledger.ResultPending, 1.5, 0),
		bet(day(-1), ledger.ResultWin, 1, 90.91),
		bet(day(-1), ledger.ResultLoss, 1, -100),
		bet(day(-2), ledger.ResultPush, 1, 0),
	}

	c := ledger.StatusCounts(bets, 100)
	assert.Equal(t, 2, c.Open)
	assert.Equal(t, 1, c.Wins)
	assert.Equal(t, 1, c.Losses)
	assert.Equal(t, 1, c.Pushes)
	assert.InDelta(t, 350, c.OpenExposure, 1e-9)
}

func TestWindowProfit(t *testing.T) {
	bets := []ledger.Bet{
		bet(day(0), ledger.ResultWin, 1, 100),
		bet(day(0), ledger.ResultPending, 1, 0),
		bet(day(-7), ledger.ResultLoss, 1, -40),
		bet(day(-8), ledger.ResultWin, 1, 25),
		bet(day(-30), ledger.ResultWin, 1, 5),
		bet(day(-31), ledger.ResultLoss, 1, -1000),
		bet(day(1), ledger.ResultWin, 1, 999),
	}

	w := ledger.WindowProfit(bets, today)
	assert.InDelta(t, 100, w.Today, 1e-9)
	assert.InDelta(t, 60, w.Last7Days, 1e-9)
	assert.InDelta(t, 90, w.Last30, 1e-9)
}

func TestWinRate(t *testing.T) {
	bets := []ledger.Bet{
		bet(day(0), ledger.ResultWin, 1, 1),
		bet(day(0), ledger.ResultWin, 1, 1),
		bet(day(0), ledger.ResultWin, 1, 1),
		bet(day(0), ledger.ResultLoss, 1, -1),
		bet(day(0), ledger.ResultPush, 1, 0),
		bet(day(0), ledger.ResultPending, 1, 0),
	}
	assert.InDelta(t, 75.0, ledger.WinRate(bets), 1e-9)

	assert.Zero(t, ledger.WinRate(nil))
	assert.Zero(t, ledger.WinRate([]ledger.Bet{bet(day(0), ledger.ResultPush, 1, 0)}))
}

func TestROI(t *testing.T) {
	bets := []ledger.Bet{
		bet(day(0), ledger.ResultWin, 2, 150),
		bet(day(0), ledger.ResultLoss, 1, -100),
		bet(day(0), ledger.ResultPush, 1, 0),
		bet(day(0), ledger.ResultPending, 5, 0),
	}
	// 50 / 400 * 100
	assert.InDelta(t, 12.5, ledger.ROI(bets, 100), 1e-9)

	assert.Zero(t, ledger.ROI([]ledger.Bet{bet(day(0), ledger.ResultPending, 1, 0)}, 100))
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name    string
		results []ledger.Result
		want    ledger.Streaks
	}{
		{
			name:    "loss then three wins then loss",
			results: []ledger.Result{ledger.ResultLoss, ledger.ResultWin, ledger.ResultWin, ledger.ResultWin, ledger.ResultLoss},
			want:    ledger.Streaks{Current: "L1", BestWin: 3, WorstLoss: 1},
		},
		{
			name:    "trailing push is neutral",
			results: []ledger.Result{ledger.ResultWin, ledger.ResultWin, ledger.ResultPush},
			want:    ledger.Streaks{Current: ledger.NeutralStreak, BestWin: 2},
		},
		{
			name:    "push breaks a streak",
			results: []ledger.Result{ledger.ResultLoss, ledger.ResultLoss, ledger.ResultPush, ledger.ResultLoss},
			want:    ledger.Streaks{Current: "L1", WorstLoss: 2},
		},
		{
			name:    "no settled bets",
			results: []ledger.Result{ledger.ResultPending},
			want:    ledger.Streaks{Current: ledger.NeutralStreak},
		},
		{
			name:    "current win streak",
			results: []ledger.Result{ledger.ResultLoss, ledger.ResultWin, ledger.ResultWin},
			want:    ledger.Streaks{Current: "W2", BestWin: 2, WorstLoss: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bets := make([]ledger.Bet, 0, len(tt.results))
			for i, r := range tt.results {
				bets = append(bets, bet(day(i-len(tt.results)), r, 1, 0))
			}
			assert.Equal(t, tt.want, ledger.ComputeStreaks(bets))
		})
	}
}

func TestComputeStreaks_SortsByDateStable(t *testing.T) {
	// Inserção fora de ordem; mesmo dia mantém a ordem de inserção.
	bets := []ledger.Bet{
		bet(day(-1), ledger.ResultWin, 1, 0),
		bet(day(-1), ledger.ResultLoss, 1, 0),
		bet(day(-5), ledger.ResultWin, 1, 0),
		bet(day(-3), ledger.ResultWin, 1, 0),
		bet(day(-1), ledger.ResultLoss, 1, 0),
	}

	s := ledger.ComputeStreaks(bets)
	assert.Equal(t, "L2", s.Current)
	assert.Equal(t, 3, s.BestWin)
	assert.Equal(t, 2, s.WorstLoss)
}

func TestSummarize(t *testing.T) {
	bets := []ledger.Bet{
		bet(day(0), ledger.ResultPending, 2, 0),
		bet(day(0), ledger.ResultWin, 1, 100),
		bet(day(-2), ledger.ResultLoss, 1, -100),
		bet(day(-2), ledger.ResultWin, 2, 200),
	}

	s := ledger.Summarize(bets, today, 100)
	assert.Equal(t, 1, s.Counts.Open)
	assert.InDelta(t, 200, s.Counts.OpenExposure, 1e-9)
	assert.InDelta(t, 100, s.Windows.Today, 1e-9)
	assert.InDelta(t, 200, s.Windows.Last7Days, 1e-9)
	assert.InDelta(t, 66.6666666, s.WinRatePct, 1e-6)
	assert.InDelta(t, 200, s.SettledProfit, 1e-9)
	assert.InDelta(t, 400, s.SettledRisk, 1e-9)
	assert.InDelta(t, 50, s.ROIPct, 1e-9)
	assert.InDelta(t, ledger.ROI(bets, 100), s.ROIPct, 1e-9)
	assert.Equal(t, "W2", s.Streaks.Current)
}

func TestSummarize_NoSettledRiskMatchesROI(t *testing.T) {
	bets := []ledger.Bet{bet(day(0), ledger.ResultPending, 2, 0)}

	s := ledger.Summarize(bets, today, 100)
	assert.Equal(t, 0.0, s.ROIPct)
	assert.Equal(t, ledger.ROI(bets, 100), s.ROIPct)
}
