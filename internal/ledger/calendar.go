package ledger

import "time"

// Calendar é o resultado da aba Calendar para um mês
type Calendar struct {
	Year  int
	Month time.Month
	Daily map[int]float64 // dia do mês -> profit liquidado
	Total float64
	Weeks [][7]int // grade começando no domingo; 0 = célula vazia
}

// MonthTotals agrupa o profit das apostas liquidadas por dia do mês
func MonthTotals(bets []Bet, year int, month time.Month) Calendar {
	c := Calendar{
		Year:  year,
		Month: month,
		Daily: make(map[int]float64),
		Weeks: MonthGrid(year, month),
	}
	for _, b := range bets {
		if !b.Result.Settled() {
			continue
		}
		y, m, d := b.Date.Date()
		if y != year || m != month {
			continue
		}
		c.Daily[d] += b.Profit
		c.Total += b.Profit
	}
	return c
}

// DayTotal devolve o total de um dia, 0 se não houve apostas liquidadas
func (c Calendar) DayTotal(day int) float64 {
	return c.Daily[day]
}

// MonthGrid monta as semanas do mês (domingo a sábado)
func MonthGrid(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	var (
		weeks [][7]int
		week  [7]int
	)
	col := int(first.Weekday())
	for d := 1; d <= days; d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
