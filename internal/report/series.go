package report

import (
	"sort"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

const dateLayout = "2006-01-02"

// cumulate turns per-date deltas into a sorted cumulative series. The map
// origin of deltas does not matter: points are ordered by date value only.
func cumulate(deltas map[string]float64, den float64) Series {
	if len(deltas) == 0 {
		return nil
	}
	dates := make([]string, 0, len(deltas))
	for d := range deltas {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make(Series, 0, len(dates))
	var acc float64
	for _, d := range dates {
		acc += deltas[d]
		out = append(out, SeriesPoint{Date: d, Pct: pct(acc, den), Amount: acc})
	}
	return out
}

// PhysicalSeries accumulates tasks completed per day against the planned
// task total. No logs means an empty series.
func PhysicalSeries(logs []tracking.TaskLog, tasksTotal int) Series {
	deltas := make(map[string]float64, len(logs))
	for _, l := range logs {
		deltas[l.Date.Format(dateLayout)] += float64(l.TasksDone)
	}
	s := cumulate(deltas, float64(tasksTotal))
	// the task counts themselves are not part of the output
	for i := range s {
		s[i].Amount = 0
	}
	return s
}

// FinancialSeries merges the per-category per-date sums of all eleven
// ledgers, then accumulates against the budget. The cumulative amount is
// kept on each point alongside the percentage.
func FinancialSeries(perCategory [][]costs.DateAmount, budget float64) Series {
	deltas := make(map[string]float64)
	for _, das := range perCategory {
		for _, da := range das {
			deltas[da.Date.Format(dateLayout)] += da.Amount
		}
	}
	return cumulate(deltas, budget)
}
