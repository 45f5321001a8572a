package report

import (
	"testing"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

func TestPhysicalSeriesGroupsAndAccumulates(t *testing.T) {
	logs := []tracking.TaskLog{
		{Date: day("2024-01-02"), TasksDone: 10},
		{Date: day("2024-01-01"), TasksDone: 5},
		{Date: day("2024-01-01"), TasksDone: 5},
	}
	s := PhysicalSeries(logs, 40)

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0].Date != "2024-01-01" || s[1].Date != "2024-01-02" {
		t.Errorf("dates not ascending: %v, %v", s[0].Date, s[1].Date)
	}
	if s[0].Pct != 25 { // 10/40
		t.Errorf("first pct = %d, want 25", s[0].Pct)
	}
	if s[1].Pct != 50 { // 20/40
		t.Errorf("second pct = %d, want 50", s[1].Pct)
	}
}

func TestPhysicalSeriesZeroTotal(t *testing.T) {
	logs := []tracking.TaskLog{{Date: day("2024-01-01"), TasksDone: 5}}
	s := PhysicalSeries(logs, 0)
	if len(s) != 1 || s[0].Pct != 0 {
		t.Errorf("series = %+v, want single point with pct 0", s)
	}
}

func TestPhysicalSeriesEmpty(t *testing.T) {
	if s := PhysicalSeries(nil, 50); len(s) != 0 {
		t.Errorf("series = %+v, want empty", s)
	}
}

func TestFinancialSeriesMergesCategories(t *testing.T) {
	// labor and materials spend on the same date merge into one point
	perCategory := [][]costs.DateAmount{
		{{Date: day("2024-01-01"), Amount: 100}},
		{{Date: day("2024-01-01"), Amount: 50}, {Date: day("2024-01-03"), Amount: 60}},
	}
	s := FinancialSeries(perCategory, 300)

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0].Amount != 150 || s[0].Pct != 50 {
		t.Errorf("first point = %+v, want amount 150 pct 50", s[0])
	}
	if s[1].Amount != 210 || s[1].Pct != 70 {
		t.Errorf("second point = %+v, want amount 210 pct 70", s[1])
	}
}

func TestFinancialSeriesZeroBudget(t *testing.T) {
	perCategory := [][]costs.DateAmount{{{Date: day("2024-01-01"), Amount: 100}}}
	s := FinancialSeries(perCategory, 0)
	if len(s) != 1 || s[0].Pct != 0 {
		t.Errorf("series = %+v, want single point with pct 0", s)
	}
	if s[0].Amount != 100 {
		t.Errorf("amount = %v, want 100 even with zero budget", s[0].Amount)
	}
}

func TestFinancialSeriesEmpty(t *testing.T) {
	if s := FinancialSeries(nil, 1000); len(s) != 0 {
		t.Errorf("series = %+v, want empty", s)
	}
	if s := FinancialSeries([][]costs.DateAmount{nil, nil}, 1000); len(s) != 0 {
		t.Errorf("series = %+v, want empty", s)
	}
}

func TestSeriesMonotonic(t *testing.T) {
	perCategory := [][]costs.DateAmount{{
		{Date: day("2024-01-01"), Amount: 10},
		{Date: day("2024-01-02"), Amount: 0},
		{Date: day("2024-01-03"), Amount: 35},
		{Date: day("2024-01-04"), Amount: 5},
	}}
	s := FinancialSeries(perCategory, 100)
	for i := 1; i < len(s); i++ {
		if s[i].Amount < s[i-1].Amount {
			t.Errorf("amount decreased at %d: %v < %v", i, s[i].Amount, s[i-1].Amount)
		}
		if s[i].Pct < s[i-1].Pct {
			t.Errorf("pct decreased at %d: %d < %d", i, s[i].Pct, s[i-1].Pct)
		}
	}
}

func TestSeriesClamped(t *testing.T) {
	perCategory := [][]costs.DateAmount{{
		{Date: day("2024-01-01"), Amount: 400},
		{Date: day("2024-01-02"), Amount: 400},
	}}
	for _, p := range FinancialSeries(perCategory, 300) {
		if p.Pct < 0 || p.Pct > 100 {
			t.Errorf("pct %d out of [0,100]", p.Pct)
		}
	}
}

// Determinism: the same rows in a different per-category arrangement must
// produce the identical series.
func TestFinancialSeriesDeterministic(t *testing.T) {
	a := [][]costs.DateAmount{
		{{Date: day("2024-01-01"), Amount: 100}},
		{{Date: day("2024-01-02"), Amount: 20}},
	}
	b := [][]costs.DateAmount{
		{{Date: day("2024-01-02"), Amount: 20}},
		{{Date: day("2024-01-01"), Amount: 100}},
	}
	sa := FinancialSeries(a, 200)
	sb := FinancialSeries(b, 200)
	if len(sa) != len(sb) {
		t.Fatalf("lengths differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Errorf("point %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}
