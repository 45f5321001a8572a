package report

import (
	"context"
	"errors"
	"testing"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

type fakeProjects struct {
	p *projects.ProjectWithSummary
}

func (f fakeProjects) GetByID(context.Context, int64) (*projects.ProjectWithSummary, error) {
	return f.p, nil
}

type fakeCosts struct {
	totals map[costs.Category]float64
	byDate map[costs.Category][]costs.DateAmount
	items  map[costs.Category][]costs.LineItem
}

func (f fakeCosts) Breakdown(context.Context, int64) (costs.Breakdown, error) {
	var b costs.Breakdown
	for _, c := range costs.Fixed {
		b.Fixed = append(b.Fixed, costs.CategoryTotal{Category: c, Total: f.totals[c]})
	}
	for _, c := range costs.Variable {
		b.Variable = append(b.Variable, costs.CategoryTotal{Category: c, Total: f.totals[c]})
	}
	return b, nil
}

func (f fakeCosts) TotalsByDate(_ context.Context, _ int64, c costs.Category) ([]costs.DateAmount, error) {
	return f.byDate[c], nil
}

func (f fakeCosts) ListByProject(_ context.Context, _ int64, c costs.Category) ([]costs.LineItem, error) {
	return f.items[c], nil
}

type fakeTracking struct {
	logs  []tracking.TaskLog
	mats  []tracking.Material
	usage []tracking.UsageLog
}

func (f fakeTracking) ListTaskLogs(context.Context, int64) ([]tracking.TaskLog, error) {
	return f.logs, nil
}
func (f fakeTracking) ListMaterials(context.Context, int64) ([]tracking.Material, error) {
	return f.mats, nil
}
func (f fakeTracking) ListUsageLogs(context.Context, int64) ([]tracking.UsageLog, error) {
	return f.usage, nil
}

func testProject() *projects.ProjectWithSummary {
	return &projects.ProjectWithSummary{
		Project: projects.Project{
			ID:          7,
			Name:        "Galería Norte",
			Mine:        "Santa Rosa",
			Team:        "Equipo A",
			Date:        day("2024-01-01"),
			Budget:      300,
			PlannedDays: 10,
			TasksPerDay: 5,
		},
		Summary: projects.Summary{Fixed: 100, Variable: 50, Direct: 150, Indirect: 15, Total: 165, TotalWithTax: 194.70},
	}
}

func TestBuildProjectNotFound(t *testing.T) {
	b := NewBuilder(fakeProjects{nil}, fakeCosts{}, fakeTracking{})
	if _, err := b.Build(context.Background(), 99); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestBuildAssemblesModel(t *testing.T) {
	fc := fakeCosts{
		totals: map[costs.Category]float64{costs.ManoObra: 100, costs.Materiales: 50},
		byDate: map[costs.Category][]costs.DateAmount{
			costs.ManoObra:   {{Date: day("2024-01-01"), Amount: 100}},
			costs.Materiales: {{Date: day("2024-01-01"), Amount: 50}},
		},
		items: map[costs.Category][]costs.LineItem{
			costs.ManoObra: {{Category: costs.ManoObra, Worker: "Juan", Total: 100}},
		},
	}
	ft := fakeTracking{
		logs: []tracking.TaskLog{
			{Day: 1, TasksDone: 8, Date: day("2024-01-01")},
			{Day: 1, TasksDone: 2, Date: day("2024-01-01")},
			{Day: 2, TasksDone: 40, Date: day("2024-01-02")},
		},
		mats: []tracking.Material{{ID: 1, Description: "cemento", Quantity: 10, QuantityUsed: 5}},
	}

	b := NewBuilder(fakeProjects{testProject()}, fc, ft)
	m, err := b.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// breakdown comes back in contract order
	for i, c := range costs.Fixed {
		if m.Breakdown.Fixed[i].Category != c {
			t.Errorf("breakdown.Fixed[%d] = %s, want %s", i, m.Breakdown.Fixed[i].Category.Slug(), c.Slug())
		}
	}
	for i, c := range costs.Variable {
		if m.Breakdown.Variable[i].Category != c {
			t.Errorf("breakdown.Variable[%d] = %s, want %s", i, m.Breakdown.Variable[i].Category.Slug(), c.Slug())
		}
	}

	// details present for every category, empty or not
	if len(m.Details) != len(costs.All) {
		t.Errorf("details has %d categories, want %d", len(m.Details), len(costs.All))
	}

	if m.Progress.DaysPct != 20 || m.Progress.TasksPct != 100 {
		t.Errorf("progress = %d%%/%d%%, want 20%%/100%%", m.Progress.DaysPct, m.Progress.TasksPct)
	}
	if m.Progress.MaterialsPct != 50 {
		t.Errorf("materialsPct = %d, want 50", m.Progress.MaterialsPct)
	}

	// financial series merges the two same-date contributions: 150/300 = 50%
	if len(m.Financial) != 1 {
		t.Fatalf("financial series len = %d, want 1", len(m.Financial))
	}
	if m.Financial[0].Amount != 150 || m.Financial[0].Pct != 50 {
		t.Errorf("financial[0] = %+v, want amount 150 pct 50", m.Financial[0])
	}

	if len(m.Physical) != 2 || m.Physical[1].Pct != 100 {
		t.Errorf("physical series = %+v, want 2 points ending at 100%%", m.Physical)
	}

	if m.FinancialPct() != 55 { // 165/300
		t.Errorf("financialPct = %d, want 55", m.FinancialPct())
	}
}

func TestBuildEmptyProject(t *testing.T) {
	b := NewBuilder(fakeProjects{testProject()}, fakeCosts{}, fakeTracking{})
	m, err := b.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m.Physical) != 0 || len(m.Financial) != 0 {
		t.Errorf("series not empty: physical %d, financial %d", len(m.Physical), len(m.Financial))
	}
}

// The group totals of the breakdown and the subtotals summed from the
// itemized lines are computed independently; they must agree for the same
// underlying rows.
func TestBreakdownMatchesLedgerSubtotals(t *testing.T) {
	m := sampleModel()

	sumGroup := func(group []costs.Category) float64 {
		var s float64
		for _, c := range group {
			for _, it := range m.Details[c] {
				s += it.Total
			}
		}
		return s
	}

	if got, want := m.Breakdown.GroupTotal(costs.GroupFixed), sumGroup(costs.Fixed); got != want {
		t.Errorf("fixed: breakdown %v, ledger %v", got, want)
	}
	if got, want := m.Breakdown.GroupTotal(costs.GroupVariable), sumGroup(costs.Variable); got != want {
		t.Errorf("variable: breakdown %v, ledger %v", got, want)
	}
}
