package report

import (
	"bytes"
	"testing"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

// sampleModel covers every category shape, usage logs and both series.
func sampleModel() *Model {
	p := testProject()
	m := &Model{Project: p.Project, Summary: p.Summary}

	m.Details = map[costs.Category][]costs.LineItem{
		costs.ManoObra: {
			{Category: costs.ManoObra, Worker: "Juan Pérez", WorkerCount: 2, Price: 80, DaysWorked: 5, Total: 800},
		},
		costs.Local: {
			{Category: costs.Local, Description: "Alquiler almacén", Average: 1, UnitPrice: 30, DaysWorked: 10, Total: 300},
		},
		costs.Materiales: {
			{Category: costs.Materiales, Description: "Cemento", Quantity: 10, Unit: "bolsa", UnitPrice: 25, Total: 250},
			{Category: costs.Materiales, Description: "Arena", Quantity: 3, Unit: "m3", UnitPrice: 50, Total: 150},
		},
		costs.Petroleo: {
			{Category: costs.Petroleo, Description: "Diésel grupo electrógeno", Quantity: 40, UnitPrice: 4.5, DaysWorked: 8, Total: 180},
		},
	}
	for _, c := range costs.All {
		if _, ok := m.Details[c]; !ok {
			m.Details[c] = nil
		}
	}

	m.Breakdown = costs.Breakdown{
		Fixed: []costs.CategoryTotal{
			{Category: costs.ManoObra, Total: 800}, {Category: costs.Local, Total: 300}, {Category: costs.Vigilancia, Total: 0},
			{Category: costs.Energia, Total: 0}, {Category: costs.HerramientasOtros, Total: 0},
		},
		Variable: []costs.CategoryTotal{
			{Category: costs.Materiales, Total: 400}, {Category: costs.ImplementosSeguridad, Total: 0}, {Category: costs.Petroleo, Total: 180},
			{Category: costs.Gasolina, Total: 0}, {Category: costs.Topico, Total: 0}, {Category: costs.EquipoOtro, Total: 0},
		},
	}

	m.Progress = Progress{
		DaysTotal: 10, DaysReported: 2, DaysPct: 20,
		TasksTotal: 50, TasksDone: 50, TasksPct: 100,
		MaterialsPct: 50,
		Materials:    []MaterialProgress{{ID: 1, Description: "Cemento", Quantity: 10, QuantityUsed: 5, Pct: 50}},
	}

	m.UsageLogs = []tracking.UsageLog{
		{Date: day("2024-01-02"), MaterialDescription: "Cemento", Unit: "bolsa", QuantityUsed: 5, Comment: "frente 2"},
	}

	m.Physical = Series{
		{Date: "2024-01-01", Pct: 20}, {Date: "2024-01-02", Pct: 100},
	}
	m.Financial = Series{
		{Date: "2024-01-01", Pct: 50, Amount: 150}, {Date: "2024-01-02", Pct: 55, Amount: 165},
	}
	return m
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sampleModel())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if len(out) < 2000 {
		t.Errorf("output suspiciously small: %d bytes", len(out))
	}
}

// A project with no activity must still produce a complete document with
// placeholder sections instead of failing on empty series or ledgers.
func TestRenderPDFEmptyModel(t *testing.T) {
	p := testProject()
	m := &Model{Project: p.Project, Summary: p.Summary}
	m.Details = map[costs.Category][]costs.LineItem{}
	for _, c := range costs.All {
		m.Details[c] = nil
	}

	out, err := RenderPDF(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
}

// Many points exercise the date-label stride and page-break handling.
func TestRenderPDFLongSeries(t *testing.T) {
	m := sampleModel()
	m.Physical = nil
	for i := 0; i < 30; i++ {
		m.Physical = append(m.Physical, SeriesPoint{
			Date: day("2024-01-01").AddDate(0, 0, i).Format(dateLayout),
			Pct:  min(100, i*4),
		})
	}
	if _, err := RenderPDF(m); err != nil {
		t.Fatalf("render: %v", err)
	}
}
