package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/charts"
)

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, charts.LineChart) ([]byte, error) {
	return nil, errors.New("chart service down")
}

func openWorkbook(t *testing.T, out []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("get %s!%s: %v", sheet, cell, err)
	}
	return v
}

func TestRenderExcelSheets(t *testing.T) {
	out, err := RenderExcel(context.Background(), sampleModel(), nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, out)

	want := []string{"Resumen", "Desglose", "UsoMateriales", "Detalles", "Series", "Graficos", "Avance"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderExcelSummaryValues(t *testing.T) {
	m := sampleModel()
	out, err := RenderExcel(context.Background(), m, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, out)

	if got := cellValue(t, f, "Resumen", "B3"); got != m.Project.Name {
		t.Errorf("Resumen!B3 = %q, want project name %q", got, m.Project.Name)
	}
	// Costo total is the 10th field row (B12); read raw, the cell carries
	// the currency display format
	rawTotal, err := f.GetCellValue("Resumen", "B12", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	if rawTotal != "165" {
		t.Errorf("Resumen!B12 raw = %q, want 165", rawTotal)
	}
	// Avance Financiero stores the fraction, not the integer percentage
	gotRaw, err := f.GetCellValue("Resumen", "B15", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	frac, err := strconv.ParseFloat(gotRaw, 64)
	if err != nil {
		t.Fatalf("parse %q: %v", gotRaw, err)
	}
	if frac != float64(m.FinancialPct())/100 {
		t.Errorf("financial pct cell = %v, want %v", frac, float64(m.FinancialPct())/100)
	}
}

// The Detalles subtotal rows must equal the sum of that category's line
// totals: the same number the PDF ledger prints.
func TestRenderExcelDetailSubtotals(t *testing.T) {
	m := sampleModel()
	out, err := RenderExcel(context.Background(), m, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, out)

	row := 3
	for _, c := range costs.All {
		items := m.Details[c]
		subRow := row + 2 + len(items)

		if got := cellValue(t, f, "Detalles", fmt.Sprintf("A%d", row)); got != c.Label() {
			t.Errorf("Detalles!A%d = %q, want %q", row, got, c.Label())
		}
		if got := cellValue(t, f, "Detalles", fmt.Sprintf("A%d", subRow)); got != "Subtotal" {
			t.Errorf("Detalles!A%d = %q, want Subtotal", subRow, got)
		}

		var wantSub float64
		for _, it := range items {
			wantSub += it.Total
		}
		raw, err := f.GetCellValue("Detalles", fmt.Sprintf("E%d", subRow), excelize.Options{RawCellValue: true})
		if err != nil {
			t.Fatalf("get subtotal: %v", err)
		}
		gotSub, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			t.Fatalf("parse subtotal %q: %v", raw, err)
		}
		if gotSub != wantSub {
			t.Errorf("%s subtotal = %v, want %v", c.Slug(), gotSub, wantSub)
		}

		row = subRow + 2
	}
}

func TestRenderExcelSeriesFractions(t *testing.T) {
	m := sampleModel()
	out, err := RenderExcel(context.Background(), m, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, out)

	raw, err := f.GetCellValue("Series", "B3", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	got, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if want := float64(m.Physical[0].Pct) / 100; got != want {
		t.Errorf("Series!B3 = %v, want fraction %v", got, want)
	}
}

// A failing chart service costs the images, never the workbook.
func TestRenderExcelChartFailureDegrades(t *testing.T) {
	out, err := RenderExcel(context.Background(), sampleModel(), failingRenderer{}, nil)
	if err != nil {
		t.Fatalf("render with failing charts: %v", err)
	}
	f := openWorkbook(t, out)
	if got := cellValue(t, f, "Graficos", "A1"); got != "Gráfico de Avance Físico" {
		t.Errorf("Graficos!A1 = %q", got)
	}
}

func TestRenderExcelEmptyModel(t *testing.T) {
	p := testProject()
	m := &Model{Project: p.Project, Summary: p.Summary}
	m.Details = map[costs.Category][]costs.LineItem{}
	for _, c := range costs.All {
		m.Details[c] = nil
	}

	out, err := RenderExcel(context.Background(), m, failingRenderer{}, nil)
	if err != nil {
		t.Fatalf("render empty model: %v", err)
	}
	f := openWorkbook(t, out)
	// all eleven sections still appear, each with an immediate subtotal row
	if got := cellValue(t, f, "Detalles", "A3"); got != costs.ManoObra.Label() {
		t.Errorf("Detalles!A3 = %q, want %q", got, costs.ManoObra.Label())
	}
	if got := cellValue(t, f, "Detalles", "A5"); got != "Subtotal" {
		t.Errorf("Detalles!A5 = %q, want Subtotal", got)
	}
}
