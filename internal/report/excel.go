package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/charts"
)

// ChartRenderer produces a rasterized chart image. A nil renderer, an error
// or empty bytes all degrade to "sheet without image".
type ChartRenderer interface {
	Render(ctx context.Context, spec charts.LineChart) ([]byte, error)
}

const (
	currencyFmt = `"S/ "#,##0.00`
	chartColorPhysical  = "#2E86C1"
	chartColorFinancial = "#28B463"
)

type workbook struct {
	f        *excelize.File
	currency int
	percent  int
	header   int
	title    int
}

// RenderExcel builds the multi-sheet manifest workbook. Percentage cells
// store fractions (0-1) with a percent display format; the integer
// percentages of the model are divided by 100 exactly once, here.
func RenderExcel(ctx context.Context, m *Model, renderer ChartRenderer, log *slog.Logger) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	wb := &workbook{f: f}
	if err := wb.makeStyles(); err != nil {
		return nil, err
	}

	// the default sheet becomes Resumen; the rest are appended in order
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), "Resumen"); err != nil {
		return nil, err
	}
	for _, name := range []string{"Desglose", "UsoMateriales", "Detalles", "Series", "Graficos", "Avance"} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	if err := wb.summarySheet(m); err != nil {
		return nil, err
	}
	if err := wb.breakdownSheet(m); err != nil {
		return nil, err
	}
	if err := wb.usageSheet(m); err != nil {
		return nil, err
	}
	if err := wb.detailsSheet(m); err != nil {
		return nil, err
	}
	if err := wb.seriesSheet(m); err != nil {
		return nil, err
	}
	if err := wb.chartsSheet(ctx, m, renderer, log); err != nil {
		return nil, err
	}
	if err := wb.progressSheet(m); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (wb *workbook) makeStyles() error {
	var err error
	fmtStr := currencyFmt
	wb.currency, err = wb.f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return err
	}
	wb.percent, err = wb.f.NewStyle(&excelize.Style{NumFmt: 9}) // 0%
	if err != nil {
		return err
	}
	wb.header, err = wb.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "2E4053"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"ECEFF1"}},
	})
	if err != nil {
		return err
	}
	wb.title, err = wb.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "1B4F72"},
	})
	return err
}

func (wb *workbook) setRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return wb.f.SetSheetRow(sheet, cell, &values)
}

func (wb *workbook) style(sheet string, col, row int, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cell, cell, styleID)
}

func (wb *workbook) styleRow(sheet string, row, fromCol, toCol, styleID int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, from, to, styleID)
}

func frac(pctVal int) float64 { return float64(pctVal) / 100 }

func (wb *workbook) summarySheet(m *Model) error {
	const sheet = "Resumen"
	if err := wb.f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := wb.f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}
	if err := wb.f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if err := wb.f.SetCellValue(sheet, "A1", "Manifiesto de Gastos y Avance"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	if err := wb.setRow(sheet, 2, []interface{}{"Campo", "Valor"}); err != nil {
		return err
	}
	if err := wb.styleRow(sheet, 2, 1, 2, wb.header); err != nil {
		return err
	}

	s := m.Summary
	rows := []struct {
		field string
		value interface{}
		style int
	}{
		{"Proyecto", orDash(m.Project.Name), 0},
		{"Mina", orDash(m.Project.Mine), 0},
		{"Equipo", orDash(m.Project.Team), 0},
		{"Fecha", m.Project.Date.Format(dateLayout), 0},
		{"Días planificados", m.Project.PlannedDays, 0},
		{"Costo fijo", s.Fixed, wb.currency},
		{"Costo variable", s.Variable, wb.currency},
		{"Costo directo", s.Direct, wb.currency},
		{"Costo indirecto", s.Indirect, wb.currency},
		{"Costo total", s.Total, wb.currency},
		{"IGV", s.TotalWithTax, wb.currency},
		{"Presupuesto", m.Project.Budget, wb.currency},
		{"Avance Financiero (%)", frac(m.FinancialPct()), wb.percent},
	}
	for i, r := range rows {
		rowN := i + 3
		if err := wb.setRow(sheet, rowN, []interface{}{r.field, r.value}); err != nil {
			return err
		}
		if r.style != 0 {
			if err := wb.style(sheet, 2, rowN, r.style); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wb *workbook) breakdownSheet(m *Model) error {
	const sheet = "Desglose"
	for col, w := range map[string]float64{"A": 28, "B": 18, "C": 16, "D": 14} {
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := wb.f.SetCellValue(sheet, "A1", "Desglose de Costos por Tipo"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	if err := wb.setRow(sheet, 3, []interface{}{"Tipo", "Total", "% del grupo", "Grupo"}); err != nil {
		return err
	}
	if err := wb.styleRow(sheet, 3, 1, 4, wb.header); err != nil {
		return err
	}

	row := 4
	write := func(items []costs.CategoryTotal, groupTotal float64, group string) error {
		for _, it := range items {
			share := 0.0
			if groupTotal > 0 {
				share = it.Total / groupTotal
			}
			if err := wb.setRow(sheet, row, []interface{}{it.Category.Slug(), it.Total, share, group}); err != nil {
				return err
			}
			if err := wb.style(sheet, 2, row, wb.currency); err != nil {
				return err
			}
			if err := wb.style(sheet, 3, row, wb.percent); err != nil {
				return err
			}
			row++
		}
		return nil
	}
	if err := write(m.Breakdown.Fixed, m.Summary.Fixed, "Fijo"); err != nil {
		return err
	}
	return write(m.Breakdown.Variable, m.Summary.Variable, "Variable")
}

func (wb *workbook) usageSheet(m *Model) error {
	const sheet = "UsoMateriales"
	for col, w := range map[string]float64{"A": 18, "B": 36, "C": 18, "D": 12, "E": 50} {
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := wb.f.SetCellValue(sheet, "A1", "Uso de Materiales"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	if err := wb.setRow(sheet, 2, []interface{}{"Fecha", "Material", "Cantidad usada", "Unidad", "Comentario"}); err != nil {
		return err
	}
	if err := wb.styleRow(sheet, 2, 1, 5, wb.header); err != nil {
		return err
	}
	for i, l := range m.UsageLogs {
		err := wb.setRow(sheet, i+3, []interface{}{
			l.Date.Format(dateLayout), l.MaterialDescription, l.QuantityUsed, l.Unit, l.Comment,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// detailsSheet lays out the eleven category sections, each with a header row,
// data rows and a subtotal row summed from the written lines. The subtotals
// must match the PDF ledger exactly for identical input.
func (wb *workbook) detailsSheet(m *Model) error {
	const sheet = "Detalles"
	for col, w := range map[string]float64{"A": 30, "B": 14, "C": 12, "D": 12, "E": 16} {
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := wb.f.SetCellValue(sheet, "A1", "Manifiesto de Gastos Totales"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}

	row := 3
	for _, c := range costs.All {
		if err := wb.f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.Label()); err != nil {
			return err
		}
		if err := wb.style(sheet, 1, row, wb.header); err != nil {
			return err
		}
		row++

		headers := detailHeaders(c)
		if err := wb.setRow(sheet, row, headers); err != nil {
			return err
		}
		if err := wb.styleRow(sheet, row, 1, len(headers), wb.header); err != nil {
			return err
		}
		row++

		var subtotal float64
		for _, it := range m.Details[c] {
			if err := wb.setRow(sheet, row, detailValues(it)); err != nil {
				return err
			}
			if err := wb.style(sheet, len(headers), row, wb.currency); err != nil {
				return err
			}
			subtotal += it.Total
			row++
		}

		subRow := make([]interface{}, len(headers))
		subRow[0] = "Subtotal"
		subRow[len(headers)-1] = subtotal
		if err := wb.setRow(sheet, row, subRow); err != nil {
			return err
		}
		if err := wb.style(sheet, len(headers), row, wb.currency); err != nil {
			return err
		}
		row += 2
	}
	return nil
}

func detailHeaders(c costs.Category) []interface{} {
	switch c.Shape() {
	case costs.ShapeLabor:
		return []interface{}{"Trabajador", "Cantidad", "Precio", "Días", "SubTotal"}
	case costs.ShapeAverage:
		return []interface{}{"Descripción", "Promedio", "PU", "Días", "Total"}
	case costs.ShapeMaterial:
		return []interface{}{"Descripción", "Cantidad", "Unidad", "PU", "Total"}
	default:
		return []interface{}{"Descripción", "Cantidad", "PU", "Días", "Total"}
	}
}

func detailValues(it costs.LineItem) []interface{} {
	switch it.Category.Shape() {
	case costs.ShapeLabor:
		return []interface{}{it.Worker, it.WorkerCount, it.Price, it.DaysWorked, it.Total}
	case costs.ShapeAverage:
		return []interface{}{it.Description, it.Average, it.UnitPrice, it.DaysWorked, it.Total}
	case costs.ShapeMaterial:
		return []interface{}{it.Description, it.Quantity, it.Unit, it.UnitPrice, it.Total}
	default:
		return []interface{}{it.Description, it.Quantity, it.UnitPrice, it.DaysWorked, it.Total}
	}
}

func (wb *workbook) seriesSheet(m *Model) error {
	const sheet = "Series"
	if err := wb.f.SetCellValue(sheet, "A1", "Evolución Temporal (Físico y Financiero)"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	head := []interface{}{"Fisico: fecha", "Fisico: pct", "", "Financiero: fecha", "Financiero: pct"}
	if err := wb.setRow(sheet, 2, head); err != nil {
		return err
	}
	if err := wb.styleRow(sheet, 2, 1, 5, wb.header); err != nil {
		return err
	}

	n := max(len(m.Physical), len(m.Financial))
	for i := 0; i < n; i++ {
		vals := make([]interface{}, 5)
		if i < len(m.Physical) {
			vals[0] = m.Physical[i].Date
			vals[1] = frac(m.Physical[i].Pct)
		}
		if i < len(m.Financial) {
			vals[3] = m.Financial[i].Date
			vals[4] = frac(m.Financial[i].Pct)
		}
		if err := wb.setRow(sheet, i+3, vals); err != nil {
			return err
		}
		if err := wb.style(sheet, 2, i+3, wb.percent); err != nil {
			return err
		}
		if err := wb.style(sheet, 5, i+3, wb.percent); err != nil {
			return err
		}
	}
	return nil
}

// chartsSheet embeds the two rendered chart images. Renderer failures only
// cost the image, never the sheet.
func (wb *workbook) chartsSheet(ctx context.Context, m *Model, renderer ChartRenderer, log *slog.Logger) error {
	const sheet = "Graficos"
	if err := wb.f.SetCellValue(sheet, "A1", "Gráfico de Avance Físico"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	if err := wb.f.SetCellValue(sheet, "A20", "Gráfico de Avance Financiero"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 20, wb.title); err != nil {
		return err
	}

	if renderer == nil {
		return nil
	}

	physical := m.Physical
	if len(physical) == 0 {
		// single synthetic point so the chart still shows the current state
		physical = Series{{Date: time.Now().UTC().Format(dateLayout), Pct: m.Progress.TasksPct}}
	}
	wb.embedChart(ctx, sheet, "A2", charts.LineChart{
		Title:  "Avance Físico %",
		Labels: seriesLabels(physical),
		Values: seriesValues(physical),
		Color:  chartColorPhysical,
	}, renderer, log)

	financial := m.Financial
	if len(financial) == 0 {
		financial = Series{{Date: time.Now().UTC().Format(dateLayout), Pct: m.FinancialPct()}}
	}
	wb.embedChart(ctx, sheet, "A21", charts.LineChart{
		Title:  "Avance Financiero %",
		Labels: seriesLabels(financial),
		Values: seriesValues(financial),
		Color:  chartColorFinancial,
	}, renderer, log)

	return nil
}

func (wb *workbook) embedChart(ctx context.Context, sheet, cell string, spec charts.LineChart, renderer ChartRenderer, log *slog.Logger) {
	img, err := renderer.Render(ctx, spec)
	if err != nil || len(img) == 0 {
		if log != nil {
			log.Warn("chart image omitted", "sheet", sheet, "title", spec.Title, "err", err)
		}
		return
	}
	err = wb.f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      img,
		Format:    &excelize.GraphicOptions{AutoFit: true},
	})
	if err != nil && log != nil {
		log.Warn("chart image embed failed", "sheet", sheet, "err", err)
	}
}

func seriesLabels(s Series) []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

func seriesValues(s Series) []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Pct
	}
	return out
}

func (wb *workbook) progressSheet(m *Model) error {
	const sheet = "Avance"
	if err := wb.f.SetCellValue(sheet, "A1", "Avance del Proyecto"); err != nil {
		return err
	}
	if err := wb.style(sheet, 1, 1, wb.title); err != nil {
		return err
	}
	if err := wb.setRow(sheet, 2, []interface{}{"Indicador", "Valor"}); err != nil {
		return err
	}
	if err := wb.styleRow(sheet, 2, 1, 2, wb.header); err != nil {
		return err
	}

	pr := m.Progress
	rows := []struct {
		name  string
		value interface{}
		pct   bool
	}{
		{"Días reportados", fmt.Sprintf("%d/%d", pr.DaysReported, pr.DaysTotal), false},
		{"Avance días %", frac(pr.DaysPct), true},
		{"Tareas realizadas", fmt.Sprintf("%d/%d", pr.TasksDone, pr.TasksTotal), false},
		{"Avance tareas %", frac(pr.TasksPct), true},
		{"Avance promedio materiales %", frac(pr.MaterialsPct), true},
	}
	for i, r := range rows {
		rowN := i + 3
		if err := wb.setRow(sheet, rowN, []interface{}{r.name, r.value}); err != nil {
			return err
		}
		if r.pct {
			if err := wb.style(sheet, 2, rowN, wb.percent); err != nil {
				return err
			}
		}
	}
	return nil
}
