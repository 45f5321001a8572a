package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
)

// Page geometry in mm (A4 portrait).
const (
	pdfMargin    = 15.0
	pdfPageW     = 210.0
	pdfPageH     = 297.0
	pdfContentW  = pdfPageW - 2*pdfMargin
	pdfBreakAt   = pdfPageH - 20.0
	barLabelW    = 28.0
	barMaxW      = 110.0
	barH         = 7.0
	chartW       = 150.0
	chartH       = 50.0
	chartLabelW  = 12.0
	chartBlockH  = chartH + 22.0 // title + plot + date labels
	dateLblEvery = 4
)

type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func money(v float64) string { return fmt.Sprintf("S/ %.2f", v) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderPDF lays out the flowing-page manifest. Sections appear in a fixed
// order and are always present; empty data renders an explicit placeholder
// line instead of dropping the section.
func RenderPDF(m *Model) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	p.SetAutoPageBreak(true, 18)
	p.AddPage()

	d := &pdfDoc{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}

	d.header(m)
	d.sectionRule()
	d.costSummary(m)
	d.sectionRule()
	d.progressSummary(m)
	d.progressBars(m)
	d.sectionRule()
	d.seriesCharts(m)
	d.sectionRule()
	d.breakdown(m)
	d.usageLogs(m)
	d.ledger(m)

	if p.Err() {
		return nil, p.Error()
	}
	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *pdfDoc) sectionTitle(s string) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.CellFormat(pdfContentW, 8, d.tr(s), "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 12)
}

func (d *pdfDoc) line(s string) {
	d.pdf.CellFormat(pdfContentW, 6, d.tr(s), "", 1, "L", false, 0, "")
}

func (d *pdfDoc) sectionRule() {
	p := d.pdf
	y := p.GetY() + 1.5
	p.SetDrawColor(221, 221, 221)
	p.SetLineWidth(0.3)
	p.Line(pdfMargin, y, pdfPageW-pdfMargin, y)
	p.SetDrawColor(0, 0, 0)
	p.SetY(y + 3)
}

// ensureSpace starts a new page when a fixed-height block would not fit.
func (d *pdfDoc) ensureSpace(h float64) {
	if d.pdf.GetY()+h > pdfBreakAt {
		d.pdf.AddPage()
	}
}

func (d *pdfDoc) header(m *Model) {
	p := d.pdf
	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(pdfContentW, 10, d.tr("Manifiesto de Gastos y Avance"), "", 1, "C", false, 0, "")
	p.Ln(2)
	p.SetFont("Helvetica", "", 12)
	d.line("Proyecto: " + m.Project.Name)
	d.line(fmt.Sprintf("Mina: %s | Equipo: %s", orDash(m.Project.Mine), orDash(m.Project.Team)))
	d.line("Fecha: " + m.Project.Date.Format(dateLayout))
	d.line(fmt.Sprintf("Días planificados: %d", m.Project.PlannedDays))
	p.Ln(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (d *pdfDoc) costSummary(m *Model) {
	d.sectionTitle("Resumen de Costos")
	s := m.Summary
	d.line("Costo fijo: " + money(s.Fixed))
	d.line("Costo variable: " + money(s.Variable))
	d.line("Costo directo: " + money(s.Direct))
	d.line("Costo indirecto: " + money(s.Indirect))
	d.line("Costo total: " + money(s.Total))
	d.line("IGV: " + money(s.TotalWithTax))
	d.pdf.Ln(2)
}

func (d *pdfDoc) progressSummary(m *Model) {
	d.sectionTitle("Avance del Proyecto")
	pr := m.Progress
	d.line(fmt.Sprintf("Días reportados: %d/%d (%d%%)", pr.DaysReported, pr.DaysTotal, pr.DaysPct))
	d.line(fmt.Sprintf("Tareas realizadas: %d/%d (%d%%)", pr.TasksDone, pr.TasksTotal, pr.TasksPct))
	d.line(fmt.Sprintf("Avance promedio materiales: %d%%", pr.MaterialsPct))
	d.pdf.Ln(2)
}

// progressBars draws the physical and financial bars to a shared maximum
// width so the filled lengths are directly comparable.
func (d *pdfDoc) progressBars(m *Model) {
	d.ensureSpace(40)
	d.sectionTitle("Gráfico de Avance Físico y Financiero")

	physical := m.Progress.TasksPct
	financial := m.FinancialPct()

	d.bar("Físico:", physical, 46, 134, 193)     // blue
	d.bar("Financiero:", financial, 40, 180, 99) // green

	p := d.pdf
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(68, 68, 68)
	d.line(fmt.Sprintf("Presupuesto: %s | Costo total ejecutado: %s",
		money(m.Project.Budget), money(m.Summary.Total)))
	p.SetTextColor(0, 0, 0)
	p.SetFont("Helvetica", "", 12)
	p.Ln(2)
}

func (d *pdfDoc) bar(label string, pctVal int, r, g, b int) {
	p := d.pdf
	y := p.GetY()
	p.CellFormat(barLabelW, barH, d.tr(label), "", 0, "L", false, 0, "")

	x := pdfMargin + barLabelW
	p.SetDrawColor(153, 153, 153)
	p.SetLineWidth(0.3)
	p.Rect(x, y, barMaxW, barH, "D")
	if pctVal > 0 {
		p.SetFillColor(r, g, b)
		p.Rect(x, y, float64(pctVal)/100*barMaxW, barH, "F")
	}
	p.SetDrawColor(0, 0, 0)

	p.SetXY(x+barMaxW+4, y)
	p.CellFormat(14, barH, fmt.Sprintf("%d%%", pctVal), "", 1, "L", false, 0, "")
	p.Ln(2)
}

func (d *pdfDoc) seriesCharts(m *Model) {
	d.sectionTitle("Evolución Temporal (Físico y Financiero)")
	d.lineChart("Avance Físico % (por fecha)", m.Physical, 46, 134, 193)
	d.lineChart("Avance Financiero % (por fecha)", m.Financial, 40, 180, 99)
}

// lineChart draws one 0-100 panel: axes, gridlines every 25 points, the
// connected polyline, and date labels at a fixed stride. An empty series
// renders a visible placeholder inside the plot area.
func (d *pdfDoc) lineChart(title string, s Series, r, g, b int) {
	d.ensureSpace(chartBlockH)
	p := d.pdf

	p.SetFont("Helvetica", "", 12)
	d.line(title)

	originX := pdfMargin + chartLabelW
	topY := p.GetY() + 2
	originY := topY + chartH

	// axes
	p.SetDrawColor(51, 51, 51)
	p.SetLineWidth(0.3)
	p.Line(originX, originY, originX+chartW, originY)
	p.Line(originX, originY, originX, topY)

	// horizontal gridlines with y labels
	p.SetFont("Helvetica", "", 7)
	p.SetTextColor(102, 102, 102)
	for _, tick := range []int{0, 25, 50, 75, 100} {
		yPos := originY - float64(tick)/100*chartH
		p.SetDrawColor(221, 221, 221)
		p.SetLineWidth(0.15)
		p.Line(originX, yPos, originX+chartW, yPos)
		p.SetXY(pdfMargin, yPos-1.5)
		p.CellFormat(chartLabelW-2, 3, fmt.Sprintf("%d%%", tick), "", 0, "R", false, 0, "")
	}
	p.SetTextColor(0, 0, 0)
	p.SetDrawColor(0, 0, 0)

	n := len(s)
	if n == 0 {
		p.SetFont("Helvetica", "I", 10)
		p.SetTextColor(102, 102, 102)
		p.SetXY(originX, topY+chartH/2-2)
		p.CellFormat(chartW, 4, d.tr("Sin datos"), "", 0, "C", false, 0, "")
		p.SetTextColor(0, 0, 0)
		p.SetFont("Helvetica", "", 12)
		p.SetY(originY + 8)
		return
	}

	stepX := chartW
	if n > 1 {
		stepX = chartW / float64(n-1)
	}

	px := func(i int) float64 { return originX + stepX*float64(i) }
	py := func(pctVal int) float64 {
		v := min(max(pctVal, 0), 100)
		return originY - float64(v)/100*chartH
	}

	p.SetDrawColor(r, g, b)
	p.SetLineWidth(0.6)
	for i := 1; i < n; i++ {
		p.Line(px(i-1), py(s[i-1].Pct), px(i), py(s[i].Pct))
	}
	if n == 1 {
		// a single point has no segment to draw; mark it
		p.Circle(px(0), py(s[0].Pct), 0.8, "D")
	}
	p.SetDrawColor(0, 0, 0)

	// date labels every few points plus the last one
	p.SetFont("Helvetica", "", 7)
	p.SetTextColor(68, 68, 68)
	for i, pt := range s {
		if i%dateLblEvery != 0 && i != n-1 {
			continue
		}
		p.SetXY(px(i)-10, originY+1)
		p.CellFormat(20, 3, pt.Date, "", 0, "C", false, 0, "")
	}
	p.SetTextColor(0, 0, 0)
	p.SetFont("Helvetica", "", 12)
	p.SetY(originY + 8)
}

// breakdown lists each category's total annotated with its share of the
// group total taken from the stored summary.
func (d *pdfDoc) breakdown(m *Model) {
	d.ensureSpace(50)
	d.sectionTitle("Desglose de Costos por Tipo")

	d.breakdownGroup("Costos Fijos:", m.Breakdown.Fixed, m.Summary.Fixed, "Sin costos fijos registrados")
	d.pdf.Ln(1)
	d.breakdownGroup("Costos Variables:", m.Breakdown.Variable, m.Summary.Variable, "Sin costos variables registrados")
	d.pdf.Ln(2)
}

func (d *pdfDoc) breakdownGroup(title string, items []costs.CategoryTotal, groupTotal float64, emptyMsg string) {
	d.line(title)
	if len(items) == 0 {
		d.line("- " + emptyMsg)
		return
	}
	for _, it := range items {
		share := pct(it.Total, groupTotal)
		d.line(fmt.Sprintf("- %s: %s (%d%%)", it.Category.Slug(), money(it.Total), share))
	}
}

func (d *pdfDoc) usageLogs(m *Model) {
	d.ensureSpace(20)
	d.sectionTitle("Uso de Materiales")
	if len(m.UsageLogs) == 0 {
		d.line("Sin registros de uso de materiales.")
		d.pdf.Ln(2)
		return
	}
	for _, l := range m.UsageLogs {
		s := fmt.Sprintf("Fecha %s | %s | Usado: %s %s",
			l.Date.Format(dateLayout), l.MaterialDescription, num(l.QuantityUsed), l.Unit)
		if l.Comment != "" {
			s += " | " + l.Comment
		}
		d.line(s)
	}
	d.pdf.Ln(2)
}

// ledger renders every category section with its line items and a subtotal
// summed from the rendered lines, then reprints the two group subtotals as a
// cross-check against the stored aggregates.
func (d *pdfDoc) ledger(m *Model) {
	d.ensureSpace(20)
	d.sectionTitle("Manifiesto de Gastos Totales")

	var fixedSubtotal, variableSubtotal float64
	for _, c := range costs.All {
		sub := d.ledgerSection(c, m.Details[c])
		if c.Group() == costs.GroupFixed {
			fixedSubtotal += sub
		} else {
			variableSubtotal += sub
		}
	}

	d.ensureSpace(10)
	d.line(fmt.Sprintf("Verificación subtotales calculados: Fijo %s | Variable %s",
		money(fixedSubtotal), money(variableSubtotal)))
}

func (d *pdfDoc) ledgerSection(c costs.Category, items []costs.LineItem) float64 {
	d.ensureSpace(16)
	d.line(c.Label())
	if len(items) == 0 {
		d.line("- Sin registros")
		d.pdf.Ln(1)
		return 0
	}
	var sum float64
	for _, it := range items {
		d.line(fmt.Sprintf("- %s | Total: %s", itemLine(it), money(it.Total)))
		sum += it.Total
	}
	d.line(fmt.Sprintf("Subtotal %s: %s", c.Label(), money(sum)))
	d.pdf.Ln(1)
	return sum
}

func itemLine(it costs.LineItem) string {
	switch it.Category.Shape() {
	case costs.ShapeLabor:
		return fmt.Sprintf("Trabajador: %s | Cant: %s | Precio: %s | Días: %s",
			it.Worker, num(it.WorkerCount), num(it.Price), num(it.DaysWorked))
	case costs.ShapeAverage:
		return fmt.Sprintf("Desc: %s | Prom: %s | PU: %s | Días: %s",
			it.Description, num(it.Average), num(it.UnitPrice), num(it.DaysWorked))
	case costs.ShapeMaterial:
		return fmt.Sprintf("Desc: %s | Cant: %s %s | PU: %s",
			it.Description, num(it.Quantity), it.Unit, num(it.UnitPrice))
	default:
		return fmt.Sprintf("Desc: %s | Cant: %s | PU: %s | Días: %s",
			it.Description, num(it.Quantity), num(it.UnitPrice), num(it.DaysWorked))
	}
}
