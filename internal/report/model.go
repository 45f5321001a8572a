// Package report builds the manifest model from the project's ledgers and
// tracking logs, and renders it as a PDF or an xlsx workbook. The model is
// built once per request and handed to both renderers so the two documents
// can never disagree on a number.
package report

import (
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

// SeriesPoint is one cumulative step of a progress series. Amount is only
// meaningful for the financial series.
type SeriesPoint struct {
	Date   string // YYYY-MM-DD
	Pct    int
	Amount float64
}

type Series []SeriesPoint

// MaterialProgress is the per-material completion indicator.
type MaterialProgress struct {
	ID           int64
	Description  string
	Quantity     float64
	QuantityUsed float64
	Pct          int
}

// Progress carries the day/task/material indicators. Percentages are whole
// numbers already clamped to [0,100].
type Progress struct {
	DaysTotal    int
	DaysReported int
	DaysPct      int

	TasksTotal int
	TasksDone  int
	TasksPct   int

	MaterialsPct int
	Materials    []MaterialProgress
}

// Model is the transient report aggregate. It is owned by the request that
// built it and discarded after rendering.
type Model struct {
	Project  projects.Project
	Summary  projects.Summary
	Progress Progress

	Breakdown costs.Breakdown
	Details   map[costs.Category][]costs.LineItem
	UsageLogs []tracking.UsageLog

	Physical  Series
	Financial Series
}

// FinancialPct is the headline budget-consumption percentage shown next to
// the physical bar.
func (m *Model) FinancialPct() int {
	return pct(m.Summary.Total, m.Project.Budget)
}
