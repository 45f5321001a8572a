package projects

import "time"

type Project struct {
	ID            int64
	Date          time.Time
	Name          string
	Mine          string
	Team          string
	Budget        float64 // habilitado_estimado
	PlannedDays   int
	WorkersPerDay int
	TasksPerDay   int
	CreatedAt     time.Time
}

// Summary is the stored cost aggregate maintained by sp_actualizar_resumen.
type Summary struct {
	Fixed        float64
	Variable     float64
	Direct       float64
	Indirect     float64
	Total        float64
	TotalWithTax float64
}

// ProjectWithSummary is the list/detail row joined with its stored summary.
type ProjectWithSummary struct {
	Project
	Summary Summary
}
