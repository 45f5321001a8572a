package tracking

import "time"

// TaskLog is one day-of-work report. Several entries may share the same day
// ordinal; progress counts distinct ordinals, not entries.
type TaskLog struct {
	ID        int64
	ProjectID int64
	Date      time.Time
	Day       int
	TasksDone int
	Notes     string
	CreatedAt time.Time
}

// Material is the stocked-quantity view of a tb_materiales row. QuantityUsed
// is maintained by RegisterUsage and only read here.
type Material struct {
	ID           int64
	Description  string
	Unit         string
	Quantity     float64
	QuantityUsed float64
}

// UsageLog is one consumption event, joined with its material for display.
type UsageLog struct {
	ID           int64
	ProjectID    int64
	MaterialID   int64
	Date         time.Time
	QuantityUsed float64
	Comment      string
	CreatedAt    time.Time

	MaterialDescription string
	Unit                string
	MaterialQuantity    float64
	MaterialUsedTotal   float64
}
