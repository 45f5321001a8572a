package report

import (
	"math"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

// pct converts num/den to a whole percentage, round-half-up, clamped to 100.
// A non-positive denominator yields 0: plans with zero days or tasks must
// never divide.
func pct(num, den float64) int {
	if den <= 0 {
		return 0
	}
	p := int(math.Round(num / den * 100))
	return min(p, 100)
}

// ComputeProgress derives the day/task/material indicators from the plan and
// the raw tracking rows. Days count distinct day ordinals, so re-reporting
// the same day does not inflate progress; raw over-reporting is clamped.
func ComputeProgress(p projects.Project, logs []tracking.TaskLog, mats []tracking.Material) Progress {
	daysTotal := p.PlannedDays
	tasksTotal := p.PlannedDays * p.TasksPerDay

	seen := make(map[int]struct{}, len(logs))
	tasksDone := 0
	for _, l := range logs {
		seen[l.Day] = struct{}{}
		tasksDone += l.TasksDone
	}

	pr := Progress{
		DaysTotal:    daysTotal,
		DaysReported: len(seen),
		DaysPct:      pct(float64(len(seen)), float64(daysTotal)),
		TasksTotal:   tasksTotal,
		TasksDone:    tasksDone,
		TasksPct:     pct(float64(tasksDone), float64(tasksTotal)),
	}

	for _, m := range mats {
		pr.Materials = append(pr.Materials, MaterialProgress{
			ID:           m.ID,
			Description:  m.Description,
			Quantity:     m.Quantity,
			QuantityUsed: m.QuantityUsed,
			Pct:          pct(m.QuantityUsed, m.Quantity),
		})
	}

	// Plain mean of the per-material percentages, not quantity-weighted.
	// The documents depend on this exact formula.
	if len(pr.Materials) > 0 {
		sum := 0
		for _, m := range pr.Materials {
			sum += m.Pct
		}
		pr.MaterialsPct = int(math.Round(float64(sum) / float64(len(pr.Materials))))
	}

	return pr
}
