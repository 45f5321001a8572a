package report

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

// ErrProjectNotFound is returned before any aggregation work when the project
// id does not exist.
var ErrProjectNotFound = errors.New("project not found")

type ProjectSource interface {
	GetByID(ctx context.Context, id int64) (*projects.ProjectWithSummary, error)
}

type CostSource interface {
	Breakdown(ctx context.Context, projectID int64) (costs.Breakdown, error)
	TotalsByDate(ctx context.Context, projectID int64, c costs.Category) ([]costs.DateAmount, error)
	ListByProject(ctx context.Context, projectID int64, c costs.Category) ([]costs.LineItem, error)
}

type TrackingSource interface {
	ListTaskLogs(ctx context.Context, projectID int64) ([]tracking.TaskLog, error)
	ListMaterials(ctx context.Context, projectID int64) ([]tracking.Material, error)
	ListUsageLogs(ctx context.Context, projectID int64) ([]tracking.UsageLog, error)
}

// Builder assembles the full report model for a project. It holds no state
// between calls; every Build reads current data.
type Builder struct {
	projects ProjectSource
	costs    CostSource
	tracking TrackingSource
}

func NewBuilder(projects ProjectSource, costs CostSource, tracking TrackingSource) *Builder {
	return &Builder{projects: projects, costs: costs, tracking: tracking}
}

// Build materializes the model. The per-category queries fan out
// concurrently; the assembled order is always the contract order.
func (b *Builder) Build(ctx context.Context, projectID int64) (*Model, error) {
	p, err := b.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	m := &Model{Project: p.Project, Summary: p.Summary}

	var (
		logs    []tracking.TaskLog
		mats    []tracking.Material
		byDate  = make([][]costs.DateAmount, len(costs.All))
		details = make([][]costs.LineItem, len(costs.All))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		m.Breakdown, err = b.costs.Breakdown(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = b.tracking.ListTaskLogs(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		mats, err = b.tracking.ListMaterials(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		m.UsageLogs, err = b.tracking.ListUsageLogs(gctx, projectID)
		return err
	})
	for i, c := range costs.All {
		g.Go(func() error {
			das, err := b.costs.TotalsByDate(gctx, projectID, c)
			if err != nil {
				return fmt.Errorf("totals by date %s: %w", c.Slug(), err)
			}
			byDate[i] = das
			return nil
		})
		g.Go(func() error {
			items, err := b.costs.ListByProject(gctx, projectID, c)
			if err != nil {
				return fmt.Errorf("detail %s: %w", c.Slug(), err)
			}
			details[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.Details = make(map[costs.Category][]costs.LineItem, len(costs.All))
	for i, c := range costs.All {
		m.Details[c] = details[i]
	}

	m.Progress = ComputeProgress(m.Project, logs, mats)
	m.Physical = PhysicalSeries(logs, m.Progress.TasksTotal)
	m.Financial = FinancialSeries(byDate, m.Project.Budget)

	return m, nil
}
