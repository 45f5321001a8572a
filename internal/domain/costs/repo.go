package costs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// selectColumns returns the per-shape column list scanned by scanItem.
func selectColumns(c Category) string {
	switch c.Shape() {
	case ShapeLabor:
		return "id, descripcion_trabajo_id, trabajador, cantidad_trabajador, precio, dias_trabajados, sub_total, created_at"
	case ShapeAverage:
		return "id, descripcion_trabajo_id, descripcion, promedio, precio_unitario, dias_trabajados, total, created_at"
	case ShapeMaterial:
		return "id, descripcion_trabajo_id, descripcion, cantidad, COALESCE(unidad,''), precio_unitario, total, created_at"
	default: // ShapeQuantity
		return "id, descripcion_trabajo_id, descripcion, cantidad, precio_unitario, dias_trabajados, total, created_at"
	}
}

func scanItem(row pgx.Row, c Category) (LineItem, error) {
	it := LineItem{Category: c}
	var err error
	switch c.Shape() {
	case ShapeLabor:
		err = row.Scan(&it.ID, &it.ProjectID, &it.Worker, &it.WorkerCount, &it.Price, &it.DaysWorked, &it.Total, &it.CreatedAt)
	case ShapeAverage:
		err = row.Scan(&it.ID, &it.ProjectID, &it.Description, &it.Average, &it.UnitPrice, &it.DaysWorked, &it.Total, &it.CreatedAt)
	case ShapeMaterial:
		err = row.Scan(&it.ID, &it.ProjectID, &it.Description, &it.Quantity, &it.Unit, &it.UnitPrice, &it.Total, &it.CreatedAt)
	default:
		err = row.Scan(&it.ID, &it.ProjectID, &it.Description, &it.Quantity, &it.UnitPrice, &it.DaysWorked, &it.Total, &it.CreatedAt)
	}
	return it, err
}

/* Ledger CRUD */

func (r *Repo) Insert(ctx context.Context, projectID int64, it LineItem) (int64, error) {
	c := it.Category
	var q string
	var args []any
	switch c.Shape() {
	case ShapeLabor:
		q = fmt.Sprintf(`
			INSERT INTO %s (descripcion_trabajo_id, trabajador, cantidad_trabajador, precio, dias_trabajados, sub_total)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
		`, c.Table())
		args = []any{projectID, it.Worker, it.WorkerCount, it.Price, it.DaysWorked, it.Total}
	case ShapeAverage:
		q = fmt.Sprintf(`
			INSERT INTO %s (descripcion_trabajo_id, descripcion, promedio, precio_unitario, dias_trabajados, total)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
		`, c.Table())
		args = []any{projectID, it.Description, it.Average, it.UnitPrice, it.DaysWorked, it.Total}
	case ShapeMaterial:
		q = fmt.Sprintf(`
			INSERT INTO %s (descripcion_trabajo_id, descripcion, cantidad, unidad, precio_unitario, total)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
		`, c.Table())
		args = []any{projectID, it.Description, it.Quantity, it.Unit, it.UnitPrice, it.Total}
	default:
		q = fmt.Sprintf(`
			INSERT INTO %s (descripcion_trabajo_id, descripcion, cantidad, precio_unitario, dias_trabajados, total)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
		`, c.Table())
		args = []any{projectID, it.Description, it.Quantity, it.UnitPrice, it.DaysWorked, it.Total}
	}

	var id int64
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, c Category, id int64) (*LineItem, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1`, selectColumns(c), c.Table()), id)
	it, err := scanItem(row, c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListByProject(ctx context.Context, projectID int64, c Category) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE descripcion_trabajo_id = $1 ORDER BY id ASC`,
		selectColumns(c), c.Table()), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		it, err := scanItem(rows, c)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, it LineItem) (bool, error) {
	c := it.Category
	var q string
	var args []any
	switch c.Shape() {
	case ShapeLabor:
		q = fmt.Sprintf(`
			UPDATE %s SET trabajador=$2, cantidad_trabajador=$3, precio=$4, dias_trabajados=$5, sub_total=$6
			WHERE id=$1
		`, c.Table())
		args = []any{it.ID, it.Worker, it.WorkerCount, it.Price, it.DaysWorked, it.Total}
	case ShapeAverage:
		q = fmt.Sprintf(`
			UPDATE %s SET descripcion=$2, promedio=$3, precio_unitario=$4, dias_trabajados=$5, total=$6
			WHERE id=$1
		`, c.Table())
		args = []any{it.ID, it.Description, it.Average, it.UnitPrice, it.DaysWorked, it.Total}
	case ShapeMaterial:
		q = fmt.Sprintf(`
			UPDATE %s SET descripcion=$2, cantidad=$3, unidad=$4, precio_unitario=$5, total=$6
			WHERE id=$1
		`, c.Table())
		args = []any{it.ID, it.Description, it.Quantity, it.Unit, it.UnitPrice, it.Total}
	default:
		q = fmt.Sprintf(`
			UPDATE %s SET descripcion=$2, cantidad=$3, precio_unitario=$4, dias_trabajados=$5, total=$6
			WHERE id=$1
		`, c.Table())
		args = []any{it.ID, it.Description, it.Quantity, it.UnitPrice, it.DaysWorked, it.Total}
	}

	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) Delete(ctx context.Context, c Category, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.Table()), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

/* Aggregation */

// Total sums the category's monetary column for the project, rounded to two
// decimals, zero when the ledger is empty.
func (r *Repo) Total(ctx context.Context, projectID int64, c Category) (float64, error) {
	q := fmt.Sprintf(`SELECT ROUND(COALESCE(SUM(%s),0),2) FROM %s WHERE descripcion_trabajo_id = $1`,
		c.TotalColumn(), c.Table())
	var total float64
	if err := r.pool.QueryRow(ctx, q, projectID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// TotalsByDate groups the ledger by UTC calendar date of creation, ascending.
// Every category truncates timestamps with the same rule so same-day spend
// lines up across ledgers.
func (r *Repo) TotalsByDate(ctx context.Context, projectID int64, c Category) ([]DateAmount, error) {
	q := fmt.Sprintf(`
		SELECT (created_at AT TIME ZONE 'UTC')::date AS fecha, ROUND(COALESCE(SUM(%s),0),2) AS total
		FROM %s
		WHERE descripcion_trabajo_id = $1
		GROUP BY (created_at AT TIME ZONE 'UTC')::date
		ORDER BY fecha ASC
	`, c.TotalColumn(), c.Table())

	rows, err := r.pool.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DateAmount
	for rows.Next() {
		var da DateAmount
		if err := rows.Scan(&da.Date, &da.Amount); err != nil {
			return nil, err
		}
		out = append(out, da)
	}
	return out, rows.Err()
}

// Breakdown runs Total for every category concurrently and assembles the
// result in contract order, independent of which query finishes first.
func (r *Repo) Breakdown(ctx context.Context, projectID int64) (Breakdown, error) {
	totals := make([]float64, len(All))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range All {
		g.Go(func() error {
			t, err := r.Total(gctx, projectID, c)
			if err != nil {
				return fmt.Errorf("total %s: %w", c.Slug(), err)
			}
			totals[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Breakdown{}, err
	}

	var b Breakdown
	for i, c := range All {
		ct := CategoryTotal{Category: c, Total: totals[i]}
		if c.Group() == GroupFixed {
			b.Fixed = append(b.Fixed, ct)
		} else {
			b.Variable = append(b.Variable, ct)
		}
	}
	return b, nil
}
