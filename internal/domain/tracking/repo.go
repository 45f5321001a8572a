package tracking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMaterialNotInProject is returned by RegisterUsage when the material does
// not belong to the given project.
var ErrMaterialNotInProject = errors.New("material does not belong to project")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Task logs */

func (r *Repo) CreateTaskLog(ctx context.Context, l TaskLog) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tb_seguimiento_tareas (descripcion_trabajo_id, fecha, dia, tareas_realizadas, observaciones)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, l.ProjectID, l.Date, l.Day, l.TasksDone, l.Notes)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) GetTaskLog(ctx context.Context, id int64) (*TaskLog, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, descripcion_trabajo_id, fecha, dia, tareas_realizadas, COALESCE(observaciones,''), created_at
		FROM tb_seguimiento_tareas WHERE id = $1
	`, id)
	var l TaskLog
	if err := row.Scan(&l.ID, &l.ProjectID, &l.Date, &l.Day, &l.TasksDone, &l.Notes, &l.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *Repo) ListTaskLogs(ctx context.Context, projectID int64) ([]TaskLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, descripcion_trabajo_id, fecha, dia, tareas_realizadas, COALESCE(observaciones,''), created_at
		FROM tb_seguimiento_tareas
		WHERE descripcion_trabajo_id = $1
		ORDER BY fecha ASC, dia ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskLog
	for rows.Next() {
		var l TaskLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Date, &l.Day, &l.TasksDone, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateTaskLog(ctx context.Context, l TaskLog) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tb_seguimiento_tareas SET fecha=$2, dia=$3, tareas_realizadas=$4, observaciones=$5
		WHERE id=$1
	`, l.ID, l.Date, l.Day, l.TasksDone, l.Notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) DeleteTaskLog(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tb_seguimiento_tareas WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

/* Materials */

func (r *Repo) ListMaterials(ctx context.Context, projectID int64) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, descripcion, COALESCE(unidad,''), cantidad, cantidad_usado
		FROM tb_materiales
		WHERE descripcion_trabajo_id = $1
		ORDER BY id ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Description, &m.Unit, &m.Quantity, &m.QuantityUsed); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RegisterUsage inserts a consumption event and bumps the material's
// cumulative cantidad_usado in one transaction.
func (r *Repo) RegisterUsage(ctx context.Context, projectID, materialID int64, l UsageLog) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owned int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM tb_materiales WHERE id = $1 AND descripcion_trabajo_id = $2`,
		materialID, projectID).Scan(&owned)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrMaterialNotInProject
		}
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO tb_seguimiento_materiales (descripcion_trabajo_id, material_id, fecha, cantidad_usada, comentario)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, projectID, materialID, l.Date, l.QuantityUsed, l.Comment).Scan(&id)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE tb_materiales SET cantidad_usado = cantidad_usado + $1
		WHERE id = $2 AND descripcion_trabajo_id = $3
	`, l.QuantityUsed, materialID, projectID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

const usageColumns = `
	sm.id, sm.descripcion_trabajo_id, sm.material_id, sm.fecha, sm.cantidad_usada,
	COALESCE(sm.comentario,''), sm.created_at,
	m.descripcion, COALESCE(m.unidad,''), m.cantidad, m.cantidad_usado
`

func (r *Repo) scanUsageRows(rows pgx.Rows) ([]UsageLog, error) {
	defer rows.Close()
	var out []UsageLog
	for rows.Next() {
		var l UsageLog
		if err := rows.Scan(
			&l.ID, &l.ProjectID, &l.MaterialID, &l.Date, &l.QuantityUsed,
			&l.Comment, &l.CreatedAt,
			&l.MaterialDescription, &l.Unit, &l.MaterialQuantity, &l.MaterialUsedTotal,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) ListUsageLogs(ctx context.Context, projectID int64) ([]UsageLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+usageColumns+`
		FROM tb_seguimiento_materiales sm
		JOIN tb_materiales m ON m.id = sm.material_id
		WHERE sm.descripcion_trabajo_id = $1
		ORDER BY sm.fecha ASC, sm.id ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	return r.scanUsageRows(rows)
}

func (r *Repo) ListUsageLogsByMaterial(ctx context.Context, projectID, materialID int64) ([]UsageLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+usageColumns+`
		FROM tb_seguimiento_materiales sm
		JOIN tb_materiales m ON m.id = sm.material_id
		WHERE sm.descripcion_trabajo_id = $1 AND sm.material_id = $2
		ORDER BY sm.fecha ASC, sm.id ASC
	`, projectID, materialID)
	if err != nil {
		return nil, err
	}
	return r.scanUsageRows(rows)
}
