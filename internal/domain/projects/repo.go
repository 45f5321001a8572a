package projects

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, p Project) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tb_descripcion_trabajo
			(fecha, nombre_del_proyecto, mina, equipo, habilitado_estimado,
			 dias_trabajados, numeros_de_trabajadores_por_dia, numero_de_tareas_por_dia)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, p.Date, p.Name, p.Mine, p.Team, p.Budget, p.PlannedDays, p.WorkersPerDay, p.TasksPerDay)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

const projectColumns = `
	dt.id, dt.fecha, dt.nombre_del_proyecto, dt.mina, dt.equipo, dt.habilitado_estimado,
	dt.dias_trabajados, dt.numeros_de_trabajadores_por_dia, dt.numero_de_tareas_por_dia, dt.created_at,
	COALESCE(rp.costo_fijo,0), COALESCE(rp.costo_variable,0), COALESCE(rp.costo_directo,0),
	COALESCE(rp.costo_indirecto,0), COALESCE(rp.costo_total,0), COALESCE(rp.costo_total_igv,0)
`

func scanProject(row pgx.Row) (*ProjectWithSummary, error) {
	var p ProjectWithSummary
	if err := row.Scan(
		&p.ID, &p.Date, &p.Name, &p.Mine, &p.Team, &p.Budget,
		&p.PlannedDays, &p.WorkersPerDay, &p.TasksPerDay, &p.CreatedAt,
		&p.Summary.Fixed, &p.Summary.Variable, &p.Summary.Direct,
		&p.Summary.Indirect, &p.Summary.Total, &p.Summary.TotalWithTax,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*ProjectWithSummary, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM tb_descripcion_trabajo dt
		LEFT JOIN tb_resumen_proyecto rp ON dt.id = rp.descripcion_trabajo_id
		WHERE dt.id = $1
	`, id)
	p, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]ProjectWithSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM tb_descripcion_trabajo dt
		LEFT JOIN tb_resumen_proyecto rp ON dt.id = rp.descripcion_trabajo_id
		ORDER BY dt.fecha DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectWithSummary
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, p Project) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tb_descripcion_trabajo
		SET fecha=$2, nombre_del_proyecto=$3, mina=$4, equipo=$5, habilitado_estimado=$6,
		    dias_trabajados=$7, numeros_de_trabajadores_por_dia=$8, numero_de_tareas_por_dia=$9
		WHERE id=$1
	`, p.ID, p.Date, p.Name, p.Mine, p.Team, p.Budget, p.PlannedDays, p.WorkersPerDay, p.TasksPerDay)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tb_descripcion_trabajo WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RefreshSummary recomputes the stored fixed/variable/direct/indirect/total
// aggregates for the project. Callers invoke it after any cost mutation.
func (r *Repo) RefreshSummary(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `CALL sp_actualizar_resumen($1)`, id)
	return err
}
