package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
)

const dateLayout = "2006-01-02"

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handlers) internalError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, "err", err)
	writeError(w, http.StatusInternalServerError, "Error interno del servidor")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de la petición inválido")
		return false
	}
	return true
}

// ---- proyectos ----

type projectJSON struct {
	ID                 int64   `json:"id,omitempty"`
	Fecha              string  `json:"fecha"`
	Nombre             string  `json:"nombre_del_proyecto"`
	Mina               string  `json:"mina"`
	Equipo             string  `json:"equipo"`
	HabilitadoEstimado float64 `json:"habilitado_estimado"`
	DiasTrabajados     int     `json:"dias_trabajados"`
	TrabajadoresPorDia int     `json:"numeros_de_trabajadores_por_dia"`
	TareasPorDia       int     `json:"numero_de_tareas_por_dia"`
}

type summaryJSON struct {
	CostoFijo      float64 `json:"costo_fijo"`
	CostoVariable  float64 `json:"costo_variable"`
	CostoDirecto   float64 `json:"costo_directo"`
	CostoIndirecto float64 `json:"costo_indirecto"`
	CostoTotal     float64 `json:"costo_total"`
	IGV            float64 `json:"igv"`
}

func (pj projectJSON) toDomain() (projects.Project, error) {
	date, err := time.Parse(dateLayout, pj.Fecha)
	if err != nil {
		return projects.Project{}, err
	}
	return projects.Project{
		ID:            pj.ID,
		Date:          date,
		Name:          pj.Nombre,
		Mine:          pj.Mina,
		Team:          pj.Equipo,
		Budget:        pj.HabilitadoEstimado,
		PlannedDays:   pj.DiasTrabajados,
		WorkersPerDay: pj.TrabajadoresPorDia,
		TasksPerDay:   pj.TareasPorDia,
	}, nil
}

func projectToJSON(p projects.ProjectWithSummary) map[string]any {
	return map[string]any{
		"id":                              p.ID,
		"fecha":                           p.Date.Format(dateLayout),
		"nombre_del_proyecto":             p.Name,
		"mina":                            p.Mine,
		"equipo":                          p.Team,
		"habilitado_estimado":             p.Budget,
		"dias_trabajados":                 p.PlannedDays,
		"numeros_de_trabajadores_por_dia": p.WorkersPerDay,
		"numero_de_tareas_por_dia":        p.TasksPerDay,
		"resumen": summaryJSON{
			CostoFijo:      p.Summary.Fixed,
			CostoVariable:  p.Summary.Variable,
			CostoDirecto:   p.Summary.Direct,
			CostoIndirecto: p.Summary.Indirect,
			CostoTotal:     p.Summary.Total,
			IGV:            p.Summary.TotalWithTax,
		},
	}
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body projectJSON
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "fecha inválida, se espera YYYY-MM-DD")
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "nombre_del_proyecto es obligatorio")
		return
	}
	id, err := h.projects.Create(r.Context(), p)
	if err != nil {
		h.internalError(w, "project create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Proyecto creado",
		"data":    map[string]any{"id": id},
	})
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		h.internalError(w, "project list failed", err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, p := range list {
		out = append(out, projectToJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, "project get failed", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": projectToJSON(*p)})
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	var body projectJSON
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "fecha inválida, se espera YYYY-MM-DD")
		return
	}
	p.ID = id
	updated, err := h.projects.Update(r.Context(), p)
	if err != nil {
		h.internalError(w, "project update failed", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Proyecto actualizado"})
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	deleted, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		h.internalError(w, "project delete failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Proyecto eliminado"})
}

// ---- costos ----

type costJSON struct {
	ID                 int64   `json:"id,omitempty"`
	Trabajador         string  `json:"trabajador,omitempty"`
	CantidadTrabajador float64 `json:"cantidad_trabajador,omitempty"`
	Precio             float64 `json:"precio,omitempty"`
	Descripcion        string  `json:"descripcion,omitempty"`
	Promedio           float64 `json:"promedio,omitempty"`
	Cantidad           float64 `json:"cantidad,omitempty"`
	Unidad             string  `json:"unidad,omitempty"`
	PrecioUnitario     float64 `json:"precio_unitario,omitempty"`
	DiasTrabajados     float64 `json:"dias_trabajados,omitempty"`
	Total              float64 `json:"total"`
}

func (cj costJSON) toDomain(c costs.Category) costs.LineItem {
	return costs.LineItem{
		ID:          cj.ID,
		Category:    c,
		Worker:      cj.Trabajador,
		WorkerCount: cj.CantidadTrabajador,
		Price:       cj.Precio,
		Description: cj.Descripcion,
		Average:     cj.Promedio,
		Quantity:    cj.Cantidad,
		Unit:        cj.Unidad,
		UnitPrice:   cj.PrecioUnitario,
		DaysWorked:  cj.DiasTrabajados,
		Total:       cj.Total,
	}
}

func costToJSON(it costs.LineItem) costJSON {
	return costJSON{
		ID:                 it.ID,
		Trabajador:         it.Worker,
		CantidadTrabajador: it.WorkerCount,
		Precio:             it.Price,
		Descripcion:        it.Description,
		Promedio:           it.Average,
		Cantidad:           it.Quantity,
		Unidad:             it.Unit,
		PrecioUnitario:     it.UnitPrice,
		DiasTrabajados:     it.DaysWorked,
		Total:              it.Total,
	}
}

// costScope resolves the {id}/{categoria} pair shared by the ledger routes.
func (h *Handlers) costScope(w http.ResponseWriter, r *http.Request) (int64, costs.Category, bool) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return 0, 0, false
	}
	c, ok := costs.FromSlug(r.PathValue("categoria"))
	if !ok {
		writeError(w, http.StatusBadRequest, "categoría de costo desconocida")
		return 0, 0, false
	}
	return projectID, c, true
}

// refreshSummary re-runs the stored aggregate after a ledger mutation. A
// failure is logged, not surfaced: the write already happened.
func (h *Handlers) refreshSummary(r *http.Request, projectID int64) {
	if err := h.projects.RefreshSummary(r.Context(), projectID); err != nil {
		h.log.Error("summary refresh failed", "project_id", projectID, "err", err)
	}
}

func (h *Handlers) CreateCost(w http.ResponseWriter, r *http.Request) {
	projectID, c, ok := h.costScope(w, r)
	if !ok {
		return
	}
	var body costJSON
	if !decodeBody(w, r, &body) {
		return
	}
	id, err := h.costs.Insert(r.Context(), projectID, body.toDomain(c))
	if err != nil {
		h.internalError(w, "cost insert failed", err)
		return
	}
	h.refreshSummary(r, projectID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Registro de costo creado",
		"data":    map[string]any{"id": id},
	})
}

func (h *Handlers) ListCosts(w http.ResponseWriter, r *http.Request) {
	projectID, c, ok := h.costScope(w, r)
	if !ok {
		return
	}
	items, err := h.costs.ListByProject(r.Context(), projectID, c)
	if err != nil {
		h.internalError(w, "cost list failed", err)
		return
	}
	out := make([]costJSON, 0, len(items))
	for _, it := range items {
		out = append(out, costToJSON(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (h *Handlers) GetCost(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.costScope(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	it, err := h.costs.GetByID(r.Context(), c, itemID)
	if err != nil {
		h.internalError(w, "cost get failed", err)
		return
	}
	if it == nil {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": costToJSON(*it)})
}

func (h *Handlers) UpdateCost(w http.ResponseWriter, r *http.Request) {
	projectID, c, ok := h.costScope(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	var body costJSON
	if !decodeBody(w, r, &body) {
		return
	}
	it := body.toDomain(c)
	it.ID = itemID
	updated, err := h.costs.Update(r.Context(), it)
	if err != nil {
		h.internalError(w, "cost update failed", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	h.refreshSummary(r, projectID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registro actualizado"})
}

func (h *Handlers) DeleteCost(w http.ResponseWriter, r *http.Request) {
	projectID, c, ok := h.costScope(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	deleted, err := h.costs.Delete(r.Context(), c, itemID)
	if err != nil {
		h.internalError(w, "cost delete failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	h.refreshSummary(r, projectID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registro eliminado"})
}

// ---- seguimiento de tareas ----

type taskLogJSON struct {
	ID               int64  `json:"id,omitempty"`
	Fecha            string `json:"fecha"`
	Dia              int    `json:"dia"`
	TareasRealizadas int    `json:"tareas_realizadas"`
	Observaciones    string `json:"observaciones"`
}

func taskLogToJSON(l tracking.TaskLog) taskLogJSON {
	return taskLogJSON{
		ID:               l.ID,
		Fecha:            l.Date.Format(dateLayout),
		Dia:              l.Day,
		TareasRealizadas: l.TasksDone,
		Observaciones:    l.Notes,
	}
}

func (h *Handlers) CreateTaskLog(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	var body taskLogJSON
	if !decodeBody(w, r, &body) {
		return
	}
	date, err := time.Parse(dateLayout, body.Fecha)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fecha inválida, se espera YYYY-MM-DD")
		return
	}
	if body.Dia <= 0 {
		writeError(w, http.StatusBadRequest, "dia debe ser positivo")
		return
	}
	id, err := h.tracking.CreateTaskLog(r.Context(), tracking.TaskLog{
		ProjectID: projectID,
		Date:      date,
		Day:       body.Dia,
		TasksDone: body.TareasRealizadas,
		Notes:     body.Observaciones,
	})
	if err != nil {
		h.internalError(w, "task log create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Seguimiento de tareas registrado",
		"data":    map[string]any{"id": id},
	})
}

func (h *Handlers) ListTaskLogs(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	logs, err := h.tracking.ListTaskLogs(r.Context(), projectID)
	if err != nil {
		h.internalError(w, "task log list failed", err)
		return
	}
	out := make([]taskLogJSON, 0, len(logs))
	for _, l := range logs {
		out = append(out, taskLogToJSON(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (h *Handlers) GetTaskLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	l, err := h.tracking.GetTaskLog(r.Context(), id)
	if err != nil {
		h.internalError(w, "task log get failed", err)
		return
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": taskLogToJSON(*l)})
}

func (h *Handlers) UpdateTaskLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	var body taskLogJSON
	if !decodeBody(w, r, &body) {
		return
	}
	date, err := time.Parse(dateLayout, body.Fecha)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fecha inválida, se espera YYYY-MM-DD")
		return
	}
	updated, err := h.tracking.UpdateTaskLog(r.Context(), tracking.TaskLog{
		ID:        id,
		Date:      date,
		Day:       body.Dia,
		TasksDone: body.TareasRealizadas,
		Notes:     body.Observaciones,
	})
	if err != nil {
		h.internalError(w, "task log update failed", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registro actualizado"})
}

func (h *Handlers) DeleteTaskLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de registro inválido")
		return
	}
	deleted, err := h.tracking.DeleteTaskLog(r.Context(), id)
	if err != nil {
		h.internalError(w, "task log delete failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Registro no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Registro eliminado"})
}

// ---- seguimiento de materiales ----

type materialJSON struct {
	ID            int64   `json:"id"`
	Descripcion   string  `json:"descripcion"`
	Unidad        string  `json:"unidad"`
	Cantidad      float64 `json:"cantidad"`
	CantidadUsado float64 `json:"cantidad_usado"`
}

type usageLogJSON struct {
	ID            int64   `json:"id"`
	MaterialID    int64   `json:"material_id"`
	Material      string  `json:"material"`
	Unidad        string  `json:"unidad"`
	Fecha         string  `json:"fecha"`
	CantidadUsada float64 `json:"cantidad_usada"`
	Comentario    string  `json:"comentario"`
}

type registerUsageJSON struct {
	MaterialID    int64   `json:"material_id"`
	Fecha         string  `json:"fecha"`
	CantidadUsada float64 `json:"cantidad_usada"`
	Comentario    string  `json:"comentario"`
}

func usageToJSON(l tracking.UsageLog) usageLogJSON {
	return usageLogJSON{
		ID:            l.ID,
		MaterialID:    l.MaterialID,
		Material:      l.MaterialDescription,
		Unidad:        l.Unit,
		Fecha:         l.Date.Format(dateLayout),
		CantidadUsada: l.QuantityUsed,
		Comentario:    l.Comment,
	}
}

func (h *Handlers) ListMaterials(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	mats, err := h.tracking.ListMaterials(r.Context(), projectID)
	if err != nil {
		h.internalError(w, "material list failed", err)
		return
	}
	out := make([]materialJSON, 0, len(mats))
	for _, m := range mats {
		out = append(out, materialJSON{
			ID:            m.ID,
			Descripcion:   m.Description,
			Unidad:        m.Unit,
			Cantidad:      m.Quantity,
			CantidadUsado: m.QuantityUsed,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (h *Handlers) RegisterUsage(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}
	var body registerUsageJSON
	if !decodeBody(w, r, &body) {
		return
	}
	if body.MaterialID <= 0 || body.CantidadUsada <= 0 {
		writeError(w, http.StatusBadRequest, "material_id y cantidad_usada deben ser positivos")
		return
	}
	date, err := time.Parse(dateLayout, body.Fecha)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fecha inválida, se espera YYYY-MM-DD")
		return
	}
	id, err := h.tracking.RegisterUsage(r.Context(), projectID, body.MaterialID, tracking.UsageLog{
		Date:         date,
		QuantityUsed: body.CantidadUsada,
		Comment:      body.Comentario,
	})
	if err != nil {
		if errors.Is(err, tracking.ErrMaterialNotInProject) {
			writeError(w, http.StatusNotFound, "Material no encontrado en el proyecto")
			return
		}
		h.internalError(w, "usage register failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Uso de material registrado",
		"data":    map[string]any{"id": id},
	})
}

func (h *Handlers) ListUsageLogs(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return
	}

	var (
		logs []tracking.UsageLog
		err  error
	)
	if raw := r.URL.Query().Get("material_id"); raw != "" {
		materialID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || materialID <= 0 {
			writeError(w, http.StatusBadRequest, "material_id inválido")
			return
		}
		logs, err = h.tracking.ListUsageLogsByMaterial(r.Context(), projectID, materialID)
	} else {
		logs, err = h.tracking.ListUsageLogs(r.Context(), projectID)
	}
	if err != nil {
		h.internalError(w, "usage list failed", err)
		return
	}

	out := make([]usageLogJSON, 0, len(logs))
	for _, l := range logs {
		out = append(out, usageToJSON(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}
