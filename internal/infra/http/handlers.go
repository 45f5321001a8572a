package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/costs"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/projects"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/domain/tracking"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/metrics"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/report"
)

// Handlers serves the report and CRUD endpoints. Each report request builds
// its own model from current data; nothing is cached between requests.
type Handlers struct {
	builder  *report.Builder
	charts   report.ChartRenderer
	projects *projects.Repo
	costs    *costs.Repo
	tracking *tracking.Repo
	log      *slog.Logger
}

func NewHandlers(builder *report.Builder, charts report.ChartRenderer, pr *projects.Repo, cr *costs.Repo, tr *tracking.Repo, log *slog.Logger) *Handlers {
	return &Handlers{builder: builder, charts: charts, projects: pr, costs: cr, tracking: tr, log: log}
}

func (h *Handlers) buildModel(w http.ResponseWriter, r *http.Request) (*report.Model, int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de proyecto inválido")
		return nil, 0, false
	}

	m, err := h.builder.Build(r.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Proyecto no encontrado")
			return nil, 0, false
		}
		h.log.Error("report build failed", "project_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return nil, 0, false
	}
	return m, id, true
}

func (h *Handlers) ManifestPDF(w http.ResponseWriter, r *http.Request) {
	m, id, ok := h.buildModel(w, r)
	if !ok {
		return
	}
	out, err := report.RenderPDF(m)
	if err != nil {
		h.log.Error("pdf render failed", "project_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	metrics.ManifestsGenerated.WithLabelValues("pdf").Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=manifiesto-proyecto-%d.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *Handlers) ManifestExcel(w http.ResponseWriter, r *http.Request) {
	m, id, ok := h.buildModel(w, r)
	if !ok {
		return
	}
	out, err := report.RenderExcel(r.Context(), m, h.charts, h.log)
	if err != nil {
		h.log.Error("excel render failed", "project_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	metrics.ManifestsGenerated.WithLabelValues("xlsx").Inc()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=manifiesto-proyecto-%d.xlsx", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

type materialProgressJSON struct {
	ID           int64   `json:"id"`
	Description  string  `json:"descripcion"`
	Quantity     float64 `json:"cantidad_total"`
	QuantityUsed float64 `json:"cantidad_usado"`
	Pct          int     `json:"avance_pct"`
}

type progressJSON struct {
	Days struct {
		Total    int `json:"diasTotales"`
		Reported int `json:"diasReportados"`
		Pct      int `json:"avanceDiasPct"`
	} `json:"dias"`
	Tasks struct {
		Total int `json:"tareasTotales"`
		Done  int `json:"tareasRealizadas"`
		Pct   int `json:"avanceTareasPct"`
	} `json:"tareas"`
	Materials struct {
		Pct    int                    `json:"avanceMaterialesPct"`
		Detail []materialProgressJSON `json:"detalle"`
	} `json:"materiales"`
}

func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	m, _, ok := h.buildModel(w, r)
	if !ok {
		return
	}

	var out progressJSON
	pr := m.Progress
	out.Days.Total = pr.DaysTotal
	out.Days.Reported = pr.DaysReported
	out.Days.Pct = pr.DaysPct
	out.Tasks.Total = pr.TasksTotal
	out.Tasks.Done = pr.TasksDone
	out.Tasks.Pct = pr.TasksPct
	out.Materials.Pct = pr.MaterialsPct
	out.Materials.Detail = make([]materialProgressJSON, 0, len(pr.Materials))
	for _, mp := range pr.Materials {
		out.Materials.Detail = append(out.Materials.Detail, materialProgressJSON{
			ID:           mp.ID,
			Description:  mp.Description,
			Quantity:     mp.Quantity,
			QuantityUsed: mp.QuantityUsed,
			Pct:          mp.Pct,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Avance del proyecto obtenido",
		"data":    out,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]string{"message": msg},
	})
}
