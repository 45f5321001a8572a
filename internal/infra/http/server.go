package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, h *Handlers) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if h != nil {
		mux.HandleFunc("POST /proyectos", h.CreateProject)
		mux.HandleFunc("GET /proyectos", h.ListProjects)
		mux.HandleFunc("GET /proyectos/{id}", h.GetProject)
		mux.HandleFunc("PUT /proyectos/{id}", h.UpdateProject)
		mux.HandleFunc("DELETE /proyectos/{id}", h.DeleteProject)

		mux.HandleFunc("POST /proyectos/{id}/costos/{categoria}", h.CreateCost)
		mux.HandleFunc("GET /proyectos/{id}/costos/{categoria}", h.ListCosts)
		mux.HandleFunc("GET /proyectos/{id}/costos/{categoria}/{itemID}", h.GetCost)
		mux.HandleFunc("PUT /proyectos/{id}/costos/{categoria}/{itemID}", h.UpdateCost)
		mux.HandleFunc("DELETE /proyectos/{id}/costos/{categoria}/{itemID}", h.DeleteCost)

		mux.HandleFunc("POST /proyectos/{id}/tareas", h.CreateTaskLog)
		mux.HandleFunc("GET /proyectos/{id}/tareas", h.ListTaskLogs)
		mux.HandleFunc("GET /tareas/{id}", h.GetTaskLog)
		mux.HandleFunc("PUT /tareas/{id}", h.UpdateTaskLog)
		mux.HandleFunc("DELETE /tareas/{id}", h.DeleteTaskLog)

		mux.HandleFunc("GET /proyectos/{id}/materiales", h.ListMaterials)
		mux.HandleFunc("POST /proyectos/{id}/materiales/uso", h.RegisterUsage)
		mux.HandleFunc("GET /proyectos/{id}/materiales/uso", h.ListUsageLogs)

		mux.HandleFunc("GET /proyectos/{id}/avance", h.Progress)
		mux.HandleFunc("GET /proyectos/{id}/manifiesto/pdf", h.ManifestPDF)
		mux.HandleFunc("GET /proyectos/{id}/manifiesto/excel", h.ManifestExcel)
	}

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
