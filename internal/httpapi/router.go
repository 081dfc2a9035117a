// Package httpapi wires the HTTP surface of the cash flow engine.
// It keeps handlers thin, delegating ledger rules to the service layer.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/service/engine"
	"github.com/tinoosan/cashflow/internal/service/report"
)

// ReadyChecker is implemented by storage backends that can report liveness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	engine  engine.Service
	reports report.Service
	chart   *cashflow.Chart
	ready   ReadyChecker
	log     *slog.Logger
	rt      *chi.Mux
}

// New constructs the HTTP server with routes and middleware. ready may be
// nil when the backend has no liveness signal.
func New(eng engine.Service, rep report.Service, chart *cashflow.Chart, ready ReadyChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		engine:  eng,
		reports: rep,
		chart:   chart,
		ready:   ready,
		log:     logger,
		rt:      r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Ledger (v1)
	s.rt.Get("/v1/scenarios/{scenario}/ledger", s.getLedger)
	s.rt.Put("/v1/scenarios/{scenario}/days/{date}/cells/{categoryID}", s.putCell)
	s.rt.Post("/v1/scenarios/{scenario}/payments/move", s.movePayment)
	s.rt.Post("/v1/scenarios/{scenario}/recalculate", s.recalculate)
	// Reports (v1)
	s.rt.Get("/v1/scenarios/{scenario}/report", s.getReport)
	s.rt.Get("/v1/scenarios/{scenario}/days/{date}/categories/{categoryID}/total", s.getCategoryTotal)
	s.rt.Get("/v1/scenarios/{scenario}/cheques", s.getCheques)
	// Chart (v1)
	s.rt.Get("/v1/chart", s.getChart)
	// Operational (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
