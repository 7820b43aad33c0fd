package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/shortlist/pkg/metrics"
)

// CatalogSizer reports how many assessments are loaded.
type CatalogSizer interface {
	CatalogSize() int
}

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	catalog CatalogSizer
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(catalog CatalogSizer) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	TotalAssessments int    `json:"total_assessments"`
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind("api.health", ErrMethodNotAllowed))
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Message:          "recommendation API is running",
		TotalAssessments: h.catalog.CatalogSize(),
	})
}

// HandleMetrics handles GET /healthz requests with the Prometheus exposition
// of the process registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
