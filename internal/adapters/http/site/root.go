// Package site serves the service description at the root path.
package site

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/shortlist/internal/adapters/http/api"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Endpoint describes one route in the root listing.
type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Info is the body of GET /.
type Info struct {
	Message   string              `json:"message"`
	Version   string              `json:"version"`
	Status    string              `json:"status"`
	Endpoints map[string]Endpoint `json:"endpoints"`
}

// DefaultInfo lists every route the serve command registers.
func DefaultInfo() Info {
	return Info{
		Message: "Assessment Recommendation API",
		Version: Version,
		Status:  "operational",
		Endpoints: map[string]Endpoint{
			"health":    {Path: "/health", Method: http.MethodGet, Description: "Check API health status"},
			"metrics":   {Path: "/healthz", Method: http.MethodGet, Description: "Prometheus metrics"},
			"stats":     {Path: "/stats", Method: http.MethodGet, Description: "Engine statistics"},
			"recommend": {Path: "/recommend", Method: http.MethodPost, Description: "Get assessment recommendations for a query"},
			"test":      {Path: "/test", Method: http.MethodGet, Description: "Recommendations for a sample query"},
			"openapi":   {Path: "/openapi.yaml", Method: http.MethodGet, Description: "OpenAPI document"},
			"docs":      {Path: "/api-docs", Method: http.MethodGet, Description: "Rendered API documentation"},
		},
	}
}

// Register attaches the root route to mux. Unknown paths fall through to it
// and get a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewRootHandler(DefaultInfo())
	mux.HandleFunc("/", api.RequestID(api.MetricsMiddleware(h.HandleRoot, "root")))
}

// RootHandler handles root path requests.
type RootHandler struct {
	body []byte
}

// NewRootHandler creates a root handler that always answers with info.
func NewRootHandler(info Info) *RootHandler {
	body, _ := json.Marshal(info)
	return &RootHandler{body: body}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(h.body)
}
