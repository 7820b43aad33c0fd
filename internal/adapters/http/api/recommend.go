package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/shortlist/internal/domain/types"
	"github.com/okian/shortlist/internal/validation"
	"github.com/okian/shortlist/pkg/logger"
)

// SampleQuery is what GET /test recommends for.
const SampleQuery = "I am hiring for Java developers who can also collaborate effectively with my business teams."

const (
	defaultTopK = 10
	sampleTopK  = 5
	maxBodySize = 1 << 20
)

// Recommender ranks assessments for a query.
type Recommender interface {
	Recommend(ctx context.Context, q string, topK int) ([]types.Recommendation, error)
}

// RecommendHandler serves recommendation requests.
type RecommendHandler struct {
	recommender Recommender
	logger      logger.Logger
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(rec Recommender, l logger.Logger) *RecommendHandler {
	return &RecommendHandler{recommender: rec, logger: l}
}

// recommendRequest mirrors the OpenAPI schema for POST /recommend.
type recommendRequest struct {
	Query string `json:"query" validate:"required,notblank"`
	TopK  *int   `json:"top_k" validate:"omitempty,min=1,max=10"`
}

type recommendResponse struct {
	Query           string                 `json:"query"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Count           int                    `json:"count"`
}

type testResponse struct {
	TestQuery       string                 `json:"test_query"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Count           int                    `json:"count"`
	Message         string                 `json:"message"`
}

// HandleRecommend handles POST /recommend requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	topK := defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	recs, err := h.recommender.Recommend(r.Context(), req.Query, topK)
	if err != nil {
		h.logger.Error(r.Context(), "recommend failed",
			logger.String("request_id", w.Header().Get(RequestIDHeader)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Query: req.Query, Recommendations: recs, Count: len(recs)})
}

// HandleTest handles GET /test requests with a fixed sample query.
func (h *RecommendHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	const op = "api.test"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	recs, err := h.recommender.Recommend(r.Context(), SampleQuery, sampleTopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, testResponse{
		TestQuery:       SampleQuery,
		Recommendations: recs,
		Count:           len(recs),
		Message:         "sample query; use POST /recommend for real queries",
	})
}
