package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/shortlist/internal/domain/types"
)

const requestIDHeader = "X-Request-ID"

type recommendRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type recommendResponse struct {
	Query           string                 `json:"query"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Count           int                    `json:"count"`
}

// reply is what one POST /recommend produced.
type reply struct {
	status    int
	requestID string
	body      recommendResponse
}

// client wraps http.Client for the recommend endpoint.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(cfg *Config) *client {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *client) recommend(ctx context.Context, query string, topK int) (reply, error) {
	payload, err := json.Marshal(recommendRequest{Query: query, TopK: topK})
	if err != nil {
		return reply{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(payload))
	if err != nil {
		return reply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{}, fmt.Errorf("read body: %w", err)
	}

	r := reply{status: resp.StatusCode, requestID: resp.Header.Get(requestIDHeader)}
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(data, &r.body); err != nil {
			return reply{}, fmt.Errorf("decode body: %w", err)
		}
	}
	return r, nil
}
