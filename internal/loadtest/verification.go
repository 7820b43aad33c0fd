package loadtest

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const maxResults = 10

// verify lists the ways r breaks the recommend contract for query.
func verify(query string, r reply) []string {
	if r.status != http.StatusOK {
		return []string{fmt.Sprintf("status %d", r.status)}
	}

	var out []string
	if _, err := uuid.Parse(r.requestID); err != nil {
		out = append(out, "missing or malformed request id")
	}
	if r.body.Query != query {
		out = append(out, "query not echoed")
	}
	n := len(r.body.Recommendations)
	switch {
	case n == 0:
		out = append(out, "empty recommendations")
	case n > maxResults:
		out = append(out, fmt.Sprintf("%d recommendations exceeds %d", n, maxResults))
	}
	if r.body.Count != n {
		out = append(out, fmt.Sprintf("count %d does not match %d recommendations", r.body.Count, n))
	}

	seen := make(map[string]bool, n)
	for i, rec := range r.body.Recommendations {
		if rec.URL == "" {
			out = append(out, fmt.Sprintf("recommendation %d has no url", i))
			continue
		}
		if seen[rec.URL] {
			out = append(out, fmt.Sprintf("duplicate url %s", rec.URL))
		}
		seen[rec.URL] = true
	}
	return out
}
