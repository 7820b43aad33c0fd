package repository

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/shortlist/internal/domain/catalog"
	"github.com/okian/shortlist/pkg/logger"
)

// CatalogSource yields raw catalog records.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]catalog.Record, error)
}

// FileCatalog reads a JSON array of assessments.
type FileCatalog struct {
	source
}

// NewFileCatalog returns a catalog source reading path.
func NewFileCatalog(path string, opts ...Option) *FileCatalog {
	return &FileCatalog{source: newSource(path, opts)}
}

// LoadCatalog reads and decodes the file. Validation happens when the
// catalog is built.
func (f *FileCatalog) LoadCatalog(ctx context.Context) ([]catalog.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	records, err := DecodeCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, f.path, err)
	}
	f.logger.Info(ctx, "catalog file loaded",
		logger.String("path", f.path),
		logger.Int("records", len(records)))
	return records, nil
}

// rawRecord mirrors the scraped catalog, which is loose about types.
type rawRecord struct {
	Name            string       `json:"name"`
	URL             string       `json:"url"`
	Description     string       `json:"description"`
	Duration        flexDuration `json:"duration"`
	AdaptiveSupport flexBool     `json:"adaptive_support"`
	RemoteSupport   flexBool     `json:"remote_support"`
	TestType        flexStrings  `json:"test_type"`
}

// DecodeCatalog decodes a JSON array of catalog records.
func DecodeCatalog(data []byte) ([]catalog.Record, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]catalog.Record, len(raw))
	for i, r := range raw {
		out[i] = catalog.Record{
			Name:            strings.TrimSpace(r.Name),
			URL:             strings.TrimSpace(r.URL),
			Description:     CleanText(r.Description),
			Duration:        r.Duration.minutes,
			AdaptiveSupport: bool(r.AdaptiveSupport),
			RemoteSupport:   bool(r.RemoteSupport),
			TestTypes:       []string(r.TestType),
		}
	}
	return out, nil
}

var (
	boilerplatePattern = regexp.MustCompile(`(?is)we recommend upgrading.*?(key features|$)`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// CleanText removes the scraped browser-upgrade banner and collapses whitespace.
func CleanText(s string) string {
	s = boilerplatePattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

var (
	rangeMinutes  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(?:min|minute)`)
	singleMinutes = regexp.MustCompile(`(\d+)\s*(?:min|minute)`)
	labelMinutes  = regexp.MustCompile(`minutes?\s*[=:]\s*(\d+)`)
	hours         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hour|hr)`)
	bareNumber    = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// ParseDuration converts free-form durations to whole minutes. A range
// yields its midpoint. ok is false when no duration is recognized.
func ParseDuration(s string) (int, bool) {
	s = strings.ToLower(s)
	if m := rangeMinutes.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return (lo + hi) / 2, true
	}
	if m := singleMinutes.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := labelMinutes.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := hours.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		return int(h * 60), true
	}
	if m := bareNumber.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	return 0, false
}

// flexDuration accepts a number of minutes, a duration string or null.
type flexDuration struct {
	minutes *int
}

func (d *flexDuration) UnmarshalJSON(b []byte) error {
	d.minutes = nil
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		if n, ok := ParseDuration(str); ok {
			d.minutes = &n
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	n := int(f)
	d.minutes = &n
	return nil
}

// flexBool accepts booleans and yes/no style strings.
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "null", "":
		*v = false
		return nil
	case "true", "false":
		*v = s == "true"
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "yes", "y", "true", "1":
		*v = true
	default:
		*v = false
	}
	return nil
}

// flexStrings accepts a list of strings or a single string.
type flexStrings []string

func (v *flexStrings) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*v = nil
		return nil
	}
	if s[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*v = flexStrings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("test_type: %w", err)
	}
	*v = many
	return nil
}
