package repository

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadQueriesCSV returns the non-blank values of the Query column of r.
func ReadQueriesCSV(r io.Reader) ([]string, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	qi := header.lookup(QueryColumn)
	if qi < 0 {
		return nil, fmt.Errorf("missing %q column", QueryColumn)
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if q := strings.TrimSpace(rec[qi]); q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// LoadQueries reads the Query column of the CSV file at path.
func LoadQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadQueriesCSV(f)
}
