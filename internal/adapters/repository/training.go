package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/pkg/logger"
)

// Training log column headers, matched case-insensitively.
const (
	QueryColumn = "query"
	URLColumn   = "assessment_url"
)

// TrainingSource yields training log rows.
type TrainingSource interface {
	LoadTraining(ctx context.Context) ([]training.Row, error)
}

// FileTraining reads a CSV training log with a Query,Assessment_url header.
type FileTraining struct {
	source
}

// NewFileTraining returns a training source reading path. An empty path
// yields no rows.
func NewFileTraining(path string, opts ...Option) *FileTraining {
	return &FileTraining{source: newSource(path, opts)}
}

// LoadTraining reads the log. A missing file is not an error: the engine
// then ranks without the training boost. A malformed file is.
func (f *FileTraining) LoadTraining(ctx context.Context) ([]training.Row, error) {
	if f.path == "" {
		return nil, nil
	}
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn(ctx, "training log not found, ranking without boost",
			logger.String("path", f.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTraining, err)
	}
	defer func() { _ = file.Close() }()

	rows, err := ReadTrainingCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadTraining, f.path, err)
	}
	f.logger.Info(ctx, "training log loaded",
		logger.String("path", f.path),
		logger.Int("rows", len(rows)))
	return rows, nil
}

// ReadTrainingCSV parses training rows from r.
func ReadTrainingCSV(r io.Reader) ([]training.Row, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	qi, ui := header.lookup(QueryColumn), header.lookup(URLColumn)
	if qi < 0 || ui < 0 {
		return nil, fmt.Errorf("missing %q or %q column", QueryColumn, URLColumn)
	}
	rows := make([]training.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, training.Row{Query: rec[qi], URL: rec[ui]})
	}
	return rows, nil
}

// readCSV returns the lower-cased header index and the data records.
func readCSV(r io.Reader) (columnIndex, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, errors.New("empty file")
	}
	idx := make(columnIndex, len(all[0]))
	for i, h := range all[0] {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx, all[1:], nil
}

type columnIndex map[string]int

// lookup returns the column position of name or -1.
func (c columnIndex) lookup(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}
