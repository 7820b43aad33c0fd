package evaluate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Prediction file header.
var predictionHeader = []string{"Query", "Assessment_url"}

// WritePredictionsCSV writes preds with a Query,Assessment_url header.
func WritePredictionsCSV(w io.Writer, preds []Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(predictionHeader); err != nil {
		return err
	}
	for _, p := range preds {
		if err := cw.Write([]string{p.Query, p.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReportJSON writes r as indented JSON.
func WriteReportJSON(w io.Writer, r *Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// SavePredictions writes preds to path.
func SavePredictions(path string, preds []Prediction) error {
	return writeFile(path, func(w io.Writer) error { return WritePredictionsCSV(w, preds) })
}

// SaveReport writes r to path.
func SaveReport(path string, r *Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteReportJSON(w, r) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
