package evaluate_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/shortlist/internal/adapters/mq/worker"
	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/internal/domain/types"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/internal/evaluate"
	"github.com/okian/shortlist/pkg/logger"
)

const view = "https://www.shl.com/solutions/products/product-catalog/view/"

// fixedRecommender answers from a canned table keyed by query.
type fixedRecommender map[string][]string

func (f fixedRecommender) Recommend(_ context.Context, q string, topK int) ([]types.Recommendation, error) {
	if q == "explode" {
		return nil, errors.New("engine exploded")
	}
	urls := f[q]
	if len(urls) > topK {
		urls = urls[:topK]
	}
	out := make([]types.Recommendation, len(urls))
	for i, u := range urls {
		out[i] = types.Recommendation{Name: u, URL: view + u + "/"}
	}
	return out, nil
}

func pool(rec worker.Recommender) *worker.Pool {
	return worker.NewPool(rec, worker.WithWorkers(3), worker.WithPoolLogger(logger.Nop()))
}

func TestGroundTruth(t *testing.T) {
	Convey("GroundTruth groups rows by query in first-seen order", t, func() {
		rows := []training.Row{
			{Query: "java dev", URL: "https://www.shl.com/products/product-catalog/view/java-8/"},
			{Query: "sales", URL: view + "sales-rep"},
			{Query: " java dev ", URL: view + "core-java"},
			{Query: "", URL: view + "ignored"},
			{Query: "sales", URL: ""},
		}
		queries, truth := evaluate.GroundTruth(rows)
		So(queries, ShouldResemble, []string{"java dev", "sales"})
		So(len(truth["java dev"]), ShouldEqual, 2)
		_, ok := truth["java dev"][urlnorm.Normalize(view+"java-8/")]
		So(ok, ShouldBeTrue)
		So(len(truth["sales"]), ShouldEqual, 1)
	})
}

func TestRecall(t *testing.T) {
	relevant := map[urlnorm.URL]struct{}{
		urlnorm.Normalize("a"): {},
		urlnorm.Normalize("b"): {},
		urlnorm.Normalize("c"): {},
		urlnorm.Normalize("d"): {},
	}

	Convey("Recall counts normalized matches within the cutoff", t, func() {
		matched, r := evaluate.Recall([]string{view + "A/", "x", "b"}, relevant, 10)
		So(matched, ShouldEqual, 2)
		So(r, ShouldEqual, 0.5)
	})

	Convey("Predictions past k are ignored", t, func() {
		matched, _ := evaluate.Recall([]string{"x", "y", "a"}, relevant, 2)
		So(matched, ShouldEqual, 0)
	})

	Convey("Duplicate predictions count once", t, func() {
		matched, _ := evaluate.Recall([]string{"a", view + "a/", "a"}, relevant, 10)
		So(matched, ShouldEqual, 1)
	})

	Convey("An empty relevant set has zero recall", t, func() {
		matched, r := evaluate.Recall([]string{"a"}, nil, 10)
		So(matched, ShouldEqual, 0)
		So(r, ShouldEqual, 0.0)
	})
}

func TestEvaluate(t *testing.T) {
	rec := fixedRecommender{
		"perfect": {"a", "b"},
		"partial": {"c", "x", "y"},
		"miss":    {"z"},
	}
	rows := []training.Row{
		{Query: "perfect", URL: view + "a"},
		{Query: "perfect", URL: view + "b"},
		{Query: "partial", URL: view + "c"},
		{Query: "partial", URL: view + "d"},
		{Query: "partial", URL: view + "e"},
		{Query: "miss", URL: view + "q"},
	}

	Convey("Given a labelled log", t, func() {
		report, err := evaluate.Evaluate(context.Background(), pool(rec), rows, evaluate.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)

		Convey("Per-query recall and the mean are computed", func() {
			So(report.TotalQueries, ShouldEqual, 3)
			So(len(report.PerQuery), ShouldEqual, 3)
			So(report.PerQuery[0].RecallAtK, ShouldEqual, 1.0)
			So(report.PerQuery[1].MatchedCount, ShouldEqual, 1)
			So(report.PerQuery[1].GroundTruthCount, ShouldEqual, 3)
			So(report.PerQuery[2].RecallAtK, ShouldEqual, 0.0)
			So(report.MeanRecallAtK, ShouldAlmostEqual, (1.0+1.0/3.0)/3.0, 1e-9)
		})

		Convey("The distribution buckets every query", func() {
			So(report.Distribution, ShouldResemble, evaluate.Distribution{High: 1, Some: 1, Zero: 1})
		})

		Convey("Every recommendation becomes a prediction row", func() {
			So(len(report.Predictions), ShouldEqual, 6)
			So(report.Predictions[0], ShouldResemble, evaluate.Prediction{Query: "perfect", URL: view + "a/"})
		})
	})

	Convey("An empty log is an error", t, func() {
		_, err := evaluate.Evaluate(context.Background(), pool(rec), nil)
		So(errors.Is(err, evaluate.ErrNoQueries), ShouldBeTrue)
	})

	Convey("A failing job fails the evaluation", t, func() {
		_, err := evaluate.Evaluate(context.Background(), pool(rec), []training.Row{{Query: "explode", URL: "a"}})
		So(errors.Is(err, evaluate.ErrJobFailed), ShouldBeTrue)
	})

	Convey("A long query is truncated in the report", t, func() {
		long := strings.Repeat("q", 150)
		report, err := evaluate.Evaluate(context.Background(), pool(rec), []training.Row{{Query: long, URL: "a"}})
		So(err, ShouldBeNil)
		So(len(report.PerQuery[0].Query), ShouldEqual, 100)
	})
}

func TestPredict(t *testing.T) {
	rec := fixedRecommender{"java": {"a", "b"}, "sql": {"c"}}

	Convey("Predict flattens results and reports coverage", t, func() {
		b, err := evaluate.Predict(context.Background(), pool(rec), []string{"java", " ", "sql", "unknown"},
			evaluate.WithK(5), evaluate.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)
		So(b.Total, ShouldEqual, 3)
		So(b.Covered, ShouldEqual, 2)
		So(b.Missing, ShouldResemble, []string{"unknown"})
		So(len(b.Predictions), ShouldEqual, 3)
		So(b.Predictions[2].Query, ShouldEqual, "sql")
	})

	Convey("Only blank queries is an error", t, func() {
		_, err := evaluate.Predict(context.Background(), pool(rec), []string{"", "  "})
		So(errors.Is(err, evaluate.ErrNoQueries), ShouldBeTrue)
	})
}

func TestOutput(t *testing.T) {
	Convey("Predictions are written as CSV with a header", t, func() {
		var buf bytes.Buffer
		err := evaluate.WritePredictionsCSV(&buf, []evaluate.Prediction{
			{Query: "java, senior", URL: view + "a/"},
		})
		So(err, ShouldBeNil)
		So(buf.String(), ShouldEqual, "Query,Assessment_url\n\"java, senior\","+view+"a/\n")
	})

	Convey("Reports round-trip through the JSON file", t, func() {
		path := filepath.Join(t.TempDir(), "evaluation_results.json")
		in := &evaluate.Report{
			MeanRecallAtK: 0.25,
			TotalQueries:  1,
			PerQuery:      []evaluate.QueryMetric{{QueryNum: 1, Query: "q", GroundTruthCount: 4, MatchedCount: 1, RecallAtK: 0.25}},
			Distribution:  evaluate.Distribution{Some: 1},
		}
		So(evaluate.SaveReport(path, in), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"mean_recall_at_10": 0.25`)

		var out evaluate.Report
		So(json.Unmarshal(data, &out), ShouldBeNil)
		So(out.PerQuery, ShouldResemble, in.PerQuery)
	})

	Convey("Saving to a missing directory fails", t, func() {
		err := evaluate.SavePredictions(filepath.Join(t.TempDir(), "nope", "p.csv"), nil)
		So(err, ShouldNotBeNil)
	})
}
