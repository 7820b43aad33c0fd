package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "shortlist")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.enabled, ShouldBeTrue)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})

			Convey("And metric names carry the namespace and subsystem", func() {
				manager.catalogSize.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["shortlist_recommender_catalog_size"], ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithMetricPrefix("x_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_ns")
				So(manager.subsystem, ShouldEqual, "test_sub")
				So(manager.metricPrefix, ShouldEqual, "x_")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.enabled, ShouldBeFalse)
				So(manager.refreshInterval, ShouldEqual, time.Second)
				So(manager.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "shortlist")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
				So(manager.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestRecommendationMetrics(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a recommendation is recorded", func() {
			before := testutil.ToFloat64(current().recommendRequests)
			RecordRecommendation(4.2, 7)

			Convey("Then the request counter advances", func() {
				So(testutil.ToFloat64(current().recommendRequests), ShouldEqual, before+1)
			})
		})

		Convey("When fallback tiers and boost kinds are recorded", func() {
			before := testutil.ToFloat64(current().recommendFallbacks.WithLabelValues("backfill_eligible"))
			RecordFallback("backfill_eligible")
			RecordBoostMatches("exact", 1)
			RecordBoostMatches("fuzzy", 2)
			RecordBoostMatches("fuzzy", 0)

			Convey("Then each label is counted separately", func() {
				So(testutil.ToFloat64(current().recommendFallbacks.WithLabelValues("backfill_eligible")), ShouldEqual, before+1)
				So(testutil.ToFloat64(current().boostMatches.WithLabelValues("exact")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(current().boostMatches.WithLabelValues("fuzzy")), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When pipeline counters are recorded", func() {
			So(func() {
				RecordBalancerInvocation()
				RecordLowCandidates()
				RecordDurationFiltered(3)
				RecordDurationFiltered(0)
			}, ShouldNotPanic)
		})
	})
}

func TestIndexMetrics(t *testing.T) {
	Convey("Given index build statistics", t, func() {
		UpdateCatalogSize(377)
		UpdateVocabularySize(15000)
		UpdateIndexBuildDuration(120.5)
		UpdateTrainingStats(60, 5, 10, 60.0/65.0)
		RecordCatalogSkipped("invalid", 2)
		RecordCatalogUnknownTestType("Z", 1)

		Convey("Then the gauges hold the last value", func() {
			So(testutil.ToFloat64(current().catalogSize), ShouldEqual, 377.0)
			So(testutil.ToFloat64(current().vocabularySize), ShouldEqual, 15000.0)
			So(testutil.ToFloat64(current().indexBuildDuration), ShouldEqual, 120.5)
			So(testutil.ToFloat64(current().trainingRows.WithLabelValues("matched")), ShouldEqual, 60.0)
			So(testutil.ToFloat64(current().trainingRows.WithLabelValues("dropped")), ShouldEqual, 5.0)
			So(testutil.ToFloat64(current().trainingQueries), ShouldEqual, 10.0)
			So(testutil.ToFloat64(current().trainingMatchRate), ShouldAlmostEqual, 60.0/65.0, 1e-9)
		})
	})
}

func TestHTTPAndBatchMetrics(t *testing.T) {
	Convey("Given HTTP and batch activity", t, func() {
		Convey("When recording HTTP metrics with odd labels", func() {
			So(func() {
				RecordHTTPRequest("/recommend", "POST", "200")
				RecordHTTPRequest("", "", "200")
				RecordHTTPRequestDuration("/health", "GET", "200", 0)
				RecordErrorByType("validation_error", "warning")
				RecordErrorByEndpoint("/recommend", "POST", "validation_error")
			}, ShouldNotPanic)
		})

		Convey("When recording batch jobs", func() {
			before := testutil.ToFloat64(current().batchJobs.WithLabelValues("completed"))
			RecordBatchJob("completed", 2.5)
			UpdateBatchQueueSize(4)
			UpdateBatchWorkers(2)

			Convey("Then the counters and gauges reflect it", func() {
				So(testutil.ToFloat64(current().batchJobs.WithLabelValues("completed")), ShouldEqual, before+1)
				So(testutil.ToFloat64(current().batchQueueSize), ShouldEqual, 4.0)
				So(testutil.ToFloat64(current().batchWorkers), ShouldEqual, 2.0)
			})
		})
	})
}

func TestSystemCollector(t *testing.T) {
	Convey("Given a running system collector", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		StartSystemCollector(ctx)

		Convey("Then goroutine count is eventually sampled", func() {
			deadline := time.Now().Add(time.Second)
			for testutil.ToFloat64(current().systemGoroutineCount) == 0 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			So(testutil.ToFloat64(current().systemGoroutineCount), ShouldBeGreaterThan, 0)
			So(testutil.ToFloat64(current().systemMemoryUsage), ShouldBeGreaterThan, 0)
		})

		Reset(cancel)
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordRecommendation(float64(j), j%11)
					RecordBatchJob("completed", float64(j))
					RecordHTTPRequest("/recommend", "POST", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then the registry still gathers cleanly", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager rebuilt with custom options", t, func() {
		Configure(
			WithNamespace("hiring"),
			WithSubsystem("shortlist"),
			WithMetricPrefix("v2_"),
			WithCustomLabels(map[string]string{"env": "staging"}),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithMetricsEnabled(false),
		)
		Reset(func() { Configure() })

		Convey("When index statistics are recorded", func() {
			UpdateCatalogSize(42)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			Convey("Then the exposition uses the configured names and labels", func() {
				var found bool
				for _, f := range families {
					if f.GetName() != "hiring_shortlist_v2_catalog_size" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 42.0)
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "staging")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When a recommendation is recorded while disabled", func() {
			RecordRecommendation(1, 5)

			Convey("Then the request counter stays at zero", func() {
				So(testutil.ToFloat64(current().recommendRequests), ShouldEqual, 0.0)
			})
		})
	})
}
