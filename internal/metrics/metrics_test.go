package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

		Convey("When units are fetched and skipped", func() {
			m.RecordUnitFetched("understat")
			m.RecordUnitFetched("understat")
			m.RecordUnitSkipped("understat")
			m.RecordUnitFetched("fbref")

			Convey("Then counters are split by source", func() {
				So(testutil.ToFloat64(m.unitsFetched.WithLabelValues("understat")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.unitsSkipped.WithLabelValues("understat")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.unitsFetched.WithLabelValues("fbref")), ShouldEqual, 1)
			})
		})

		Convey("When rows are written", func() {
			m.RecordRowsWritten("understat", "postgres", 1200)
			m.RecordRowsWritten("understat", "csv", 1200)

			Convey("Then they accumulate per destination", func() {
				So(testutil.ToFloat64(m.rowsWritten.WithLabelValues("understat", "postgres")), ShouldEqual, 1200)
			})
		})

		Convey("When pipeline and HTTP timings are observed", func() {
			m.ObservePipeline("whoscored", "ok", 90*time.Second)
			m.RecordHTTPRequest("/api/v1/players", "GET", "200", 5*time.Millisecond)

			Convey("Then the histograms have one series each", func() {
				So(testutil.CollectAndCount(m.pipelineDuration), ShouldEqual, 1)
				So(testutil.CollectAndCount(m.httpRequestDuration), ShouldEqual, 1)
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/players", "GET", "200")), ShouldEqual, 1)
			})

			Convey("And the handler exposes them", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
				body, _ := io.ReadAll(rec.Body)

				So(rec.Code, ShouldEqual, 200)
				So(string(body), ShouldContainSubstring, "test_ingest_pipeline_duration_seconds")
				So(string(body), ShouldContainSubstring, "test_api_http_requests_total")
			})
		})
	})

	Convey("The process-wide manager is usable without setup", t, func() {
		So(func() { Default().RecordUnitSkipped("fbref") }, ShouldNotPanic)
		So(Handler(), ShouldNotBeNil)
	})
}

func TestPush(t *testing.T) {
	Convey("Given a manager with a skipped unit and a gateway", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()))
		m.RecordUnitSkipped("understat")

		var (
			method, path string
			body         []byte
		)
		status := http.StatusOK
		gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(status)
		}))
		defer gw.Close()

		Convey("When the registry is pushed", func() {
			err := m.Push(context.Background(), gw.URL, "futplot_ingest", map[string]string{"pipeline": "understat"})

			Convey("Then the skipped-unit counter arrives under the job and grouping", func() {
				So(err, ShouldBeNil)
				So(method, ShouldEqual, http.MethodPut)
				So(path, ShouldEqual, "/metrics/job/futplot_ingest/pipeline/understat")
				So(string(body), ShouldContainSubstring, "futplot_ingest_units_skipped_total")
				So(string(body), ShouldContainSubstring, "understat")
			})
		})

		Convey("When the gateway rejects the push", func() {
			status = http.StatusInternalServerError
			err := m.Push(context.Background(), gw.URL, "futplot_ingest", nil)

			Convey("Then the error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a grouping key collides with a metric label", func() {
			err := m.Push(context.Background(), gw.URL, "futplot_ingest", map[string]string{"source": "understat"})

			Convey("Then nothing is sent", func() {
				So(err, ShouldNotBeNil)
				So(path, ShouldBeEmpty)
			})
		})
	})
}
