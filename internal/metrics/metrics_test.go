// ABOUTME: Tests for the Prometheus metrics wrapper.
// ABOUTME: Checks counter values, nil safety, and the exposition handler.
package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.RecordCreated("food")
	m.RecordCreated("food")
	m.RecordDeleted("body_metric")
	m.CaloriesAdded("exercise", 303)
	m.LookupMiss("food")
	m.RateUpserted("exercise")

	if got := testutil.ToFloat64(m.RecordsCreated.WithLabelValues("food")); got != 2 {
		t.Errorf("records_created{food} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RecordsDeleted.WithLabelValues("body_metric")); got != 1 {
		t.Errorf("records_deleted{body_metric} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CaloriesComputed.WithLabelValues("exercise")); got != 303 {
		t.Errorf("calories_computed{exercise} = %v, want 303", got)
	}
	if got := testutil.ToFloat64(m.LookupMisses.WithLabelValues("food")); got != 1 {
		t.Errorf("lookup_misses{food} = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordCreated("food")
	m.ObserveRequest("GET", "/", "200", 0.1)
	m.LookupMiss("food")
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/healthz", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `shapementor_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("missing request counter in:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected Go collector output")
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordCreated("user")
	if got := testutil.ToFloat64(b.RecordsCreated.WithLabelValues("user")); got != 0 {
		t.Errorf("second instance saw %v, want 0", got)
	}
}
