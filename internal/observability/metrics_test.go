package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordAndExpose(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/items/feed", "200", 20*time.Millisecond)
	m.ObserveAggregateOperation("Feed.Swipe.Like", "success", time.Millisecond)
	m.IncAggregateConflict("Feed.Swipe.Like")
	m.IncSwipe("like", true)
	m.ObserveFeed("tallies", 16, 4)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/items/feed", "200")); got != 1 {
		t.Fatalf("api requests: %v", got)
	}
	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("Feed.Swipe.Like")); got != 1 {
		t.Fatalf("conflicts: %v", got)
	}
	if got := testutil.ToFloat64(m.feedItems.WithLabelValues("exploration")); got != 4 {
		t.Fatalf("exploration items: %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 || !strings.Contains(string(body), "styleswipe_swipes_total") {
		t.Fatalf("exposition missing swipe counter: %d", rec.Code)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncSwipe("like", false)
	m.ObserveFeed("none", 0, 0)
	m.APIInflightInc()
	if err := m.RegisterDB(nil, "x"); err != nil {
		t.Fatalf("RegisterDB on nil: %v", err)
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics handler: %d", rec.Code)
	}
}
