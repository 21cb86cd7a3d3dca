package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveRecording("recorded", 2*time.Second)
	m.ObserveRecording("discarded", 500*time.Millisecond)
	m.ObserveUpload("ok", time.Now())
	m.ObserveFeed("remote", 3)

	if got := testutil.ToFloat64(m.Recordings.WithLabelValues("recorded")); got != 1 {
		t.Errorf("recorded = %v", got)
	}
	if got := testutil.ToFloat64(m.Uploads.WithLabelValues("ok")); got != 1 {
		t.Errorf("uploads ok = %v", got)
	}
	if got := testutil.ToFloat64(m.FeedOwners); got != 3 {
		t.Errorf("feed owners = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRecording("recorded", time.Second)
	m.ObserveUpload("failed", time.Now())
	m.ObserveFeed("cache", 1)
	m.Subscribers(1)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveFeed("cache", 2)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `citypeople_feed_fetches_total{source="cache"} 1`) {
		t.Fatalf("metrics output missing feed counter:\n%s", body)
	}
}
