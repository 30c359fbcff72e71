package observability

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.CategoryTraversed()
	m.AddItemsHarvested(10)
	m.AddItemsSkipped(1)
	m.AddLoadMoreClicks(3)
	m.ObserveCategoryDuration(time.Second)
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(testLogger)
	m.CategoryTraversed()
	m.CategoryTraversed()
	m.AddItemsHarvested(117)
	m.AddItemsSkipped(2)
	m.AddLoadMoreClicks(5)
	m.ObserveCategoryDuration(1500 * time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	checks := map[string]string{
		"categories counter": "shopstalk_categories_traversed_total 2",
		"items counter":      "shopstalk_items_harvested_total 117",
		"skip counter":       "shopstalk_items_skipped_total 2",
		"clicks counter":     "shopstalk_load_more_clicks_total 5",
		"duration histogram": "shopstalk_category_duration_seconds_count 1",
	}
	for name, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("%s: exposition missing %q", name, want)
		}
	}
}

func TestGatherNames(t *testing.T) {
	m := NewMetrics(testLogger)
	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 5 {
		t.Fatalf("expected 5 metric families, got %d", len(families))
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "shopstalk_") {
			t.Errorf("metric %q should carry the shopstalk_ prefix", mf.GetName())
		}
	}
}
