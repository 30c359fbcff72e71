package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the run's Prometheus collectors on a dedicated
// registry. All record methods are safe on a nil receiver, so callers
// running without metrics never guard.
type Metrics struct {
	registry *prometheus.Registry

	categoriesTotal  prometheus.Counter
	itemsHarvested   prometheus.Counter
	itemsSkipped     prometheus.Counter
	loadMoreClicks   prometheus.Counter
	categoryDuration prometheus.Histogram

	logger *slog.Logger
}

// NewMetrics constructs and registers all collectors.
func NewMetrics(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		categoriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopstalk_categories_traversed_total",
			Help: "Categories fully traversed and persisted.",
		}),
		itemsHarvested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopstalk_items_harvested_total",
			Help: "Product records extracted across all categories.",
		}),
		itemsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopstalk_items_skipped_total",
			Help: "Product cards dropped because a field failed extraction.",
		}),
		loadMoreClicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopstalk_load_more_clicks_total",
			Help: "Clicks dispatched on load-more controls.",
		}),
		categoryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopstalk_category_duration_seconds",
			Help:    "Wall-clock time spent per category.",
			Buckets: prometheus.DefBuckets,
		}),
		logger: logger.With("component", "metrics"),
	}

	registry.MustRegister(
		m.categoriesTotal,
		m.itemsHarvested,
		m.itemsSkipped,
		m.loadMoreClicks,
		m.categoryDuration,
	)
	return m
}

// CategoryTraversed counts one completed category.
func (m *Metrics) CategoryTraversed() {
	if m == nil {
		return
	}
	m.categoriesTotal.Inc()
}

// AddItemsHarvested counts extracted records.
func (m *Metrics) AddItemsHarvested(n int) {
	if m == nil {
		return
	}
	m.itemsHarvested.Add(float64(n))
}

// AddItemsSkipped counts records dropped during extraction.
func (m *Metrics) AddItemsSkipped(n int) {
	if m == nil {
		return
	}
	m.itemsSkipped.Add(float64(n))
}

// AddLoadMoreClicks counts load-more clicks dispatched for a category.
func (m *Metrics) AddLoadMoreClicks(n int) {
	if m == nil {
		return
	}
	m.loadMoreClicks.Add(float64(n))
}

// ObserveCategoryDuration records how long one category took.
func (m *Metrics) ObserveCategoryDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.categoryDuration.Observe(d.Seconds())
}

// Handler exposes the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}
