// Package metrics exposes Prometheus instrumentation for the API: HTTP
// traffic, task completions and progress cache efficiency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskquest/internal/models"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskquest_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	TaskCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_task_completions_total",
			Help: "Total number of completed tasks by category",
		},
		[]string{"category"},
	)

	PointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_points_awarded_total",
			Help: "Total points awarded by category",
		},
		[]string{"category"},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_level_ups_total",
			Help: "Total number of level changes by the level reached",
		},
		[]string{"level"},
	)

	CompletionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_completion_failures_total",
			Help: "Rejected or failed completion attempts by reason",
		},
		[]string{"reason"}, // "not_found", "already_completed", "storage"
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_cache_hits_total",
			Help: "Progress cache hits by key kind",
		},
		[]string{"kind"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_cache_misses_total",
			Help: "Progress cache misses by key kind",
		},
		[]string{"kind"},
	)

	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskquest_feed_clients",
			Help: "Currently connected progress feed websocket clients",
		},
	)
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// OtherCategory labels every category outside models.DefaultCategories.
const OtherCategory = "other"

// CategoryLabel keeps the category label set bounded: categories are free
// text chosen by clients.
func CategoryLabel(category string) string {
	for _, c := range models.DefaultCategories {
		if c == category {
			return category
		}
	}
	return OtherCategory
}

// RecordCompletion counts a committed completion.
func RecordCompletion(category string, points int, levelChanged bool, newLevel int) {
	label := CategoryLabel(category)
	TaskCompletions.WithLabelValues(label).Inc()
	PointsAwarded.WithLabelValues(label).Add(float64(points))
	if levelChanged {
		LevelUps.WithLabelValues(strconv.Itoa(newLevel)).Inc()
	}
}
