package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CheckinsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_sessions_opened_total",
		Help: "Sessions successfully opened",
	})

	CheckinsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_sessions_closed_total",
		Help: "Sessions successfully closed",
	})

	CheckinRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_rejections_total",
		Help: "Check-in/out attempts rejected, by error kind",
	}, []string{"kind"})

	RewardsFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_rewards_fired_total",
		Help: "Reward milestones fired",
	})

	SyncSnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_sync_snapshots_total",
		Help: "Sync pull snapshots served",
	})

	ImportFamilies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_import_families_total",
		Help: "Bulk import family outcomes",
	}, []string{"result"}) // imported, skipped, errored

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkin_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
