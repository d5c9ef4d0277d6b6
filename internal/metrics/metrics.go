package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Uploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weddingshare_uploads_total",
		Help: "Media and story uploads accepted.",
	})
	SnapshotEmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weddingshare_snapshot_emits_total",
		Help: "Live snapshot emissions per topic.",
	}, []string{"topic"})
	NotificationsFanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weddingshare_notifications_total",
		Help: "Notification documents written.",
	})
	StoriesPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weddingshare_stories_purged_total",
		Help: "Stories removed by the expiry sweep.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
