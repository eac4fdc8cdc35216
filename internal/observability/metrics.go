package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics exported at /metrics.
type Metrics struct {
	ChatsCreatedTotal        prometheus.Counter
	CompletionRequestsTotal  *prometheus.CounterVec
	CompletionStreamDuration prometheus.Histogram
	StreamChunksTotal        prometheus.Counter
	ShareViewsTotal          prometheus.Counter

	ServerStartTime time.Time
}

// NewMetrics creates all metrics and registers them with the default
// registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics against an explicit registerer.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ServerStartTime: time.Now(),

		ChatsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "landingchat_chats_created_total",
			Help: "Total number of chats created",
		}),
		CompletionRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landingchat_completion_requests_total",
			Help: "Total number of completion requests by terminal status",
		}, []string{"status"}),
		CompletionStreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "landingchat_completion_stream_duration_seconds",
			Help:    "Duration of completion streams in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		StreamChunksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "landingchat_stream_chunks_total",
			Help: "Total number of streamed completion chunks",
		}),
		ShareViewsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "landingchat_share_views_total",
			Help: "Total number of share page views",
		}),
	}
}

// Completion request terminal statuses.
const (
	CompletionStatusCompleted = "completed"
	CompletionStatusFailed    = "failed"
	CompletionStatusCanceled  = "canceled"
)
