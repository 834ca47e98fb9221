package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	VoteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackit_votes_total",
			Help: "Votes cast by target type and direction",
		},
		[]string{"target", "direction"},
	)

	ClassifierResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackit_moderation_labels_total",
			Help: "Moderation classifier labels, including fail-open fallbacks",
		},
		[]string{"status", "outcome"},
	)

	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackit_moderation_actions_total",
			Help: "Admin moderation actions by content type and action",
		},
		[]string{"content_type", "action"},
	)

	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackit_notifications_total",
			Help: "Notification deliveries by sink, type and result",
		},
		[]string{"sink", "type", "result"},
	)

	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stackit_ws_connections",
			Help: "Open notification websocket connections",
		},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			VoteCounter,
			ClassifierResults,
			ModerationActions,
			NotificationCounter,
			WebsocketConnections,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
