package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"messaging-service/internal/models"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_http_requests_total",
			Help: "Total number of HTTP requests processed by the messaging service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_commands_total",
			Help: "Commands executed, by outcome.",
		},
		[]string{"command", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_command_duration_seconds",
			Help:    "Command latencies in seconds, including the transaction.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	toggleCollapsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_toggle_collapsed_total",
			Help: "Toggle commands that shared the result of an identical in-flight command.",
		},
		[]string{"command"},
	)
	dispatchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_dispatch_errors_total",
			Help: "Notifications that could not be delivered after commit.",
		},
		[]string{"event"},
	)
	unreadCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_unread_cache_total",
			Help: "Unread counter cache lookups.",
		},
		[]string{"result"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		commandsTotal,
		commandDuration,
		toggleCollapsedTotal,
		dispatchErrorsTotal,
		unreadCacheTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveCommand records one command execution. Business-rule failures are
// labelled by their kind, anything else as "error".
func ObserveCommand(command string, started time.Time, err error) {
	commandsTotal.WithLabelValues(command, CommandOutcome(err)).Inc()
	commandDuration.WithLabelValues(command).Observe(time.Since(started).Seconds())
}

// CommandOutcome is the outcome label for err.
func CommandOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := models.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

func IncToggleCollapsed(command string) {
	toggleCollapsedTotal.WithLabelValues(command).Inc()
}

func IncDispatchError(event string) {
	dispatchErrorsTotal.WithLabelValues(event).Inc()
}

func IncUnreadCache(hit bool) {
	if hit {
		unreadCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	unreadCacheTotal.WithLabelValues("miss").Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
