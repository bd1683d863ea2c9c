package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sessions_created_total",
		Help: "The total number of kiosk sessions created.",
	})
	SessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kiosk_sessions_live",
		Help: "The current number of live (unswept) sessions.",
	})
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sessions_swept_total",
		Help: "The total number of sessions removed by the expiry sweep.",
	})

	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_scans_total",
		Help: "The total number of scan submissions by outcome.",
	}, []string{"outcome"})

	SinkWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sink_write_failures_total",
		Help: "The total number of failed result line writes.",
	})
)

// Scan outcome label values.
const (
	OutcomeFulfilled      = "fulfilled"
	OutcomeNotReady       = "not_ready"
	OutcomeInvalidCode    = "invalid_code"
	OutcomeClientNotFound = "client_not_found"
	OutcomeSessionExpired = "session_expired"
)

// Handler exposes the Prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
