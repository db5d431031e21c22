package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务的 Prometheus 指标，注册在私有 registry 上，多实例互不冲突
type Metrics struct {
	SessionsTotal      *prometheus.CounterVec
	FramesProcessed    prometheus.Counter
	SessionDuration    prometheus.Histogram
	AlertsCreated      *prometheus.CounterVec
	AlertsAcknowledged prometheus.Counter
	StreamMessages     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New 创建并注册全部指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silent_sos_sessions_total",
			Help: "Analysis sessions completed, by outcome risk level",
		}, []string{"risk"}),
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "silent_sos_frames_processed_total",
			Help: "Keypoint frames fed into detection sessions",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "silent_sos_session_duration_seconds",
			Help:    "Wall-clock time spent analysing one keypoint stream",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silent_sos_alerts_created_total",
			Help: "Collapse alerts created, by risk level",
		}, []string{"risk"}),
		AlertsAcknowledged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "silent_sos_alerts_acknowledged_total",
			Help: "Alerts transitioned to ACKNOWLEDGED",
		}),
		StreamMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silent_sos_stream_messages_total",
			Help: "Keypoint messages consumed, by source and result",
		}, []string{"source", "result"}),
	}

	m.registry.MustRegister(
		m.SessionsTotal,
		m.FramesProcessed,
		m.SessionDuration,
		m.AlertsCreated,
		m.AlertsAcknowledged,
		m.StreamMessages,
	)

	return m
}

// Handler /metrics 接口
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
