package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so that tests can build as many instances as they
// need. All recording methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	likesToggled    *prometheus.CounterVec
	commentsCreated *prometheus.CounterVec
	followsToggled  *prometheus.CounterVec
	storeConflicts  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloghub_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloghub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		likesToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloghub_likes_toggled_total",
			Help: "Post like toggles by resulting state",
		}, []string{"liked"}),
		commentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloghub_comments_created_total",
			Help: "Comments and replies created",
		}, []string{"kind"}),
		followsToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloghub_follows_toggled_total",
			Help: "Follow toggles by resulting state",
		}, []string{"following"}),
		storeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloghub_store_conflicts_total",
			Help: "Post saves rejected because the document changed after it was loaded",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.likesToggled,
		m.commentsCreated,
		m.followsToggled,
		m.storeConflicts,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) LikeToggled(liked bool) {
	if m == nil {
		return
	}
	m.likesToggled.WithLabelValues(strconv.FormatBool(liked)).Inc()
}

func (m *Metrics) CommentCreated(kind string) {
	if m == nil {
		return
	}
	m.commentsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) FollowToggled(following bool) {
	if m == nil {
		return
	}
	m.followsToggled.WithLabelValues(strconv.FormatBool(following)).Inc()
}

func (m *Metrics) StoreConflict() {
	if m == nil {
		return
	}
	m.storeConflicts.Inc()
}
