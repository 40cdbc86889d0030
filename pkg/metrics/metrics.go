package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/techmine/techmine/internal/common/config"
)

type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	queryDur   *prometheus.HistogramVec
	rejected   prometheus.Counter
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: r,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "http_requests_total",
		}, []string{"method", "route", "status"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets,
		}, []string{"method", "route", "status"}),
		httpInfl: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "http_requests_inflight",
		}, []string{"route"}),
		queryDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "dashboard_query_duration_seconds", Buckets: buckets,
		}, []string{"query", "outcome"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "ratelimit_rejected_total",
		}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl, m.queryDur, m.rejected)
	return m
}

// QueryDone records one dashboard sub-query
func (m *Metrics) QueryDone(query string, since time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queryDur.WithLabelValues(query, outcome).Observe(time.Since(since).Seconds())
}

// Rejected counts a request refused by the rate limiter
func (m *Metrics) Rejected() {
	m.rejected.Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
