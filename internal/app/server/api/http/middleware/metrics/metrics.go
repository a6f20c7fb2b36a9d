package metrics

import (
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics считает запросы и их длительность по операциям
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studentadmin",
			Name:      "http_requests_total",
			Help:      "Number of handled HTTP requests.",
		}, []string{"operation", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studentadmin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "method"}),
	}

	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		// OperationID вместо пути, чтобы /students/{id} не плодил метки
		op := ctx.Operation().OperationID
		method := ctx.Method()
		m.requests.WithLabelValues(op, method, strconv.Itoa(ctx.Status())).Inc()
		m.duration.WithLabelValues(op, method).Observe(time.Since(start).Seconds())
	}
}
