package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/logx"
)

// HTTPMetrics holds the request counter and latency histogram.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates unregistered request metrics labelled by method, route and status.
func NewHTTPMetrics() *HTTPMetrics {
	labels := []string{"method", "path", "status"}
	return &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, labels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
}

// Collectors returns the metrics for registration.
func (m *HTTPMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Requests, m.Duration}
}

// Observability records request metrics and writes one access log line per request.
func Observability(logger logx.Logger, m *HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// шаблон маршрута, а не сырой путь: иначе id раздувают кардинальность
			path := pathPattern(r)
			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			code := strconv.Itoa(status)

			if m != nil {
				m.Requests.WithLabelValues(r.Method, path, code).Inc()
				m.Duration.WithLabelValues(r.Method, path, code).Observe(elapsed.Seconds())
			}

			fields := []logx.Field{
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", status),
				logx.Duration("duration", elapsed),
			}
			if c, ok := CallerFrom(r.Context()); ok {
				fields = append(fields, logx.String("caller_role", string(c.Role)), logx.Int64("caller_id", c.ID))
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
