package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CompletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_completions_total",
		Help: "Total number of completion API calls",
	}, []string{"status"})
	CompletionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_completion_duration_seconds",
		Help:    "Completion API call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(CompletionsTotal, CompletionDuration, HttpRequestsTotal, HttpRequestDuration)
}

// ObserveCompletion 记录一次补全调用的耗时与结果。
func ObserveCompletion(elapsed time.Duration, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	CompletionsTotal.WithLabelValues(status).Inc()
	CompletionDuration.Observe(elapsed.Seconds())
}

// GinMiddleware 统计基础请求指标,供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
