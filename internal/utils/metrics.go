// internal/utils/metrics.go
package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 网关调用结果
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
	OutcomeDegraded       = "degraded" // 选题解析失败后降级为空列表
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubegenius_gateway_requests_total",
			Help: "Total number of AI gateway requests, partitioned by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubegenius_gateway_request_duration_seconds",
			Help:    "Latency of AI gateway requests.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"operation"},
	)
	gatewayTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubegenius_gateway_tokens_total",
			Help: "Total number of model tokens consumed, partitioned by operation.",
		},
		[]string{"operation"},
	)
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tubegenius_sessions_active",
		Help: "Number of in-memory sessions currently held.",
	})
	topicSuggestionsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tubegenius_topic_suggestions_dropped_total",
		Help: "Total number of topic suggestions dropped because they failed validation.",
	})
)

// RecordGatewayRequest 记录一次网关调用
func RecordGatewayRequest(operation, outcome string, elapsed time.Duration, tokens int) {
	gatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if tokens > 0 {
		gatewayTokensTotal.WithLabelValues(operation).Add(float64(tokens))
	}
}

// RecordDroppedSuggestions 记录被丢弃的选题数量
func RecordDroppedSuggestions(n int) {
	if n > 0 {
		topicSuggestionsDropped.Add(float64(n))
	}
}

// SetActiveSessions 更新活跃会话数
func SetActiveSessions(n int) {
	sessionsActive.Set(float64(n))
}
