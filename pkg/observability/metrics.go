// Package observability provides Prometheus metrics for the plauder
// conversation engine and its Ollama transport.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference
// latencies, ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ChatRequestsTotal counts chat requests sent to the inference
	// server by model and outcome.
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plauder_chat_requests_total",
			Help: "Chat requests to the inference server",
		},
		[]string{"model", "status"},
	)

	// ChatLatency records inference server latency in seconds.
	ChatLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plauder_chat_latency_seconds",
			Help:    "Inference server latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// TokensTotal counts tokens processed by direction (input/output),
	// taken from the server's eval counts.
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plauder_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// ToolExecutionsTotal counts tool dispatches by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plauder_tool_executions_total",
			Help: "Tool executions",
		},
		[]string{"tool_name", "status"},
	)

	// ToolDuration records tool execution duration in seconds.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plauder_tool_duration_seconds",
			Help:    "Tool execution duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool_name"},
	)

	// PullBytesTotal counts bytes reported complete by model pulls.
	PullBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plauder_pull_bytes_total",
			Help: "Bytes downloaded by model pulls",
		},
		[]string{"model"},
	)

	// StreamsActive tracks the number of open streaming completions.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plauder_streams_active",
			Help: "Active streaming completions",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ChatRequestsTotal,
		ChatLatency,
		TokensTotal,
		ToolExecutionsTotal,
		ToolDuration,
		PullBytesTotal,
		StreamsActive,
	)
}
