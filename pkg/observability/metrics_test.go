package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestToolExecutionCounter(t *testing.T) {
	before := counterValue(t, ToolExecutionsTotal.WithLabelValues("probe_tool", "success"))

	ToolExecutionsTotal.WithLabelValues("probe_tool", "success").Inc()

	after := counterValue(t, ToolExecutionsTotal.WithLabelValues("probe_tool", "success"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestChatLatencyObserve(t *testing.T) {
	// Observing must not panic and must show up in the gathered metrics.
	ChatLatency.WithLabelValues("probe-model").Observe(0.25)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gathering metrics: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "plauder_chat_latency_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("plauder_chat_latency_seconds not registered")
	}
}

// counterValue extracts the current value of a counter.
func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
