package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/observability"
)

// Dispatch resolves a model-issued tool call against the available
// tools and executes it. The first tool whose name matches wins;
// duplicate names are a configuration concern handled at registration.
//
// Returns the tool-result message and true on a match. A call naming an
// unknown tool returns false with no message: the round silently drops
// the call rather than failing the conversation. An invoker error is
// captured as the result content, never propagated.
func Dispatch(ctx context.Context, call api.ToolCall, available []Tool) (api.Message, bool) {
	name := call.Function.Name

	for _, tool := range available {
		if tool.Definition.Name != name {
			continue
		}

		slog.Debug("calling tool", "tool", name)
		start := time.Now()

		content, err := tool.Invoke(ctx, call.Function.Arguments)
		status := "success"
		if err != nil {
			slog.Warn("tool execution error", "tool", name, "error", err.Error())
			content = err.Error()
			status = "error"
		}

		observability.ToolExecutionsTotal.WithLabelValues(name, status).Inc()
		observability.ToolDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		return api.ToolMessage(name, content), true
	}

	slog.Debug("no tool registered for call, skipping", "tool", name)
	observability.ToolExecutionsTotal.WithLabelValues(name, "unresolved").Inc()
	return api.Message{}, false
}
