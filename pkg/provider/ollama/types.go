package ollama

import (
	"encoding/json"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/options"
	"github.com/plauder-dev/plauder/pkg/provider"
	"github.com/plauder-dev/plauder/pkg/tools"
)

// chatRequest is the /api/chat wire format.
type chatRequest struct {
	Model     string          `json:"model"`
	Messages  []api.Message   `json:"messages"`
	Stream    bool            `json:"stream"`
	Format    json.RawMessage `json:"format,omitempty"`
	Options   options.Options `json:"options,omitempty"`
	Tools     []wireTool      `json:"tools,omitempty"`
	KeepAlive string          `json:"keep_alive,omitempty"`
}

// wireTool wraps a tool definition in the function-typed envelope the
// chat endpoint expects.
type wireTool struct {
	Type     string           `json:"type"`
	Function tools.Definition `json:"function"`
}

// chatResponse is a single /api/chat response object. In streaming mode
// the same shape arrives once per NDJSON line, with Done marking the
// terminal chunk that carries the generation metrics.
type chatResponse struct {
	Model           string      `json:"model"`
	CreatedAt       time.Time   `json:"created_at"`
	Message         api.Message `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	TotalDuration   int64       `json:"total_duration,omitempty"`
	LoadDuration    int64       `json:"load_duration,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	EvalDuration    int64       `json:"eval_duration,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// metrics converts the wire duration/count fields.
func (r *chatResponse) metrics() provider.Metrics {
	return provider.Metrics{
		TotalDuration:   time.Duration(r.TotalDuration),
		LoadDuration:    time.Duration(r.LoadDuration),
		PromptEvalCount: r.PromptEvalCount,
		EvalCount:       r.EvalCount,
		EvalDuration:    time.Duration(r.EvalDuration),
	}
}

// tagsResponse is the /api/tags wire format.
type tagsResponse struct {
	Models []provider.ModelInfo `json:"models"`
}

// showRequest is the /api/show wire format.
type showRequest struct {
	Model string `json:"model"`
}

// pullRequest is the /api/pull wire format.
type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// pullProgress is one NDJSON line of /api/pull output.
type pullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// errorResponse is the error body Ollama returns with non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// translateRequest converts a provider request to the wire format.
func translateRequest(req *provider.ChatRequest, stream bool) (*chatRequest, error) {
	formatValue, err := req.Format.WireValue()
	if err != nil {
		return nil, err
	}

	wire := &chatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   stream,
		Format:   formatValue,
		Options:  req.Options,
	}

	if req.KeepAlive > 0 {
		wire.KeepAlive = req.KeepAlive.String()
	}

	for _, def := range req.Tools {
		wire.Tools = append(wire.Tools, wireTool{Type: "function", Function: def})
	}

	return wire, nil
}
