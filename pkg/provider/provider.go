// Package provider defines the transport boundary between the
// conversation engine and an inference server. The engine depends only
// on the Transport interface; pkg/provider/ollama supplies the HTTP
// implementation.
package provider

import (
	"context"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/format"
	"github.com/plauder-dev/plauder/pkg/options"
	"github.com/plauder-dev/plauder/pkg/tools"
)

// ChatRequest carries one completion request to the inference server.
type ChatRequest struct {
	Model     string
	Messages  []api.Message
	Options   options.Options
	Format    format.Directive
	Tools     []tools.Definition
	KeepAlive time.Duration
}

// Metrics holds the generation statistics the server reports with a
// completed response.
type Metrics struct {
	TotalDuration   time.Duration
	LoadDuration    time.Duration
	PromptEvalCount int
	EvalCount       int
	EvalDuration    time.Duration
}

// ChatResponse is a completed (non-streaming) chat exchange.
type ChatResponse struct {
	Model      string
	Message    api.Message
	DoneReason string
	Metrics    Metrics
}

// StreamEvent is one increment of a streaming chat response. Content is
// the chunk delta, not cumulative text. Done marks the terminal event,
// which carries the final metrics. Err terminates the stream with a
// failure; no further events follow it.
type StreamEvent struct {
	Content string
	Done    bool
	Metrics Metrics
	Err     error
}

// ProgressEvent is one increment of a model pull. Err terminates the
// sequence with a failure.
type ProgressEvent struct {
	Status    string
	Digest    string
	Total     int64
	Completed int64
	Err       error
}

// ModelDetails describes a model's file format and quantization.
type ModelDetails struct {
	Format            string `json:"format"`
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

// ModelInfo is a single entry from the server's model list.
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

// ShowResponse describes a single model in detail.
type ShowResponse struct {
	Modelfile    string       `json:"modelfile"`
	Parameters   string       `json:"parameters"`
	Template     string       `json:"template"`
	Details      ModelDetails `json:"details"`
	Capabilities []string     `json:"capabilities"`
}

// Transport is the inference server boundary. Implementations are safe
// for concurrent use; serialization of conversation mutation is the
// engine's concern, not the transport's.
type Transport interface {
	// Chat performs a blocking completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ChatStream opens a streaming completion. The returned channel is
	// closed when the stream ends; a terminal failure is delivered as a
	// StreamEvent with Err set.
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamEvent, error)

	// List returns the models available on the server.
	List(ctx context.Context) ([]ModelInfo, error)

	// Show returns details for a single model.
	Show(ctx context.Context, model string) (*ShowResponse, error)

	// Pull downloads a model, reporting progress on the returned
	// channel until the pull completes or fails.
	Pull(ctx context.Context, model string) (<-chan ProgressEvent, error)

	// Close releases transport resources.
	Close() error
}
