package engine

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/format"
	"github.com/plauder-dev/plauder/pkg/observability"
	"github.com/plauder-dev/plauder/pkg/options"
	"github.com/plauder-dev/plauder/pkg/provider"
	"github.com/plauder-dev/plauder/pkg/tools"
)

// ErrStreamingWithTools is returned by Stream when tools are configured.
// Tool calling requires the blocking completion path; the streaming
// endpoint cannot feed tool results back into the conversation.
var ErrStreamingWithTools = api.NewUnsupportedError("tool calling is not supported in streaming mode")

// Config carries the per-conversation settings of an Engine.
type Config struct {
	// Model is the name of the model to converse with. Required.
	Model string

	// System is an optional system prompt, seeded into history as the
	// first message.
	System string

	// Format is the output format directive: "", "json", or a JSON
	// schema object. Resolved on every request so an invalid directive
	// fails before any network call.
	Format string

	// Options are the inference parameters sent with every request.
	Options options.Options

	// KeepAlive tells the server how long to keep the model loaded
	// after the request. Zero omits the field.
	KeepAlive time.Duration

	// Tools are the tool implementations offered to the model.
	Tools []tools.Tool

	// MaxToolRounds bounds the number of tool-call rounds a single
	// Complete call may run. Zero means unbounded, which leaves
	// liveness in the model's hands: a model that never stops
	// requesting tools will loop forever.
	MaxToolRounds int
}

// Engine drives a single conversation: it holds the message history and
// resolves model turns, dispatching tool calls until the model produces
// a final answer.
//
// An Engine is not safe for concurrent use. Complete and Stream mutate
// the shared history; callers serialize calls per conversation.
type Engine struct {
	transport provider.Transport
	cfg       Config
	history   []api.Message
}

// New creates an Engine for one conversation. When cfg.System is
// non-empty, history starts with the system message.
func New(transport provider.Transport, cfg Config) (*Engine, error) {
	if transport == nil {
		return nil, fmt.Errorf("engine: transport must not be nil")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine: model must not be empty")
	}

	e := &Engine{transport: transport, cfg: cfg}
	if cfg.System != "" {
		e.history = append(e.history, api.SystemMessage(cfg.System))
	}
	return e, nil
}

// History returns a copy of the conversation history.
func (e *Engine) History() []api.Message {
	return slices.Clone(e.history)
}

// Restore replaces the conversation history, e.g. when resuming a
// persisted session. The caller is responsible for the first message
// being the system prompt if one is wanted.
func (e *Engine) Restore(messages []api.Message) {
	e.history = slices.Clone(messages)
}

// Complete sends the prompt and resolves the model's answer, running
// tool-call rounds until the model responds without requesting tools.
// The terminal assistant message is appended to history and its content
// returned; intermediate tool-round messages are not retained.
//
// An empty prompt re-sends the existing history without adding a user
// message. Transport errors propagate unretried.
func (e *Engine) Complete(ctx context.Context, prompt string, images []api.ImageData) (string, error) {
	directive, err := format.Resolve(e.cfg.Format)
	if err != nil {
		return "", err
	}

	if prompt != "" {
		e.history = append(e.history, api.UserMessage(prompt, images))
	}

	defs := tools.Definitions(e.cfg.Tools)

	// pending holds the current round's tool exchange: the assistant
	// message that requested the calls followed by the tool results.
	// Each round replaces it wholesale; only the terminal assistant
	// message ever reaches history.
	var pending []api.Message

	for round := 0; ; round++ {
		if e.cfg.MaxToolRounds > 0 && round >= e.cfg.MaxToolRounds+1 {
			return "", api.NewServerError(fmt.Sprintf(
				"model kept requesting tools after %d rounds", e.cfg.MaxToolRounds))
		}

		messages := append(slices.Clone(e.history), pending...)
		resp, err := e.chat(ctx, &provider.ChatRequest{
			Model:     e.cfg.Model,
			Messages:  messages,
			Options:   e.cfg.Options,
			Format:    directive,
			Tools:     defs,
			KeepAlive: e.cfg.KeepAlive,
		})
		if err != nil {
			return "", err
		}

		if len(resp.Message.ToolCalls) == 0 {
			e.history = append(e.history, resp.Message)
			return resp.Message.Content, nil
		}

		next := []api.Message{resp.Message}
		for _, call := range resp.Message.ToolCalls {
			result, ok := tools.Dispatch(ctx, call, e.cfg.Tools)
			if !ok {
				continue
			}
			next = append(next, result)
		}
		pending = next
	}
}

// Stream sends the prompt and returns a sequence of cumulative response
// text: each yielded value is the complete text so far, so consumers
// overwrite their display rather than append. extra options override
// the engine's configured options for this call only.
//
// Streaming is refused when tools are configured; see
// ErrStreamingWithTools. On normal exhaustion the accumulated text is
// appended to history as the assistant message. A mid-stream error is
// yielded to the consumer and nothing is appended. Abandoning the
// sequence early also skips the append; cancel ctx to release the
// underlying stream.
func (e *Engine) Stream(ctx context.Context, prompt string, images []api.ImageData, extra options.Options) (iter.Seq2[string, error], error) {
	if len(e.cfg.Tools) > 0 {
		return nil, ErrStreamingWithTools
	}

	directive, err := format.Resolve(e.cfg.Format)
	if err != nil {
		return nil, err
	}

	e.history = append(e.history, api.UserMessage(prompt, images))

	start := time.Now()
	ch, err := e.transport.ChatStream(ctx, &provider.ChatRequest{
		Model:     e.cfg.Model,
		Messages:  slices.Clone(e.history),
		Options:   options.Merge(e.cfg.Options, extra),
		Format:    directive,
		KeepAlive: e.cfg.KeepAlive,
	})
	if err != nil {
		observability.ChatRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
		return nil, err
	}

	observability.StreamsActive.Inc()

	seq := func(yield func(string, error) bool) {
		defer observability.StreamsActive.Dec()

		var buf strings.Builder
		for ev := range ch {
			if ev.Err != nil {
				observability.ChatRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
				yield("", ev.Err)
				return
			}

			buf.WriteString(ev.Content)

			if ev.Done {
				observability.ChatRequestsTotal.WithLabelValues(e.cfg.Model, "success").Inc()
				observability.ChatLatency.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())
				recordTokens(e.cfg.Model, ev.Metrics)
				if ev.Content != "" && !yield(buf.String(), nil) {
					return
				}
				continue
			}

			if ev.Content != "" && !yield(buf.String(), nil) {
				return
			}
		}

		e.history = append(e.history, api.Message{
			Role:    api.RoleAssistant,
			Content: buf.String(),
		})
	}
	return seq, nil
}

// chat performs one blocking transport call with metrics.
func (e *Engine) chat(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	start := time.Now()
	resp, err := e.transport.Chat(ctx, req)
	duration := time.Since(start)

	if err != nil {
		observability.ChatRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
		observability.ChatLatency.WithLabelValues(e.cfg.Model).Observe(duration.Seconds())
		return nil, err
	}

	observability.ChatRequestsTotal.WithLabelValues(e.cfg.Model, "success").Inc()
	observability.ChatLatency.WithLabelValues(e.cfg.Model).Observe(duration.Seconds())
	recordTokens(e.cfg.Model, resp.Metrics)
	return resp, nil
}

func recordTokens(model string, m provider.Metrics) {
	if m.PromptEvalCount > 0 {
		observability.TokensTotal.WithLabelValues(model, "input").Add(float64(m.PromptEvalCount))
	}
	if m.EvalCount > 0 {
		observability.TokensTotal.WithLabelValues(model, "output").Add(float64(m.EvalCount))
	}
}
