package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/provider"
)

// ChatStream opens a streaming completion against /api/chat. Chunks
// arrive as NDJSON: one chatResponse object per line, the last with
// done=true carrying the generation metrics.
func (c *Client) ChatStream(ctx context.Context, req *provider.ChatRequest) (<-chan provider.StreamEvent, error) {
	wire, err := translateRequest(req, true)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.post(ctx, "/api/chat", wire, c.streamClient())
	if err != nil {
		return nil, err
	}

	ch := make(chan provider.StreamEvent, 16)
	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		parseChatStream(ctx, httpResp.Body, ch)
	}()
	return ch, nil
}

// Pull downloads a model via /api/pull, reporting NDJSON progress lines
// until the pull completes or fails.
func (c *Client) Pull(ctx context.Context, model string) (<-chan provider.ProgressEvent, error) {
	httpResp, err := c.post(ctx, "/api/pull", pullRequest{Model: model, Stream: true}, c.streamClient())
	if err != nil {
		return nil, err
	}

	ch := make(chan provider.ProgressEvent, 16)
	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		parsePullStream(ctx, httpResp.Body, ch)
	}()
	return ch, nil
}

// parseChatStream reads NDJSON chat chunks from body and sends them on
// ch as StreamEvents. Malformed lines are logged and skipped. Context
// cancellation stops reading immediately.
func parseChatStream(ctx context.Context, body io.Reader, ch chan<- provider.StreamEvent) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			slog.Warn("skipping malformed stream chunk", "error", err.Error())
			continue
		}

		if chunk.Error != "" {
			ch <- provider.StreamEvent{Err: api.NewServerError(chunk.Error)}
			return
		}

		if chunk.Done {
			ch <- provider.StreamEvent{
				Content: chunk.Message.Content,
				Done:    true,
				Metrics: chunk.metrics(),
			}
			return
		}

		ch <- provider.StreamEvent{Content: chunk.Message.Content}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		ch <- provider.StreamEvent{
			Err: api.NewServerError("stream read error: " + err.Error()),
		}
	}
}

// parsePullStream reads NDJSON pull progress lines from body and sends
// them on ch. A line carrying an error field terminates the sequence
// with a failing event.
func parsePullStream(ctx context.Context, body io.Reader, ch chan<- provider.ProgressEvent) {
	scanner := bufio.NewScanner(body)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var progress pullProgress
		if err := json.Unmarshal(line, &progress); err != nil {
			slog.Warn("skipping malformed pull chunk", "error", err.Error())
			continue
		}

		if progress.Error != "" {
			ch <- provider.ProgressEvent{Err: api.NewServerError(progress.Error)}
			return
		}

		ch <- provider.ProgressEvent{
			Status:    progress.Status,
			Digest:    progress.Digest,
			Total:     progress.Total,
			Completed: progress.Completed,
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		ch <- provider.ProgressEvent{
			Err: api.NewServerError("pull stream read error: " + err.Error()),
		}
	}
}
