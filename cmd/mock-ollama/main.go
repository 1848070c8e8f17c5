// Command mock-ollama runs a deterministic Ollama-compatible server for
// development and manual testing. It echoes prompts, emits canned tool
// calls on request, and fakes pull progress.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 11434)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "11434"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", handleChat)
	mux.HandleFunc("GET /api/tags", handleTags)
	mux.HandleFunc("POST /api/show", handleShow)
	mux.HandleFunc("POST /api/pull", handlePull)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock ollama starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock ollama failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock ollama shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Request/response types ---

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Tools    []any     `json:"tools"`
}

type message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
}

type toolCall struct {
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type chatResponse struct {
	Model           string  `json:"model"`
	CreatedAt       string  `json:"created_at"`
	Message         message `json:"message"`
	Done            bool    `json:"done"`
	DoneReason      string  `json:"done_reason,omitempty"`
	TotalDuration   int64   `json:"total_duration,omitempty"`
	PromptEvalCount int     `json:"prompt_eval_count,omitempty"`
	EvalCount       int     `json:"eval_count,omitempty"`
}

// --- Handlers ---

// handleChat answers deterministically. A prompt containing "use the
// tool" triggers a canned tool call when tools are offered and no tool
// result is present yet; otherwise the last user prompt is echoed.
func handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "model is required")
		return
	}

	reply := buildReply(&req)

	if req.Stream {
		streamReply(w, req.Model, reply)
		return
	}

	writeJSON(w, chatResponse{
		Model:           req.Model,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Message:         reply,
		Done:            true,
		DoneReason:      "stop",
		TotalDuration:   int64(50 * time.Millisecond),
		PromptEvalCount: 10,
		EvalCount:       20,
	})
}

func buildReply(req *chatRequest) message {
	lastUser := ""
	sawToolResult := false
	for _, m := range req.Messages {
		if m.Role == "user" {
			lastUser = m.Content
		}
		if m.Role == "tool" {
			sawToolResult = true
		}
	}

	if len(req.Tools) > 0 && strings.Contains(strings.ToLower(lastUser), "use the tool") && !sawToolResult {
		return message{
			Role: "assistant",
			ToolCalls: []toolCall{
				{Function: functionCall{
					Name:      "date_time",
					Arguments: map[string]any{},
				}},
			},
		}
	}

	if sawToolResult {
		last := req.Messages[len(req.Messages)-1]
		return message{
			Role:    "assistant",
			Content: "tool said: " + last.Content,
		}
	}

	return message{
		Role:    "assistant",
		Content: "you said: " + lastUser,
	}
}

// streamReply chunks the content word by word as NDJSON.
func streamReply(w http.ResponseWriter, model string, reply message) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	words := strings.Fields(reply.Content)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		enc.Encode(chatResponse{
			Model:     model,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Message:   message{Role: "assistant", Content: chunk},
		})
		if flusher != nil {
			flusher.Flush()
		}
		time.Sleep(20 * time.Millisecond)
	}

	enc.Encode(chatResponse{
		Model:           model,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Message:         message{Role: "assistant"},
		Done:            true,
		DoneReason:      "stop",
		PromptEvalCount: 10,
		EvalCount:       len(words),
	})
}

func handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"models": []map[string]any{
			{
				"name":        "mock:latest",
				"modified_at": time.Now().UTC().Format(time.RFC3339),
				"size":        1234567890,
				"digest":      "deadbeef",
				"details": map[string]any{
					"family":             "mock",
					"parameter_size":     "7B",
					"quantization_level": "Q4_0",
				},
			},
		},
	})
}

func handleShow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model == "" {
		writeError(w, http.StatusBadRequest, "model is required")
		return
	}
	if !strings.HasPrefix(req.Model, "mock") {
		writeError(w, http.StatusNotFound, fmt.Sprintf("model %q not found", req.Model))
		return
	}

	writeJSON(w, map[string]any{
		"template":   "{{ .Prompt }}",
		"parameters": "temperature 0.8\nstop <|end|>",
		"details": map[string]any{
			"family":             "mock",
			"parameter_size":     "7B",
			"quantization_level": "Q4_0",
		},
		"capabilities": []string{"completion", "tools"},
	})
}

// handlePull fakes a three-layer download with progress lines.
func handlePull(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	enc.Encode(map[string]any{"status": "pulling manifest"})

	const total = int64(1 << 20)
	for _, digest := range []string{"sha256:aaa", "sha256:bbb", "sha256:ccc"} {
		for completed := total / 4; completed <= total; completed += total / 4 {
			enc.Encode(map[string]any{
				"status":    "pulling " + digest,
				"digest":    digest,
				"total":     total,
				"completed": completed,
			})
			if flusher != nil {
				flusher.Flush()
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	enc.Encode(map[string]any{"status": "verifying sha256 digest"})
	enc.Encode(map[string]any{"status": "success"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
