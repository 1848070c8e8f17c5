package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/plauder-dev/plauder/pkg/api"
)

func echoTool(name string) Tool {
	return Tool{
		Definition: Definition{
			Name:        name,
			Description: "echoes its input",
			Parameters: Schema{
				"type":       "object",
				"properties": map[string]any{"text": map[string]any{"type": "string"}},
			},
		},
		Invoke: func(_ context.Context, args map[string]any) (string, error) {
			return fmt.Sprintf("echo: %v", args["text"]), nil
		},
	}
}

func failingTool(name string, err error) Tool {
	return Tool{
		Definition: Definition{Name: name, Parameters: Schema{"type": "object"}},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return "", err
		},
	}
}

func call(name string, args map[string]any) api.ToolCall {
	return api.ToolCall{Function: api.FunctionCall{Name: name, Arguments: args}}
}

func TestDispatch_Match(t *testing.T) {
	toolset := []Tool{echoTool("echo")}

	msg, ok := Dispatch(context.Background(), call("echo", map[string]any{"text": "hi"}), toolset)
	if !ok {
		t.Fatal("expected a tool-result message")
	}
	if msg.Role != api.RoleTool {
		t.Errorf("role = %q, want tool", msg.Role)
	}
	if msg.ToolName != "echo" {
		t.Errorf("tool name = %q, want echo", msg.ToolName)
	}
	if msg.Content != "echo: hi" {
		t.Errorf("content = %q, want echo: hi", msg.Content)
	}
}

func TestDispatch_UnknownToolSkipped(t *testing.T) {
	toolset := []Tool{echoTool("echo")}

	msg, ok := Dispatch(context.Background(), call("does_not_exist", nil), toolset)
	if ok {
		t.Fatalf("expected no message for unknown tool, got %#v", msg)
	}
}

func TestDispatch_ErrorBecomesResultContent(t *testing.T) {
	toolErr := errors.New("connection refused")
	toolset := []Tool{failingTool("flaky", toolErr)}

	msg, ok := Dispatch(context.Background(), call("flaky", nil), toolset)
	if !ok {
		t.Fatal("expected a tool-result message even on error")
	}
	if msg.Content != toolErr.Error() {
		t.Errorf("content = %q, want %q", msg.Content, toolErr.Error())
	}
	if msg.Role != api.RoleTool {
		t.Errorf("role = %q, want tool", msg.Role)
	}
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	first := Tool{
		Definition: Definition{Name: "dup", Parameters: Schema{"type": "object"}},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return "first", nil
		},
	}
	second := Tool{
		Definition: Definition{Name: "dup", Parameters: Schema{"type": "object"}},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return "second", nil
		},
	}

	msg, ok := Dispatch(context.Background(), call("dup", nil), []Tool{first, second})
	if !ok {
		t.Fatal("expected a match")
	}
	if msg.Content != "first" {
		t.Errorf("content = %q, want first", msg.Content)
	}
}

func TestDefinitions(t *testing.T) {
	toolset := []Tool{echoTool("a"), echoTool("b")}

	defs := Definitions(toolset)
	if len(defs) != 2 || defs[0].Name != "a" || defs[1].Name != "b" {
		t.Errorf("unexpected definitions: %#v", defs)
	}

	if Definitions(nil) != nil {
		t.Error("empty tool set should yield nil definitions")
	}
}
