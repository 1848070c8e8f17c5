package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageMarshal_ImagesBase64(t *testing.T) {
	msg := UserMessage("what is this?", []ImageData{ImageData("rawbytes")})

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// []byte marshals to base64; "rawbytes" -> "cmF3Ynl0ZXM=".
	if !strings.Contains(string(data), `"cmF3Ynl0ZXM="`) {
		t.Errorf("expected base64 image payload, got %s", data)
	}
}

func TestMessageMarshal_OmitsEmptyFields(t *testing.T) {
	msg := Message{Role: RoleAssistant, Content: "hi"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{"images", "tool_calls", "tool_name"} {
		if strings.Contains(string(data), field) {
			t.Errorf("expected %q to be omitted, got %s", field, data)
		}
	}
}

func TestToolCallUnmarshal(t *testing.T) {
	payload := `{"role":"assistant","content":"","tool_calls":[{"function":{"name":"get_weather","arguments":{"city":"Berlin"}}}]}`

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	tc := msg.ToolCalls[0]
	if tc.Function.Name != "get_weather" {
		t.Errorf("tool name = %q, want get_weather", tc.Function.Name)
	}
	if tc.Function.Arguments["city"] != "Berlin" {
		t.Errorf("arguments[city] = %v, want Berlin", tc.Function.Arguments["city"])
	}
}

func TestToolMessage(t *testing.T) {
	msg := ToolMessage("get_weather", `{"temp":22}`)
	if msg.Role != RoleTool {
		t.Errorf("role = %q, want tool", msg.Role)
	}
	if msg.ToolName != "get_weather" {
		t.Errorf("tool name = %q, want get_weather", msg.ToolName)
	}
}

func TestErrorString(t *testing.T) {
	err := NewInvalidRequestError("format", "invalid format: 'not json'")
	got := err.Error()
	if !strings.Contains(got, "invalid_request") || !strings.Contains(got, "format") {
		t.Errorf("unexpected error string: %s", got)
	}
}
