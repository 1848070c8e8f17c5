package api

import (
	"fmt"
	"os"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ImageData is a binary image attachment. It marshals to a base64
// string, which is the form the Ollama chat endpoint expects.
type ImageData []byte

// ImageFromFile reads an image from disk into an ImageData attachment.
func ImageFromFile(path string) (ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return ImageData(data), nil
}

// Message is a single entry in a conversation history.
//
// Messages are append-only once they enter a history. The engine grows
// assistant content in place only inside its streaming accumulator,
// before the message is appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Images attaches binary image data to user messages.
	Images []ImageData `json:"images,omitempty"`

	// ToolCalls carries model-issued tool invocation requests.
	// Only present on assistant messages.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolName names the tool that produced a tool-role message.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolCall is a model-issued request to invoke a tool, in the Ollama
// tool_calls wire shape.
type ToolCall struct {
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the tool name and its argument mapping.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message with optional image attachments.
func UserMessage(content string, images []ImageData) Message {
	return Message{Role: RoleUser, Content: content, Images: images}
}

// ToolMessage builds a tool-role message carrying a tool's result.
func ToolMessage(toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolName: toolName}
}
