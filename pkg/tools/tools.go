package tools

import "context"

// Schema is a JSON Schema object describing a tool's parameters.
type Schema map[string]any

// Definition is the declarative tool schema sent to the model.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Invoker executes a tool with the keyword-style arguments the model
// supplied. Long-running implementations should honour ctx; there is no
// separate asynchronous form, a blocking invoker simply blocks the
// conversation round it runs in.
type Invoker func(ctx context.Context, args map[string]any) (string, error)

// Tool pairs a declarative schema with its implementation. The engine
// treats the pair as read-only for its lifetime.
type Tool struct {
	Definition Definition
	Invoke     Invoker
}

// Definitions extracts the declarative schemas from a tool set, in
// order, for inclusion in a chat request.
func Definitions(toolset []Tool) []Definition {
	if len(toolset) == 0 {
		return nil
	}
	defs := make([]Definition, len(toolset))
	for i, t := range toolset {
		defs[i] = t.Definition
	}
	return defs
}
