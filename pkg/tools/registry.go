package tools

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry is the explicit name-to-tool lookup table assembled at
// startup from builtins, externally configured tools, and discovered
// MCP tools. Registration order is preserved; duplicate names keep the
// first registration.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. An empty name or nil invoker is rejected; a
// duplicate name keeps the first registration and logs a warning.
func (r *Registry) Register(tool Tool) error {
	if tool.Definition.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if tool.Invoke == nil {
		return fmt.Errorf("tool %q has no implementation", tool.Definition.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Definition.Name]; exists {
		slog.Warn("duplicate tool name, keeping first registration",
			"tool", tool.Definition.Name,
		)
		return nil
	}

	r.tools[tool.Definition.Name] = tool
	r.order = append(r.order, tool.Definition.Name)
	return nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
