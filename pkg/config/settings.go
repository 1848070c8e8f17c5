package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// settingsDefaults are the values a fresh settings file starts with.
func settingsDefaults() map[string]any {
	return map[string]any{
		"tools":       []any{},
		"mcp_servers": []any{},
	}
}

// Settings is the persisted key-value store backing user-level state
// that outlives a single run, such as the externally enabled tool list.
// It is a small JSON file; Set writes through immediately.
type Settings struct {
	path string
	data map[string]any
}

// OpenSettings loads the settings file at path, creating it (and its
// parent directory) with defaults when it does not exist yet.
func OpenSettings(path string) (*Settings, error) {
	s := &Settings{path: path, data: settingsDefaults()}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	// Stored values win over defaults; missing keys keep the default.
	for k, v := range stored {
		s.data[k] = v
	}
	return s, nil
}

// Get returns the value stored under key, or nil when absent.
func (s *Settings) Get(key string) any {
	return s.data[key]
}

// Set stores value under key and persists the file.
func (s *Settings) Set(key string, value any) error {
	s.data[key] = value
	return s.save()
}

// EnabledTools returns the externally configured tool names.
func (s *Settings) EnabledTools() []string {
	return stringSlice(s.data["tools"])
}

// MCPServers returns the externally configured MCP server connections.
func (s *Settings) MCPServers() []MCPServerConfig {
	raw, err := json.Marshal(s.data["mcp_servers"])
	if err != nil {
		return nil
	}
	var servers []MCPServerConfig
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil
	}
	return servers
}

func (s *Settings) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
