// Package config provides unified configuration for the plauder client.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (PLAUDER_ prefix, plus OLLAMA_HOST)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

// Config holds all configuration for the plauder client.
type Config struct {
	Ollama        OllamaConfig        `yaml:"ollama"`
	Chat          ChatConfig          `yaml:"chat"`
	Tools         ToolsConfig         `yaml:"tools"`
	MCP           MCPConfig           `yaml:"mcp"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// OllamaConfig holds inference server connection settings.
type OllamaConfig struct {
	Host             string `yaml:"host"`               // default: "http://127.0.0.1:11434"
	VerifyTLS        bool   `yaml:"verify_tls"`         // default: true
	KeepAliveMinutes int    `yaml:"keep_alive_minutes"` // default: 5
}

// ChatConfig holds per-conversation defaults.
type ChatConfig struct {
	Model         string `yaml:"model"`           // required
	System        string `yaml:"system"`          // optional system prompt
	Format        string `yaml:"format"`          // "", "json", or a JSON schema object
	Parameters    string `yaml:"parameters"`      // newline-delimited "key value" pairs
	MaxToolRounds int    `yaml:"max_tool_rounds"` // default: 10, 0 = unbounded
}

// ToolsConfig selects which builtin tools are offered to the model.
type ToolsConfig struct {
	Builtins []string `yaml:"builtins"` // e.g. "date_time", "shell", "fetch_url"
}

// MCPConfig holds MCP (Model Context Protocol) server settings.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "sse" or "streamable-http"
	URL       string            `yaml:"url"`
	Headers   map[string]string `yaml:"headers"`
}

// StorageConfig holds session persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // for memory store, default: 100
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 5
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: false
	Listen  string `yaml:"listen"`  // default: "127.0.0.1:9090"
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Ollama: OllamaConfig{
			Host:             "http://127.0.0.1:11434",
			VerifyTLS:        true,
			KeepAliveMinutes: 5,
		},
		Chat: ChatConfig{
			MaxToolRounds: 10,
		},
		Storage: StorageConfig{
			Type:    "memory",
			MaxSize: 100,
			Postgres: PostgresConfig{
				MaxConns: 5,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Listen: "127.0.0.1:9090",
				Path:   "/metrics",
			},
		},
	}
}
