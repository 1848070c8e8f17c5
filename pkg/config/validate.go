package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Ollama.Host == "" {
		errs = append(errs, fmt.Errorf("ollama.host is required"))
	}
	if c.Ollama.KeepAliveMinutes < 0 {
		errs = append(errs, fmt.Errorf("ollama.keep_alive_minutes must be >= 0, got %d", c.Ollama.KeepAliveMinutes))
	}

	if c.Chat.MaxToolRounds < 0 {
		errs = append(errs, fmt.Errorf("chat.max_tool_rounds must be >= 0, got %d", c.Chat.MaxToolRounds))
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	for i, srv := range c.MCP.Servers {
		if srv.Name == "" {
			errs = append(errs, fmt.Errorf("mcp.servers[%d].name is required", i))
		}
		if srv.URL == "" {
			errs = append(errs, fmt.Errorf("mcp.servers[%d].url is required", i))
		}
		switch srv.Transport {
		case "sse", "streamable-http", "":
			// valid; empty defaults to streamable-http
		default:
			errs = append(errs, fmt.Errorf("mcp.servers[%d].transport must be \"sse\" or \"streamable-http\", got %q", i, srv.Transport))
		}
	}

	return errors.Join(errs...)
}
