package mcp

import (
	"context"
	"log/slog"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// Pool manages connections to multiple MCP servers.
type Pool struct {
	clients []*Client
}

// Connect dials all configured servers. A server that cannot be reached
// is logged and skipped rather than failing the whole pool; a chat
// client should keep working with the tools it can get.
func Connect(ctx context.Context, cfgs []ServerConfig) *Pool {
	p := &Pool{}
	for _, cfg := range cfgs {
		client := NewClient(cfg)
		if err := client.Connect(ctx); err != nil {
			slog.Warn("skipping unreachable MCP server",
				"server", cfg.Name,
				"error", err.Error(),
			)
			continue
		}
		slog.Info("connected to MCP server", "server", cfg.Name)
		p.clients = append(p.clients, client)
	}
	return p
}

// Tools discovers the tools of every connected server. A server whose
// discovery fails is logged and contributes nothing; duplicate names
// across servers are resolved by the registry (first wins).
func (p *Pool) Tools(ctx context.Context) []tools.Tool {
	var all []tools.Tool
	for _, client := range p.clients {
		discovered, err := client.Tools(ctx)
		if err != nil {
			slog.Warn("failed to discover MCP tools",
				"server", client.cfg.Name,
				"error", err.Error(),
			)
			continue
		}
		slog.Info("discovered MCP tools",
			"server", client.cfg.Name,
			"count", len(discovered),
		)
		all = append(all, discovered...)
	}
	return all
}

// Close closes all server sessions.
func (p *Pool) Close() error {
	var lastErr error
	for _, client := range p.clients {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close MCP client",
				"server", client.cfg.Name,
				"error", err.Error(),
			)
			lastErr = err
		}
	}
	return lastErr
}
