// Command plauder is a terminal chat client for Ollama.
//
// Usage:
//
//	plauder [flags] [command]
//
// Commands:
//
//	chat          interactive chat (default)
//	list          list models available on the server
//	show <model>  show details for a model
//	pull <model>  download a model, printing progress
//
// Flags:
//
//	-config PATH   config file (default: discovered)
//	-model NAME    model to chat with (overrides config)
//	-session ID    resume or name a persisted session
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plauder-dev/plauder/pkg/config"
	"github.com/plauder-dev/plauder/pkg/debug"
	"github.com/plauder-dev/plauder/pkg/engine"
	"github.com/plauder-dev/plauder/pkg/options"
	"github.com/plauder-dev/plauder/pkg/provider/ollama"
	"github.com/plauder-dev/plauder/pkg/storage"
	"github.com/plauder-dev/plauder/pkg/storage/memory"
	"github.com/plauder-dev/plauder/pkg/storage/postgres"
	"github.com/plauder-dev/plauder/pkg/tools"
	"github.com/plauder-dev/plauder/pkg/tools/builtin"
	"github.com/plauder-dev/plauder/pkg/tools/mcp"
)

func main() {
	debug.Init()

	if err := run(); err != nil {
		slog.Error("plauder failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file path")
	model := flag.String("model", "", "model to chat with")
	sessionID := flag.String("session", "", "session to resume or create")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *model != "" {
		cfg.Chat.Model = *model
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := ollama.NewClient(ollama.Config{
		Host:      cfg.Ollama.Host,
		VerifyTLS: cfg.Ollama.VerifyTLS,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.Observability.Metrics.Enabled {
		startMetricsListener(cfg.Observability.Metrics)
	}

	command := flag.Arg(0)
	switch command {
	case "", "chat":
		return runChat(ctx, cfg, client, *sessionID)
	case "list":
		return runList(ctx, client)
	case "show":
		if flag.Arg(1) == "" {
			return fmt.Errorf("usage: plauder show <model>")
		}
		return runShow(ctx, client, flag.Arg(1))
	case "pull":
		if flag.Arg(1) == "" {
			return fmt.Errorf("usage: plauder pull <model>")
		}
		return runPull(ctx, client, flag.Arg(1))
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// startMetricsListener exposes the Prometheus registry on its own
// listener; failures are logged, not fatal.
func startMetricsListener(cfg config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	go func() {
		slog.Info("metrics listener starting", "addr", cfg.Listen, "path", cfg.Path)
		if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
			slog.Warn("metrics listener failed", "error", err.Error())
		}
	}()
}

// buildTools assembles the tool set: configured builtins, persisted
// settings additions, and tools discovered from MCP servers.
func buildTools(ctx context.Context, cfg *config.Config) ([]tools.Tool, func(), error) {
	registry := tools.NewRegistry()

	names := append([]string{}, cfg.Tools.Builtins...)
	if settings, err := openSettings(); err == nil {
		names = append(names, settings.EnabledTools()...)
		for _, srv := range settings.MCPServers() {
			cfg.MCP.Servers = append(cfg.MCP.Servers, srv)
		}
	} else {
		slog.Warn("settings unavailable", "error", err.Error())
	}

	for _, name := range names {
		tool, err := builtin.ByName(name)
		if err != nil {
			slog.Warn("skipping unknown builtin tool", "name", name)
			continue
		}
		if err := registry.Register(tool); err != nil {
			return nil, nil, err
		}
	}

	cleanup := func() {}
	if len(cfg.MCP.Servers) > 0 {
		var serverCfgs []mcp.ServerConfig
		for _, srv := range cfg.MCP.Servers {
			serverCfgs = append(serverCfgs, mcp.ServerConfig{
				Name:      srv.Name,
				Transport: srv.Transport,
				URL:       srv.URL,
				Headers:   srv.Headers,
			})
		}

		pool := mcp.Connect(ctx, serverCfgs)
		cleanup = func() { pool.Close() }

		for _, tool := range pool.Tools(ctx) {
			if err := registry.Register(tool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
	}

	return registry.Tools(), cleanup, nil
}

func openSettings() (*config.Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return config.OpenSettings(filepath.Join(home, ".config", "plauder", "settings.json"))
}

// buildStore creates the session store selected by the configuration.
func buildStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(cfg.Storage.MaxSize), nil
	}
}

func runChat(ctx context.Context, cfg *config.Config, client *ollama.Client, sessionID string) error {
	if cfg.Chat.Model == "" {
		return fmt.Errorf("no model configured; set chat.model or pass -model")
	}

	chatTools, cleanup, err := buildTools(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	eng, err := engine.New(client, engine.Config{
		Model:         cfg.Chat.Model,
		System:        cfg.Chat.System,
		Format:        cfg.Chat.Format,
		Options:       options.Parse(cfg.Chat.Parameters),
		KeepAlive:     time.Duration(cfg.Ollama.KeepAliveMinutes) * time.Minute,
		Tools:         chatTools,
		MaxToolRounds: cfg.Chat.MaxToolRounds,
	})
	if err != nil {
		return err
	}

	if sessionID == "" {
		sessionID = fmt.Sprintf("chat-%d", time.Now().Unix())
	} else if session, err := store.Get(ctx, sessionID); err == nil {
		eng.Restore(session.Messages)
		fmt.Printf("resumed session %s (%d messages)\n%s", sessionID, len(session.Messages), historyPreview(session.Messages, 4))
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	repl := &chatLoop{
		engine:    eng,
		store:     store,
		sessionID: sessionID,
		model:     cfg.Chat.Model,
		system:    cfg.Chat.System,
		streaming: len(chatTools) == 0,
	}
	return repl.run(ctx)
}

func runList(ctx context.Context, client *ollama.Client) error {
	models, err := client.List(ctx)
	if err != nil {
		return err
	}

	for _, m := range models {
		fmt.Printf("%-40s %10s  %s\n", m.Name, formatBytes(m.Size), m.ModifiedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runShow(ctx context.Context, client *ollama.Client, model string) error {
	resp, err := client.Show(ctx, model)
	if err != nil {
		return err
	}

	fmt.Printf("model:        %s\n", model)
	fmt.Printf("family:       %s\n", resp.Details.Family)
	fmt.Printf("parameters:   %s\n", resp.Details.ParameterSize)
	fmt.Printf("quantization: %s\n", resp.Details.QuantizationLevel)
	if len(resp.Capabilities) > 0 {
		fmt.Printf("capabilities: %v\n", resp.Capabilities)
	}
	if resp.Parameters != "" {
		fmt.Printf("parameters:\n%s\n", resp.Parameters)
	}
	return nil
}

func runPull(ctx context.Context, client *ollama.Client, model string) error {
	eng, err := engine.New(client, engine.Config{Model: model})
	if err != nil {
		return err
	}

	var lastStatus string
	for ev, err := range eng.PullModel(ctx, model) {
		if err != nil {
			return err
		}

		if ev.Total > 0 {
			fmt.Printf("\r%s: %s / %s", ev.Status, formatBytes(ev.Completed), formatBytes(ev.Total))
		} else if ev.Status != lastStatus {
			if lastStatus != "" {
				fmt.Println()
			}
			fmt.Print(ev.Status)
		}
		lastStatus = ev.Status
	}
	fmt.Println()
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}
