package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, PLAUDER_CONFIG env, ./plauder.yaml,
//     ~/.config/plauder/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
//  1. Explicit configPath argument
//  2. PLAUDER_CONFIG environment variable
//  3. ./plauder.yaml in the current directory
//  4. ~/.config/plauder/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("PLAUDER_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{"plauder.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "plauder", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// OLLAMA_HOST is honoured for compatibility with the wider Ollama
// tooling ecosystem; everything else uses the PLAUDER_ prefix.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("PLAUDER_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("PLAUDER_VERIFY_TLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ollama.VerifyTLS = b
		}
	}
	if v := os.Getenv("PLAUDER_KEEP_ALIVE"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			cfg.Ollama.KeepAliveMinutes = minutes
		}
	}
	if v := os.Getenv("PLAUDER_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("PLAUDER_SYSTEM"); v != "" {
		cfg.Chat.System = v
	}
	if v := os.Getenv("PLAUDER_FORMAT"); v != "" {
		cfg.Chat.Format = v
	}
	if v := os.Getenv("PLAUDER_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("PLAUDER_STORAGE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxSize = size
		}
	}

	// PLAUDER_MCP_SERVERS: JSON array of MCP server configs.
	if v := os.Getenv("PLAUDER_MCP_SERVERS"); v != "" {
		servers, err := parseMCPServersJSON(v)
		if err == nil && len(servers) > 0 {
			cfg.MCP.Servers = servers
		}
	}
}

// parseMCPServersJSON parses a JSON array of MCP server configurations.
func parseMCPServersJSON(jsonStr string) ([]MCPServerConfig, error) {
	var servers []MCPServerConfig
	if err := json.Unmarshal([]byte(jsonStr), &servers); err != nil {
		return nil, fmt.Errorf("parsing MCP servers JSON: %w", err)
	}
	return servers, nil
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read, whitespace is trimmed, and
// the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding
// whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
