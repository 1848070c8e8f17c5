package mcp

// ServerConfig describes a single MCP server connection.
type ServerConfig struct {
	// Name identifies the server in logs and errors.
	Name string

	// Transport selects the connection type: "sse" or "streamable-http".
	// Empty defaults to "streamable-http".
	Transport string

	// URL is the server endpoint.
	URL string

	// Headers are added to every HTTP request, e.g. for bearer tokens.
	Headers map[string]string
}
