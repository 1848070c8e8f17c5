package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// Client wraps an MCP SDK client and session for a single server
// connection. It handles connection lifecycle, tool discovery, and tool
// execution.
type Client struct {
	cfg     ServerConfig
	client  *mcp.Client
	session *mcp.ClientSession
}

// NewClient creates a Client for the given server configuration.
// Call Connect to establish the connection.
func NewClient(cfg ServerConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect establishes the MCP connection to the server, performing the
// protocol handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport establishes the MCP connection using the given
// transport. If transport is nil, a transport is created from the
// server configuration.
func (c *Client) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	c.client = mcp.NewClient(
		&mcp.Implementation{
			Name:    "plauder",
			Version: "1.0.0",
		},
		&mcp.ClientOptions{
			Capabilities: &mcp.ClientCapabilities{},
		},
	)

	if transport == nil {
		t, err := c.createTransport()
		if err != nil {
			return fmt.Errorf("creating transport for %q: %w", c.cfg.Name, err)
		}
		transport = t
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to MCP server %q: %w", c.cfg.Name, err)
	}
	c.session = session
	return nil
}

// createTransport creates an MCP transport based on the server configuration.
func (c *Client) createTransport() (mcp.Transport, error) {
	httpClient := c.buildHTTPClient()

	switch c.cfg.Transport {
	case "sse":
		transport := &mcp.SSEClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	case "streamable-http", "":
		transport := &mcp.StreamableClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	default:
		return nil, fmt.Errorf("unsupported transport type %q", c.cfg.Transport)
	}
}

// buildHTTPClient returns an HTTP client that adds the configured static
// headers, or nil when none are configured.
func (c *Client) buildHTTPClient() *http.Client {
	if len(c.cfg.Headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			headers: c.cfg.Headers,
		},
	}
}

// headerTransport is an http.RoundTripper that adds custom headers to
// every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// Tools queries the server for its tools and wraps each as a tools.Tool
// whose invoker calls back into the server.
func (c *Client) Tools(ctx context.Context) ([]tools.Tool, error) {
	if c.session == nil {
		return nil, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	var discovered []tools.Tool
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", c.cfg.Name, err)
		}

		schema, convErr := convertSchema(tool.InputSchema)
		if convErr != nil {
			return nil, fmt.Errorf("converting tool %q from %q: %w", tool.Name, c.cfg.Name, convErr)
		}

		name := tool.Name
		discovered = append(discovered, tools.Tool{
			Definition: tools.Definition{
				Name:        name,
				Description: tool.Description,
				Parameters:  schema,
			},
			Invoke: func(ctx context.Context, args map[string]any) (string, error) {
				return c.call(ctx, name, args)
			},
		})
	}

	return discovered, nil
}

// call executes a tool on the server. A result flagged as an error is
// surfaced as a Go error so the dispatcher folds it into the tool
// message like any other failure.
func (c *Client) call(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("MCP tool call error: %w", err)
	}

	output := textContent(result)
	if result.IsError {
		if output == "" {
			output = "tool reported an error"
		}
		return "", errors.New(output)
	}
	return output, nil
}

// Close closes the MCP session.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// convertSchema converts an MCP input schema to a tools.Schema.
func convertSchema(in any) (tools.Schema, error) {
	if in == nil {
		return nil, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling input schema: %w", err)
	}
	var schema tools.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("unmarshaling input schema: %w", err)
	}
	return schema, nil
}

// textContent concatenates the text parts of a tool result.
func textContent(result *mcp.CallToolResult) string {
	var output string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			if output != "" {
				output += "\n"
			}
			output += tc.Text
		}
	}
	return output
}
