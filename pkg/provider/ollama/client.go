package ollama

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
	"github.com/plauder-dev/plauder/pkg/debug"
	"github.com/plauder-dev/plauder/pkg/provider"
)

// Config holds the externally supplied connection parameters for an
// Ollama server.
type Config struct {
	// Host is the server base URL, e.g. "http://127.0.0.1:11434".
	Host string

	// VerifyTLS controls certificate verification for https hosts.
	// Disabling it is only sensible against self-signed local setups.
	VerifyTLS bool

	// Timeout bounds blocking requests. Zero means 120s. Streaming
	// requests are not subject to it; their lifetime is context-driven.
	Timeout time.Duration
}

// Client implements provider.Transport against an Ollama server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements provider.Transport at compile time.
var _ provider.Transport = (*Client)(nil)

// NewClient creates a transport for the configured server.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ollama: host must not be empty")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	transport := http.DefaultTransport
	if !cfg.VerifyTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.Host, "/"),
	}, nil
}

// Chat performs a blocking completion request against /api/chat.
func (c *Client) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	wire, err := translateRequest(req, false)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.post(ctx, "/api/chat", wire, c.httpClient)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse chat response: %s", err.Error()))
	}
	if resp.Error != "" {
		return nil, api.NewServerError(resp.Error)
	}

	return &provider.ChatResponse{
		Model:      resp.Model,
		Message:    resp.Message,
		DoneReason: resp.DoneReason,
		Metrics:    resp.metrics(),
	}, nil
}

// List returns the models available on the server via /api/tags.
func (c *Client) List(ctx context.Context) ([]provider.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var resp tagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse model list: %s", err.Error()))
	}
	return resp.Models, nil
}

// Show returns details for a single model via /api/show.
func (c *Client) Show(ctx context.Context, model string) (*provider.ShowResponse, error) {
	httpResp, err := c.post(ctx, "/api/show", showRequest{Model: model}, c.httpClient)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp provider.ShowResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse show response: %s", err.Error()))
	}
	return &resp, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// post marshals body and issues a POST, mapping transport and status
// errors. The caller owns the response body on success.
func (c *Client) post(ctx context.Context, path string, body any, client *http.Client) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	debug.Log("ollama", "request", "path", path, "bytes", len(data))
	debug.Raw("ollama", string(data))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, mapHTTPError(httpResp)
	}

	return httpResp, nil
}

// streamClient returns an HTTP client without a timeout for streaming
// endpoints; request lifetime is controlled by the context instead.
func (c *Client) streamClient() *http.Client {
	return &http.Client{Transport: c.httpClient.Transport}
}
