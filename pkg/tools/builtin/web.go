package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// maxFetchBytes caps the body size handed back to the model.
const maxFetchBytes = 256 * 1024

// FetchURL retrieves the content of a URL over HTTP(S).
func FetchURL() tools.Tool {
	client := &http.Client{Timeout: 30 * time.Second}

	return tools.Tool{
		Definition: tools.Definition{
			Name:        "fetch_url",
			Description: "Fetches the content of a URL and returns the response body as text.",
			Parameters: tools.Schema{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "The URL to fetch.",
					},
				},
				"required": []string{"url"},
			},
		},
		Invoke: func(ctx context.Context, args map[string]any) (string, error) {
			return fetchURL(ctx, client, args)
		},
	}
}

func fetchURL(ctx context.Context, client *http.Client, args map[string]any) (string, error) {
	raw, ok := args["url"].(string)
	if !ok || raw == "" {
		return "", fmt.Errorf("fetch_url: missing url argument")
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("fetch_url: invalid url %q", raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", fmt.Errorf("fetch_url: creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch_url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch_url: %s returned status %d", raw, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("fetch_url: reading body: %w", err)
	}
	return string(body), nil
}
