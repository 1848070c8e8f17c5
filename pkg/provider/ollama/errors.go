package ollama

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/plauder-dev/plauder/pkg/api"
)

// mapHTTPError converts a non-2xx response into a structured error,
// extracting the server's error message when the body carries one.
func mapHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request to inference server"
		}
		return api.NewInvalidRequestError("", message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "model not found"
		}
		return api.NewNotFoundError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("inference server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewServerError(message)
	}
}

// mapNetworkError converts a network-level failure (connection refused,
// timeout, DNS) into a structured error.
func mapNetworkError(err error) *api.Error {
	return api.NewConnectionError(fmt.Sprintf("inference server connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the body as Ollama's error shape.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return ""
}
