package builtin

import (
	"context"
	"time"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// DateTime reports the current local date and time. Models have no
// clock of their own, so this is the cheapest way to ground "today".
func DateTime() tools.Tool {
	return tools.Tool{
		Definition: tools.Definition{
			Name:        "date_time",
			Description: "Returns the current date and time in RFC 3339 format.",
			Parameters: tools.Schema{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []string{},
			},
		},
		Invoke: func(_ context.Context, _ map[string]any) (string, error) {
			return time.Now().Format(time.RFC3339), nil
		},
	}
}
