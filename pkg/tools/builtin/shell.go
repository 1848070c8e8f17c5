package builtin

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// Shell executes a shell command and returns its combined output. The
// command runs with the caller's privileges; enabling this tool hands
// the model a shell, so it is off unless configured explicitly.
func Shell() tools.Tool {
	return tools.Tool{
		Definition: tools.Definition{
			Name:        "shell",
			Description: "Executes a shell command and returns its output.",
			Parameters: tools.Schema{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "The shell command to execute.",
					},
				},
				"required": []string{"command"},
			},
		},
		Invoke: runShell,
	}
}

func runShell(ctx context.Context, args map[string]any) (string, error) {
	command, ok := args["command"].(string)
	if !ok || strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("shell: missing command argument")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		// Include whatever output the command produced; the model can
		// often recover from a failed command given its stderr.
		return "", fmt.Errorf("shell: %s: %s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
