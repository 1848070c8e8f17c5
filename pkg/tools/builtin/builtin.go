package builtin

import (
	"fmt"

	"github.com/plauder-dev/plauder/pkg/tools"
)

// ByName returns the builtin tool with the given name. Used when
// assembling the registry from the configured builtin list.
func ByName(name string) (tools.Tool, error) {
	switch name {
	case "date_time":
		return DateTime(), nil
	case "shell":
		return Shell(), nil
	case "fetch_url":
		return FetchURL(), nil
	default:
		return tools.Tool{}, fmt.Errorf("unknown builtin tool %q", name)
	}
}

// Names lists the available builtin tool names.
func Names() []string {
	return []string{"date_time", "shell", "fetch_url"}
}
