package report

import (
	"fmt"
	"io"

	"github.com/valpere/pereval/internal/provider"
)

// WriteProviders lists the configured registry without revealing keys.
func WriteProviders(w io.Writer, cfgs []provider.Config) error {
	table := createStandardTable([]string{"#", "Name", "Kind", "Model", "Endpoint", "API key"}, w)
	for i, c := range cfgs {
		name := c.Name
		if name == "" {
			name = c.Kind
		}
		model := c.Model
		if model == "" {
			model = "(default)"
		}
		endpoint := c.BaseURL
		if endpoint == "" {
			endpoint = "(default)"
		}
		if err := table.Append([]string{fmt.Sprint(i + 1), name, c.Kind, model, endpoint, keyStatus(c)}); err != nil {
			return fmt.Errorf("building provider table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering provider table: %w", err)
	}
	return nil
}

func keyStatus(c provider.Config) string {
	switch {
	case c.Kind == provider.KindOllama:
		return "not needed"
	case c.APIKey != "" && c.APIKeyEnv != "":
		return "set (" + c.APIKeyEnv + ")"
	case c.APIKey != "":
		return "set"
	case c.APIKeyEnv != "":
		return "missing (" + c.APIKeyEnv + ")"
	default:
		return "missing"
	}
}
