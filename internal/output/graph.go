package output

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// GraphOptions configures graph serialization.
type GraphOptions struct {
	// Format is yaml or json.
	Format Format

	// Writer receives the serialized graph.
	Writer io.Writer
}

// WriteGraph serializes v in the requested format.
// YAML goes through the JSON field tags so both formats carry the same keys.
func WriteGraph(v any, opts GraphOptions) error {
	data, err := MarshalGraph(v, opts.Format)
	if err != nil {
		return err
	}
	if _, err := opts.Writer.Write(data); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	return nil
}

// MarshalGraph serializes v as YAML or JSON.
func MarshalGraph(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling graph to YAML: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling graph to JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported graph format %q", format)
	}
}
