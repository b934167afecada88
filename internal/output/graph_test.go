package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

type graphDoc struct {
	Software string   `json:"software"`
	Units    []string `json:"units,omitempty"`
	Hidden   string   `json:"-"`
}

func TestWriteGraphYAML(t *testing.T) {
	var buf bytes.Buffer
	doc := graphDoc{Software: "FSL 6.00", Units: []string{"."}, Hidden: "x"}

	require.NoError(t, WriteGraph(doc, GraphOptions{Format: FormatYAML, Writer: &buf}))
	assert.Contains(t, buf.String(), "software: FSL 6.00")
	assert.NotContains(t, buf.String(), "Hidden")

	var back graphDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, doc.Units, back.Units)
}

func TestWriteGraphJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGraph(graphDoc{Software: "FSL"}, GraphOptions{Format: FormatJSON, Writer: &buf}))

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "FSL", back["software"])
	assert.NotContains(t, back, "units")
}

func TestWriteGraphTableUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGraph(graphDoc{}, GraphOptions{Format: FormatTable, Writer: &buf})
	assert.Error(t, err)
}
