package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableString(t *testing.T) {
	tbl := NewTable("Contrast", "Stat", "Voxels").
		Row("faces", "1", "120").
		Values("houses", 2, nil)

	out := tbl.String()
	assert.Equal(t, 2, tbl.Len())
	assert.Contains(t, out, "Contrast")
	assert.Contains(t, out, "faces")
	assert.Contains(t, out, "houses")
	assert.Contains(t, out, "-")
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "-"},
		{"string", "zstat1", "zstat1"},
		{"int", 42, "42"},
		{"float", 0.000123, "0.000123"},
		{"coordinate", 24.5, "24.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.in))
		})
	}
}
