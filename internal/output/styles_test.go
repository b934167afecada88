package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestGetStyles(t *testing.T) {
	s := GetStyles()
	assert.Equal(t, colorGreen, s.Success.GetForeground())
	assert.Equal(t, ColorYellow, s.Warning.GetForeground())
	assert.Equal(t, colorRed, s.Error.GetForeground())
	assert.True(t, s.Dim.GetFaint())
}

func TestNoColorStyles(t *testing.T) {
	s := NoColorStyles()
	assert.Equal(t, "added", s.Success.Render("added"))
	assert.Equal(t, lipgloss.NoColor{}, s.Error.GetForeground())
}

func TestFormatCheckmark(t *testing.T) {
	assert.Contains(t, FormatCheckmark("parsed"), "✔")
	assert.Contains(t, FormatCheckmark("parsed"), "parsed")
}

func TestFormatUnitLine(t *testing.T) {
	line := FormatUnitLine("cope1.feat", 2, 3)
	assert.Contains(t, line, "cope1.feat")
	assert.Contains(t, line, "2 contrasts, 3 inferences")
}
