package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: directories, contrast names.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for additions and passing results.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for modifications and warnings.
	ColorYellow = lipgloss.Color("220")

	// colorRed is used for removals.
	colorRed = lipgloss.Color("196")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// colorDimGray is used for borders and other structural chrome.
	colorDimGray = lipgloss.Color("240")

	// colorBlue is used for table headers.
	colorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used to render diffs.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// GetStyles returns the colored styles.
func GetStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Error:   lipgloss.NewStyle().Foreground(colorRed),
		Dim:     StyleDim,
	}
}

// NoColorStyles returns styles that render plain text.
func NoColorStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatUnitLine renders an analysis unit with its record counts.
func FormatUnitLine(unit string, contrasts, inferences int) string {
	return StyleDim.Render("u:") + StyleNoun.Render(unit) +
		fmt.Sprintf("  %d contrasts, %d inferences", contrasts, inferences)
}
