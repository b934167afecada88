package output

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// DiffResult contains the differences between two keyed record sets.
type DiffResult struct {
	// Added records exist only on the right.
	Added []string

	// Removed records exist only on the left.
	Removed []string

	// Modified records exist on both sides with different content.
	Modified []ModifiedItem
}

// ModifiedItem represents a modified record for rendering.
type ModifiedItem struct {
	Name string
	Diff string
}

// IsEmpty returns true if there are no changes.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Summary returns a summary string of changes.
func (r *DiffResult) Summary() string {
	if r.IsEmpty() {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if len(r.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(r.Added)))
	}
	if len(r.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(r.Removed)))
	}
	if len(r.Modified) > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", len(r.Modified)))
	}

	return strings.Join(parts, ", ")
}

// DiffItems compares two sets of records keyed by a stable name.
// Records present on both sides are compared structurally with dyff.
func DiffItems(left, right map[string]any, useColor bool) (*DiffResult, error) {
	result := &DiffResult{
		Added:    make([]string, 0),
		Removed:  make([]string, 0),
		Modified: make([]ModifiedItem, 0),
	}

	for _, key := range sortedKeys(left) {
		if _, ok := right[key]; !ok {
			result.Removed = append(result.Removed, key)
		}
	}

	for _, key := range sortedKeys(right) {
		l, ok := left[key]
		if !ok {
			result.Added = append(result.Added, key)
			continue
		}

		diff, err := compareItems(l, right[key], useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", key, err)
		}
		if diff != "" {
			result.Modified = append(result.Modified, ModifiedItem{Name: key, Diff: diff})
		}
	}

	return result, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func compareItems(left, right any, useColor bool) (string, error) {
	leftYAML, err := yaml.Marshal(left)
	if err != nil {
		return "", fmt.Errorf("serializing left record: %w", err)
	}

	rightYAML, err := yaml.Marshal(right)
	if err != nil {
		return "", fmt.Errorf("serializing right record: %w", err)
	}

	if bytes.Equal(leftYAML, rightYAML) {
		return "", nil
	}

	return diffYAML(leftYAML, rightYAML, useColor)
}

// diffYAML computes a YAML-aware diff using dyff.
func diffYAML(left, right []byte, useColor bool) (string, error) {
	leftInput, err := parseYAMLInput("left", left)
	if err != nil {
		return "", fmt.Errorf("parsing left YAML: %w", err)
	}

	rightInput, err := parseYAMLInput("right", right)
	if err != nil {
		return "", fmt.Errorf("parsing right YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(leftInput, rightInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderDyffReport(report, useColor)
}

func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// RenderDiff renders a diff result.
func RenderDiff(r *DiffResult, styles *Styles) string {
	if r.IsEmpty() {
		return "No changes detected."
	}

	var sb strings.Builder

	if len(r.Added) > 0 {
		sb.WriteString(styles.Success.Render("Added:"))
		sb.WriteString("\n")
		for _, name := range r.Added {
			sb.WriteString("  + ")
			sb.WriteString(styles.Success.Render(name))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(r.Removed) > 0 {
		sb.WriteString(styles.Error.Render("Removed:"))
		sb.WriteString("\n")
		for _, name := range r.Removed {
			sb.WriteString("  - ")
			sb.WriteString(styles.Error.Render(name))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(r.Modified) > 0 {
		sb.WriteString(styles.Warning.Render("Modified:"))
		sb.WriteString("\n")
		for _, mod := range r.Modified {
			sb.WriteString("  ~ ")
			sb.WriteString(styles.Warning.Render(mod.Name))
			sb.WriteString("\n")
			for _, line := range strings.Split(mod.Diff, "\n") {
				if line != "" {
					sb.WriteString("    ")
					sb.WriteString(line)
					sb.WriteString("\n")
				}
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Summary: ")
	sb.WriteString(r.Summary())
	sb.WriteString("\n")

	return sb.String()
}
