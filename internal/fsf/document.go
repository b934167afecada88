// Package fsf extracts settings from FEAT design.fsf files and FEAT log files.
//
// Every lookup compiles its pattern and scans the whole document text. Patterns
// carry a single capture, either named "info" or the first group.
package fsf

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

// infoGroup is the preferred capture name in lookup patterns.
const infoGroup = "info"

// Document is the full text of a design.fsf file or a FEAT log.
type Document struct {
	path string
	text string
}

// New creates a Document from in-memory text. Path is used in error messages only.
func New(path, text string) *Document {
	return &Document{path: path, text: text}
}

// Load reads a document from disk. A missing file is an ErrNotFound.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("document does not exist", path,
				"point nidmfsl at a complete FEAT output directory")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return New(path, string(data)), nil
}

// LoadOptional reads a document, returning nil when the file does not exist.
func LoadOptional(path string) (*Document, error) {
	doc, err := Load(path)
	if err != nil {
		if errors.Is(err, oerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	return d.path
}

// Text returns the raw document text.
func (d *Document) Text() string {
	return d.text
}

// Search returns the captured value for pattern, failing when there is no match.
func (d *Document) Search(pattern string) (string, error) {
	value, ok := d.Lookup(pattern)
	if !ok {
		return "", oerrors.NewParseError(
			fmt.Sprintf("no match for %q", pattern), d.path, "")
	}
	return value, nil
}

// Lookup returns the captured value for pattern and whether it matched.
func (d *Document) Lookup(pattern string) (string, bool) {
	re := regexp.MustCompile(pattern)
	m := re.FindStringSubmatch(d.text)
	if m == nil {
		return "", false
	}
	return m[captureIndex(re)], true
}

// FindAll returns the captured value of every match, in document order.
func (d *Document) FindAll(pattern string) []string {
	re := regexp.MustCompile(pattern)
	idx := captureIndex(re)

	var values []string
	for _, m := range re.FindAllStringSubmatch(d.text, -1) {
		values = append(values, m[idx])
	}
	return values
}

// FindAllGroups returns the named groups of every match, in document order.
func (d *Document) FindAllGroups(pattern string) []map[string]string {
	re := regexp.MustCompile(pattern)
	names := re.SubexpNames()

	var matches []map[string]string
	for _, m := range re.FindAllStringSubmatch(d.text, -1) {
		groups := make(map[string]string, len(names))
		for i, name := range names {
			if i == 0 || name == "" {
				continue
			}
			groups[name] = m[i]
		}
		matches = append(matches, groups)
	}
	return matches
}

// Int searches for pattern and parses the capture as an integer.
func (d *Document) Int(pattern string) (int, error) {
	value, err := d.Search(pattern)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, oerrors.NewParseError(fmt.Sprintf("%q is not an integer", value), d.path, pattern)
	}
	return n, nil
}

// Float searches for pattern and parses the capture as a float.
func (d *Document) Float(pattern string) (float64, error) {
	value, err := d.Search(pattern)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, oerrors.NewParseError(fmt.Sprintf("%q is not a number", value), d.path, pattern)
	}
	return f, nil
}

// Bool searches for a 0/1 flag. Any non-zero integer is true.
func (d *Document) Bool(pattern string) (bool, error) {
	n, err := d.Int(pattern)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func captureIndex(re *regexp.Regexp) int {
	if idx := re.SubexpIndex(infoGroup); idx > 0 {
		return idx
	}
	return 1
}
