// Package table reads the whitespace-delimited numeric tables written by FSL:
// design matrices, cluster and local-maxima tables, onset files and smoothness summaries.
//
// A Table is always two-dimensional. A file with a single data row yields a 1×N
// table and an empty file yields a 0×0 table; callers index columns without
// special-casing either.
package table

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

// Table is an immutable numeric table.
type Table struct {
	path string
	rows int
	cols int
	data *mat.Dense // nil when rows or cols is zero
}

// Load reads a table, skipping the first skipRows lines. A missing file is ErrNotFound.
func Load(path string, skipRows int) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("table does not exist", path, "")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, content, skipRows)
}

// LoadOptional reads a table, returning a nil Table when the file does not exist.
func LoadOptional(path string, skipRows int) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	return Load(path, skipRows)
}

// Parse builds a table from raw file content. Blank lines and lines starting
// with '#' are ignored; all rows must have the same number of columns.
func Parse(path string, content []byte, skipRows int) (*Table, error) {
	var values []float64
	rows, cols := 0, 0

	err := scanRows(content, skipRows, func(line int, fields []string) error {
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return oerrors.NewParseError(
				fmt.Sprintf("line %d has %d columns, expected %d", line, len(fields), cols),
				path, "")
		}
		for _, field := range fields {
			v, err := parseNumber(path, line, field)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		rows++
		return nil
	})
	if err != nil {
		return nil, err
	}

	t := &Table{path: path, rows: rows, cols: cols}
	if rows > 0 && cols > 0 {
		t.data = mat.NewDense(rows, cols, values)
	}
	return t, nil
}

// LoadColumn reads a single column of a file whose other columns need not be numeric.
func LoadColumn(path string, skipRows, col int) ([]float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("table does not exist", path, "")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var values []float64
	err = scanRows(content, skipRows, func(line int, fields []string) error {
		if col >= len(fields) {
			return oerrors.NewParseError(
				fmt.Sprintf("line %d has no column %d", line, col), path, "")
		}
		v, err := parseNumber(path, line, fields[col])
		if err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// FromRows builds a table from in-memory rows.
func FromRows(rows [][]float64) (*Table, error) {
	if len(rows) == 0 {
		return &Table{}, nil
	}
	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, oerrors.NewParseError(
				fmt.Sprintf("row %d has %d columns, expected %d", i, len(row), cols), "", "")
		}
		values = append(values, row...)
	}
	t := &Table{rows: len(rows), cols: cols}
	if cols > 0 {
		t.data = mat.NewDense(len(rows), cols, values)
	}
	return t, nil
}

// Path returns the file the table was read from.
func (t *Table) Path() string {
	return t.path
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.rows
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return t.cols
}

// At returns the value at row i, column j.
func (t *Table) At(i, j int) float64 {
	return t.data.At(i, j)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 {
	return mat.Row(nil, i, t.data)
}

// Column returns a copy of column j. An empty table yields an empty slice.
func (t *Table) Column(j int) []float64 {
	if t.data == nil {
		return []float64{}
	}
	return mat.Col(nil, j, t.data)
}

// Dense returns a copy of the table as a gonum matrix, or nil for an empty table.
func (t *Table) Dense() *mat.Dense {
	if t.data == nil {
		return nil
	}
	return mat.DenseCopyOf(t.data)
}

// ColumnStack joins two row-aligned tables side by side.
func ColumnStack(a, b *Table) (*Table, error) {
	if a.rows != b.rows {
		return nil, oerrors.NewIntegrityError(
			fmt.Sprintf("cannot join tables with %d and %d rows", a.rows, b.rows),
			map[string]string{"Left": a.path, "Right": b.path})
	}

	t := &Table{path: a.path, rows: a.rows, cols: a.cols + b.cols}
	switch {
	case a.data == nil && b.data == nil:
	case a.data == nil:
		t.data = mat.DenseCopyOf(b.data)
	case b.data == nil:
		t.data = mat.DenseCopyOf(a.data)
	default:
		var joined mat.Dense
		joined.Augment(a.data, b.data)
		t.data = &joined
	}
	return t, nil
}

func scanRows(content []byte, skipRows int, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if line <= skipRows {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := fn(line, strings.Fields(text)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseNumber(path string, line int, field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, oerrors.NewParseError(
			fmt.Sprintf("line %d: %q is not a number", line, field), path, "")
	}
	return v, nil
}
