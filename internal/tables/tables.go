// Package tables loads the basic strategy decision tables: hard totals, soft
// totals and pair splitting, each keyed by the player's row and the dealer's
// upcard.
package tables

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
)

//go:embed data
var defaultFiles embed.FS

const (
	HardFile = "hard-totals.csv"
	SoftFile = "soft-totals.csv"
	PairFile = "pair-splitting.csv"
)

// DealerColumns are the upcard keys every table must carry, in order
var DealerColumns = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}

// ErrMissingEntry is returned when a lookup has no row or column
var ErrMissingEntry = errors.New("missing table entry")

// Code is a single cell of a decision table
type Code int

const (
	Hit Code = iota
	Stand
	Double        // double if allowed, otherwise hit
	DoubleOrStand // double if allowed, otherwise stand
	SplitYes
	SplitNo
	SplitIfDAS // split when doubling after a split is allowed
)

var codeNames = map[string]Code{
	"H":  Hit,
	"S":  Stand,
	"D":  Double,
	"Ds": DoubleOrStand,
	"Y":  SplitYes,
	"N":  SplitNo,
	"Yn": SplitIfDAS,
}

// ParseCode parses a table cell. Codes are case sensitive: D and Ds differ.
func ParseCode(s string) (Code, error) {
	c, ok := codeNames[strings.TrimSpace(s)]
	if !ok {
		return 0, fmt.Errorf("unknown code %q", s)
	}
	return c, nil
}

func (c Code) String() string {
	for name, code := range codeNames {
		if code == c {
			return name
		}
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Splits reports whether a pair code means split. Doubling after a split is
// always allowed at this table, so Yn splits too.
func (c Code) Splits() bool {
	return c == SplitYes || c == SplitIfDAS
}

// Table is one decision table, immutable once loaded
type Table struct {
	title string
	rows  []string
	cells map[string]map[string]Code
}

// Title returns the header of the row key column
func (t *Table) Title() string { return t.title }

// Rows returns the row keys in file order
func (t *Table) Rows() []string { return slices.Clone(t.rows) }

// Lookup returns the code for a player row against a dealer upcard key
func (t *Table) Lookup(row, dealer string) (Code, error) {
	cols, ok := t.cells[row]
	if !ok {
		return 0, fmt.Errorf("%w: row %q in %s table", ErrMissingEntry, row, t.title)
	}
	c, ok := cols[dealer]
	if !ok {
		return 0, fmt.Errorf("%w: dealer %q for row %q", ErrMissingEntry, dealer, row)
	}
	return c, nil
}

// Tables is the full decision set injected into table-driven strategies
type Tables struct {
	Hard  *Table
	Soft  *Table
	Pairs *Table
}

// Default returns the embedded tables (dealer stands on soft 17, double after split)
func Default() (*Tables, error) {
	sub, err := fs.Sub(defaultFiles, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads the three tables from a directory on disk
func LoadDir(dir string) (*Tables, error) {
	return Load(os.DirFS(dir))
}

// Load reads the three tables from fsys
func Load(fsys fs.FS) (*Tables, error) {
	var ts Tables
	for _, f := range []struct {
		name string
		dst  **Table
	}{
		{HardFile, &ts.Hard},
		{SoftFile, &ts.Soft},
		{PairFile, &ts.Pairs},
	} {
		file, err := fsys.Open(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.name, err)
		}
		t, err := Parse(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		*f.dst = t
	}
	return &ts, nil
}

// Parse reads one table. The header is the row title followed by every dealer
// column; each following line is a row key and one code per column.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("header has no dealer columns")
	}
	columns := make([]string, len(header)-1)
	for i, h := range header[1:] {
		columns[i] = strings.TrimSpace(h)
	}
	for _, want := range DealerColumns {
		if !slices.Contains(columns, want) {
			return nil, fmt.Errorf("missing dealer column %q", want)
		}
	}

	t := &Table{
		title: strings.TrimSpace(header[0]),
		cells: make(map[string]map[string]Code),
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		key := strings.TrimSpace(record[0])
		if _, dup := t.cells[key]; dup {
			return nil, fmt.Errorf("duplicate row %q", key)
		}
		row := make(map[string]Code, len(columns))
		for i, cell := range record[1:] {
			c, err := ParseCode(cell)
			if err != nil {
				return nil, fmt.Errorf("row %q column %s: %w", key, columns[i], err)
			}
			row[columns[i]] = c
		}
		t.rows = append(t.rows, key)
		t.cells[key] = row
	}
	if len(t.rows) == 0 {
		return nil, errors.New("table has no rows")
	}
	return t, nil
}
