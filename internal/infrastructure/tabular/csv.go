package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// columnKind is the inferred type of a dataset column.
type columnKind int

const (
	kindInteger columnKind = iota
	kindReal
	kindText
)

// Open loads the dataset at path. A missing file yields an empty store;
// a file that exists but cannot be parsed fails with ErrLoadFailure.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrLoadFailure, err)
	}
	defer func() {
		_ = f.Close()
	}()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// missingMarkers are the cells, besides the empty cell, that load as nil.
// "NULL" is not one of them and loads as text.
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := missingMarkers[cell]
	return ok
}

// Load reads a header row of field names followed by one row per record.
// Each column is typed as a whole: integer if every present cell parses
// as an integer, real if every present cell parses as a number, text
// otherwise. Empty cells and missing-value markers such as NA load as nil.
func Load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("read header: %w: %w", ErrLoadFailure, err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w: %w", ErrLoadFailure, err)
	}

	kinds := make([]columnKind, len(header))
	for col := range header {
		kinds[col] = inferKind(cells, col)
	}

	rows := make([]Record, len(cells))
	for i, line := range cells {
		var rec Record
		for col, name := range header {
			rec.Set(name, parseCell(line[col], kinds[col]))
		}
		rows[i] = rec
	}
	return newFromRows(rows), nil
}

func validateHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		if name == "" {
			return fmt.Errorf("column %d has an empty name: %w", i, ErrLoadFailure)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate column %q: %w", name, ErrLoadFailure)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func inferKind(cells [][]string, col int) columnKind {
	kind := kindInteger
	for _, line := range cells {
		cell := line[col]
		if isMissing(cell) {
			continue
		}
		if kind == kindInteger {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = kindReal
		}
		// NaN and Inf cannot be encoded as JSON numbers.
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return kindText
		}
	}
	return kind
}

func parseCell(cell string, kind columnKind) any {
	if isMissing(cell) {
		return nil
	}
	switch kind {
	case kindInteger:
		v, _ := strconv.ParseInt(cell, 10, 64)
		return v
	case kindReal:
		v, _ := strconv.ParseFloat(cell, 64)
		return v
	default:
		return cell
	}
}

// Save replaces the file at path with the current records through a
// temporary file and rename. The header is the union of all fields in
// first-seen order. The file carries no types: on reload a column is
// inferred again, so numeric-looking text in a numeric column comes back
// as a number, and empty or NA text comes back as nil.
func (s *Store) Save(path string) error {
	rows := s.Snapshot()

	var header []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, k := range row.Fields() {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				header = append(header, k)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write header: %w", err)
		}
	}
	line := make([]string, len(header))
	for _, row := range rows {
		for i, k := range header {
			v, _ := row.Get(k)
			line[i] = formatCell(v)
		}
		if err := w.Write(line); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		// Whole reals keep a decimal so the column reloads as real.
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
