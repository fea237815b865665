package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Save writes the frame as .csv or .json depending on the path suffix.
// Parent directories are created as needed.
func (f *Frame) Save(path string) error {
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = f.WriteCSV
	case ".json":
		write = f.WriteJSON
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// WriteCSV writes a header row followed by every row. Nulls are empty.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}
	rec := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i, c := range row {
			rec[i] = c.Value
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes a column-oriented object: {"col": {"0": v, ...}}.
// Values are typed by the column kind; nulls are JSON null.
func (f *Frame) WriteJSON(w io.Writer) error {
	doc := make(map[string]map[string]any, len(f.Columns))
	for i, name := range f.Columns {
		kind := f.Kind(i)
		col := make(map[string]any, len(f.Rows))
		for r, row := range f.Rows {
			col[strconv.Itoa(r)] = typedValue(row[i], kind)
		}
		doc[name] = col
	}
	return json.NewEncoder(w).Encode(doc)
}

func typedValue(c Cell, kind Kind) any {
	if !c.Valid {
		return nil
	}
	switch kind {
	case KindInt:
		if v, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
			return v
		}
	case KindFloat:
		if v, ok := parseFinite(c.Value); ok {
			return v
		}
	case KindBool:
		if v, ok := parseBool(c.Value); ok {
			return v
		}
	}
	return c.Value
}
