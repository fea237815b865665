package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Load reads a .csv or .json file into a Frame.
func Load(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(bytes.NewReader(data))
	case ".json":
		return ReadJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses CSV with a header row. Short records are padded with
// nulls.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	f := &Frame{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrMalformed, line, len(rec), len(header))
		}
		row := make([]Cell, len(header))
		for i, v := range rec {
			row[i] = parseCell(v)
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// ReadJSON parses either an array of records or a column-oriented object
// whose values are arrays or index-keyed objects.
func ReadJSON(data []byte) (*Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch v := doc.(type) {
	case []any:
		return fromRecords(v)
	case map[string]any:
		return fromColumns(v)
	default:
		return nil, fmt.Errorf("%w: top-level JSON must be an array or object", ErrMalformed)
	}
}

func fromRecords(records []any) (*Frame, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	f := &Frame{}
	index := map[string]int{}
	maps := make([]map[string]any, 0, len(records))
	for _, r := range records {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record is not an object", ErrMalformed)
		}
		for _, k := range sortedKeys(m) {
			if _, ok := index[k]; !ok {
				index[k] = len(f.Columns)
				f.Columns = append(f.Columns, k)
			}
		}
		maps = append(maps, m)
	}
	for _, m := range maps {
		row := make([]Cell, len(f.Columns))
		for k, v := range m {
			row[index[k]] = jsonCell(v)
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func fromColumns(cols map[string]any) (*Frame, error) {
	if len(cols) == 0 {
		return nil, ErrNoData
	}
	f := &Frame{Columns: sortedKeys(cols)}
	values := make([][]Cell, len(f.Columns))
	n := 0
	for i, name := range f.Columns {
		cells, err := columnCells(cols[name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		values[i] = cells
		n = max(n, len(cells))
	}
	for r := 0; r < n; r++ {
		row := make([]Cell, len(f.Columns))
		for c := range f.Columns {
			if r < len(values[c]) {
				row[c] = values[c][r]
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func columnCells(v any) ([]Cell, error) {
	switch col := v.(type) {
	case []any:
		out := make([]Cell, len(col))
		for i, x := range col {
			out[i] = jsonCell(x)
		}
		return out, nil
	case map[string]any:
		idx := make([]int, 0, len(col))
		for k := range col {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: row index %q", ErrMalformed, k)
			}
			idx = append(idx, i)
		}
		sort.Ints(idx)
		out := make([]Cell, 0, len(idx))
		for _, i := range idx {
			out = append(out, jsonCell(col[strconv.Itoa(i)]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: column must be an array or object", ErrMalformed)
	}
}

func jsonCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Null
	case string:
		return Text(x)
	case json.Number:
		return Text(x.String())
	case bool:
		return Text(strconv.FormatBool(x))
	default:
		b, _ := json.Marshal(x)
		return Text(string(b))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
