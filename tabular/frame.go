package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Cell is one value of a Frame. A zero Cell is null.
type Cell struct {
	Value string
	Valid bool
}

// Null is the missing value.
var Null = Cell{}

// Text returns a non-null cell.
func Text(s string) Cell { return Cell{Value: s, Valid: true} }

// Kind is the inferred type of a column.
type Kind int

// Column kinds.
const (
	KindObject Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the dtype name used in summaries.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "object"
	}
}

// Numeric reports whether the kind takes part in numeric summaries.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Frame is a rectangular table. Every row has len(Columns) cells.
type Frame struct {
	Columns []string
	Rows    [][]Cell
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.Rows) }

// Kind infers the kind of column i. A column with no valid cells is
// object. An integer column with missing cells is float64.
func (f *Frame) Kind(i int) Kind {
	var seen, nulls int
	allInt, allFloat, allBool := true, true, true
	for _, row := range f.Rows {
		c := row[i]
		if !c.Valid {
			nulls++
			continue
		}
		seen++
		if allInt {
			if _, err := strconv.ParseInt(c.Value, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := parseFinite(c.Value); !ok {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBool(c.Value); !ok {
				allBool = false
			}
		}
	}
	switch {
	case seen == 0:
		return KindObject
	case allInt && nulls == 0:
		return KindInt
	case allInt, allFloat:
		return KindFloat
	case allBool && nulls == 0:
		return KindBool
	default:
		return KindObject
	}
}

// Floats returns the valid values of a numeric column.
func (f *Frame) Floats(i int) []float64 {
	out := make([]float64, 0, len(f.Rows))
	for _, row := range f.Rows {
		if !row[i].Valid {
			continue
		}
		if v, ok := parseFinite(row[i].Value); ok {
			out = append(out, v)
		}
	}
	return out
}

// Missing counts null cells across the frame.
func (f *Frame) Missing() int {
	n := 0
	for _, row := range f.Rows {
		for _, c := range row {
			if !c.Valid {
				n++
			}
		}
	}
	return n
}

// parseFinite parses a float and rejects infinities, which have no JSON
// encoding.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

func parseCell(s string) Cell {
	if _, ok := nullTokens[strings.TrimSpace(s)]; ok {
		return Null
	}
	return Text(s)
}
