package tabular

import "strings"

// CleanStats reports what Clean changed.
type CleanStats struct {
	DuplicatesRemoved int `json:"duplicates_removed"`
	MissingHandled    int `json:"missing_handled"`
}

// Clean drops exact duplicate rows, keeping the first, and then fills
// each null cell with the last valid value above it in the same column.
// Leading nulls stay null. MissingHandled counts nulls before filling.
func (f *Frame) Clean() CleanStats {
	var stats CleanStats

	seen := make(map[string]struct{}, len(f.Rows))
	kept := f.Rows[:0]
	for _, row := range f.Rows {
		k := rowKey(row)
		if _, dup := seen[k]; dup {
			stats.DuplicatesRemoved++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	f.Rows = kept

	stats.MissingHandled = f.Missing()
	for c := range f.Columns {
		last := Null
		for _, row := range f.Rows {
			if row[c].Valid {
				last = row[c]
			} else {
				row[c] = last
			}
		}
	}
	return stats
}

func rowKey(row []Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Valid {
			b.WriteByte('v')
			b.WriteString(c.Value)
		} else {
			b.WriteByte('n')
		}
		b.WriteByte(0)
	}
	return b.String()
}
