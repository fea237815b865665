package tabular

import (
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a Frame.
type Summary struct {
	TotalRows      int                 `json:"total_rows"`
	TotalColumns   int                 `json:"total_columns"`
	MemoryUsage    string              `json:"memory_usage"`
	NumericSummary map[string]Describe `json:"numeric_summary"`
	DataTypes      map[string]string   `json:"data_types"`
}

// Describe holds descriptive statistics for one numeric column. Std is
// nil when fewer than two values exist.
type Describe struct {
	Count int      `json:"count"`
	Mean  float64  `json:"mean"`
	Std   *float64 `json:"std"`
	Min   float64  `json:"min"`
	P25   float64  `json:"25%"`
	P50   float64  `json:"50%"`
	P75   float64  `json:"75%"`
	Max   float64  `json:"max"`
}

const (
	indexBytes  = 128
	objectBytes = 49
)

// Summarize computes row and column counts, an approximate in-memory
// size, per-column dtypes and statistics for numeric columns.
func (f *Frame) Summarize() Summary {
	s := Summary{
		TotalRows:      f.NumRows(),
		TotalColumns:   len(f.Columns),
		NumericSummary: map[string]Describe{},
		DataTypes:      make(map[string]string, len(f.Columns)),
	}

	mem := indexBytes
	for i, name := range f.Columns {
		kind := f.Kind(i)
		s.DataTypes[name] = kind.String()
		mem += columnBytes(f, i, kind)

		if !kind.Numeric() {
			continue
		}
		if d, ok := describe(f.Floats(i)); ok {
			s.NumericSummary[name] = d
		}
	}
	s.MemoryUsage = strconv.Itoa(mem)
	return s
}

func describe(xs []float64) (Describe, bool) {
	if len(xs) == 0 {
		return Describe{}, false
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	d := Describe{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
		P25:   quantile(sorted, 0.25),
		P50:   quantile(sorted, 0.50),
		P75:   quantile(sorted, 0.75),
	}
	if len(xs) > 1 {
		mean, std := stat.MeanStdDev(xs, nil)
		d.Mean = mean
		d.Std = &std
	} else {
		d.Mean = stat.Mean(xs, nil)
	}
	if !d.finite() {
		return Describe{}, false
	}
	return d, true
}

// finite reports whether every statistic survived without overflow.
func (d Describe) finite() bool {
	vals := []float64{d.Mean, d.Min, d.P25, d.P50, d.P75, d.Max}
	if d.Std != nil {
		vals = append(vals, *d.Std)
	}
	for _, v := range vals {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// quantile interpolates linearly between the closest ranks of sorted:
// h = (n-1)p, result = x[floor(h)] + (h-floor(h))(x[floor(h)+1]-x[floor(h)]).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func columnBytes(f *Frame, i int, kind Kind) int {
	n := f.NumRows()
	switch kind {
	case KindInt, KindFloat:
		return 8 * n
	case KindBool:
		return n
	}
	total := 8 * n
	for _, row := range f.Rows {
		if row[i].Valid {
			total += objectBytes + len(row[i].Value)
		} else {
			total += 24
		}
	}
	return total
}
