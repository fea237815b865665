// Package tabular loads, cleans, summarizes and saves small tabular data
// files.
//
// A Frame holds string cells with an explicit null marker. Column kinds
// (int64, float64, bool, object) are inferred from the non-null cells, the
// same way a dataframe library would infer dtypes from a CSV file.
//
// Supported formats are .csv (header row) and .json (an array of records
// or a column-oriented object).
package tabular
