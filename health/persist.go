package health

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteReport writes r as JSON indented by two spaces.
func WriteReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveReport writes r to path, replacing any existing file.
func SaveReport(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("health: save report: %w", err)
	}
	if err := WriteReport(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("health: save report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("health: save report: %w", err)
	}
	return nil
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("health: load report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("health: load report: %w", err)
	}
	return r, nil
}
