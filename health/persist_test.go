package health

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/opsdash/sample"
)

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system_health_report.json")
	r := Report{
		Timestamp:     time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		CPU:           sample.CPU{UsagePercent: 85, Alert: true},
		OverallHealth: StatusWarning,
	}

	if err := SaveReport(path, r); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "\n  \"overall_health\": \"WARNING\"") {
		t.Errorf("report not indented by two spaces:\n%s", text)
	}
	if !strings.Contains(text, `"timestamp": "2026-10-15T09:30:00Z"`) {
		t.Errorf("timestamp not ISO-8601:\n%s", text)
	}

	got, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	if got.OverallHealth != StatusWarning || !got.CPU.Alert {
		t.Errorf("LoadReport() = %+v", got)
	}
}

func TestSaveReport_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	if err := SaveReport(path, Report{}); err == nil {
		t.Error("SaveReport() should fail for a missing directory")
	}
}
