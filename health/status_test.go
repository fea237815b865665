package health

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "HEALTHY"},
		{StatusWarning, "WARNING"},
		{StatusCritical, "CRITICAL"},
		{Status(7), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" warning ")
	if err != nil || got != StatusWarning {
		t.Errorf("ParseStatus() = %v, %v, want WARNING", got, err)
	}
	if _, err := ParseStatus("degraded"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("ParseStatus(degraded) error = %v, want ErrUnknownStatus", err)
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Status{"overall_health": StatusCritical})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"overall_health":"CRITICAL"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var s Status
	if err := json.Unmarshal([]byte(`"HEALTHY"`), &s); err != nil || s != StatusHealthy {
		t.Errorf("Unmarshal() = %v, %v, want HEALTHY", s, err)
	}
}
