package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnhealthy_CarriesError(t *testing.T) {
	testErr := errors.New("test error")
	result := Unhealthy("down", testErr).WithDetails(map[string]any{"k": 1})

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if !errors.Is(result.Error, testErr) {
		t.Errorf("Error = %v, want %v", result.Error, testErr)
	}
	if result.Details["k"] != 1 {
		t.Errorf("Details = %v", result.Details)
	}
}

func TestCheckerFunc(t *testing.T) {
	c := NewCheckerFunc("fn", func(context.Context) Result { return Degraded("meh") })

	if c.Name() != "fn" {
		t.Errorf("Name() = %q, want fn", c.Name())
	}
	if got := c.Check(context.Background()); got.Status != StatusDegraded {
		t.Errorf("Check().Status = %v, want degraded", got.Status)
	}
}
