package droneapi

import "testing"

func TestLocationEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want bool
	}{
		{"identical", Location{1, 2, 3}, Location{1, 2, 3}, true},
		{"altitude differs", Location{1, 2, 3}, Location{1, 2, 4}, false},
		{"tiny latitude difference", Location{1.0000001, 2, 3}, Location{1.0000002, 2, 3}, false},
		{"zero values", Location{}, Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringersDoNotPanicOnUnknownValues(t *testing.T) {
	if got := SignalQuality(99).String(); got != "UNKNOWN" {
		t.Errorf("SignalQuality(99).String() = %q, want UNKNOWN", got)
	}
	if got := SafetyState(99).String(); got != "UNKNOWN" {
		t.Errorf("SafetyState(99).String() = %q, want UNKNOWN", got)
	}
	if got := FlightState(99).String(); got != "UNKNOWN" {
		t.Errorf("FlightState(99).String() = %q, want UNKNOWN", got)
	}
	if got := CurrentMission(99).String(); got != "UNKNOWN" {
		t.Errorf("CurrentMission(99).String() = %q, want UNKNOWN", got)
	}
	if got := CommandStatus(99).String(); got != "UNKNOWN" {
		t.Errorf("CommandStatus(99).String() = %q, want UNKNOWN", got)
	}
	if got := FlightControllerStatus(99).String(); got != "UNKNOWN_ERROR" {
		t.Errorf("FlightControllerStatus(99).String() = %q, want UNKNOWN_ERROR", got)
	}
}
