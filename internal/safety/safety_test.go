package safety

import (
	"testing"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

func TestGPSTrackStartsHealthy(t *testing.T) {
	s := New()
	if got := s.CurrentGPSState(); got != droneapi.GPSHealth {
		t.Errorf("CurrentGPSState() = %s, want GPS_HEALTH", got)
	}
}

func TestGPSTrackDegradesOnNoSignal(t *testing.T) {
	s := New()
	var seen []droneapi.SafetyState
	s.SubscribeGPSState(func(st droneapi.SafetyState) { seen = append(seen, st) })

	s.HandleGPSSignal(droneapi.Good)
	s.HandleGPSSignal(droneapi.NoSignal)

	if got := s.CurrentGPSState(); got != droneapi.GPSNotHealthy {
		t.Errorf("CurrentGPSState() = %s, want GPS_NOT_HEALTHY", got)
	}
	if len(seen) != 1 || seen[0] != droneapi.GPSNotHealthy {
		t.Errorf("subscribers saw %v, want exactly one GPS_NOT_HEALTHY transition", seen)
	}
}

func TestGPSTrackNeverRecovers(t *testing.T) {
	s := New()
	s.HandleGPSSignal(droneapi.NoSignal)
	s.HandleGPSSignal(droneapi.Excellent)
	s.HandleGPSSignal(droneapi.Excellent)

	if got := s.CurrentGPSState(); got != droneapi.GPSNotHealthy {
		t.Errorf("CurrentGPSState() = %s, want GPS_NOT_HEALTHY (one-way degradation)", got)
	}
}

func TestLinkTrackIndependentOfGPS(t *testing.T) {
	s := New()
	s.HandleGPSSignal(droneapi.NoSignal)

	if got := s.CurrentLinkState(); got != droneapi.Connected {
		t.Errorf("CurrentLinkState() = %s, want CONNECTED (unaffected by GPS)", got)
	}
}

func TestLinkTrackDegradesOnNoSignal(t *testing.T) {
	s := New()
	var transitions int
	s.SubscribeLinkState(func(droneapi.SafetyState) { transitions++ })

	s.HandleLinkSignal(droneapi.NoSignal)
	s.HandleLinkSignal(droneapi.NoSignal)

	if got := s.CurrentLinkState(); got != droneapi.NotConnected {
		t.Errorf("CurrentLinkState() = %s, want NOT_CONNECTED", got)
	}
	if transitions != 1 {
		t.Errorf("transitions = %d, want 1 (repeated NoSignal samples don't republish)", transitions)
	}
}
