package flight

import (
	"testing"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

func TestStartsLanded(t *testing.T) {
	f := New()
	if got := f.CurrentState(); got != droneapi.Landed {
		t.Errorf("CurrentState() = %s, want LANDED", got)
	}
}

func TestBusyFromLandedImpliesTakeoffThenAirborne(t *testing.T) {
	f := New()
	var seen []droneapi.FlightState
	f.SubscribeStateChange(func(s droneapi.FlightState) { seen = append(seen, s) })

	f.HandleCommandStateChange(droneapi.Busy)

	want := []droneapi.FlightState{droneapi.Takeoff, droneapi.Airborne}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestIdleFromAirborneGoesToHover(t *testing.T) {
	f := New()
	f.HandleCommandStateChange(droneapi.Busy) // Landed -> Takeoff -> Airborne
	f.HandleCommandStateChange(droneapi.Idle) // Airborne -> Hover

	if got := f.CurrentState(); got != droneapi.Hover {
		t.Errorf("CurrentState() = %s, want HOVER", got)
	}
}

func TestMissionAbortTriggersSafetyViolationFromAnyAirborneState(t *testing.T) {
	f := New()
	f.HandleCommandStateChange(droneapi.Busy)
	f.HandleCommandStateChange(droneapi.MissionAbort)

	if got := f.CurrentState(); got != droneapi.EmergencyLand {
		t.Errorf("CurrentState() = %s, want EMERGENCY_LAND", got)
	}
}

func TestSafetyViolationIsIdempotentOnceEmergencyLand(t *testing.T) {
	f := New()
	f.HandleCommandStateChange(droneapi.Busy)
	f.HandleCommandStateChange(droneapi.MissionAbort)

	var seen []droneapi.FlightState
	f.SubscribeStateChange(func(s droneapi.FlightState) { seen = append(seen, s) })
	f.HandleCommandStateChange(droneapi.MissionAbort)

	if len(seen) != 0 {
		t.Errorf("seen = %v, want no further transitions", seen)
	}
}

func TestEmergencyLandReturnsToLandedOnLandEvent(t *testing.T) {
	f := New()
	f.HandleCommandStateChange(droneapi.Busy)
	f.HandleCommandStateChange(droneapi.MissionAbort)

	f.HandleNewMission(droneapi.MissionLanded)
	if got := f.CurrentState(); got != droneapi.Landed {
		t.Errorf("CurrentState() = %s, want LANDED", got)
	}
}

func TestHomeMissionTriggersReturnHomeFromAirborne(t *testing.T) {
	f := New()
	f.HandleCommandStateChange(droneapi.Busy)
	f.HandleNewMission(droneapi.MissionHome)

	if got := f.CurrentState(); got != droneapi.ReturnHome {
		t.Errorf("CurrentState() = %s, want RETURN_HOME", got)
	}

	f.HandleNewMission(droneapi.MissionLanded)
	if got := f.CurrentState(); got != droneapi.Landed {
		t.Errorf("CurrentState() = %s, want LANDED", got)
	}
}

func TestUnlistedTransitionIsNoOp(t *testing.T) {
	f := New()
	var seen []droneapi.FlightState
	f.SubscribeStateChange(func(s droneapi.FlightState) { seen = append(seen, s) })

	// ReturnHome is not reachable from Landed via a ReturnHome trigger.
	f.HandleNewMission(droneapi.MissionHome)
	if len(seen) != 0 {
		t.Errorf("seen = %v, want no transition (RETURN_HOME not valid from LANDED)", seen)
	}
}
