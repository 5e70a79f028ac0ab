package manager

import (
	"testing"

	"github.com/flightpath-dev/flightpath-core/internal/command"
	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

func loc(lat, lon, alt float64) droneapi.Location {
	return droneapi.Location{Latitude: lat, Longitude: lon, Altitude: alt}
}

func TestStartWiresSafetyIntoCommandIntoFlight(t *testing.T) {
	m := New()
	m.Start()

	dest := loc(1, 1, 50)
	if status := m.NewTask(command.Task{Mission: droneapi.MissionGoTo, Single: &dest}); status != droneapi.StatusSuccess {
		t.Fatalf("NewTask() = %s, want SUCCESS", status)
	}

	var flightStates []droneapi.FlightState
	m.SubscribeFlightState(func(s droneapi.FlightState) { flightStates = append(flightStates, s) })

	m.HandleLinkUpdate(droneapi.NoSignal)

	if m.CurrentLinkState() != droneapi.NotConnected {
		t.Errorf("CurrentLinkState() = %s, want NOT_CONNECTED", m.CurrentLinkState())
	}
	if m.CurrentCommandState() != droneapi.MissionAbort {
		t.Errorf("CurrentCommandState() = %s, want MISSION_ABORT", m.CurrentCommandState())
	}
	if m.CurrentFlightState() != droneapi.EmergencyLand {
		t.Errorf("CurrentFlightState() = %s, want EMERGENCY_LAND", m.CurrentFlightState())
	}
	if len(flightStates) == 0 || flightStates[len(flightStates)-1] != droneapi.EmergencyLand {
		t.Errorf("flightStates = %v, want to end on EMERGENCY_LAND", flightStates)
	}
}

func TestGPSUpdateFansOutBeforeFeedingStateMachines(t *testing.T) {
	m := New()
	m.Start()

	var externalUpdates []GPSUpdate
	m.SubscribeGPSLocation(func(u GPSUpdate) { externalUpdates = append(externalUpdates, u) })

	sample := loc(10, 20, 30)
	m.HandleGPSUpdate(sample, droneapi.Excellent)

	if len(externalUpdates) != 1 || !externalUpdates[0].Location.Equal(sample) {
		t.Errorf("externalUpdates = %v, want one update with %v", externalUpdates, sample)
	}
}

func TestHomeMissionPreemptsGotoIntoReturnHome(t *testing.T) {
	m := New()
	m.Start()
	home := loc(0, 0, 0)
	m.SetHome(home)

	dest := loc(5, 5, 50)
	m.NewTask(command.Task{Mission: droneapi.MissionGoTo, Single: &dest})
	if m.CurrentFlightState() != droneapi.Airborne {
		t.Fatalf("CurrentFlightState() = %s, want AIRBORNE before preemption", m.CurrentFlightState())
	}

	// Preempt with a HOME mission while still airborne: the flight state
	// machine only allows the ReturnHome trigger from Airborne.
	status := m.NewTask(command.Task{Mission: droneapi.MissionHome})
	if status != droneapi.StatusSuccess {
		t.Fatalf("NewTask(HOME) = %s, want SUCCESS", status)
	}
	if m.CurrentFlightState() != droneapi.ReturnHome {
		t.Errorf("CurrentFlightState() = %s, want RETURN_HOME", m.CurrentFlightState())
	}

	m.HandleGPSUpdate(home, droneapi.Excellent)
	if m.CurrentFlightState() != droneapi.Landed {
		t.Errorf("CurrentFlightState() = %s, want LANDED after reaching home", m.CurrentFlightState())
	}
}
