// Package flight implements the Flight State Machine: the physical flight
// phase, driven only through Command State Machine status and mission
// events. It never observes raw telemetry.
package flight

import (
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/pubsub"
)

type event int

const (
	evTakeoff event = iota
	evAirborne
	evHover
	evTaskComplete
	evReturnHome
	evLand
	evSafetyViolation
)

// StateMachine owns the current FlightState and its transition table.
type StateMachine struct {
	mu    sync.Mutex
	state droneapi.FlightState

	stateChanged pubsub.Publisher[droneapi.FlightState]
}

// New creates a StateMachine in Landed.
func New() *StateMachine {
	return &StateMachine{state: droneapi.Landed}
}

// CurrentState returns the current flight phase.
func (f *StateMachine) CurrentState() droneapi.FlightState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SubscribeStateChange registers cb to fire on every successful
// transition.
func (f *StateMachine) SubscribeStateChange(cb func(droneapi.FlightState)) pubsub.Handle {
	return f.stateChanged.Subscribe(cb)
}

// HandleCommandStateChange derives flight events from a Command State
// Machine status change: IDLE maps to a Hover trigger, BUSY to an
// Airborne trigger, MISSION_ABORT to a SafetyViolation trigger. Both
// Airborne and Hover triggers inject an implicit Takeoff first when the
// drone is currently Landed.
func (f *StateMachine) HandleCommandStateChange(status droneapi.CommandStatus) {
	switch status {
	case droneapi.Idle:
		f.applyWithImplicitTakeoff(evHover)
	case droneapi.Busy:
		f.applyWithImplicitTakeoff(evAirborne)
	case droneapi.MissionAbort:
		f.apply(evSafetyViolation)
	}
}

// HandleNewMission derives flight events from a Command State Machine
// mission-type change.
func (f *StateMachine) HandleNewMission(mission droneapi.CurrentMission) {
	switch mission {
	case droneapi.MissionLanded:
		f.apply(evLand)
	case droneapi.MissionGoTo, droneapi.MissionPath:
		f.applyWithImplicitTakeoff(evAirborne)
	case droneapi.MissionHover:
		f.applyWithImplicitTakeoff(evHover)
	case droneapi.MissionHome:
		f.apply(evReturnHome)
	case droneapi.MissionEmergency:
		f.apply(evSafetyViolation)
	}
}

// applyWithImplicitTakeoff injects a Takeoff event first when the drone is
// Landed, then applies ev: a Busy/airborne-bound command issued from the
// ground implies takeoff rather than requiring a separate request.
func (f *StateMachine) applyWithImplicitTakeoff(ev event) {
	f.mu.Lock()
	if f.state == droneapi.Landed {
		f.mu.Unlock()
		f.apply(evTakeoff)
		f.apply(ev)
		return
	}
	f.mu.Unlock()
	f.apply(ev)
}

// apply runs one transition-table lookup and, on a valid transition,
// updates state and notifies subscribers.
func (f *StateMachine) apply(ev event) {
	f.mu.Lock()
	next, ok := nextState(f.state, ev)
	if !ok {
		f.mu.Unlock()
		return
	}
	f.state = next
	f.mu.Unlock()

	f.stateChanged.Publish(next)
}

// nextState implements the flight phase transition table. Every state but
// EmergencyLand absorbs SafetyViolation into EmergencyLand; all other
// unlisted (state, event) pairs are no-ops.
func nextState(cur droneapi.FlightState, ev event) (droneapi.FlightState, bool) {
	if ev == evSafetyViolation {
		if cur == droneapi.EmergencyLand {
			return 0, false
		}
		return droneapi.EmergencyLand, true
	}

	switch cur {
	case droneapi.Landed:
		if ev == evTakeoff {
			return droneapi.Takeoff, true
		}
	case droneapi.Takeoff:
		switch ev {
		case evAirborne:
			return droneapi.Airborne, true
		case evHover:
			return droneapi.Hover, true
		}
	case droneapi.Airborne:
		switch ev {
		case evHover:
			return droneapi.Hover, true
		case evTaskComplete:
			return droneapi.Hover, true
		case evReturnHome:
			return droneapi.ReturnHome, true
		}
	case droneapi.Hover:
		if ev == evAirborne {
			return droneapi.Airborne, true
		}
	case droneapi.ReturnHome:
		if ev == evLand {
			return droneapi.Landed, true
		}
	case droneapi.EmergencyLand:
		if ev == evLand || ev == evTaskComplete {
			return droneapi.Landed, true
		}
	}
	return 0, false
}
