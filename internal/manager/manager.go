// Package manager implements the State Machine Manager: the event router
// that owns the Safety, Command, and Flight state machines by composition
// and wires their outputs together.
package manager

import (
	"github.com/flightpath-dev/flightpath-core/internal/command"
	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/flight"
	"github.com/flightpath-dev/flightpath-core/internal/pubsub"
	"github.com/flightpath-dev/flightpath-core/internal/safety"
)

// Manager owns the three state machines and routes telemetry and mission
// events between them. Other components only ever borrow it for the
// duration of a call; it is not itself handed out or shared by reference.
type Manager struct {
	safety  *safety.StateMachine
	command *command.StateMachine
	flight  *flight.StateMachine

	gpsUpdate  pubsub.Publisher[GPSUpdate]
	linkUpdate pubsub.Publisher[droneapi.SignalQuality]
}

// GPSUpdate is the payload fanned out to external GPS-location
// subscribers: the sampled location together with the signal quality it
// was read with.
type GPSUpdate struct {
	Location droneapi.Location
	Quality  droneapi.SignalQuality
}

// New creates a Manager with its three state machines freshly constructed,
// home base defaulted to the origin.
func New() *Manager {
	return &Manager{
		safety:  safety.New(),
		command: command.New(droneapi.Location{}),
		flight:  flight.New(),
	}
}

// Start wires the event graph: SSM GPS/Link transitions into the CSM, and
// both CSM status changes and CSM mission changes into the FSM. Call this
// exactly once before feeding any telemetry.
func (m *Manager) Start() {
	m.safety.SubscribeGPSState(m.command.HandleGPSStateChange)
	m.safety.SubscribeLinkState(m.command.HandleLinkStateChange)
	m.command.SubscribeState(m.flight.HandleCommandStateChange)
	m.command.SubscribeMissionChanged(m.flight.HandleNewMission)
}

// HandleGPSUpdate is the Hardware Monitor's GPS delivery entry point: it
// fans out to external subscribers, then into the Safety State Machine,
// then into the Command State Machine's location tracking, in that order.
func (m *Manager) HandleGPSUpdate(loc droneapi.Location, quality droneapi.SignalQuality) {
	m.gpsUpdate.Publish(GPSUpdate{Location: loc, Quality: quality})
	m.safety.HandleGPSSignal(quality)
	m.command.HandleGPSLocationUpdate(loc)
}

// HandleLinkUpdate is the Hardware Monitor's Link delivery entry point.
func (m *Manager) HandleLinkUpdate(quality droneapi.SignalQuality) {
	m.linkUpdate.Publish(quality)
	m.safety.HandleLinkSignal(quality)
}

// NewTask delegates mission admission to the Command State Machine.
func (m *Manager) NewTask(t command.Task) droneapi.FlightControllerStatus {
	return m.command.HandleTaskAssigned(t)
}

// SetHome sets the home base location on the Command State Machine.
func (m *Manager) SetHome(home droneapi.Location) {
	m.command.SetHome(home)
}

// GetHome returns the current home base location.
func (m *Manager) GetHome() droneapi.Location {
	return m.command.GetHome()
}

// Subscription endpoints, one per output stream the manager fans out.

func (m *Manager) SubscribeFlightState(cb func(droneapi.FlightState)) pubsub.Handle {
	return m.flight.SubscribeStateChange(cb)
}

func (m *Manager) SubscribeGPSSignalState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return m.safety.SubscribeGPSState(cb)
}

func (m *Manager) SubscribeLinkSignalState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return m.safety.SubscribeLinkState(cb)
}

func (m *Manager) SubscribeCommandState(cb func(droneapi.CommandStatus)) pubsub.Handle {
	return m.command.SubscribeState(cb)
}

func (m *Manager) SubscribeWaypoint(cb func(droneapi.Location)) pubsub.Handle {
	return m.command.SubscribePathWaypoint(cb)
}

func (m *Manager) SubscribeCurrentDestination(cb func(droneapi.Location)) pubsub.Handle {
	return m.command.SubscribeCurrentDestination(cb)
}

func (m *Manager) SubscribeGPSLocation(cb func(GPSUpdate)) pubsub.Handle {
	return m.gpsUpdate.Subscribe(cb)
}

func (m *Manager) SubscribeTakeoffRequested(cb func(droneapi.Location)) pubsub.Handle {
	return m.command.SubscribeTakeoffRequested(cb)
}

func (m *Manager) SubscribeMissionChanged(cb func(droneapi.CurrentMission)) pubsub.Handle {
	return m.command.SubscribeMissionChanged(cb)
}

func (m *Manager) SubscribeLandingRequested(cb func(bool)) pubsub.Handle {
	return m.command.SubscribeLandingRequested(cb)
}

// CurrentFlightState, CurrentCommandState, CurrentGPSState and
// CurrentLinkState are convenience reads used by the SDK facade's Snapshot
// and by tests; subscriptions remain the primary interface for clients.

func (m *Manager) CurrentFlightState() droneapi.FlightState {
	return m.flight.CurrentState()
}

func (m *Manager) CurrentCommandState() droneapi.CommandStatus {
	return m.command.CurrentState()
}

func (m *Manager) CurrentGPSState() droneapi.SafetyState {
	return m.safety.CurrentGPSState()
}

func (m *Manager) CurrentLinkState() droneapi.SafetyState {
	return m.safety.CurrentLinkState()
}
