// Package sdk implements the Drone Controller facade: the client-facing
// surface that admits a command to the state machines first and only then
// actuates it, and exposes the engine's telemetry and state streams as
// subscriptions.
package sdk

import (
	"log"
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/command"
	"github.com/flightpath-dev/flightpath-core/internal/controller"
	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/manager"
	"github.com/flightpath-dev/flightpath-core/internal/monitor"
	"github.com/flightpath-dev/flightpath-core/internal/pubsub"
)

// Drone is the top-level facade an application embeds: it owns the
// manager, the command controller, and the hardware monitor, and wires
// them together.
type Drone struct {
	manager    *manager.Manager
	controller *controller.Controller
	monitor    *monitor.Monitor
	logger     *log.Logger

	mu           sync.Mutex
	pathStarting bool
}

// New assembles a Drone from hardware facades. Call Start before issuing
// any commands.
func New(gps droneapi.GPS, link droneapi.Link, fc droneapi.FlightController, logger *log.Logger) *Drone {
	if logger == nil {
		logger = log.Default()
	}

	m := manager.New()
	ctrl := controller.New(fc)

	d := &Drone{manager: m, controller: ctrl, logger: logger}
	d.monitor = monitor.New(gps, link, m.HandleGPSUpdate, m.HandleLinkUpdate)
	return d
}

// Start wires the state machine event graph, connects the command
// controller to command/telemetry events, and starts the hardware
// monitor's polling loop. Call exactly once.
func (d *Drone) Start() {
	d.manager.Start()

	// A mission-changed event always precedes the destChanged event for
	// that same mission's first destination (see
	// command.StateMachine.HandleTaskAssigned), so the next destination
	// change following a PATH mission change is that path's first point.
	d.manager.SubscribeMissionChanged(func(m droneapi.CurrentMission) {
		d.mu.Lock()
		d.pathStarting = m == droneapi.MissionPath
		d.mu.Unlock()
	})
	d.manager.SubscribeCurrentDestination(func(loc droneapi.Location) {
		d.mu.Lock()
		startingPath := d.pathStarting
		d.pathStarting = false
		d.mu.Unlock()

		var st droneapi.FlightControllerStatus
		if startingPath {
			st = d.controller.Path(loc)
		} else {
			st = d.controller.HandleDestinationChange(loc)
		}
		if st != droneapi.StatusSuccess {
			d.logDivergence("actuating destination %+v: %s", loc, st)
		}
	})
	d.manager.SubscribeTakeoffRequested(d.controller.HandleTakeoffRequested)
	d.manager.SubscribeLandingRequested(d.controller.HandleLandingRequested)
	d.manager.SubscribeCommandState(d.controller.HandleCommandState)
	d.monitor.Start()
}

// Stop halts the hardware monitor's polling loop.
func (d *Drone) Stop() {
	d.monitor.Stop()
}

// admit runs the two-phase admission: first ask the Command State Machine
// to accept the task, and only on success return its StatusSuccess to the
// caller. The controller itself is driven by the destination/takeoff
// subscriptions wired in Start, not directly from here — so there is
// nothing to roll back on a later controller failure. A controller-side
// failure after successful admission is therefore never compensated: it is
// only logged, leaving the state machines showing a mission the hardware
// did not actually complete until the next safety or GPS event moves them
// on.
func (d *Drone) admit(t command.Task) droneapi.FlightControllerStatus {
	status := d.manager.NewTask(t)
	if status != droneapi.StatusSuccess {
		return status
	}
	return droneapi.StatusSuccess
}

// GoTo admits a GOTO mission to dest.
func (d *Drone) GoTo(dest droneapi.Location) droneapi.FlightControllerStatus {
	return d.admit(command.Task{Mission: droneapi.MissionGoTo, Single: &dest})
}

// Path admits a PATH mission over waypoints, visited in order.
func (d *Drone) Path(waypoints []droneapi.Location) droneapi.FlightControllerStatus {
	return d.admit(command.Task{Mission: droneapi.MissionPath, Path: waypoints})
}

// Hover admits a HOVER mission at the drone's current location.
func (d *Drone) Hover() droneapi.FlightControllerStatus {
	return d.admit(command.Task{Mission: droneapi.MissionHover})
}

// AbortMission admits a HOME mission, returning the drone to its home
// base. This is the client-initiated counterpart to the Safety State
// Machine's automatic abortForSafety path.
func (d *Drone) AbortMission() droneapi.FlightControllerStatus {
	return d.admit(command.Task{Mission: droneapi.MissionHome})
}

// SetHome sets the home base location used by HOME and safety-abort
// missions.
func (d *Drone) SetHome(home droneapi.Location) {
	d.manager.SetHome(home)
}

// GetHome returns the current home base location.
func (d *Drone) GetHome() droneapi.Location {
	return d.manager.GetHome()
}

// Snapshot is a point-in-time read of every state stream, useful for a
// gateway's polling clients.
type Snapshot struct {
	FlightState   droneapi.FlightState
	CommandState  droneapi.CommandStatus
	GPSState      droneapi.SafetyState
	LinkState     droneapi.SafetyState
}

// Snapshot returns the current value of every state stream.
func (d *Drone) Snapshot() Snapshot {
	return Snapshot{
		FlightState:  d.manager.CurrentFlightState(),
		CommandState: d.manager.CurrentCommandState(),
		GPSState:     d.manager.CurrentGPSState(),
		LinkState:    d.manager.CurrentLinkState(),
	}
}

// Subscription endpoints, one per client-facing output stream.

func (d *Drone) SubscribeFlightState(cb func(droneapi.FlightState)) pubsub.Handle {
	return d.manager.SubscribeFlightState(cb)
}

func (d *Drone) SubscribeCommandState(cb func(droneapi.CommandStatus)) pubsub.Handle {
	return d.manager.SubscribeCommandState(cb)
}

func (d *Drone) SubscribeGPSSignalState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return d.manager.SubscribeGPSSignalState(cb)
}

func (d *Drone) SubscribeLinkSignalState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return d.manager.SubscribeLinkSignalState(cb)
}

func (d *Drone) SubscribeWaypoint(cb func(droneapi.Location)) pubsub.Handle {
	return d.manager.SubscribeWaypoint(cb)
}

func (d *Drone) SubscribeCurrentDestination(cb func(droneapi.Location)) pubsub.Handle {
	return d.manager.SubscribeCurrentDestination(cb)
}

func (d *Drone) SubscribeGPSLocation(cb func(manager.GPSUpdate)) pubsub.Handle {
	return d.manager.SubscribeGPSLocation(cb)
}

// logDivergence records a case where the command controller's actuation
// failed or disagreed with the state machines' view after a successful
// admission. Kept as a method so future wiring (e.g. from a controller
// failure callback) has a single place to extend beyond logging.
func (d *Drone) logDivergence(format string, args ...interface{}) {
	d.logger.Printf("DIVERGENCE: "+format, args...)
}
