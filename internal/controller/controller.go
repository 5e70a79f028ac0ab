// Package controller implements the Command Controller: the thin actuator
// that turns Command State Machine intent into FlightController primitive
// calls. It holds no mission state of its own beyond whether the drone is
// on the ground (to decide whether a takeoff is implicit) and whether a
// path mission is in progress.
package controller

import (
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

// Controller actuates a droneapi.FlightController on behalf of the Command
// State Machine. Register its handlers with a manager.Manager's
// SubscribeCurrentDestination/SubscribeTakeoffRequested/
// SubscribeLandingRequested/SubscribeCommandState endpoints to drive it
// from telemetry.
type Controller struct {
	fc droneapi.FlightController

	mu     sync.Mutex
	landed bool
	onPath bool
}

// New creates a Controller driving fc, starting from the grounded
// assumption that the drone begins on the ground.
func New(fc droneapi.FlightController) *Controller {
	return &Controller{fc: fc, landed: true}
}

// GoTo arms and takes off toward loc's altitude if the drone is currently
// landed, then commands the flight controller toward loc.
func (c *Controller) GoTo(loc droneapi.Location) droneapi.FlightControllerStatus {
	if st := c.takingOffIfLanded(loc); st != droneapi.StatusSuccess {
		return st
	}
	return c.fc.GoTo(loc.Latitude, loc.Longitude, loc.Altitude)
}

// AbortMission commands the flight controller home, matching the original
// abortMission behavior of routing an aborted mission through GoHome.
func (c *Controller) AbortMission() droneapi.FlightControllerStatus {
	return c.fc.GoHome()
}

// Hover commands the flight controller to hold the given location, arming
// and taking off first if necessary.
func (c *Controller) Hover(loc droneapi.Location) droneapi.FlightControllerStatus {
	if st := c.takingOffIfLanded(loc); st != droneapi.StatusSuccess {
		return st
	}
	return c.fc.GoTo(loc.Latitude, loc.Longitude, loc.Altitude)
}

// Path marks the controller as executing a path and commands the flight
// controller toward firstPoint, arming and taking off first if necessary.
func (c *Controller) Path(firstPoint droneapi.Location) droneapi.FlightControllerStatus {
	c.mu.Lock()
	c.onPath = true
	c.mu.Unlock()
	return c.GoTo(firstPoint)
}

// HandleDestinationChange is the wiring entry point for
// Manager.SubscribeCurrentDestination: every new destination is actuated
// as a GoTo.
func (c *Controller) HandleDestinationChange(loc droneapi.Location) droneapi.FlightControllerStatus {
	return c.GoTo(loc)
}

// HandleTakeoffRequested is the wiring entry point for
// Manager.SubscribeTakeoffRequested: arm and take off toward loc's
// altitude. Guarded by the same on-land flag as GoTo/Hover so a mission
// that already triggered an implicit takeoff through its destination
// change does not arm the flight controller a second time.
func (c *Controller) HandleTakeoffRequested(loc droneapi.Location) {
	c.takingOffIfLanded(loc)
}

// HandleLandingRequested is the wiring entry point for
// Manager.SubscribeLandingRequested.
func (c *Controller) HandleLandingRequested(requested bool) {
	if !requested {
		return
	}
	c.fc.Land()
	c.mu.Lock()
	c.landed = true
	c.mu.Unlock()
}

// HandleCommandState is the wiring entry point for
// Manager.SubscribeCommandState: a mission abort commands an immediate
// land, and returning to Idle after a path mission clears on-path.
func (c *Controller) HandleCommandState(status droneapi.CommandStatus) {
	if status == droneapi.MissionAbort {
		c.fc.Land()
		return
	}

	if status != droneapi.Idle {
		return
	}

	c.mu.Lock()
	c.onPath = false
	c.mu.Unlock()
}

// OnPath reports whether the controller is currently executing a path
// mission's waypoint sequence.
func (c *Controller) OnPath() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onPath
}

// takingOffIfLanded arms and takes off toward loc's altitude if the drone
// is currently on the ground; a no-op once airborne.
func (c *Controller) takingOffIfLanded(loc droneapi.Location) droneapi.FlightControllerStatus {
	c.mu.Lock()
	landed := c.landed
	c.mu.Unlock()
	if !landed {
		return droneapi.StatusSuccess
	}

	if st := c.fc.Arm(); st != droneapi.StatusSuccess {
		return st
	}
	st := c.fc.TakeOff(loc.Altitude)
	if st != droneapi.StatusSuccess {
		return st
	}

	c.mu.Lock()
	c.landed = false
	c.mu.Unlock()
	return droneapi.StatusSuccess
}
