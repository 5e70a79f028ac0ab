// Package command implements the Command State Machine: the owner of the
// active mission, the waypoint queue, and the destination the drone is
// currently flying toward. It reacts to GPS position progress and to
// safety events routed in by the State Machine Manager.
package command

import (
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/pubsub"
)

// Task describes a mission-acceptance request. At most one of Single or
// Path may be set: GOTO requires Single, PATH requires Path, HOVER takes
// neither; both set is a contract violation rejected with
// StatusInvalidCommand.
type Task struct {
	Mission droneapi.CurrentMission
	Single  *droneapi.Location
	Path    []droneapi.Location
}

// StateMachine owns the mission lifecycle. All exported methods are safe
// for concurrent use: command-driven calls (HandleTaskAssigned) typically
// run on a caller goroutine while telemetry-driven calls
// (HandleGPSLocationUpdate, HandleGPSStateChange, HandleLinkStateChange)
// run on the Hardware Monitor's polling goroutine.
type StateMachine struct {
	mu sync.Mutex

	state       droneapi.CommandStatus
	mission     droneapi.CurrentMission
	currLoc     droneapi.Location
	destination droneapi.Location
	home        droneapi.Location
	pathQueue   []droneapi.Location

	stateChanged     pubsub.Publisher[droneapi.CommandStatus]
	destChanged      pubsub.Publisher[droneapi.Location]
	waypointReached  pubsub.Publisher[droneapi.Location]
	takeoffRequested pubsub.Publisher[droneapi.Location]
	landingRequested pubsub.Publisher[bool]
	missionChanged   pubsub.Publisher[droneapi.CurrentMission]
}

// New creates a StateMachine in Idle with the given home base.
func New(home droneapi.Location) *StateMachine {
	return &StateMachine{
		state:       droneapi.Idle,
		mission:     droneapi.MissionLanded,
		home:        home,
		destination: home,
	}
}

// SetHome sets the home base location.
func (c *StateMachine) SetHome(home droneapi.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.home = home
}

// GetHome returns the home base location.
func (c *StateMachine) GetHome() droneapi.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.home
}

// CurrentState returns the current command lifecycle state.
func (c *StateMachine) CurrentState() droneapi.CommandStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscription endpoints. Each returns a handle whose Unsubscribe removes
// the callback.

func (c *StateMachine) SubscribeState(cb func(droneapi.CommandStatus)) pubsub.Handle {
	return c.stateChanged.Subscribe(cb)
}

func (c *StateMachine) SubscribeCurrentDestination(cb func(droneapi.Location)) pubsub.Handle {
	return c.destChanged.Subscribe(cb)
}

func (c *StateMachine) SubscribePathWaypoint(cb func(droneapi.Location)) pubsub.Handle {
	return c.waypointReached.Subscribe(cb)
}

// SubscribeTakeoffRequested fires with the mission's destination whenever
// the drone must arm and take off before that destination can be pursued.
func (c *StateMachine) SubscribeTakeoffRequested(cb func(droneapi.Location)) pubsub.Handle {
	return c.takeoffRequested.Subscribe(cb)
}

func (c *StateMachine) SubscribeLandingRequested(cb func(bool)) pubsub.Handle {
	return c.landingRequested.Subscribe(cb)
}

func (c *StateMachine) SubscribeMissionChanged(cb func(droneapi.CurrentMission)) pubsub.Handle {
	return c.missionChanged.Subscribe(cb)
}

// HandleTaskAssigned admits a new mission. It is the only entry point that
// can move the machine out of Idle or preempt a Busy mission.
func (c *StateMachine) HandleTaskAssigned(t Task) droneapi.FlightControllerStatus {
	if t.Single != nil && t.Path != nil {
		return droneapi.StatusInvalidCommand
	}

	switch t.Mission {
	case droneapi.MissionGoTo:
		if t.Single == nil {
			return droneapi.StatusInvalidCommand
		}
	case droneapi.MissionPath:
		if len(t.Path) == 0 {
			return droneapi.StatusInvalidCommand
		}
	case droneapi.MissionHover:
		if t.Single != nil || t.Path != nil {
			return droneapi.StatusInvalidCommand
		}
	}

	c.mu.Lock()

	if c.state == droneapi.MissionAbort {
		// A mission in the middle of an emergency descent cannot be
		// preempted, only completed.
		c.mu.Unlock()
		return droneapi.StatusInvalidCommand
	}

	c.transition(busyEvent)
	c.mission = t.Mission

	var takeoff bool
	switch t.Mission {
	case droneapi.MissionGoTo:
		c.destination = *t.Single
		if c.atHomeAltitudeLocked() {
			takeoff = true
		}

	case droneapi.MissionHome:
		c.destination = c.home

	case droneapi.MissionHover:
		c.destination = c.currLoc
		if c.atHomeAltitudeLocked() {
			takeoff = true
		}

	case droneapi.MissionPath:
		c.pathQueue = append([]droneapi.Location(nil), t.Path...)
		c.destination = c.pathQueue[0]
		c.pathQueue = c.pathQueue[1:]

	case droneapi.MissionEmergency:
		c.destination = droneapi.Location{
			Latitude:  c.currLoc.Latitude,
			Longitude: c.currLoc.Longitude,
			Altitude:  c.home.Altitude,
		}
	}

	dest := c.destination
	hoverImmediate := t.Mission == droneapi.MissionHover

	c.mu.Unlock()

	c.missionChanged.Publish(t.Mission)
	c.destChanged.Publish(dest)
	c.publishState(droneapi.Busy)
	if takeoff {
		c.takeoffRequested.Publish(dest)
	}

	if hoverImmediate {
		// HOVER completes the instant it is admitted: the destination is
		// already the current location.
		c.completeTask()
	}

	return droneapi.StatusSuccess
}

// HandleGPSLocationUpdate feeds one GPS position sample. If the drone has
// reached its destination, this may complete, advance, or abort-complete
// the active mission depending on the mission type.
func (c *StateMachine) HandleGPSLocationUpdate(loc droneapi.Location) {
	c.mu.Lock()
	c.currLoc = loc
	arrived := loc.Equal(c.destination)
	mission := c.mission
	c.mu.Unlock()

	if !arrived {
		return
	}

	switch mission {
	case droneapi.MissionGoTo:
		c.completeTask()

	case droneapi.MissionHome:
		c.landingRequested.Publish(true)
		c.completeTask()

	case droneapi.MissionPath:
		c.advancePath()

	case droneapi.MissionEmergency:
		c.landingRequested.Publish(true)
		c.completeTask()

	case droneapi.MissionHover:
		// Stay in the current state.
	}
}

// HandleGPSStateChange reacts to Safety State Machine GPS transitions.
func (c *StateMachine) HandleGPSStateChange(s droneapi.SafetyState) {
	if s == droneapi.GPSNotHealthy {
		c.abortForSafety()
	}
}

// HandleLinkStateChange reacts to Safety State Machine Link transitions.
func (c *StateMachine) HandleLinkStateChange(s droneapi.SafetyState) {
	if s == droneapi.NotConnected {
		c.abortForSafety()
	}
}

func (c *StateMachine) abortForSafety() {
	c.mu.Lock()
	if c.state != droneapi.Busy {
		c.mu.Unlock()
		return
	}

	c.destination = droneapi.Location{
		Latitude:  c.currLoc.Latitude,
		Longitude: c.currLoc.Longitude,
		Altitude:  c.home.Altitude,
	}
	// Route the eventual arrival at the descent point through the same
	// landing-then-complete handling as an explicit EMERGENCY mission, so
	// progress toward the abort destination still reaches TaskCompleted.
	c.mission = droneapi.MissionEmergency
	dest := c.destination
	c.transition(abortEvent)
	c.mu.Unlock()

	c.missionChanged.Publish(droneapi.MissionEmergency)
	c.destChanged.Publish(dest)
	c.publishState(droneapi.MissionAbort)
}

func (c *StateMachine) advancePath() {
	c.mu.Lock()
	justReached := c.destination

	if len(c.pathQueue) == 0 {
		c.mu.Unlock()
		c.waypointReached.Publish(justReached)
		c.completeTask()
		return
	}

	c.destination = c.pathQueue[0]
	c.pathQueue = c.pathQueue[1:]
	next := c.destination
	c.mu.Unlock()

	c.waypointReached.Publish(justReached)
	c.destChanged.Publish(next)
}

func (c *StateMachine) completeTask() {
	c.mu.Lock()
	c.transition(completeEvent)

	// A HOME or EMERGENCY mission ends with the drone on the ground: fold
	// the mission back to MissionLanded so the Flight State Machine's
	// mission-derived Land event can bring ReturnHome or EmergencyLand
	// back down to Landed.
	landed := c.mission == droneapi.MissionHome || c.mission == droneapi.MissionEmergency
	if landed {
		c.mission = droneapi.MissionLanded
	}
	c.mu.Unlock()

	c.publishState(droneapi.Idle)
	if landed {
		c.missionChanged.Publish(droneapi.MissionLanded)
	}
}

// transition applies one CSM event to c.state. Must be called with c.mu
// held. It does not itself publish — callers decide when to publish after
// releasing the lock, since admission publishes the destination/mission
// change first per spec ordering.
func (c *StateMachine) transition(ev event) {
	switch ev {
	case busyEvent:
		c.state = droneapi.Busy
	case completeEvent:
		if c.state == droneapi.Busy || c.state == droneapi.MissionAbort {
			c.state = droneapi.Idle
		}
	case abortEvent:
		if c.state == droneapi.Busy {
			c.state = droneapi.MissionAbort
		}
	}
}

func (c *StateMachine) publishState(s droneapi.CommandStatus) {
	c.stateChanged.Publish(s)
}

func (c *StateMachine) atHomeAltitudeLocked() bool {
	return c.currLoc.Altitude == c.home.Altitude
}

type event int

const (
	busyEvent event = iota
	completeEvent
	abortEvent
)
