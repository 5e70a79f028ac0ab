// Package safety implements the Safety State Machine: two independent,
// one-way-degrading tracks that classify GPS and radio link signal quality
// into SafetyStates.
//
// Both tracks start "good". The first NoSignal sample flips a track to its
// bad state permanently — there is no restoration path, even on a string
// of subsequently perfect samples.
package safety

import (
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/pubsub"
)

// StateMachine owns the GPS and Link safety tracks.
type StateMachine struct {
	mu sync.Mutex

	gpsState  droneapi.SafetyState
	linkState droneapi.SafetyState

	gpsPub  pubsub.Publisher[droneapi.SafetyState]
	linkPub pubsub.Publisher[droneapi.SafetyState]
}

// New creates a StateMachine with both tracks in their healthy state.
func New() *StateMachine {
	return &StateMachine{
		gpsState:  droneapi.GPSHealth,
		linkState: droneapi.Connected,
	}
}

// HandleGPSSignal feeds one GPS signal-quality sample into the GPS track.
func (s *StateMachine) HandleGPSSignal(q droneapi.SignalQuality) {
	s.mu.Lock()
	prev := s.gpsState
	if s.gpsState == droneapi.GPSHealth && q == droneapi.NoSignal {
		s.gpsState = droneapi.GPSNotHealthy
	}
	next := s.gpsState
	s.mu.Unlock()

	if next != prev {
		s.gpsPub.Publish(next)
	}
}

// HandleLinkSignal feeds one link signal-quality sample into the Link
// track.
func (s *StateMachine) HandleLinkSignal(q droneapi.SignalQuality) {
	s.mu.Lock()
	prev := s.linkState
	if s.linkState == droneapi.Connected && q == droneapi.NoSignal {
		s.linkState = droneapi.NotConnected
	}
	next := s.linkState
	s.mu.Unlock()

	if next != prev {
		s.linkPub.Publish(next)
	}
}

// SubscribeGPSState registers cb to fire on every GPS track transition.
func (s *StateMachine) SubscribeGPSState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return s.gpsPub.Subscribe(cb)
}

// SubscribeLinkState registers cb to fire on every Link track transition.
func (s *StateMachine) SubscribeLinkState(cb func(droneapi.SafetyState)) pubsub.Handle {
	return s.linkPub.Subscribe(cb)
}

// CurrentGPSState returns the GPS track's current classification.
func (s *StateMachine) CurrentGPSState() droneapi.SafetyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gpsState
}

// CurrentLinkState returns the Link track's current classification.
func (s *StateMachine) CurrentLinkState() droneapi.SafetyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linkState
}
