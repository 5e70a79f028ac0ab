package controller

import (
	"fmt"
	"testing"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

type fakeFC struct {
	calls         []string
	armResult     *droneapi.FlightControllerStatus
	takeoffResult *droneapi.FlightControllerStatus
}

func (f *fakeFC) Arm() droneapi.FlightControllerStatus {
	f.calls = append(f.calls, "ARM")
	if f.armResult != nil {
		return *f.armResult
	}
	return droneapi.StatusSuccess
}
func (f *fakeFC) Disarm() droneapi.FlightControllerStatus {
	f.calls = append(f.calls, "DISARM")
	return droneapi.StatusSuccess
}
func (f *fakeFC) TakeOff(altitude float64) droneapi.FlightControllerStatus {
	f.calls = append(f.calls, fmt.Sprintf("TAKEOFF(%g)", altitude))
	if f.takeoffResult != nil {
		return *f.takeoffResult
	}
	return droneapi.StatusSuccess
}
func (f *fakeFC) Land() droneapi.FlightControllerStatus {
	f.calls = append(f.calls, "LAND")
	return droneapi.StatusSuccess
}
func (f *fakeFC) GoHome() droneapi.FlightControllerStatus {
	f.calls = append(f.calls, "GO_HOME")
	return droneapi.StatusSuccess
}
func (f *fakeFC) GoTo(lat, lon, alt float64) droneapi.FlightControllerStatus {
	f.calls = append(f.calls, "GOTO")
	return droneapi.StatusSuccess
}

func TestGoToArmsAndTakesOffWhenLanded(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	status := c.GoTo(droneapi.Location{Latitude: 1, Longitude: 2, Altitude: 3})
	if status != droneapi.StatusSuccess {
		t.Fatalf("status = %s, want SUCCESS", status)
	}

	want := []string{"ARM", "TAKEOFF(3)", "GOTO"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
	for i := range want {
		if fc.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, fc.calls[i], want[i])
		}
	}
}

func TestGoToTakesOffAtDestinationAltitudeNotZero(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.GoTo(droneapi.Location{Latitude: 10, Longitude: 20, Altitude: 100})
	if len(fc.calls) < 2 || fc.calls[1] != "TAKEOFF(100)" {
		t.Fatalf("calls = %v, want TAKEOFF(100) as the second call", fc.calls)
	}
}

func TestGoToSkipsTakeoffOnceAirborne(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.GoTo(droneapi.Location{Latitude: 1})
	fc.calls = nil

	c.GoTo(droneapi.Location{Latitude: 2})
	if len(fc.calls) != 1 || fc.calls[0] != "GOTO" {
		t.Errorf("calls = %v, want [GOTO]", fc.calls)
	}
}

func TestGoToAbortsOnArmFailure(t *testing.T) {
	hwErr := droneapi.StatusHardwareError
	fc := &fakeFC{armResult: &hwErr}
	c := New(fc)

	status := c.GoTo(droneapi.Location{Latitude: 1})
	if status != droneapi.StatusHardwareError {
		t.Errorf("status = %s, want HARDWARE_ERROR", status)
	}
	if len(fc.calls) != 1 || fc.calls[0] != "ARM" {
		t.Errorf("calls = %v, want [ARM] (TAKEOFF/GOTO never attempted)", fc.calls)
	}
}

func TestHandleLandingRequestedResetsLandedFlag(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.GoTo(droneapi.Location{Latitude: 1})
	c.HandleLandingRequested(true)
	fc.calls = nil

	c.GoTo(droneapi.Location{Latitude: 2})
	want := []string{"ARM", "TAKEOFF(0)", "GOTO"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v (takeoff required again after landing)", fc.calls, want)
	}
}

func TestAbortMissionCommandsGoHome(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.AbortMission()
	if len(fc.calls) != 1 || fc.calls[0] != "GO_HOME" {
		t.Errorf("calls = %v, want [GO_HOME]", fc.calls)
	}
}

func TestHandleTakeoffRequestedUsesRequestedAltitude(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.HandleTakeoffRequested(droneapi.Location{Latitude: 5, Altitude: 42})
	want := []string{"ARM", "TAKEOFF(42)"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
	for i := range want {
		if fc.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, fc.calls[i], want[i])
		}
	}
}

func TestHandleTakeoffRequestedIsNoOpWhenAlreadyAirborne(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.GoTo(droneapi.Location{Altitude: 10})
	fc.calls = nil

	c.HandleTakeoffRequested(droneapi.Location{Altitude: 10})
	if len(fc.calls) != 0 {
		t.Errorf("calls = %v, want none (already airborne)", fc.calls)
	}
}

func TestPathMarksOnPathAndGoesToFirstPoint(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	if c.OnPath() {
		t.Fatal("OnPath() = true before any path mission was started")
	}

	status := c.Path(droneapi.Location{Latitude: 1, Altitude: 30})
	if status != droneapi.StatusSuccess {
		t.Fatalf("status = %s, want SUCCESS", status)
	}
	if !c.OnPath() {
		t.Error("OnPath() = false, want true after Path()")
	}

	want := []string{"ARM", "TAKEOFF(30)", "GOTO"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
}

func TestHandleCommandStateClearsOnPathWhenIdle(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.Path(droneapi.Location{Latitude: 1})
	c.HandleCommandState(droneapi.Idle)

	if c.OnPath() {
		t.Error("OnPath() = true after IDLE command state, want false")
	}
}

func TestHandleCommandStateLeavesOnPathUntouchedWhenBusy(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.Path(droneapi.Location{Latitude: 1})
	c.HandleCommandState(droneapi.Busy)

	if !c.OnPath() {
		t.Error("OnPath() = false after BUSY command state, want true (unchanged)")
	}
}

func TestHandleCommandStateLandsOnMissionAbort(t *testing.T) {
	fc := &fakeFC{}
	c := New(fc)

	c.HandleCommandState(droneapi.MissionAbort)
	if len(fc.calls) != 1 || fc.calls[0] != "LAND" {
		t.Errorf("calls = %v, want [LAND]", fc.calls)
	}
}
