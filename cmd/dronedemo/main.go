// Command dronedemo wires the mock hardware facades into the coordination
// engine and runs a scripted mission, logging every state transition.
package main

import (
	"log"
	"time"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/hardware/mock"
	"github.com/flightpath-dev/flightpath-core/internal/sdk"
)

func main() {
	logger := log.New(log.Writer(), "[dronedemo] ", log.LstdFlags)

	gps := mock.NewGPS(logger)
	link := mock.NewLink(logger)
	fc := mock.NewFlightController(logger)
	success := droneapi.StatusSuccess
	fc.FixedResponse = &success // deterministic demo run

	drone := sdk.New(gps, link, fc, logger)

	drone.SubscribeFlightState(func(s droneapi.FlightState) {
		logger.Printf("flight state -> %s", s)
	})
	drone.SubscribeCommandState(func(s droneapi.CommandStatus) {
		logger.Printf("command state -> %s", s)
	})
	drone.SubscribeGPSSignalState(func(s droneapi.SafetyState) {
		logger.Printf("gps safety -> %s", s)
	})
	drone.SubscribeLinkSignalState(func(s droneapi.SafetyState) {
		logger.Printf("link safety -> %s", s)
	})

	drone.Start()
	defer drone.Stop()

	home := droneapi.Location{Latitude: 0, Longitude: 0, Altitude: 0}
	drone.SetHome(home)

	dest := droneapi.Location{Latitude: 1, Longitude: 1, Altitude: 50}
	logger.Printf("admitting GOTO mission: %+v", dest)
	if status := drone.GoTo(dest); status != droneapi.StatusSuccess {
		logger.Fatalf("mission rejected: %s", status)
	}

	// The mock GPS never moves on its own; simulate arrival by pushing the
	// destination back through the facade as the next sample.
	gps.SetLocation(dest)
	time.Sleep(200 * time.Millisecond)

	logger.Printf("requesting abort (return home)")
	drone.AbortMission()
	gps.SetLocation(home)
	time.Sleep(200 * time.Millisecond)

	logger.Printf("final snapshot: %+v", drone.Snapshot())
}
