// Command gatewaydemo serves the coordination engine over the JSON/HTTP
// gateway, selecting mock or MAVLink hardware per drone from the drone
// registry.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/flightpath-dev/flightpath-core/internal/config"
	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/gateway"
	"github.com/flightpath-dev/flightpath-core/internal/hardware/mavlink"
	"github.com/flightpath-dev/flightpath-core/internal/hardware/mock"
	"github.com/flightpath-dev/flightpath-core/internal/sdk"
)

func main() {
	cfg := config.Load()
	logger := log.New(log.Writer(), "[flightpath] ", log.LstdFlags|log.Lshortfile)

	gps, link, fc := buildHardware(cfg, logger)

	drone := sdk.New(gps, link, fc, logger)
	drone.Start()
	defer drone.Stop()

	srv := gateway.New(cfg.ServerAddr(), cfg.Server.CORSOrigins, drone, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatalf("gateway stopped: %v", err)
	case sig := <-sigCh:
		logger.Printf("received %s, shutting down", sig)
	}
}

// buildHardware selects the first registry entry's hardware profile, or
// falls back to mock hardware if no registry could be loaded.
func buildHardware(cfg *config.Config, logger *log.Logger) (droneapi.GPS, droneapi.Link, droneapi.FlightController) {
	registry, err := config.LoadDroneRegistry(cfg.Server.DroneRegistryPath)
	if err != nil || len(registry.Drones) == 0 {
		logger.Printf("no drone registry loaded, using mock hardware: %v", err)
		return mock.NewGPS(logger), mock.NewLink(logger), mock.NewFlightController(logger)
	}

	d := registry.Drones[0]
	if d.Protocol != "mavlink" {
		return mock.NewGPS(logger), mock.NewLink(logger), mock.NewFlightController(logger)
	}

	port := d.GetConnectionString("port")
	if port == "" {
		port = cfg.MAVLink.DefaultPort
	}
	baud := d.GetConnectionInt("baud_rate")
	if baud == 0 {
		baud = cfg.MAVLink.DefaultBaudRate
	}

	client, err := mavlink.NewClient(mavlink.Config{Port: port, BaudRate: baud, Logger: logger})
	if err != nil {
		logger.Printf("failed to open MAVLink connection, using mock hardware: %v", err)
		return mock.NewGPS(logger), mock.NewLink(logger), mock.NewFlightController(logger)
	}

	return mavlink.NewGPS(client), mavlink.NewLink(client), mavlink.NewFlightController(client)
}
