// Package mock implements droneapi.GPS, droneapi.Link, and
// droneapi.FlightController against an in-memory, settable source instead
// of real hardware, for demos and tests. It is grounded in
// hw-sdk-mock/{gps,link,flight-controller}: random flight-controller
// response codes by default, with every command logged. GPS and Link
// report fixed, settable values rather than random samples.
package mock

import (
	"log"
	"math/rand"
	"sync"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

// responseCodes mirrors hw-sdk-mock's four-way uniform response
// distribution (SUCCESS, CONNECTION_ERROR, HARDWARE_ERROR, INVALID_COMMAND).
var responseCodes = []droneapi.FlightControllerStatus{
	droneapi.StatusSuccess,
	droneapi.StatusConnectionError,
	droneapi.StatusHardwareError,
	droneapi.StatusInvalidCommand,
}

// GPS is a settable mock GPS source. One built by NewGPS reports the
// origin at Excellent quality; SetLocation/SetSignalQuality override it for
// tests and demos.
type GPS struct {
	mu       sync.Mutex
	location droneapi.Location
	quality  droneapi.SignalQuality
	logger   *log.Logger
}

// NewGPS creates a GPS mock starting at the origin with Excellent quality.
func NewGPS(logger *log.Logger) *GPS {
	if logger == nil {
		logger = log.Default()
	}
	return &GPS{quality: droneapi.Excellent, logger: logger}
}

// SetLocation overrides the location the next GetLocation call returns.
func (g *GPS) SetLocation(loc droneapi.Location) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.location = loc
}

// SetSignalQuality overrides the quality the next GetSignalQuality call
// returns.
func (g *GPS) SetSignalQuality(q droneapi.SignalQuality) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quality = q
}

// GetLocation implements droneapi.GPS.
func (g *GPS) GetLocation() droneapi.Location {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.location
}

// GetSignalQuality implements droneapi.GPS.
func (g *GPS) GetSignalQuality() droneapi.SignalQuality {
	g.mu.Lock()
	q := g.quality
	g.mu.Unlock()
	g.logger.Printf("gps signal quality: %s", q)
	return q
}

// Link is a settable mock radio link source. One built by NewLink reports
// Excellent quality.
type Link struct {
	mu      sync.Mutex
	quality droneapi.SignalQuality
	logger  *log.Logger
}

// NewLink creates a Link mock starting at Excellent quality.
func NewLink(logger *log.Logger) *Link {
	if logger == nil {
		logger = log.Default()
	}
	return &Link{quality: droneapi.Excellent, logger: logger}
}

// SetSignalQuality overrides the quality the next GetSignalQuality call
// returns.
func (l *Link) SetSignalQuality(q droneapi.SignalQuality) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quality = q
}

// GetSignalQuality implements droneapi.Link.
func (l *Link) GetSignalQuality() droneapi.SignalQuality {
	l.mu.Lock()
	q := l.quality
	l.mu.Unlock()
	l.logger.Printf("link signal quality: %s", q)
	return q
}

// FlightController is a mock flight controller that logs every command and
// returns a uniformly random response code, matching
// hw-sdk-mock/flight-controller's getRandomResponse. Tests that need
// deterministic behavior should set FixedResponse.
type FlightController struct {
	mu            sync.Mutex
	FixedResponse *droneapi.FlightControllerStatus
	logger        *log.Logger
	rng           *rand.Rand
}

// NewFlightController creates a FlightController with random responses.
func NewFlightController(logger *log.Logger) *FlightController {
	if logger == nil {
		logger = log.Default()
	}
	return &FlightController{logger: logger, rng: rand.New(rand.NewSource(1))}
}

func (f *FlightController) respond(command string) droneapi.FlightControllerStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FixedResponse != nil {
		f.logger.Printf("executing %s: %s", command, *f.FixedResponse)
		return *f.FixedResponse
	}

	resp := responseCodes[f.rng.Intn(len(responseCodes))]
	f.logger.Printf("executing %s: %s", command, resp)
	return resp
}

func (f *FlightController) Arm() droneapi.FlightControllerStatus    { return f.respond("ARM") }
func (f *FlightController) Disarm() droneapi.FlightControllerStatus { return f.respond("DISARM") }
func (f *FlightController) TakeOff(altitude float64) droneapi.FlightControllerStatus {
	return f.respond("TAKEOFF")
}
func (f *FlightController) Land() droneapi.FlightControllerStatus   { return f.respond("LAND") }
func (f *FlightController) GoHome() droneapi.FlightControllerStatus { return f.respond("GO_HOME") }
func (f *FlightController) GoTo(latitude, longitude, altitude float64) droneapi.FlightControllerStatus {
	return f.respond("GOTO")
}
