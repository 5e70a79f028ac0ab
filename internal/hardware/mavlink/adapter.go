package mavlink

import (
	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

// GPS adapts a Client's telemetry stream to droneapi.GPS. Quality is
// derived from satellite count and accuracy since MAVLink carries no
// single signal-quality field.
type GPS struct {
	client *Client
}

// NewGPS wraps client as a droneapi.GPS.
func NewGPS(client *Client) *GPS {
	return &GPS{client: client}
}

func (g *GPS) GetLocation() droneapi.Location {
	t := g.client.Telemetry()
	return droneapi.Location{Latitude: t.Latitude, Longitude: t.Longitude, Altitude: t.Altitude}
}

func (g *GPS) GetSignalQuality() droneapi.SignalQuality {
	if !g.client.IsConnected() {
		return droneapi.NoSignal
	}

	t := g.client.Telemetry()
	switch {
	case t.SatelliteCount >= 10 && t.GPSAccuracy <= 1.0:
		return droneapi.Excellent
	case t.SatelliteCount >= 8 && t.GPSAccuracy <= 2.5:
		return droneapi.Good
	case t.SatelliteCount >= 6:
		return droneapi.Fair
	case t.SatelliteCount >= 4:
		return droneapi.Poor
	default:
		return droneapi.NoSignal
	}
}

// Link adapts a Client's connection/radio state to droneapi.Link.
type Link struct {
	client *Client
}

// NewLink wraps client as a droneapi.Link.
func NewLink(client *Client) *Link {
	return &Link{client: client}
}

func (l *Link) GetSignalQuality() droneapi.SignalQuality {
	if !l.client.IsConnected() {
		return droneapi.NoSignal
	}

	rssi := l.client.LinkQuality()
	switch {
	case rssi == 255:
		return droneapi.Good // unknown RSSI but heartbeat is live
	case rssi >= 200:
		return droneapi.Excellent
	case rssi >= 140:
		return droneapi.Good
	case rssi >= 80:
		return droneapi.Fair
	case rssi > 0:
		return droneapi.Poor
	default:
		return droneapi.NoSignal
	}
}

// FlightController adapts a Client's command primitives to
// droneapi.FlightController, translating transport errors into
// StatusConnectionError.
type FlightController struct {
	client *Client
}

// NewFlightController wraps client as a droneapi.FlightController.
func NewFlightController(client *Client) *FlightController {
	return &FlightController{client: client}
}

func (f *FlightController) Arm() droneapi.FlightControllerStatus {
	return statusFor(f.client.Arm())
}

func (f *FlightController) Disarm() droneapi.FlightControllerStatus {
	return statusFor(f.client.Disarm())
}

func (f *FlightController) TakeOff(altitude float64) droneapi.FlightControllerStatus {
	return statusFor(f.client.Takeoff(float32(altitude)))
}

func (f *FlightController) Land() droneapi.FlightControllerStatus {
	return statusFor(f.client.Land())
}

func (f *FlightController) GoHome() droneapi.FlightControllerStatus {
	return statusFor(f.client.ReturnToLaunch())
}

func (f *FlightController) GoTo(latitude, longitude, altitude float64) droneapi.FlightControllerStatus {
	return statusFor(f.client.GoToPosition(latitude, longitude, altitude))
}

func statusFor(err error) droneapi.FlightControllerStatus {
	if err == nil {
		return droneapi.StatusSuccess
	}
	return droneapi.StatusConnectionError
}
