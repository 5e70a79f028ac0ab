// Package mavlink implements droneapi.GPS, droneapi.Link, and
// droneapi.FlightController against a real MAVLink connection: a gomavlib
// node, a heartbeat listener goroutine, and a ground-station heartbeat
// sender goroutine.
package mavlink

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"
)

// Position target type mask bits: tell the autopilot which setpoint fields
// to honor.
const (
	positionTargetTypemaskVxIgnore     = 0b0000000000001000
	positionTargetTypemaskVyIgnore     = 0b0000000000010000
	positionTargetTypemaskVzIgnore     = 0b0000000000100000
	positionTargetTypemaskAxIgnore     = 0b0000000001000000
	positionTargetTypemaskAyIgnore     = 0b0000000010000000
	positionTargetTypemaskAzIgnore     = 0b0000000100000000
	positionTargetTypemaskYawIgnore    = 0b0000010000000000
	positionTargetTypemaskYawRIgnore   = 0b0000100000000000
	heartbeatTimeout                   = 3 * time.Second
)

// Telemetry holds the subset of MAVLink telemetry the engine's GPS facade
// exposes.
type Telemetry struct {
	Latitude  float64
	Longitude float64
	Altitude  float64

	GPSAccuracy    float64
	SatelliteCount int32

	LastUpdate time.Time
}

// Client is a MAVLink connection to one drone: a gomavlib node plus a
// ground-station heartbeat sender and a message listener, both run on
// their own goroutines.
type Client struct {
	node      *gomavlib.Node
	logger    *log.Logger
	port      string
	baudRate  int

	mu            sync.RWMutex
	systemID      uint8
	connected     bool
	armed         bool
	lastHeartbeat time.Time
	linkQuality   int32 // RADIO_STATUS remote RSSI, 0-254; 255 = unknown
	telemetry     Telemetry

	stopHeartbeat chan struct{}
	heartbeatDone chan struct{}
}

// Config holds MAVLink client configuration.
type Config struct {
	Port     string
	BaudRate int
	Logger   *log.Logger
}

// NewClient opens a serial MAVLink connection and starts its listener and
// ground-station heartbeat goroutines.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints: []gomavlib.EndpointConf{
			gomavlib.EndpointSerial{
				Device: cfg.Port,
				Baud:   cfg.BaudRate,
			},
		},
		Dialect:     common.Dialect,
		OutVersion:  gomavlib.V2,
		OutSystemID: 255, // ground control station system ID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MAVLink node: %w", err)
	}

	c := &Client{
		node:          node,
		logger:        cfg.Logger,
		port:          cfg.Port,
		baudRate:      cfg.BaudRate,
		linkQuality:   255,
		stopHeartbeat: make(chan struct{}),
		heartbeatDone: make(chan struct{}),
	}

	go c.listen()
	go c.sendGroundStationMessages()

	return c, nil
}

// sendGroundStationMessages periodically announces this process as a
// ground control station, satisfying PX4's data-link-loss requirement.
func (c *Client) sendGroundStationMessages() {
	defer close(c.heartbeatDone)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopHeartbeat:
			return
		case <-ticker.C:
			err := c.node.WriteMessageAll(&common.MessageHeartbeat{
				Type:           common.MAV_TYPE_GCS,
				Autopilot:      common.MAV_AUTOPILOT_INVALID,
				SystemStatus:   common.MAV_STATE_ACTIVE,
				MavlinkVersion: 3,
			})
			if err != nil {
				c.logger.Printf("mavlink: error sending heartbeat: %v", err)
			}
		}
	}
}

func (c *Client) listen() {
	for evt := range c.node.Events() {
		if frm, ok := evt.(*gomavlib.EventFrame); ok {
			c.handleMessage(frm.Message(), frm.SystemID())
		}
	}
}

func (c *Client) handleMessage(msg message.Message, sysID uint8) {
	switch m := msg.(type) {
	case *common.MessageHeartbeat:
		c.handleHeartbeat(m, sysID)
	case *common.MessageGlobalPositionInt:
		c.handleGlobalPosition(m)
	case *common.MessageGpsRawInt:
		c.handleGpsRaw(m)
	case *common.MessageRadioStatus:
		c.handleRadioStatus(m)
	case *common.MessageStatustext:
		c.logger.Printf("mavlink status: [%d] %s", m.Severity, m.Text)
	}
}

func (c *Client) handleHeartbeat(msg *common.MessageHeartbeat, sysID uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		c.logger.Printf("mavlink: connected to system %d", sysID)
	}
	c.connected = true
	c.systemID = sysID
	c.lastHeartbeat = time.Now()
	c.armed = (msg.BaseMode & common.MAV_MODE_FLAG_SAFETY_ARMED) != 0
}

func (c *Client) handleGlobalPosition(msg *common.MessageGlobalPositionInt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.Latitude = float64(msg.Lat) / 1e7
	c.telemetry.Longitude = float64(msg.Lon) / 1e7
	c.telemetry.Altitude = float64(msg.Alt) / 1000.0
	c.telemetry.LastUpdate = time.Now()
}

func (c *Client) handleGpsRaw(msg *common.MessageGpsRawInt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.GPSAccuracy = float64(msg.Eph) / 100.0
	c.telemetry.SatelliteCount = int32(msg.SatellitesVisible)
	c.telemetry.LastUpdate = time.Now()
}

func (c *Client) handleRadioStatus(msg *common.MessageRadioStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linkQuality = int32(msg.Remrssi)
}

// IsConnected reports whether a heartbeat has been seen within the last
// heartbeatTimeout.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected && time.Since(c.lastHeartbeat) > heartbeatTimeout {
		c.connected = false
		c.logger.Println("mavlink: connection timeout (no heartbeat)")
	}
	return c.connected
}

// Telemetry returns the latest telemetry snapshot.
func (c *Client) Telemetry() Telemetry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.telemetry
}

// LinkQuality returns the last RADIO_STATUS remote RSSI sample, 0-255
// (255 = unknown/no sample yet).
func (c *Client) LinkQuality() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.linkQuality
}

func (c *Client) targetSystem() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.systemID
}

// Arm sends the arm command.
func (c *Client) Arm() error {
	return c.commandLong(common.MAV_CMD_COMPONENT_ARM_DISARM, 1, 0, 0, 0, 0, 0, 0)
}

// Disarm sends the disarm command.
func (c *Client) Disarm() error {
	return c.commandLong(common.MAV_CMD_COMPONENT_ARM_DISARM, 0, 0, 0, 0, 0, 0, 0)
}

// Takeoff sends the takeoff command to the given altitude in meters.
func (c *Client) Takeoff(altitude float32) error {
	return c.commandLong(common.MAV_CMD_NAV_TAKEOFF, 0, 0, 0, 0, 0, 0, altitude)
}

// Land sends the land command.
func (c *Client) Land() error {
	return c.commandLong(common.MAV_CMD_NAV_LAND, 0, 0, 0, 0, 0, 0, 0)
}

// ReturnToLaunch sends the RTL command.
func (c *Client) ReturnToLaunch() error {
	return c.commandLong(common.MAV_CMD_NAV_RETURN_TO_LAUNCH, 0, 0, 0, 0, 0, 0, 0)
}

func (c *Client) commandLong(cmd common.MAV_CMD, p1, p2, p3, p4, p5, p6, p7 float32) error {
	if !c.IsConnected() {
		return fmt.Errorf("mavlink: not connected to drone")
	}
	return c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    c.targetSystem(),
		TargetComponent: 1,
		Command:         cmd,
		Param1:          p1,
		Param2:          p2,
		Param3:          p3,
		Param4:          p4,
		Param5:          p5,
		Param6:          p6,
		Param7:          p7,
	})
}

// GoToPosition sends a global position setpoint; the drone must be in
// offboard/guided mode to honor it.
func (c *Client) GoToPosition(latitude, longitude, altitude float64) error {
	if !c.IsConnected() {
		return fmt.Errorf("mavlink: not connected to drone")
	}

	typeMask := uint16(
		positionTargetTypemaskVxIgnore | positionTargetTypemaskVyIgnore | positionTargetTypemaskVzIgnore |
			positionTargetTypemaskAxIgnore | positionTargetTypemaskAyIgnore | positionTargetTypemaskAzIgnore |
			positionTargetTypemaskYawIgnore | positionTargetTypemaskYawRIgnore,
	)

	return c.node.WriteMessageAll(&common.MessageSetPositionTargetGlobalInt{
		TargetSystem:    c.targetSystem(),
		TargetComponent: 1,
		TimeBootMs:      uint32(time.Now().UnixMilli()),
		CoordinateFrame: common.MAV_FRAME_GLOBAL_RELATIVE_ALT_INT,
		TypeMask:        common.POSITION_TARGET_TYPEMASK(typeMask),
		LatInt:          int32(latitude * 1e7),
		LonInt:          int32(longitude * 1e7),
		Alt:             float32(altitude),
	})
}

// Close stops the background goroutines and closes the node.
func (c *Client) Close() error {
	close(c.stopHeartbeat)
	select {
	case <-c.heartbeatDone:
	case <-time.After(2 * time.Second):
		c.logger.Println("mavlink: warning - heartbeat sender stop timeout")
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.node.Close()
	return nil
}
