// Package monitor implements the Hardware Monitor: a dedicated goroutine
// that polls the GPS and Link facades at a fixed rate and publishes their
// readings synchronously, GPS before Link, every tick.
package monitor

import (
	"sync"
	"time"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
)

const defaultPeriod = time.Second / 10

// Monitor polls a GPS and a Link facade at a fixed rate and fans each
// sample out through its GPS/Link callbacks, in that order, on every tick.
type Monitor struct {
	gps    droneapi.GPS
	link   droneapi.Link
	period time.Duration

	onGPS  func(droneapi.Location, droneapi.SignalQuality)
	onLink func(droneapi.SignalQuality)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a Monitor polling at 10Hz, delivering samples to onGPS and
// onLink. Both callbacks are required; wire them to a manager.Manager's
// HandleGPSUpdate/HandleLinkUpdate.
func New(gps droneapi.GPS, link droneapi.Link, onGPS func(droneapi.Location, droneapi.SignalQuality), onLink func(droneapi.SignalQuality)) *Monitor {
	return &Monitor{
		gps:    gps,
		link:   link,
		period: defaultPeriod,
		onGPS:  onGPS,
		onLink: onLink,
	}
}

// Start launches the polling goroutine. Calling Start while already
// running is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run()
}

// Stop halts the polling goroutine and waits for it to exit. Calling Stop
// while not running is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll reads GPS then Link and delivers both synchronously, in that fixed
// order, on the polling goroutine.
func (m *Monitor) poll() {
	loc := m.gps.GetLocation()
	quality := m.gps.GetSignalQuality()
	m.onGPS(loc, quality)

	linkQuality := m.link.GetSignalQuality()
	m.onLink(linkQuality)
}
