// Package gateway implements a thin JSON/HTTP surface over the sdk.Drone
// facade: plain JSON handlers behind the same CORS/logging/recovery
// middleware chain and cleartext HTTP/2 (h2c) wrapping.
package gateway

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/flightpath-dev/flightpath-core/internal/droneapi"
	"github.com/flightpath-dev/flightpath-core/internal/gateway/middleware"
	"github.com/flightpath-dev/flightpath-core/internal/sdk"
)

// Server exposes a Drone over JSON/HTTP.
type Server struct {
	addr           string
	corsOrigins    []string
	drone          *sdk.Drone
	mux            *http.ServeMux
	logger         *log.Logger
}

// New creates a Server serving drone at addr.
func New(addr string, corsOrigins []string, drone *sdk.Drone, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		addr:        addr,
		corsOrigins: corsOrigins,
		drone:       drone,
		mux:         http.NewServeMux(),
		logger:      logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /v1/state", s.handleState)
	s.mux.HandleFunc("POST /v1/missions/goto", s.handleGoTo)
	s.mux.HandleFunc("POST /v1/missions/path", s.handlePath)
	s.mux.HandleFunc("POST /v1/missions/hover", s.handleHover)
	s.mux.HandleFunc("POST /v1/missions/abort", s.handleAbort)
	s.mux.HandleFunc("POST /v1/home", s.handleSetHome)
	s.mux.HandleFunc("GET /v1/home", s.handleGetHome)
}

func (s *Server) buildHandler() http.Handler {
	handler := http.Handler(s.mux)
	handler = middleware.CORS(s.corsOrigins)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)
	return h2c.NewHandler(handler, &http2.Server{})
}

// Start serves the gateway, blocking until the server errors.
func (s *Server) Start() error {
	s.logger.Printf("gateway: listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.buildHandler())
}

type stateResponse struct {
	FlightState  string `json:"flight_state"`
	CommandState string `json:"command_state"`
	GPSState     string `json:"gps_state"`
	LinkState    string `json:"link_state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.drone.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		FlightState:  snap.FlightState.String(),
		CommandState: snap.CommandState.String(),
		GPSState:     snap.GPSState.String(),
		LinkState:    snap.LinkState.String(),
	})
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := s.drone.GoTo(droneapi.Location{Latitude: req.Latitude, Longitude: req.Longitude, Altitude: req.Altitude})
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Waypoints []locationRequest `json:"waypoints"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	waypoints := make([]droneapi.Location, len(req.Waypoints))
	for i, wp := range req.Waypoints {
		waypoints[i] = droneapi.Location{Latitude: wp.Latitude, Longitude: wp.Longitude, Altitude: wp.Altitude}
	}
	status := s.drone.Path(waypoints)
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	status := s.drone.Hover()
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	status := s.drone.AbortMission()
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (s *Server) handleSetHome(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.drone.SetHome(droneapi.Location{Latitude: req.Latitude, Longitude: req.Longitude, Altitude: req.Altitude})
	writeJSON(w, http.StatusOK, statusResponse{Status: droneapi.StatusSuccess.String()})
}

func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	home := s.drone.GetHome()
	writeJSON(w, http.StatusOK, locationRequest{Latitude: home.Latitude, Longitude: home.Longitude, Altitude: home.Altitude})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
