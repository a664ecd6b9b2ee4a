// Package status serves a read-only HTTP view of a running simulation:
// Prometheus metrics, liveness and readiness probes, and the current state.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/health"
	"github.com/opd-ai/go-lander/pkg/logging"
)

// StateResponse is the body of GET /state.
type StateResponse struct {
	Status   string   `json:"status"`
	Tick     int      `json:"tick"`
	Time     float64  `json:"time"`
	Altitude float64  `json:"altitude"`
	Velocity float64  `json:"velocity"`
	Fuel     float64  `json:"fuel"`
	Outcome  *Outcome `json:"outcome,omitempty"`
}

// Outcome is present in StateResponse once the run has ended.
type Outcome struct {
	Termination string `json:"termination"`
	Landing     string `json:"landing"`
	Rejected    int    `json:"rejected"`
}

// Server is the status listener.
type Server struct {
	sim     *engine.Simulation
	checker *health.HealthChecker
	router  *mux.Router
	logger  *logging.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// NewServer builds the router. metrics may be nil, in which case /metrics
// is not routed.
func NewServer(sim *engine.Simulation, checker *health.HealthChecker, metrics http.Handler, logger *logging.Logger) *Server {
	if checker == nil {
		checker = health.NewHealthChecker()
	}
	if logger == nil {
		logger = logging.NewLogger()
	}

	s := &Server{
		sim:     sim,
		checker: checker,
		router:  mux.NewRouter(),
		logger:  logger,
	}

	if metrics != nil {
		s.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	s.router.HandleFunc("/health", checker.LivenessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", checker.ReadinessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/state", s.stateHandler).Methods(http.MethodGet)

	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sim.Snapshot()
	resp := StateResponse{
		Status:   s.sim.GetStatus().String(),
		Tick:     s.sim.Ticks(),
		Time:     state.Time,
		Altitude: state.Altitude,
		Velocity: state.Velocity,
		Fuel:     state.Fuel,
	}
	if result, ok := s.sim.LastResult(); ok {
		resp.Outcome = &Outcome{
			Termination: result.Termination.String(),
			Landing:     result.Landing.String(),
			Rejected:    result.Rejected,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Start listens on addr and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errors.New("status server already started")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	srv := s.srv
	go func() {
		s.logger.Info(ctx, "Starting status server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "Status server failed", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the listener, waiting for in-flight requests until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	return nil
}
