package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"digital.vasic.facts/pkg/logging"
	"digital.vasic.facts/pkg/metrics"
)

// jsonMarshal is substitutable for tests.
var jsonMarshal = json.Marshal

// Server provides a WebSocket endpoint for live dashboard
// updates, plus JSON snapshot and health endpoints.
type Server struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *DashboardData
	clients   map[chan []byte]struct{}
	addr      string
	server    *http.Server
	upgrader  websocket.Upgrader
	logger    logging.Logger
	metrics   metrics.Exporter
	done      chan struct{}
}

// NewServer creates a new monitoring server.
func NewServer(addr string, collector *EventCollector, dashboard *DashboardData) *Server {
	return &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		clients:   make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logging.NullLogger{},
		done:   make(chan struct{}),
	}
}

// SetLogger replaces the server's lifecycle logger.
func (s *Server) SetLogger(logger logging.Logger) {
	s.logger = logger
}

// SetMetrics attaches a metrics exporter served at /metrics,
// typically the same InMemory instance passed to ObserveMetrics.
func (s *Server) SetMetrics(m metrics.Exporter) {
	s.metrics = m
}

// Start begins serving the monitoring endpoints.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// Register event handler to broadcast to clients
	s.collector.OnEvent(func(event RunEvent) {
		s.dashboard.UpdateFromEvent(event)
		data, err := jsonMarshal(event)
		if err != nil {
			return
		}
		s.broadcast(data)
	})

	go func() {
		<-ctx.Done()
		close(s.done)
		s.logger.Info(
			"monitor server stopping",
			logging.StringField("addr", s.addr),
			logging.DurationField(
				"run_elapsed", s.collector.Stats().Duration,
			),
		)
		s.server.Close()
	}()

	s.logger.Info(
		"monitor server listening",
		logging.StringField("addr", s.addr),
	)

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(
			"websocket upgrade failed",
			logging.ErrorField(err),
		)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, 32)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	// Send initial dashboard state
	snap := s.dashboard.Snapshot()
	if data, err := jsonMarshal(&snap); err == nil {
		if err := conn.WriteMessage(
			websocket.TextMessage, data,
		); err != nil {
			return
		}
	}

	// The read pump exists to detect client disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case <-closed:
			return
		case data := <-ch:
			if err := conn.WriteMessage(
				websocket.TextMessage, data,
			); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap := s.dashboard.Snapshot()
	json.NewEncoder(w).Encode(&snap)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		http.Error(
			w, "metrics not enabled", http.StatusNotFound,
		)
		return
	}
	w.Header().Set(
		"Content-Type", "text/plain; version=0.0.4",
	)
	if err := s.metrics.WriteExposition(w); err != nil {
		s.logger.Error(
			"metrics exposition failed",
			logging.ErrorField(err),
		)
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, skip
		}
	}
}
