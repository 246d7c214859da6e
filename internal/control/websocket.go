// ABOUTME: WebSocket ingest for MIDI control bytes
// ABOUTME: Accepts connections and streams their payload bytes to the sink
package control

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bitgrind-audio/bitgrind-go/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSConfig holds WebSocket server configuration.
type WSConfig struct {
	Port int
	// Path defaults to /midi.
	Path string
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// WSServer accepts WebSocket connections carrying raw MIDI bytes.
// Every payload byte of every message goes straight to the sink, so a
// controller can batch messages or trickle single bytes as it likes.
type WSServer struct {
	config   WSConfig
	sink     ByteSink
	upgrader websocket.Upgrader

	httpServer *http.Server

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewWSServer creates a control server feeding sink.
func NewWSServer(config WSConfig, sink ByteSink) *WSServer {
	if config.Path == "" {
		config.Path = "/midi"
	}
	return &WSServer{
		config: config,
		sink:   sink,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// Start begins listening. It returns once the listener is up; serving
// continues in the background until Stop.
func (s *WSServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleControl)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: mux,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Control server error: %v", err)
		}
	}()

	log.Printf("Control server listening on :%d%s", s.config.Port, s.config.Path)
	return nil
}

// Stop shuts the server down and drops all clients.
func (s *WSServer) Stop() {
	s.mu.Lock()
	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

func (s *WSServer) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()
	if s.config.Metrics != nil {
		s.config.Metrics.ControlClients.Inc()
	}
	log.Printf("Control client connected: %s (%s)", id, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		if s.config.Metrics != nil {
			s.config.Metrics.ControlClients.Dec()
		}
		conn.Close()
		log.Printf("Control client disconnected: %s", id)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Control client %s read error: %v", id, err)
			}
			return
		}
		for _, b := range payload {
			s.sink.FeedControl(b)
		}
	}
}
