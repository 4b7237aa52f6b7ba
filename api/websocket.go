package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. A run request carries a
	// full parameter set.
	maxMessageSize = 64 << 10

	// Progress is reported roughly every 1/progressSteps of a run.
	progressSteps = 20
)

// WebSocket message types.
const (
	msgRun      = "run"
	msgPing     = "ping"
	msgPong     = "pong"
	msgProgress = "progress"
	msgResult   = "result"
	msgError    = "error"
)

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// wsInbound is a client message with its payload left undecoded.
type wsInbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ProgressEvent is the data of a "progress" message.
type ProgressEvent struct {
	RunID     string `json:"run_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ResultEvent is the data of a "result" message.
type ResultEvent struct {
	RunID  string                   `json:"run_id"`
	Result *models.MonteCarloResult `json:"result"`
}

// ErrorEvent is the data of an "error" message.
type ErrorEvent struct {
	RunID string `json:"run_id,omitempty"`
	Error string `json:"error"`
}

// ============================================================
// Hub
// ============================================================

// WSHub tracks connected WebSocket clients.
type WSHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub     *WSHub
	send    chan WSMessage
	done    chan struct{}
	closed  sync.Once
	running atomic.Bool
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*WSClient]struct{})}
}

func newWSClient(h *WSHub) *WSClient {
	return &WSClient{
		hub:  h,
		send: make(chan WSMessage, 256),
		done: make(chan struct{}),
	}
}

// Register adds a client to the hub.
func (h *WSHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and stops its writer.
func (h *WSHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// CloseAll disconnects every client. Used on shutdown.
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*WSClient]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *WSClient) close() {
	c.closed.Do(func() { close(c.done) })
}

// deliver queues msg, blocking until there is room or the client is gone.
func (c *WSClient) deliver(msg WSMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

// offer queues msg only if there is room. Progress updates are lossy.
func (c *WSClient) offer(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
	}
}

// ============================================================
// Handler
// ============================================================

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := s.cfg.API.CORSOrigins
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				return true
			}
			for _, o := range allowed {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}

// handleMonteCarloStream upgrades to WebSocket and runs simulations on
// request, streaming progress until the result is ready.
// GET /api/v1/ws/montecarlo
func (s *Server) handleMonteCarloStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newWSClient(s.wsHub)
	s.wsHub.Register(client)

	// Runs end when the socket does.
	ctx, cancel := context.WithCancel(context.Background())

	go s.wsWritePump(conn, client)
	go s.wsReadPump(ctx, cancel, conn, client, remoteIP(r))
}

// wsReadPump reads client messages until the connection fails.
// Each run draws from the same per-IP limiter as the POST routes.
func (s *Server) wsReadPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, client *WSClient, ip string) {
	defer func() {
		cancel()
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg wsInbound
		if err := json.Unmarshal(message, &msg); err != nil {
			client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{Error: "malformed message: " + err.Error()}})
			continue
		}

		switch msg.Type {
		case msgPing:
			client.deliver(WSMessage{Type: msgPong})
		case msgRun:
			var req MonteCarloRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{Error: "invalid run request: " + err.Error()}})
				continue
			}
			if s.limits.enabled() && !s.limits.get(ip).Allow() {
				client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{Error: "rate limit exceeded"}})
				continue
			}
			if !client.running.CompareAndSwap(false, true) {
				client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{Error: "a run is already in progress"}})
				continue
			}
			go s.streamRun(ctx, client, req)
		default:
			client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{Error: "unknown message type " + msg.Type}})
		}
	}
}

// streamRun executes one simulation for client.
func (s *Server) streamRun(ctx context.Context, client *WSClient, req MonteCarloRequest) {
	defer client.running.Store(false)

	runID := uuid.NewString()
	opts := req.options()
	opts.Progress = func(completed, total int) {
		step := total / progressSteps
		if step < 1 {
			step = 1
		}
		if completed%step != 0 && completed != total {
			return
		}
		client.offer(WSMessage{Type: msgProgress, Data: ProgressEvent{
			RunID:     runID,
			Completed: completed,
			Total:     total,
		}})
	}

	s.log.Debug("websocket run started", zap.String("run_id", runID))
	res, err := s.engine.RunMonteCarlo(ctx, req.Params, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Debug("websocket run cancelled", zap.String("run_id", runID))
			return
		}
		msg := err.Error()
		if !errors.Is(err, models.ErrInvalidParameter) {
			s.log.Error("websocket run failed", zap.String("run_id", runID), zap.Error(err))
			msg = "internal error"
		}
		client.deliver(WSMessage{Type: msgError, Data: ErrorEvent{RunID: runID, Error: msg}})
		return
	}

	s.metrics.iterations.Add(float64(res.Iterations))
	client.deliver(WSMessage{Type: msgResult, Data: ResultEvent{RunID: runID, Result: res}})
}

// wsWritePump writes queued messages and keepalive pings to the connection.
func (s *Server) wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-client.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				client.close()
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.close()
				return
			}
		}
	}
}
