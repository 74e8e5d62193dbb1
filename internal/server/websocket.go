package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/conneroisu/appshell/internal/bindings"
	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/logging"
	"github.com/conneroisu/appshell/internal/types"
	"github.com/conneroisu/appshell/internal/validation"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed for the peer to answer a ping.
	pongWait = 10 * time.Second

	// Send pings to peer with this period. Reads carry no deadline, so an
	// idle browser stays connected as long as it answers pings.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Buffered outbound messages per client.
	sendBuffer = 64
)

// Message types of the websocket protocol.
const (
	MessageEvent  = "event"
	MessageUpdate = "update"
	MessageReload = "reload"
	MessageError  = "error"
)

// ClientMessage is a frame sent by the browser.
type ClientMessage struct {
	Type     string      `json:"type"`
	ID       string      `json:"id"`
	Property string      `json:"property"`
	Value    interface{} `json:"value"`
	Initial  bool        `json:"initial,omitempty"`
}

// ServerMessage is a frame sent to the browser.
type ServerMessage struct {
	Type     string      `json:"type"`
	Target   string      `json:"target,omitempty"`
	Property string      `json:"property,omitempty"`
	Value    interface{} `json:"value,omitempty"`
	Content  string      `json:"content,omitempty"`
}

// Event converts the frame to a binding event.
func (m ClientMessage) Event() (bindings.Event, error) {
	if m.Type != MessageEvent {
		return bindings.Event{}, shellerrors.NewValidationError(shellerrors.CodeInvalidEvent,
			fmt.Sprintf("unknown message type %q", m.Type))
	}
	if m.ID == "" || m.Property == "" {
		return bindings.Event{}, shellerrors.NewValidationError(shellerrors.CodeInvalidEvent,
			"event needs id and property")
	}

	return bindings.Event{
		Source:  types.Property{ID: m.ID, Name: m.Property},
		Value:   m.Value,
		Initial: m.Initial,
	}, nil
}

// Hub tracks connected clients and fans out broadcasts.
type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.RWMutex
	logger  logging.Logger
	metrics *Metrics
}

// NewHub creates an empty hub.
func NewHub(logger logging.Logger, metrics *Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Hub) register(client *Client) {
	h.mutex.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mutex.Unlock()

	h.metrics.Sessions.Inc()
	h.logger.Info(context.Background(), "Client connected", "session_id", client.session.ID, "clients", count)
}

func (h *Hub) unregister(client *Client) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	count := len(h.clients)
	h.mutex.Unlock()

	if ok {
		h.metrics.Sessions.Dec()
		h.logger.Info(context.Background(), "Client disconnected", "session_id", client.session.ID, "clients", count)
	}
}

// Broadcast queues msg for every client. Clients whose buffer is full are
// disconnected.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.mutex.RLock()
	var failed []*Client
	for client := range h.clients {
		if !client.enqueue(msg) {
			failed = append(failed, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range failed {
		client.close(websocket.StatusPolicyViolation, "send buffer full")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		client.close(websocket.StatusGoingAway, "server shutting down")
	}
}

// Client is one websocket connection and the binding session it drives.
type Client struct {
	conn      *websocket.Conn
	send      chan ServerMessage
	session   *bindings.Session
	hub       *Hub
	closeOnce sync.Once
	done      chan struct{}

	pingInterval time.Duration
	pongTimeout  time.Duration
}

func (c *Client) enqueue(msg ServerMessage) bool {
	select {
	case <-c.done:
		return true
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close(code, reason)
	})
}

// Emit implements bindings.Emitter.
func (c *Client) Emit(_ context.Context, update bindings.Update) error {
	msg := ServerMessage{
		Type:     MessageUpdate,
		Target:   update.Target.ID,
		Property: update.Target.Name,
		Value:    update.Value,
	}
	if !c.enqueue(msg) {
		return errors.New("client send buffer full")
	}

	return nil
}

// EmitError implements bindings.Emitter.
func (c *Client) EmitError(_ context.Context, err error) error {
	if !c.enqueue(ServerMessage{Type: MessageError, Content: err.Error()}) {
		return errors.New("client send buffer full")
	}

	return nil
}

func (s *ShellServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns(),
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn:    conn,
		send:    make(chan ServerMessage, sendBuffer),
		session: bindings.NewSession(s.registry, s.logger),
		hub:     s.hub,
		done:    make(chan struct{}),

		pingInterval: s.pingInterval,
		pongTimeout:  s.pongTimeout,
	}

	s.hub.register(client)
	defer s.hub.unregister(client)

	ctx, cancel := context.WithCancel(s.baseContext())
	defer cancel()

	events := make(chan bindings.Event, sendBuffer)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		client.writePump(ctx)
		cancel()
	}()
	go func() {
		defer wg.Done()
		if err := client.session.Run(ctx, events, client); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn(ctx, err, "Binding session ended", "session_id", client.session.ID)
		}
		cancel()
	}()

	s.readPump(ctx, client, events)
	close(events)
	cancel()
	wg.Wait()

	client.close(websocket.StatusNormalClosure, "")
}

// readPump decodes frames into binding events until the connection closes.
// Malformed frames are answered with an error message and skipped.
func (s *ShellServer) readPump(ctx context.Context, c *Client, events chan<- bindings.Event) {
	for {
		msgType, data, err := c.conn.Read(ctx)

		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.logger.Debug(ctx, "WebSocket read ended", "session_id", c.session.ID, "error", err.Error())
			}
			return
		}

		var msg ClientMessage
		if msgType != websocket.MessageText {
			err = shellerrors.NewValidationError(shellerrors.CodeInvalidEvent, "expected a text frame")
		} else if jsonErr := json.Unmarshal(data, &msg); jsonErr != nil {
			err = shellerrors.NewValidationError(shellerrors.CodeInvalidEvent, "malformed frame")
		}
		if err != nil {
			s.metrics.Events.WithLabelValues("malformed", "rejected").Inc()
			_ = c.EmitError(ctx, err)
			continue
		}

		event, err := msg.Event()
		if err != nil {
			s.metrics.Events.WithLabelValues("invalid", "rejected").Inc()
			_ = c.EmitError(ctx, err)
			continue
		}
		s.metrics.Events.WithLabelValues(event.Source.String(), "accepted").Inc()

		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
}

// writePump sends queued messages and keeps the connection alive with
// pings. A peer that stops answering ends the session.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case msg := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.pongTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// checkOrigin rejects requests without a parseable http(s) Origin header.
// Host matching is left to websocket.Accept.
func (s *ShellServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Scheme == "http" || originURL.Scheme == "https"
}

// originPatterns lists the cross-origin hosts accepted besides the
// request's own host.
func (s *ShellServer) originPatterns() []string {
	var patterns []string
	for _, origin := range s.config.Server.AllowedOrigins {
		if host := validation.OriginHost(origin); host != "" {
			patterns = append(patterns, host)
		}
	}
	if !s.config.Server.IsProduction() {
		patterns = append(patterns, "localhost:*", "127.0.0.1:*")
	}

	return patterns
}
