package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/cart"
	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/metrics"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/session"
	"github.com/vyrodovalexey/zuice-storefront/internal/ui"
	"github.com/vyrodovalexey/zuice-storefront/internal/user"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	outboxSize     = 32
	closeGrace     = time.Second
)

// SessionQueryParam names the session of a WebSocket connection. Browsers
// cannot set headers on the upgrade request.
const SessionQueryParam = "session"

// Sessions resolves session IDs to live sessions.
type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Open(ctx context.Context, id string) (*session.Session, error)
}

// client is one WebSocket connection bound to a session.
type client struct {
	conn    *websocket.Conn
	session *session.Session
	outbox  chan model.WebSocketMessage
	cancel  context.CancelFunc
	done    chan struct{} // closed when the write pump exits
}

// WebSocketHandler pushes session state changes to connected browsers and
// answers chat messages.
type WebSocketHandler struct {
	upgrader  websocket.Upgrader
	sessions  Sessions
	assistant *Assistant
	logger    *zap.Logger
	mu        sync.RWMutex
	clients   map[*websocket.Conn]*client
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(sessions Sessions, assistant *Assistant, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // CORS policy is enforced by the HTTP middleware
			},
		},
		sessions:  sessions,
		assistant: assistant,
		logger:    logger,
		clients:   make(map[*websocket.Conn]*client),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.HandleWebSocket).Methods(http.MethodGet)
}

// HandleWebSocket upgrades the connection and binds it to the session named
// by the session query parameter, creating one when it is absent.
//
//nolint:contextcheck // intentional: WebSocket connections outlive the HTTP request context
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s, err := h.openSession(r)
	if errors.Is(err, session.ErrInvalidID) {
		responder{logger: h.logger}.writeError(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	if err != nil {
		h.logger.Error("failed to open session", zap.Error(err))
		responder{logger: h.logger}.writeError(w, http.StatusServiceUnavailable, "session unavailable")
		return
	}

	header := http.Header{}
	header.Set("X-Session-ID", s.ID)
	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	// The request context ends when this handler returns.
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		conn:    conn,
		session: s,
		outbox:  make(chan model.WebSocketMessage, outboxSize),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()

	metrics.WebSocketConnected()
	h.logger.Info("websocket client connected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
		zap.String("session_id", s.ID),
	)

	release := s.Hold()
	unsubscribe := h.subscribe(c)
	h.sendSnapshot(c)

	go h.writePump(ctx, c)
	go h.readPump(ctx, c, func() {
		unsubscribe()
		release()
	})
}

func (h *WebSocketHandler) openSession(r *http.Request) (*session.Session, error) {
	if id := r.URL.Query().Get(SessionQueryParam); id != "" {
		return h.sessions.Open(r.Context(), id)
	}
	return h.sessions.Create(r.Context())
}

// subscribe forwards store changes of the client's session to its outbox.
func (h *WebSocketHandler) subscribe(c *client) (unsubscribe func()) {
	unsubs := []func(){
		c.session.Cart.Subscribe(func(st cart.State) {
			h.push(c, model.WSMessageTypeCart, newCartResponse(st))
		}),
		c.session.User.Subscribe(func(st user.State) {
			h.push(c, model.WSMessageTypeUser, st)
		}),
		c.session.UI.Subscribe(func(st ui.State) {
			h.push(c, model.WSMessageTypeUI, st)
		}),
		c.session.Catalog.Subscribe(func(st catalog.State) {
			h.push(c, model.WSMessageTypeCatalog, st)
		}),
	}
	return func() {
		for _, fn := range unsubs {
			fn()
		}
	}
}

// sendSnapshot queues the current state so the client starts in sync.
func (h *WebSocketHandler) sendSnapshot(c *client) {
	h.push(c, model.WSMessageTypeCart, newCartResponse(c.session.Cart.State()))
	h.push(c, model.WSMessageTypeUser, c.session.User.State())
	h.push(c, model.WSMessageTypeUI, c.session.UI.State())
}

// push queues a state event without blocking the mutating caller. When the
// outbox is full the event is dropped; a later event carries the full
// state again.
func (h *WebSocketHandler) push(c *client, msgType string, payload any) {
	msg, err := model.NewEventMessage(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", msgType), zap.Error(err))
		return
	}

	select {
	case c.outbox <- msg:
	default:
		h.logger.Debug("websocket outbox full, dropping event",
			zap.String("session_id", c.session.ID),
			zap.String("type", msgType),
		)
	}
}

// reply queues a direct answer to the client, waiting for room unless the
// connection is going away.
func (h *WebSocketHandler) reply(ctx context.Context, c *client, msg model.WebSocketMessage) {
	select {
	case c.outbox <- msg:
	case <-ctx.Done():
	}
}

// readPump handles incoming messages from the WebSocket connection.
func (h *WebSocketHandler) readPump(ctx context.Context, c *client, cleanup func()) {
	defer func() {
		cleanup()
		c.cancel()
		h.removeClient(c.conn)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Error("failed to set read deadline", zap.Error(err))
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg model.WebSocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(ctx, c, model.NewErrorMessage("invalid message"))
			continue
		}
		h.handleMessage(ctx, c, msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *client, msg model.WebSocketMessage) {
	switch msg.Type {
	case model.WSMessageTypeChat:
		turn, err := h.assistant.Ask(c.session.Chat, msg.Text, msg.Strategy)
		if err != nil {
			h.reply(ctx, c, model.NewErrorMessage(err.Error()))
			return
		}
		out, err := model.NewEventMessage(model.WSMessageTypeChatReply, turn)
		if err != nil {
			h.logger.Error("failed to encode chat reply", zap.Error(err))
			return
		}
		out.Text = turn.Answer.Text
		out.Strategy = turn.Strategy
		h.reply(ctx, c, out)
	case model.WSMessageTypePing:
		h.reply(ctx, c, model.WebSocketMessage{Type: model.WSMessageTypePong, Timestamp: time.Now().UTC()})
	default:
		h.reply(ctx, c, model.NewErrorMessage("unsupported message type: "+msg.Type))
	}
}

// writePump is the only writer of the connection. It stops when the client
// leaves, the session ends or the server shuts down, and cancels the client
// so a reply waiting on a full outbox gives up.
func (h *WebSocketHandler) writePump(ctx context.Context, c *client) {
	pingTicker := time.NewTicker(pingPeriod)

	defer func() {
		pingTicker.Stop()
		c.cancel()
		if err := c.conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			h.sendCloseMessage(c.conn, "server shutting down")
			return
		case <-c.session.Done():
			h.sendCloseMessage(c.conn, "session ended")
			return
		case msg := <-c.outbox:
			if err := h.send(c.conn, msg); err != nil {
				h.logger.Debug("failed to send message", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			if err := h.sendPing(c.conn); err != nil {
				h.logger.Debug("failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg model.WebSocketMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// sendPing sends a ping message to the connection.
func (h *WebSocketHandler) sendPing(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.PingMessage, nil)
}

// sendCloseMessage sends a close message to the connection.
func (h *WebSocketHandler) sendCloseMessage(conn *websocket.Conn, reason string) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Debug("failed to set write deadline for close", zap.Error(err))
		return
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		h.logger.Debug("failed to send close message", zap.Error(err))
	}
}

// removeClient removes a client from the clients map.
func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[conn]; exists {
		delete(h.clients, conn)
		metrics.WebSocketDisconnected()
		h.logger.Info("websocket client disconnected", zap.String("remote_addr", conn.RemoteAddr().String()))
	}
}

// Len returns the number of connected clients.
func (h *WebSocketHandler) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAllConnections sends a close frame to every client and waits briefly
// for the write pumps to finish.
func (h *WebSocketHandler) CloseAllConnections() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.cancel()
	}

	deadline := time.After(closeGrace)
	for _, c := range clients {
		select {
		case <-c.done:
		case <-deadline:
			h.logger.Warn("timed out waiting for websocket clients to close")
			return
		}
	}

	h.logger.Info("all websocket connections closed")
}
