package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/blitzchess/relay-server/game/service"
)

// Inbound message types.
const (
	msgFindGame = "findGame"
	msgMove     = "move"
)

// Config controls transport behavior.
type Config struct {
	// AllowedOrigin is the origin permitted to open connections. Empty or
	// "*" allows any origin. Requests without an Origin header (non-browser
	// clients) are always allowed.
	AllowedOrigin string
}

// Hub maintains the set of connected players and the broadcast group of each
// live game. It implements service.Notifier.
type Hub struct {
	config  Config
	service service.GameService

	// games maps a game ID to the clients in its broadcast group.
	games map[string]map[*Client]bool

	// players maps a player ID to its connection.
	players map[string]*Client

	// Register/unregister requests from client goroutines.
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a hub. Call SetService before Run.
func NewHub(config Config) *Hub {
	return &Hub{
		config:     config,
		games:      make(map[string]map[*Client]bool),
		players:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetService wires the game service the hub routes inbound messages to.
// The hub and service reference each other, so one side is set after
// construction.
func (h *Hub) SetService(svc service.GameService) {
	h.service = svc
}

// Run processes connection lifecycle events. It must run in its own
// goroutine before the first connection is accepted.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			if h.removeClient(client) {
				h.service.HandleDisconnect(client.playerID)
			}
		}
	}
}

// ServeWS upgrades the request, assigns the connection a player ID, and
// starts its pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		playerID: uuid.NewString(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	h.sendEvent(client, "connected", connectedPayload{PlayerID: client.playerID})
}

// checkOrigin enforces the configured allowed origin.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.config.AllowedOrigin == "" || h.config.AllowedOrigin == "*" {
		return true
	}
	return origin == h.config.AllowedOrigin
}

// route dispatches one inbound envelope into the game service. Failures are
// reported to the originating client only; nothing here broadcasts.
func (h *Hub) route(c *Client, env Envelope) {
	ctx := context.Background()

	switch env.Type {
	case msgFindGame:
		if _, err := h.service.FindGame(ctx, c.playerID); err != nil {
			log.Printf("Error finding game for %s: %v", c.playerID, err)
			h.sendError(c, err)
		}

	case msgMove:
		var p movePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, err)
			return
		}
		req := service.MoveRequest{
			GameID:    p.GameID,
			PlayerID:  c.playerID,
			Color:     rules.Color(p.Color),
			From:      p.From,
			To:        p.To,
			Promotion: p.Promotion,
		}
		if _, err := h.service.SubmitMove(ctx, req); err != nil {
			h.sendError(c, err)
		}

	default:
		h.sendEvent(c, service.EventError, errorPayload{Message: "Unknown message type: " + env.Type})
	}
}

// errorMessage maps the service error taxonomy onto the user-visible strings.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return "Game not found"
	case errors.Is(err, service.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, service.ErrIllegalMove):
		return "Invalid move"
	case errors.Is(err, service.ErrMatchmakingFailed):
		return "Failed to find a game"
	default:
		return "Internal error"
	}
}

func (h *Hub) sendError(c *Client, err error) {
	h.sendEvent(c, service.EventError, errorPayload{Message: errorMessage(err)})
}

// sendEvent marshals and queues one envelope for a single client.
func (h *Hub) sendEvent(c *Client, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	h.mu.Lock()
	h.pushLocked(c, data)
	h.mu.Unlock()
}

// Join subscribes a player's connection to a game's broadcast group.
// Implements service.Notifier.
func (h *Hub) Join(gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.players[playerID]
	if !ok {
		return
	}
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*Client]bool)
	}
	h.games[gameID][c] = true
}

// ToPlayer sends an event to one player. Implements service.Notifier.
func (h *Hub) ToPlayer(playerID, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.players[playerID]; ok {
		h.pushLocked(c, data)
	}
}

// ToGame broadcasts an event to every connection in a game's group.
// Implements service.Notifier.
func (h *Hub) ToGame(gameID, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.games[gameID] {
		h.pushLocked(c, data)
	}
}

// CloseGame dissolves a game's broadcast group. The connections stay open;
// players may call findGame again.
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games, gameID)
}

// ClientCount returns the number of connected players.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.players)
}

// registerClient records a new connection.
func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.players[c.playerID] = c
	log.Printf("Player connected: %s (total: %d)", c.playerID, len(h.players))
}

// removeClient drops a connection from all hub state and reports whether it
// was still registered. The caller runs disconnect handling outside the lock
// to keep the service-then-hub lock order consistent.
func (h *Hub) removeClient(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.players[c.playerID] != c {
		return false
	}
	h.dropLocked(c)
	log.Printf("Player disconnected: %s (total: %d)", c.playerID, len(h.players))
	return true
}

// dropLocked removes the client from the player index and every game group
// and closes its send channel. h.mu must be held.
func (h *Hub) dropLocked(c *Client) {
	if h.players[c.playerID] == c {
		delete(h.players, c.playerID)
	}
	for gameID, room := range h.games {
		if room[c] {
			delete(room, c)
			if len(room) == 0 {
				delete(h.games, gameID)
			}
		}
	}
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// pushLocked queues data for one client. h.mu must be held. A client too
// slow to drain its buffer is scheduled for the normal unregister path so
// its session is torn down like any other disconnect.
func (h *Hub) pushLocked(c *Client, data []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		go func() { h.unregister <- c }()
	}
}

func marshalEvent(event string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Payload: raw})
}
