package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru"
	"github.com/leafchain/leafchain-api/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// How many recent market events a newly connected client is replayed
	replayEvents = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins (for development)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and pushes market events to them.
// New clients get a replay of the most recent events before live traffic.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound market events
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Recent events kept for replay, keyed by sequence number
	recent    *lru.Cache
	nextSeq   uint64
	replaySeq []uint64
}

// NewHub creates a new hub
func NewHub() *Hub {
	recent, _ := lru.New(replayEvents)
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		recent:     recent,
	}
}

// Publish implements services.Publisher. Safe to call from request
// goroutines; a full broadcast buffer drops the event for live clients
// rather than blocking the engine.
func (h *Hub) Publish(event models.MarketEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode market event", slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- message:
	default:
		slog.Warn("market event feed is backed up, dropping event",
			slog.String("type", string(event.Type)))
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.replay(client)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			h.remember(message)
			// Broadcast message to all clients
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// remember stores the event for replay to late subscribers. Only called
// from the hub goroutine.
func (h *Hub) remember(message []byte) {
	seq := h.nextSeq
	h.nextSeq++
	h.recent.Add(seq, message)
	h.replaySeq = append(h.replaySeq, seq)
	if len(h.replaySeq) > replayEvents {
		h.replaySeq = h.replaySeq[len(h.replaySeq)-replayEvents:]
	}
}

// replay sends the retained events to a freshly registered client, oldest
// first. Only called from the hub goroutine.
func (h *Hub) replay(client *Client) {
	for _, seq := range h.replaySeq {
		cached, ok := h.recent.Get(seq)
		if !ok {
			continue
		}
		select {
		case client.send <- cached.([]byte):
		default:
			return
		}
	}
}

// readPump drains the WebSocket connection. The market feed is one-way;
// client frames beyond ping/pong are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", slog.String("error", err.Error()))
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeMarketFeed handles websocket requests for the market event feed
func ServeMarketFeed(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("failed to upgrade websocket", slog.String("error", err.Error()))
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
