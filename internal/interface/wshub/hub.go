package wshub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// MessageTypeScheduleReplaced carries a full replacement flight set for
	// one date. Each emission supersedes the previous one entirely.
	MessageTypeScheduleReplaced MessageType = "schedule_replaced"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType     `json:"type"`
	Date      string          `json:"date"`
	Flights   []entity.Flight `json:"flights"`
	Timestamp int64           `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client represents one dashboard subscribed to a date's baseline feed
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	date string
}

// Hub manages baseline-feed subscriptions per date and re-reads the
// persisted schedule whenever the flights collection changes
type Hub struct {
	flightRepo repository.FlightRepository
	logger     logger.Logger
	metrics    *metrics.Metrics

	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(flightRepo repository.FlightRepository, m *metrics.Metrics, logger logger.Logger) *Hub {
	return &Hub{
		flightRepo: flightRepo,
		logger:     logger,
		metrics:    m,
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.date] == nil {
				h.clients[client.date] = make(map[*Client]bool)
			}
			h.clients[client.date][client] = true
			h.mu.Unlock()
			h.logger.Debug("Feed client registered", "date", client.date)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.date]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.date)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal feed message", "error", err)
				continue
			}

			h.mu.RLock()
			clients := h.clients[message.Date]
			h.mu.RUnlock()

			h.metrics.FeedBroadcasts.Inc()
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients[message.Date], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// WatchBaseline subscribes to flight-collection change ticks and rebroadcasts
// the full replacement set for every date with at least one subscriber
func (h *Hub) WatchBaseline(ctx context.Context) error {
	ticks, err := h.flightRepo.WatchChanges(ctx)
	if err != nil {
		return err
	}

	go func() {
		for range ticks {
			for _, date := range h.subscribedDates() {
				flights, err := h.flightRepo.FindByDate(ctx, date)
				if err != nil {
					h.logger.Error("Baseline re-read failed", "date", date, "error", err)
					h.metrics.ErrorsCount.WithLabelValues("feed_reread").Inc()
					continue
				}
				h.BroadcastSchedule(date, flights)
			}
		}
	}()
	return nil
}

func (h *Hub) subscribedDates() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dates := make([]string, 0, len(h.clients))
	for date := range h.clients {
		dates = append(dates, date)
	}
	return dates
}

// BroadcastSchedule pushes a full replacement set for a date to its
// subscribers
func (h *Hub) BroadcastSchedule(date string, flights []entity.Flight) {
	h.broadcast <- &Message{
		Type:      MessageTypeScheduleReplaced,
		Date:      date,
		Flights:   flights,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ServeWS upgrades an HTTP request to a feed subscription. The date comes
// from the "date" query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing date", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
		date: date,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()

	// Send the current baseline to this client only, so the dashboard does
	// not wait for the first change and existing subscribers see no echo
	flights, err := h.flightRepo.FindByDate(r.Context(), date)
	if err != nil {
		h.logger.Error("Initial baseline read failed", "date", date, "error", err)
		return
	}
	data, err := json.Marshal(&Message{
		Type:      MessageTypeScheduleReplaced,
		Date:      date,
		Flights:   flights,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	client.send <- data
}

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
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
