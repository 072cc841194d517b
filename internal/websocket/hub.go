package websocket

import (
	"encoding/json"
	"sync"

	"github.com/reviewpop/reviewpop-backend/pkg/logger"
)

// Client is one dashboard session. A business owner may have several
// open at once; each gets its own Client.
type Client struct {
	Hub        *Hub
	Conn       *Conn
	BusinessID uint
	Send       chan []byte
}

// Hub fans review events out to the dashboard sessions of the business
// they belong to. Delivery is best-effort: a slow session gets dropped,
// a full broadcast queue drops the event.
type Hub struct {
	clients map[uint][]*Client // BusinessID -> sessions

	register   chan *Client
	unregister chan *Client
	broadcast  chan *event

	mu sync.RWMutex
}

type event struct {
	BusinessID uint
	Payload    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *event, 256),
	}
}

// Run processes registrations and broadcasts. Call it once, in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.BusinessID] = append(h.clients[client.BusinessID], client)
			sessions := len(h.clients[client.BusinessID])
			h.mu.Unlock()
			logger.Info("Dashboard session connected", map[string]interface{}{
				"business_id":    client.BusinessID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if sessions, ok := h.clients[client.BusinessID]; ok {
				remaining := make([]*Client, 0, len(sessions))
				for _, c := range sessions {
					if c != client {
						remaining = append(remaining, c)
					}
				}
				if len(remaining) == 0 {
					delete(h.clients, client.BusinessID)
				} else {
					h.clients[client.BusinessID] = remaining
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Dashboard session disconnected", map[string]interface{}{
				"business_id": client.BusinessID,
			})

		case ev := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[ev.BusinessID] {
				select {
				case client.Send <- ev.Payload:
				default:
					go h.Unregister(client)
					logger.Warn("Dashboard session send buffer full, disconnecting", map[string]interface{}{
						"business_id": ev.BusinessID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a message for every dashboard session of a
// business. Loss is acceptable: the dashboard refetches on load.
func (h *Hub) Broadcast(businessID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal dashboard event", err, nil)
		return err
	}

	select {
	case h.broadcast <- &event{BusinessID: businessID, Payload: data}:
		return nil
	default:
		logger.Warn("Dashboard broadcast queue full, event dropped", map[string]interface{}{
			"business_id": businessID,
		})
		return nil
	}
}

// HasSessions reports whether any dashboard session is connected for
// the business.
func (h *Hub) HasSessions(businessID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[businessID]
	return ok
}
