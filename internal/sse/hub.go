package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
)

type Event string

const (
	EventEntryCreated Event = "EntryCreated"
	EventEntryUpdated Event = "EntryUpdated"
	EventEntryDeleted Event = "EntryDeleted"
)

// ChannelDictionary carries every entry change. Messages hold ids only;
// consumers re-fetch the list they care about.
const ChannelDictionary = "dictionary"

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	EntryID string `json:"entry_id,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message
	done     chan struct{}
}

func (c *Client) Done() <-chan struct{} { return c.done }

type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Subscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, exists := h.subscriptions[channel]
	if !exists {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[client] = true

	h.log.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, clients := range h.subscriptions {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.subscriptions, channel)
			}
		}
	}

	select {
	case <-client.done:
	default:
		close(client.done)
	}
	h.log.Debug("SSE client removed", "clientID", client.ID)
}

// Broadcast delivers msg to every subscriber of its channel. Clients that
// cannot keep up are dropped rather than blocking the caller.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subscriptions[msg.Channel]))
	for client := range h.subscriptions[msg.Channel] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Outbound <- msg:
		default:
			h.log.Warn("SSE client too slow, dropping", "clientID", client.ID)
			h.Remove(client)
		}
	}
}
