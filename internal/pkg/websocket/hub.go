package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind distinguishes toasts from list refresh signals
type Kind string

const (
	KindToast   Kind = "toast"
	KindRefresh Kind = "refresh"
)

// Variant is the visual flavour of a toast
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// RefreshTopic is the title carried by refresh notifications
const RefreshTopic = "events.refresh"

// Notification is the JSON document pushed to connected clients
type Notification struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SuccessToast builds a success toast
func SuccessToast(title, description string) Notification {
	return Notification{Kind: KindToast, Title: title, Description: description, Variant: VariantSuccess}
}

// ErrorToast builds an error toast
func ErrorToast(title, description string) Notification {
	return Notification{Kind: KindToast, Title: title, Description: description, Variant: VariantDestructive}
}

// Refresh tells every client to reload the event list
func Refresh() Notification {
	return Notification{Kind: KindRefresh, Title: RefreshTopic}
}

// delivery targets one user, or everybody when userID is empty
type delivery struct {
	userID       string
	notification Notification
}

// Hub maintains the set of active clients keyed by user and delivers notifications to them
type Hub struct {
	// Registered clients organized by user ID; a user may have several tabs open
	clients map[string]map[*Client]bool

	deliveries chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		deliveries: make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug().Str("userID", client.userID).Msg("Notification client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops the client and closes its send channel; h.mu must be held
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug().Str("userID", client.userID).Msg("Notification client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

func (h *Hub) deliver(d delivery) {
	data, err := json.Marshal(d.notification)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal notification")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	if d.userID == "" {
		for _, clients := range h.clients {
			for client := range clients {
				targets = append(targets, client)
			}
		}
	} else {
		for client := range h.clients[d.userID] {
			targets = append(targets, client)
		}
	}

	for _, client := range targets {
		select {
		case client.send <- data:
		default:
			// slow consumer, drop it
			h.removeLocked(client)
		}
	}
}

func (h *Hub) enqueue(d delivery) {
	if d.notification.Timestamp.IsZero() {
		d.notification.Timestamp = time.Now().UTC()
	}
	select {
	case h.deliveries <- d:
	default:
		h.logger.Warn().Str("userID", d.userID).Str("title", d.notification.Title).Msg("Notification queue full, dropping")
	}
}

// SendToUser queues a notification for every connection of one user
func (h *Hub) SendToUser(userID string, n Notification) {
	if userID == "" {
		return
	}
	h.enqueue(delivery{userID: userID, notification: n})
}

// Broadcast queues a notification for every connected client
func (h *Hub) Broadcast(n Notification) {
	h.enqueue(delivery{notification: n})
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
