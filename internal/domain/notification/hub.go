package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
)

// EventsChannel is the Redis channel every API instance fans events through.
const EventsChannel = "gracecourt:events"

const sendBufferSize = 64

// Event is what staff dashboards receive over the websocket.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

type envelope struct {
	Event            json.RawMessage `json:"event"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewConnection allocates the buffered send queue for a staff client.
func NewConnection(userID uuid.UUID, conn *websocket.Conn) *Connection {
	return &Connection{UserID: userID, Conn: conn, Send: make(chan []byte, sendBufferSize)}
}

// Hub keeps the staff connections of this instance and relays events
// published on any instance through Redis Pub/Sub.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	redis       *redis.Client
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	done       chan struct{}
	closeOnce  sync.Once

	instanceID string
	now        func() time.Time
}

// NewHub creates a hub. A nil redis client keeps delivery local.
func NewHub(redisClient *redis.Client) *Hub {
	return NewHubWithInstanceID(redisClient, uuid.NewString())
}

// NewHubWithInstanceID creates a hub with an explicit instance identifier.
func NewHubWithInstanceID(redisClient *redis.Client, instanceID string) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		done:        make(chan struct{}),
		instanceID:  instanceID,
		now:         time.Now,
	}
}

// Run serves registrations and remote events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	// nil channel blocks forever, so without Redis only local traffic flows
	var remote <-chan *redis.Message
	if h.redis != nil {
		pubsub := h.redis.Subscribe(ctx, EventsChannel)
		defer pubsub.Close()
		remote = pubsub.Channel()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			metrics.WSConnections.Inc()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("Staff connected to WebSocket")

		case conn := <-h.unregister:
			h.remove(conn)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("Staff disconnected from WebSocket")

		case msg, ok := <-remote:
			if !ok {
				remote = nil
				continue
			}
			h.handleRemote(msg.Payload)
		}
	}
}

func (h *Hub) remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.connections[conn.UserID]
	if !ok {
		return
	}
	if _, exists := conns[conn]; exists {
		delete(conns, conn)
		close(conn.Send)
		metrics.WSConnections.Dec()
	}
	if len(conns) == 0 {
		delete(h.connections, conn.UserID)
	}
}

func (h *Hub) shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for userID, conns := range h.connections {
			for conn := range conns {
				close(conn.Send)
				metrics.WSConnections.Dec()
			}
			delete(h.connections, userID)
		}
	})
}

// Register adds a connection. It is a no-op once the hub has stopped.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish delivers an event to local connections and, when Redis is
// configured, to every other instance.
func (h *Hub) Publish(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: h.now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal event")
		return
	}

	h.broadcastLocal(data)

	if h.redis == nil {
		return
	}
	msg, err := json.Marshal(envelope{Event: data, SenderInstanceID: h.instanceID})
	if err != nil {
		return
	}
	if err := h.redis.Publish(ctx, EventsChannel, msg).Err(); err != nil {
		log.Error().Err(err).Str("channel", EventsChannel).Msg("Redis publish failed")
	}
}

func (h *Hub) handleRemote(payload string) {
	var msg envelope
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return
	}
	if msg.SenderInstanceID == h.instanceID || len(msg.Event) == 0 {
		return
	}
	h.broadcastLocal(msg.Event)
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, conns := range h.connections {
		for conn := range conns {
			select {
			case conn.Send <- data:
			default:
				metrics.WSEventsDroppedTotal.Inc()
				log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
			}
		}
	}
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}
