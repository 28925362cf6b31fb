package Realtime

import (
	"log"
	"sync"
	"time"

	"Aegis/Models"
	"Aegis/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// Session is the slice of a websocket connection the hub needs. It is
// an interface so tests can subscribe fakes.
type Session interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

const (
	// sendBuffer is how many pending payloads a session may lag behind
	// before it is evicted.
	sendBuffer = 16
	// writeTimeout bounds a single frame write to a peer.
	writeTimeout = 5 * time.Second
)

// subscriber pairs a session with its send queue. All writes happen on
// the subscriber's own writer goroutine so a stalled peer can never
// block Publish or the request that called it.
type subscriber struct {
	session Session
	send    chan interface{}
	once    sync.Once
	quit    chan struct{}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.quit) })
}

// Hub groups connected sessions into one room per role and pushes
// notification payloads to them. Delivery is best effort: sessions not
// connected at publish time catch up through the notification ledger.
type Hub struct {
	mu    sync.Mutex
	rooms map[Models.Role]map[Session]*subscriber
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[Models.Role]map[Session]*subscriber)}
}

// Join subscribes a session to its role's room and starts its writer.
// A session belongs to exactly one room, chosen from the authenticated
// role claim.
func (h *Hub) Join(role Models.Role, s Session) {
	sub := &subscriber{
		session: s,
		send:    make(chan interface{}, sendBuffer),
		quit:    make(chan struct{}),
	}

	h.mu.Lock()
	room := h.rooms[role]
	if room == nil {
		room = make(map[Session]*subscriber)
		h.rooms[role] = room
	}
	room[s] = sub
	h.mu.Unlock()

	go h.writeLoop(role, sub)
}

// Leave drops a session from its room and stops its writer.
func (h *Hub) Leave(role Models.Role, s Session) {
	h.mu.Lock()
	sub := h.rooms[role][s]
	delete(h.rooms[role], s)
	h.mu.Unlock()
	if sub != nil {
		sub.stop()
	}
}

// Publish queues payload for every session currently in the role's
// room, in call order, and returns without waiting on any peer.
// Sessions whose queue is full are evicted; the durable ledger is
// authoritative, so a dropped event is only a missed push.
func (h *Hub) Publish(role Models.Role, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s, sub := range h.rooms[role] {
		select {
		case sub.send <- payload:
		default:
			log.Printf("realtime %s session lagging, evicting", role)
			delete(h.rooms[role], s)
			sub.stop()
		}
	}
}

// Count returns how many sessions are subscribed to a role's room.
func (h *Hub) Count(role Models.Role) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[role])
}

// writeLoop drains one subscriber's queue. Each write carries a
// deadline, and any failure evicts the session.
func (h *Hub) writeLoop(role Models.Role, sub *subscriber) {
	defer sub.session.Close()
	for {
		select {
		case payload := <-sub.send:
			if err := sub.session.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Printf("realtime %s session deadline failed: %v", role, err)
				h.Leave(role, sub.session)
				return
			}
			if err := sub.session.WriteJSON(payload); err != nil {
				log.Printf("realtime publish to %s session failed: %v", role, err)
				h.Leave(role, sub.session)
				return
			}
		case <-sub.quit:
			return
		}
	}
}

// Upgrade gates the websocket route, rejecting plain HTTP requests.
func Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler returns the websocket endpoint. The connection joins the
// room of the authenticated user's role and stays subscribed until the
// peer disconnects; inbound frames are drained and ignored.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals("user").(Models.User)
		if !ok {
			conn.Close()
			return
		}
		role := user.Role

		h.Join(role, conn)
		defer h.Leave(role, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}

// Routes mounts the websocket endpoint behind jwt auth.
func (h *Hub) Routes(api fiber.Router, db *gorm.DB) {
	api.Get("/ws", Upgrade(), middleware.Verify(db), h.Handler())
}
