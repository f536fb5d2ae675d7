package game

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"
)

const DefaultRoomID = "default"

// Room hosts one match and the goroutine that drives it.
type Room struct {
	ID      string
	Engine  *Engine
	Created time.Time

	runner  *Runner
	cancel  context.CancelFunc
	clients int
	seat    string // connection commanding the human faction
	Mu      sync.Mutex
}

func newRoom(id string, cfg Config, params Params, rng Rand) *Room {
	e := NewEngine(cfg, params, rng)
	return &Room{
		ID:      id,
		Engine:  e,
		Created: time.Now(),
		runner:  NewRunner(e),
	}
}

func (r *Room) start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.runner.Run(ctx)
}

func (r *Room) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Room) Clients() int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.clients
}

// Leave drops one client and returns how many remain.
func (r *Room) Leave() int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.clients > 0 {
		r.clients--
	}
	return r.clients
}

// ClaimSeat gives connID the commanding seat if nobody holds it.
func (r *Room) ClaimSeat(connID string) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.seat == "" {
		r.seat = connID
	}
	return r.seat == connID
}

func (r *Room) ReleaseSeat(connID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.seat == connID {
		r.seat = ""
	}
}

type Hub struct {
	Rooms  map[string]*Room
	Mu     sync.Mutex
	params Params
	// NewRand seeds each new room; nil uses the clock.
	NewRand func() Rand
}

func NewHub(params Params) *Hub {
	return &Hub{Rooms: map[string]*Room{}, params: SanitizeParams(params)}
}

func normalizeRoomID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultRoomID
	}
	return id
}

func (h *Hub) getRoomLocked(id string, cfg Config) *Room {
	r, ok := h.Rooms[id]
	if !ok {
		var rng Rand
		if h.NewRand != nil {
			rng = h.NewRand()
		}
		r = newRoom(id, cfg, h.params, rng)
		r.start()
		h.Rooms[id] = r
		log.Printf("room %s created", id)
	}
	return r
}

// JoinRoom returns the room with the given id, creating and starting it with
// cfg when it does not exist yet, and registers one client. Both happen under
// the hub lock so a concurrent cleanup cannot reap the room in between.
func (h *Hub) JoinRoom(id string, cfg Config) *Room {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r := h.getRoomLocked(normalizeRoomID(id), cfg)
	r.Mu.Lock()
	r.clients++
	r.Mu.Unlock()
	return r
}

func (h *Hub) Lookup(id string) (*Room, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r, ok := h.Rooms[normalizeRoomID(id)]
	return r, ok
}

func (h *Hub) RoomIDs() []string {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	ids := make([]string, 0, len(h.Rooms))
	for id := range h.Rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CleanupEmptyRooms stops and removes every room without clients.
func (h *Hub) CleanupEmptyRooms() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	removed := 0
	for id, r := range h.Rooms {
		if r.Clients() > 0 {
			continue
		}
		r.stop()
		delete(h.Rooms, id)
		removed++
		log.Printf("room %s removed (empty)", id)
	}
	return removed
}

// Close stops and removes every room.
func (h *Hub) Close() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, r := range h.Rooms {
		r.stop()
		delete(h.Rooms, id)
	}
}
