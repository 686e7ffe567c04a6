// Package broadcast fans drawn numbers out to live feed subscribers.
package broadcast

import (
	"context"
	"sync"

	"github.com/riskibarqy/housie/internal/domain/announce"
	"github.com/riskibarqy/housie/internal/platform/logging"
)

const DefaultBuffer = 32

type subscriber struct {
	ch   chan announce.Draw
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub keeps per-game subscriber sets. A subscriber whose buffer is full is
// dropped so a draw never waits on a slow reader.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[uint64]*subscriber
	nextID uint64
	buffer int
	closed bool
	logger *logging.Logger
}

func NewHub(buffer int, logger *logging.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Hub{
		subs:   make(map[string]map[uint64]*subscriber),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers for draws of one game. The channel is closed when the
// cancel func runs, when the hub closes, or when the subscriber falls behind.
func (h *Hub) Subscribe(gameID string) (<-chan announce.Draw, func()) {
	sub := &subscriber{ch: make(chan announce.Draw, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	h.nextID++
	id := h.nextID
	set, ok := h.subs[gameID]
	if !ok {
		set = make(map[uint64]*subscriber)
		h.subs[gameID] = set
	}
	set[id] = sub
	h.mu.Unlock()

	return sub.ch, func() { h.remove(gameID, id) }
}

func (h *Hub) Publish(ctx context.Context, draw announce.Draw) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs[draw.GameID] {
		select {
		case sub.ch <- draw:
		default:
			delete(h.subs[draw.GameID], id)
			sub.close()
			h.logger.WarnContext(ctx, "feed subscriber dropped, buffer full", "game_id", draw.GameID)
		}
	}
	if len(h.subs[draw.GameID]) == 0 {
		delete(h.subs, draw.GameID)
	}

	return nil
}

// Subscribers reports how many feeds are attached to a game.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[gameID])
}

// Close ends every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for gameID, set := range h.subs {
		for _, sub := range set {
			sub.close()
		}
		delete(h.subs, gameID)
	}
}

func (h *Hub) remove(gameID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[gameID]
	if !ok {
		return
	}
	if sub, ok := set[id]; ok {
		delete(set, id)
		sub.close()
	}
	if len(set) == 0 {
		delete(h.subs, gameID)
	}
}
