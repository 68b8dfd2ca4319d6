package usecase

import (
	"sync"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// Memory holds per-room sliding-window conversation history.
//
// All data is in-memory and lost on restart; that is a documented
// consistency relaxation, not a bug. Histories are created lazily on first
// append. Recent returns a snapshot so a consistent view survives a
// concurrent append for a different room.
type Memory struct {
	mu     sync.Mutex
	rooms  map[string]*domain.History
	window int
}

// NewMemory creates a memory store with the given window size per room
func NewMemory(window int) *Memory {
	if window <= 0 {
		window = domain.DefaultHistoryWindow
	}
	return &Memory{
		rooms:  make(map[string]*domain.History),
		window: window,
	}
}

// Append adds a turn to a room's history, evicting the oldest at the window
func (m *Memory) Append(roomID string, turn domain.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.rooms[roomID]
	if !ok {
		h = domain.NewHistory(m.window)
		m.rooms[roomID] = h
	}
	h.Append(turn)
}

// Recent returns a copy of a room's history, oldest first.
// Empty slice when the room has none.
func (m *Memory) Recent(roomID string) []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return h.Turns()
}

// Clear drops a room's history
func (m *Memory) Clear(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
}
