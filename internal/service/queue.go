package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// ProcessFunc handles one admitted message. Errors are reported, never
// allowed to stall the room's queue.
type ProcessFunc func(ctx context.Context, msg *domain.InboundMessage) error

// RoomQueue admits messages and processes them strictly in arrival order
// per room, while unrelated rooms proceed concurrently.
//
// State machine per room: Idle -> Processing -> Idle. A worker goroutine is
// spun up lazily when an idle room receives a message and exits once its
// pending sequence drains. At most one worker per room exists at any time.
type RoomQueue struct {
	mu      sync.Mutex
	rooms   map[string]*roomState
	process ProcessFunc
	wg      sync.WaitGroup
}

type roomState struct {
	pending    []*domain.InboundMessage
	processing bool
}

// NewRoomQueue creates a room queue
func NewRoomQueue(process ProcessFunc) *RoomQueue {
	return &RoomQueue{
		rooms:   make(map[string]*roomState),
		process: process,
	}
}

// Enqueue admits a message for its room. Returns immediately; processing
// happens on the room's worker.
func (q *RoomQueue) Enqueue(msg *domain.InboundMessage) {
	q.mu.Lock()
	st, ok := q.rooms[msg.RoomID]
	if !ok {
		st = &roomState{}
		q.rooms[msg.RoomID] = st
	}
	st.pending = append(st.pending, msg)
	startWorker := !st.processing
	if startWorker {
		st.processing = true
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if startWorker {
		go q.worker(msg.RoomID)
	}
}

// Wait blocks until every room's worker has drained. Used on shutdown and
// in tests.
func (q *RoomQueue) Wait() {
	q.wg.Wait()
}

func (q *RoomQueue) worker(roomID string) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		st := q.rooms[roomID]
		if len(st.pending) == 0 {
			st.processing = false
			q.mu.Unlock()
			return
		}
		msg := st.pending[0]
		st.pending = st.pending[1:]
		q.mu.Unlock()

		// A failure is contained to this message; the worker moves on
		if err := q.process(context.Background(), msg); err != nil {
			fmt.Printf("[Queue] Processing error in room %s: %v\n", roomID, err)
		}
	}
}
