package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/types"
)

// WorklogWatcher is the push side of the active-worklog subscription: every
// state transition (local or forwarded from another instance) is delivered to
// the observers of that user. Observers receive the latest record; a record
// that is no longer active tells them the slot is empty.
type WorklogWatcher struct {
	mu        sync.RWMutex
	log       *logger.Logger
	observers map[uuid.UUID]map[chan *types.Worklog]struct{}
	listeners []func(userID uuid.UUID, record *types.Worklog)
}

func NewWorklogWatcher(log *logger.Logger) *WorklogWatcher {
	return &WorklogWatcher{
		log:       log.With("component", "WorklogWatcher"),
		observers: make(map[uuid.UUID]map[chan *types.Worklog]struct{}),
	}
}

// Observe registers a channel receiving every subsequent transition for the
// user. The returned cancel func must be called when done; the channel is
// also torn down when ctx ends.
func (w *WorklogWatcher) Observe(ctx context.Context, userID uuid.UUID) (<-chan *types.Worklog, func()) {
	ch := make(chan *types.Worklog, 8)

	w.mu.Lock()
	set, ok := w.observers[userID]
	if !ok {
		set = make(map[chan *types.Worklog]struct{})
		w.observers[userID] = set
	}
	set[ch] = struct{}{}
	w.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			if set, ok := w.observers[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(w.observers, userID)
				}
			}
			w.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

// Notify pushes the latest record state to all observers of its user. A full
// observer buffer drops the intermediate state; the next transition supersedes
// it anyway.
func (w *WorklogWatcher) Notify(userID uuid.UUID, record *types.Worklog) {
	w.mu.RLock()
	listeners := w.listeners
	for ch := range w.observers[userID] {
		select {
		case ch <- record:
		default:
			w.log.Warn("Dropping worklog observation; observer buffer full", "user_id", userID)
		}
	}
	w.mu.RUnlock()

	for _, fn := range listeners {
		fn(userID, record)
	}
}

// AddListener registers a global transition callback (the elapsed ticker).
// Not safe to call after observers start notifying concurrently; wire at
// startup.
func (w *WorklogWatcher) AddListener(fn func(userID uuid.UUID, record *types.Worklog)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

// DecodeWorklog rebuilds a worklog from an SSE payload that went through a
// JSON round-trip on the redis bus.
func DecodeWorklog(data any) (*types.Worklog, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var w types.Worklog
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}
