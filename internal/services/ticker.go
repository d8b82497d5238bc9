package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/duration"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/sse"
	"github.com/retroclock/retroclock-backend/internal/types"
)

// ElapsedTicker recomputes the displayed elapsed seconds for every running
// worklog once per second and broadcasts it to watching SSE clients. Pure
// derivation; it never writes to storage. Paused worklogs get no ticks, so
// the client display stays frozen at the pause point.
type ElapsedTicker struct {
	log         *logger.Logger
	hub         *sse.SSEHub
	worklogRepo repos.WorklogRepo

	mu     sync.Mutex
	active map[uuid.UUID]*types.Worklog
	cancel context.CancelFunc
	nowMs  func() int64
}

func NewElapsedTicker(log *logger.Logger, hub *sse.SSEHub, worklogRepo repos.WorklogRepo, watcher *WorklogWatcher) *ElapsedTicker {
	t := &ElapsedTicker{
		log:         log.With("service", "ElapsedTicker"),
		hub:         hub,
		worklogRepo: worklogRepo,
		active:      make(map[uuid.UUID]*types.Worklog),
		nowMs:       func() int64 { return time.Now().UnixMilli() },
	}
	watcher.AddListener(t.onTransition)
	return t
}

// Start seeds the active set from storage (sessions that survived a restart)
// and begins ticking. Restartable after Stop.
func (t *ElapsedTicker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	tickCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.mu.Unlock()

	records, err := t.worklogRepo.ListActive(ctx, nil)
	if err != nil {
		t.log.Warn("Could not seed active worklogs", "error", err)
	} else {
		t.mu.Lock()
		for _, r := range records {
			t.active[r.UserID] = r
		}
		t.mu.Unlock()
	}

	go t.run(tickCtx)
}

func (t *ElapsedTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *ElapsedTicker) onTransition(userID uuid.UUID, record *types.Worklog) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if record != nil && record.IsActive() {
		t.active[userID] = record
	} else {
		delete(t.active, userID)
	}
}

func (t *ElapsedTicker) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *ElapsedTicker) tick() {
	now := t.nowMs()

	t.mu.Lock()
	running := make([]*types.Worklog, 0, len(t.active))
	for _, r := range t.active {
		if r.Status == types.WorklogRunning {
			running = append(running, r)
		}
	}
	t.mu.Unlock()

	for _, r := range running {
		channel := sse.TimerChannel(r.UserID)
		if !t.hub.HasSubscribers(channel) {
			continue
		}
		elapsed := duration.ElapsedWhileRunning(now, r.StartTime, r.TotalPausedTime)
		t.hub.Broadcast(sse.SSEMessage{
			Channel: channel,
			Event:   sse.SSEEventTimerTick,
			Data: map[string]any{
				"worklog_id":      r.ID,
				"elapsed_seconds": elapsed,
				"display":         duration.FormatClock(elapsed),
			},
		})
	}
}
