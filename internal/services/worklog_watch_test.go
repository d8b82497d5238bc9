package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/types"
)

func TestWorklogWatcher_DeliversToObservers(t *testing.T) {
	watcher := NewWorklogWatcher(testLogger())
	userID := uuid.New()
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	updates, cancel := watcher.Observe(ctx, userID)
	defer cancel()

	record := &types.Worklog{ID: uuid.New(), UserID: userID, Status: types.WorklogRunning}
	watcher.Notify(userID, record)

	select {
	case got := <-updates:
		if got.ID != record.ID {
			t.Fatalf("unexpected record: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for notification")
	}
}

func TestWorklogWatcher_ScopedToUser(t *testing.T) {
	watcher := NewWorklogWatcher(testLogger())
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	userID := uuid.New()
	updates, cancel := watcher.Observe(ctx, userID)
	defer cancel()

	other := uuid.New()
	watcher.Notify(other, &types.Worklog{ID: uuid.New(), UserID: other, Status: types.WorklogRunning})

	select {
	case got := <-updates:
		t.Fatalf("received another user's record: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWorklogWatcher_CancelClosesChannel(t *testing.T) {
	watcher := NewWorklogWatcher(testLogger())
	userID := uuid.New()

	updates, cancel := watcher.Observe(context.Background(), userID)
	cancel()
	cancel() // safe to call twice

	select {
	case _, ok := <-updates:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after cancel")
	}

	// Notifying after cancel must not panic or block.
	watcher.Notify(userID, &types.Worklog{ID: uuid.New(), UserID: userID})
}

func TestWorklogWatcher_ListenerSeesEveryUser(t *testing.T) {
	watcher := NewWorklogWatcher(testLogger())

	got := make(chan uuid.UUID, 2)
	watcher.AddListener(func(userID uuid.UUID, record *types.Worklog) {
		got <- userID
	})

	a, b := uuid.New(), uuid.New()
	watcher.Notify(a, &types.Worklog{ID: uuid.New(), UserID: a})
	watcher.Notify(b, &types.Worklog{ID: uuid.New(), UserID: b})

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-got:
			seen[id] = true
		case <-time.After(time.Second):
			t.Fatalf("listener missed a notification")
		}
	}
	if !seen[a] || !seen[b] {
		t.Fatalf("listener saw %v", seen)
	}
}

func TestDecodeWorklog_SurvivesJSONRoundTrip(t *testing.T) {
	pauseStart := int64(11_000)
	in := &types.Worklog{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		CompanyID:       uuid.New(),
		StartTime:       1_000,
		Status:          types.WorklogPaused,
		PauseStartTime:  &pauseStart,
		TotalPausedTime: 5_000,
	}

	// The redis bus hands payloads back as generic map[string]any.
	generic, err := DecodeWorklog(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if generic.ID != in.ID || generic.Status != types.WorklogPaused {
		t.Fatalf("unexpected decode result: %+v", generic)
	}
	if generic.PauseStartTime == nil || *generic.PauseStartTime != pauseStart {
		t.Fatalf("pause start lost in round trip: %+v", generic.PauseStartTime)
	}
	if generic.TotalPausedTime != 5_000 {
		t.Fatalf("paused total lost in round trip: %d", generic.TotalPausedTime)
	}
}
