package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/duration"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/sse"
	"github.com/retroclock/retroclock-backend/internal/types"
)

// TimerService owns the worklog state machine: at most one running or paused
// record per user, pause time folded exactly once per pause interval, and a
// single completion per session. All transitions are guarded single-statement
// updates; a transition raced from another tab loses with an invalid-state
// error and never touches the record.
type TimerService interface {
	Start(ctx context.Context, userID, companyID uuid.UUID, projectID *uuid.UUID, description string) (*types.Worklog, error)
	Pause(ctx context.Context, userID, worklogID uuid.UUID) (*types.Worklog, error)
	Resume(ctx context.Context, userID, worklogID uuid.UUID) (*types.Worklog, error)
	Stop(ctx context.Context, userID, worklogID, companyID uuid.UUID, projectID *uuid.UUID, description string) (*types.Worklog, error)
	Active(ctx context.Context, userID uuid.UUID) (*types.Worklog, error)
	ObserveActive(ctx context.Context, userID uuid.UUID) (<-chan *types.Worklog, func(), error)
}

type timerService struct {
	log         *logger.Logger
	worklogRepo repos.WorklogRepo
	companyRepo repos.CompanyRepo
	projectRepo repos.ProjectRepo
	watcher     *WorklogWatcher
	emitter     SSEEmitter
	nowMs       func() int64
}

func NewTimerService(log *logger.Logger, worklogRepo repos.WorklogRepo, companyRepo repos.CompanyRepo, projectRepo repos.ProjectRepo, watcher *WorklogWatcher, emitter SSEEmitter) TimerService {
	serviceLog := log.With("service", "TimerService")
	return &timerService{
		log:         serviceLog,
		worklogRepo: worklogRepo,
		companyRepo: companyRepo,
		projectRepo: projectRepo,
		watcher:     watcher,
		emitter:     emitter,
		nowMs:       func() int64 { return time.Now().UnixMilli() },
	}
}

func (ts *timerService) Start(ctx context.Context, userID, companyID uuid.UUID, projectID *uuid.UUID, description string) (*types.Worklog, error) {
	if err := ts.validateAssociations(ctx, userID, companyID, projectID); err != nil {
		return nil, err
	}

	active, err := ts.worklogRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("query active worklog: %w", err))
	}
	if active != nil {
		return nil, apierr.InvalidState(fmt.Errorf("an active worklog already exists"))
	}

	now := ts.nowMs()
	record := &types.Worklog{
		UserID:          userID,
		CompanyID:       companyID,
		ProjectID:       projectID,
		Description:     description,
		StartTime:       now,
		EndTime:         0,
		Status:          types.WorklogRunning,
		TotalPausedTime: 0,
		Duration:        0,
		CreatedAt:       now,
	}
	created, err := ts.worklogRepo.Create(ctx, nil, record)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create worklog: %w", err))
	}

	ts.log.Info("Worklog started", "worklog_id", created.ID, "user_id", userID)
	ts.publish(ctx, sse.SSEEventTimerStarted, created)
	return created, nil
}

func (ts *timerService) Pause(ctx context.Context, userID, worklogID uuid.UUID) (*types.Worklog, error) {
	record, err := ts.load(ctx, userID, worklogID)
	if err != nil {
		return nil, err
	}
	if record.Status != types.WorklogRunning {
		return nil, apierr.InvalidState(fmt.Errorf("cannot pause a %s worklog", record.Status))
	}

	now := ts.nowMs()
	ok, err := ts.worklogRepo.UpdateGuarded(ctx, nil, worklogID,
		[]types.WorklogStatus{types.WorklogRunning},
		map[string]interface{}{
			"status":           types.WorklogPaused,
			"pause_start_time": now,
		})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("pause worklog: %w", err))
	}
	if !ok {
		return nil, apierr.InvalidState(fmt.Errorf("worklog is no longer running"))
	}

	record.Status = types.WorklogPaused
	record.PauseStartTime = &now

	ts.log.Info("Worklog paused", "worklog_id", worklogID, "user_id", userID)
	ts.publish(ctx, sse.SSEEventTimerPaused, record)
	return record, nil
}

func (ts *timerService) Resume(ctx context.Context, userID, worklogID uuid.UUID) (*types.Worklog, error) {
	record, err := ts.load(ctx, userID, worklogID)
	if err != nil {
		return nil, err
	}
	if record.Status != types.WorklogPaused || record.PauseStartTime == nil {
		return nil, apierr.InvalidState(fmt.Errorf("cannot resume a worklog that is not paused"))
	}

	now := ts.nowMs()
	pausedDelta := duration.FoldPauseInterval(*record.PauseStartTime, now)

	// Additive update; the status guard means a raced second resume adds
	// nothing.
	ok, err := ts.worklogRepo.AddPausedTimeGuarded(ctx, nil, worklogID, pausedDelta,
		map[string]interface{}{
			"status":           types.WorklogRunning,
			"pause_start_time": nil,
		})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("resume worklog: %w", err))
	}
	if !ok {
		return nil, apierr.InvalidState(fmt.Errorf("worklog is no longer paused"))
	}

	record.Status = types.WorklogRunning
	record.TotalPausedTime += pausedDelta
	record.PauseStartTime = nil

	ts.log.Info("Worklog resumed", "worklog_id", worklogID, "user_id", userID, "paused_delta_ms", pausedDelta)
	ts.publish(ctx, sse.SSEEventTimerResumed, record)
	return record, nil
}

func (ts *timerService) Stop(ctx context.Context, userID, worklogID, companyID uuid.UUID, projectID *uuid.UUID, description string) (*types.Worklog, error) {
	if err := ts.validateAssociations(ctx, userID, companyID, projectID); err != nil {
		return nil, err
	}

	record, err := ts.load(ctx, userID, worklogID)
	if err != nil {
		return nil, err
	}
	if !record.IsActive() {
		return nil, apierr.InvalidState(fmt.Errorf("worklog is already completed"))
	}

	now := ts.nowMs()

	// Fold-then-overwrite: an open pause interval is folded into the final
	// total and the whole column is overwritten in the same statement, so the
	// interval can never be applied twice.
	finalPaused := record.TotalPausedTime
	if record.Status == types.WorklogPaused && record.PauseStartTime != nil {
		finalPaused += duration.FoldPauseInterval(*record.PauseStartTime, now)
	}
	finalDuration := duration.FinalizeDuration(now, record.StartTime, finalPaused)

	ok, err := ts.worklogRepo.UpdateGuarded(ctx, nil, worklogID,
		[]types.WorklogStatus{types.WorklogRunning, types.WorklogPaused},
		map[string]interface{}{
			"status":            types.WorklogCompleted,
			"end_time":          now,
			"duration":          finalDuration,
			"total_paused_time": finalPaused,
			"pause_start_time":  nil,
			"company_id":        companyID,
			"project_id":        projectID,
			"description":       description,
		})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("stop worklog: %w", err))
	}
	if !ok {
		return nil, apierr.InvalidState(fmt.Errorf("worklog was already stopped"))
	}

	record.Status = types.WorklogCompleted
	record.EndTime = now
	record.Duration = finalDuration
	record.TotalPausedTime = finalPaused
	record.PauseStartTime = nil
	record.CompanyID = companyID
	record.ProjectID = projectID
	record.Description = description

	ts.log.Info("Worklog stopped", "worklog_id", worklogID, "user_id", userID, "duration_s", finalDuration)
	ts.publish(ctx, sse.SSEEventTimerStopped, record)
	return record, nil
}

func (ts *timerService) Active(ctx context.Context, userID uuid.UUID) (*types.Worklog, error) {
	record, err := ts.worklogRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("query active worklog: %w", err))
	}
	return record, nil
}

// ObserveActive emits the current active record (or nil) immediately, then
// every transition until ctx ends. Received completed records mean the active
// slot is now empty.
func (ts *timerService) ObserveActive(ctx context.Context, userID uuid.UUID) (<-chan *types.Worklog, func(), error) {
	current, err := ts.Active(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	updates, cancel := ts.watcher.Observe(ctx, userID)

	out := make(chan *types.Worklog, 8)
	go func() {
		defer close(out)
		out <- current
		for record := range updates {
			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}

func (ts *timerService) load(ctx context.Context, userID, worklogID uuid.UUID) (*types.Worklog, error) {
	record, err := ts.worklogRepo.GetByID(ctx, nil, userID, worklogID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load worklog: %w", err))
	}
	if record == nil {
		return nil, apierr.NotFound(fmt.Errorf("worklog not found"))
	}
	return record, nil
}

func (ts *timerService) validateAssociations(ctx context.Context, userID, companyID uuid.UUID, projectID *uuid.UUID) error {
	if companyID == uuid.Nil {
		return apierr.Validation("companyId", fmt.Errorf("a company is required"))
	}
	company, err := ts.companyRepo.GetByID(ctx, nil, userID, companyID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("load company: %w", err))
	}
	if company == nil {
		return apierr.Validation("companyId", fmt.Errorf("company does not exist"))
	}
	if projectID != nil && *projectID != uuid.Nil {
		project, err := ts.projectRepo.GetByID(ctx, nil, userID, *projectID)
		if err != nil {
			return apierr.StoreUnavailable(fmt.Errorf("load project: %w", err))
		}
		if project == nil {
			return apierr.Validation("projectId", fmt.Errorf("project does not exist"))
		}
	}
	return nil
}

func (ts *timerService) publish(ctx context.Context, event sse.SSEEvent, record *types.Worklog) {
	if ts.watcher != nil {
		ts.watcher.Notify(record.UserID, record)
	}
	if ts.emitter != nil {
		ts.emitter.Emit(ctx, sse.SSEMessage{
			Channel: sse.TimerChannel(record.UserID),
			Event:   event,
			Data:    record,
		})
	}
}
