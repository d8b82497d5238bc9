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

// ManualWorklogInput is a date plus two times of day; the manual/edit path
// never transitions through running or paused.
type ManualWorklogInput struct {
	WorklogID   *uuid.UUID `json:"worklog_id,omitempty"`
	Date        string     `json:"date"`       // 2006-01-02
	StartTime   string     `json:"start_time"` // 15:04
	EndTime     string     `json:"end_time"`   // 15:04
	CompanyID   uuid.UUID  `json:"company_id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Description string     `json:"description,omitempty"`
}

type WorklogService interface {
	UpsertManual(ctx context.Context, userID uuid.UUID, in ManualWorklogInput) (*types.Worklog, error)
	ListCompleted(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Worklog, error)
	Delete(ctx context.Context, userID, worklogID uuid.UUID) error
}

type worklogService struct {
	log         *logger.Logger
	worklogRepo repos.WorklogRepo
	companyRepo repos.CompanyRepo
	projectRepo repos.ProjectRepo
	emitter     SSEEmitter
	nowMs       func() int64
}

func NewWorklogService(log *logger.Logger, worklogRepo repos.WorklogRepo, companyRepo repos.CompanyRepo, projectRepo repos.ProjectRepo, emitter SSEEmitter) WorklogService {
	serviceLog := log.With("service", "WorklogService")
	return &worklogService{
		log:         serviceLog,
		worklogRepo: worklogRepo,
		companyRepo: companyRepo,
		projectRepo: projectRepo,
		emitter:     emitter,
		nowMs:       func() int64 { return time.Now().UnixMilli() },
	}
}

// UpsertManual serves both "add a forgotten entry" and "edit a completed
// entry". The result is always a completed record; duration is re-derived
// from the edited start/end and the record's accumulated paused time.
func (ws *worklogService) UpsertManual(ctx context.Context, userID uuid.UUID, in ManualWorklogInput) (*types.Worklog, error) {
	if in.CompanyID == uuid.Nil {
		return nil, apierr.Validation("companyId", fmt.Errorf("a company is required"))
	}
	company, err := ws.companyRepo.GetByID(ctx, nil, userID, in.CompanyID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load company: %w", err))
	}
	if company == nil {
		return nil, apierr.Validation("companyId", fmt.Errorf("company does not exist"))
	}
	if in.ProjectID != nil && *in.ProjectID != uuid.Nil {
		project, err := ws.projectRepo.GetByID(ctx, nil, userID, *in.ProjectID)
		if err != nil {
			return nil, apierr.StoreUnavailable(fmt.Errorf("load project: %w", err))
		}
		if project == nil {
			return nil, apierr.Validation("projectId", fmt.Errorf("project does not exist"))
		}
	}

	startMs, endMs, err := combineDateTimes(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	var existing *types.Worklog
	if in.WorklogID != nil && *in.WorklogID != uuid.Nil {
		existing, err = ws.worklogRepo.GetByID(ctx, nil, userID, *in.WorklogID)
		if err != nil {
			return nil, apierr.StoreUnavailable(fmt.Errorf("load worklog: %w", err))
		}
		if existing == nil {
			return nil, apierr.NotFound(fmt.Errorf("worklog not found"))
		}
		if existing.IsActive() {
			return nil, apierr.InvalidState(fmt.Errorf("cannot edit an active worklog"))
		}
	}

	totalPaused := int64(0)
	source := types.WorklogSourceManual
	if existing != nil {
		totalPaused = existing.TotalPausedTime
		if existing.Source != types.WorklogSourceManual {
			source = types.WorklogSourceEdited
		}
	}
	finalDuration := duration.FinalizeDuration(endMs, startMs, totalPaused)

	if existing == nil {
		record := &types.Worklog{
			UserID:          userID,
			CompanyID:       in.CompanyID,
			ProjectID:       in.ProjectID,
			Description:     in.Description,
			StartTime:       startMs,
			EndTime:         endMs,
			Status:          types.WorklogCompleted,
			TotalPausedTime: 0,
			Duration:        finalDuration,
			CreatedAt:       ws.nowMs(),
			Source:          types.WorklogSourceManual,
		}
		created, err := ws.worklogRepo.Create(ctx, nil, record)
		if err != nil {
			return nil, apierr.StoreUnavailable(fmt.Errorf("create worklog: %w", err))
		}
		ws.log.Info("Manual worklog created", "worklog_id", created.ID, "user_id", userID)
		ws.publish(ctx, sse.SSEEventWorklogUpserted, created)
		return created, nil
	}

	err = ws.worklogRepo.UpdateFields(ctx, nil, existing.ID, map[string]interface{}{
		"company_id":  in.CompanyID,
		"project_id":  in.ProjectID,
		"description": in.Description,
		"start_time":  startMs,
		"end_time":    endMs,
		"duration":    finalDuration,
		"status":      types.WorklogCompleted,
		"source":      source,
	})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("update worklog: %w", err))
	}

	existing.CompanyID = in.CompanyID
	existing.ProjectID = in.ProjectID
	existing.Description = in.Description
	existing.StartTime = startMs
	existing.EndTime = endMs
	existing.Duration = finalDuration
	existing.Status = types.WorklogCompleted
	existing.Source = source

	ws.log.Info("Worklog edited", "worklog_id", existing.ID, "user_id", userID)
	ws.publish(ctx, sse.SSEEventWorklogUpserted, existing)
	return existing, nil
}

func (ws *worklogService) ListCompleted(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Worklog, error) {
	records, err := ws.worklogRepo.ListCompletedByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list worklogs: %w", err))
	}
	return records, nil
}

func (ws *worklogService) Delete(ctx context.Context, userID, worklogID uuid.UUID) error {
	record, err := ws.worklogRepo.GetByID(ctx, nil, userID, worklogID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("load worklog: %w", err))
	}
	if record == nil {
		return apierr.NotFound(fmt.Errorf("worklog not found"))
	}
	if record.IsActive() {
		return apierr.InvalidState(fmt.Errorf("cannot delete an active worklog"))
	}

	ok, err := ws.worklogRepo.DeleteCompleted(ctx, nil, userID, worklogID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("delete worklog: %w", err))
	}
	if !ok {
		return apierr.InvalidState(fmt.Errorf("worklog state changed; refresh and retry"))
	}

	ws.log.Info("Worklog deleted", "worklog_id", worklogID, "user_id", userID)
	ws.publish(ctx, sse.SSEEventWorklogDeleted, record)
	return nil
}

func (ws *worklogService) publish(ctx context.Context, event sse.SSEEvent, record *types.Worklog) {
	if ws.emitter == nil {
		return
	}
	ws.emitter.Emit(ctx, sse.SSEMessage{
		Channel: sse.TimerChannel(record.UserID),
		Event:   event,
		Data:    record,
	})
}

// combineDateTimes builds absolute epoch-ms timestamps from a date and two
// times of day. End at or before start is rejected; overnight sessions are
// entered as two records.
func combineDateTimes(date, startOfDay, endOfDay string) (int64, int64, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, 0, apierr.Validation("date", fmt.Errorf("invalid date, want YYYY-MM-DD"))
	}
	start, err := time.Parse("15:04", startOfDay)
	if err != nil {
		return 0, 0, apierr.Validation("startTime", fmt.Errorf("invalid time format (HH:mm)"))
	}
	end, err := time.Parse("15:04", endOfDay)
	if err != nil {
		return 0, 0, apierr.Validation("endTime", fmt.Errorf("invalid time format (HH:mm)"))
	}

	startAt := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	endAt := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC)

	if !endAt.After(startAt) {
		return 0, 0, apierr.Validation("endTime", fmt.Errorf("end time must be after start time"))
	}

	return startAt.UnixMilli(), endAt.UnixMilli(), nil
}
