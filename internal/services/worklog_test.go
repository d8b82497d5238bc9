package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type worklogFixture struct {
	service *worklogService
	repo    *fakeWorklogRepo
	userID  uuid.UUID
	company *types.Company
	project *types.Project
}

func newWorklogFixture(t *testing.T) *worklogFixture {
	t.Helper()
	log := testLogger()
	userID := uuid.New()
	company := &types.Company{ID: uuid.New(), UserID: userID, Name: "Acme", HourlyRate: 40, Currency: "EUR"}
	project := &types.Project{ID: uuid.New(), UserID: userID, CompanyID: &company.ID, Name: "CRT shader"}
	repo := newFakeWorklogRepo()
	ws := &worklogService{
		log:         log,
		worklogRepo: repo,
		companyRepo: newFakeCompanyRepo(company),
		projectRepo: newFakeProjectRepo(project),
		nowMs:       func() int64 { return 1_700_000_000_000 },
	}
	return &worklogFixture{service: ws, repo: repo, userID: userID, company: company, project: project}
}

func TestUpsertManual_CreatesCompletedRecord(t *testing.T) {
	f := newWorklogFixture(t)

	record, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		Date:        "2026-03-02",
		StartTime:   "09:00",
		EndTime:     "17:30",
		CompanyID:   f.company.ID,
		ProjectID:   &f.project.ID,
		Description: "client work",
	})
	if err != nil {
		t.Fatalf("UpsertManual: %v", err)
	}
	if record.Status != types.WorklogCompleted {
		t.Fatalf("expected completed, got %s", record.Status)
	}
	if record.Source != types.WorklogSourceManual {
		t.Fatalf("expected source manual, got %q", record.Source)
	}
	if record.Duration != 30_600 {
		t.Fatalf("expected 30600s (8h30m), got %d", record.Duration)
	}
	wantStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).UnixMilli()
	if record.StartTime != wantStart {
		t.Fatalf("expected start %d, got %d", wantStart, record.StartTime)
	}
	if record.EndTime-record.StartTime != 30_600_000 {
		t.Fatalf("expected 8h30m span, got %dms", record.EndTime-record.StartTime)
	}
	if record.TotalPausedTime != 0 {
		t.Fatalf("manual records start with no paused time, got %d", record.TotalPausedTime)
	}
}

func TestUpsertManual_RejectsEndBeforeStart(t *testing.T) {
	f := newWorklogFixture(t)

	_, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		Date:      "2026-03-02",
		StartTime: "17:00",
		EndTime:   "09:00",
		CompanyID: f.company.ID,
	})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ae := apierr.From(err); ae.Field != "endTime" {
		t.Fatalf("expected field endTime, got %q", ae.Field)
	}
}

func TestUpsertManual_RejectsEqualTimes(t *testing.T) {
	f := newWorklogFixture(t)

	_, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "09:00",
		CompanyID: f.company.ID,
	})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error for zero-length entry, got %v", err)
	}
}

func TestUpsertManual_RejectsBadFormats(t *testing.T) {
	f := newWorklogFixture(t)

	cases := []struct {
		name  string
		in    ManualWorklogInput
		field string
	}{
		{"bad date", ManualWorklogInput{Date: "03/02/2026", StartTime: "09:00", EndTime: "10:00", CompanyID: f.company.ID}, "date"},
		{"bad start", ManualWorklogInput{Date: "2026-03-02", StartTime: "9am", EndTime: "10:00", CompanyID: f.company.ID}, "startTime"},
		{"bad end", ManualWorklogInput{Date: "2026-03-02", StartTime: "09:00", EndTime: "25:61", CompanyID: f.company.ID}, "endTime"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.UpsertManual(context.Background(), f.userID, tc.in)
			if !apierr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ae := apierr.From(err); ae.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ae.Field)
			}
		})
	}
}

func TestUpsertManual_MissingCompanyIsValidation(t *testing.T) {
	f := newWorklogFixture(t)

	_, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
		CompanyID: uuid.Nil,
	})
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertManual_EditTimerRecordBecomesEdited(t *testing.T) {
	f := newWorklogFixture(t)

	// A completed timer session with 10 minutes of accumulated pauses.
	existing := &types.Worklog{
		ID:              uuid.New(),
		UserID:          f.userID,
		CompanyID:       f.company.ID,
		StartTime:       time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).UnixMilli(),
		EndTime:         time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).UnixMilli(),
		Status:          types.WorklogCompleted,
		TotalPausedTime: 600_000,
		Duration:        3_000,
	}
	if _, err := f.repo.Create(context.Background(), nil, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		WorklogID: &existing.ID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
		CompanyID: f.company.ID,
	})
	if err != nil {
		t.Fatalf("UpsertManual: %v", err)
	}
	if record.Source != types.WorklogSourceEdited {
		t.Fatalf("expected source edited, got %q", record.Source)
	}
	// Duration is re-derived from the edited span minus the session's pauses:
	// 3600s - 600s.
	if record.Duration != 3_000 {
		t.Fatalf("expected 3000s, got %d", record.Duration)
	}
	if stored := f.repo.get(existing.ID); stored.Source != types.WorklogSourceEdited {
		t.Fatalf("edit not persisted: %+v", stored)
	}
}

func TestUpsertManual_EditManualStaysManual(t *testing.T) {
	f := newWorklogFixture(t)

	existing := &types.Worklog{
		ID:        uuid.New(),
		UserID:    f.userID,
		CompanyID: f.company.ID,
		StartTime: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).UnixMilli(),
		EndTime:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).UnixMilli(),
		Status:    types.WorklogCompleted,
		Duration:  3_600,
		Source:    types.WorklogSourceManual,
	}
	if _, err := f.repo.Create(context.Background(), nil, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		WorklogID: &existing.ID,
		Date:      "2026-03-02",
		StartTime: "08:30",
		EndTime:   "09:30",
		CompanyID: f.company.ID,
	})
	if err != nil {
		t.Fatalf("UpsertManual: %v", err)
	}
	if record.Source != types.WorklogSourceManual {
		t.Fatalf("manual entry must stay manual after edit, got %q", record.Source)
	}
}

func TestUpsertManual_RejectsActiveRecord(t *testing.T) {
	f := newWorklogFixture(t)

	active := &types.Worklog{
		ID:        uuid.New(),
		UserID:    f.userID,
		CompanyID: f.company.ID,
		StartTime: 1_000,
		Status:    types.WorklogRunning,
	}
	if _, err := f.repo.Create(context.Background(), nil, active); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		WorklogID: &active.ID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
		CompanyID: f.company.ID,
	})
	if !apierr.IsInvalidState(err) {
		t.Fatalf("expected invalid state for active record, got %v", err)
	}
}

func TestUpsertManual_UnknownWorklogIsNotFound(t *testing.T) {
	f := newWorklogFixture(t)

	missing := uuid.New()
	_, err := f.service.UpsertManual(context.Background(), f.userID, ManualWorklogInput{
		WorklogID: &missing,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
		CompanyID: f.company.ID,
	})
	if !apierr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWorklogDelete_RemovesCompleted(t *testing.T) {
	f := newWorklogFixture(t)

	record := &types.Worklog{
		ID:        uuid.New(),
		UserID:    f.userID,
		CompanyID: f.company.ID,
		Status:    types.WorklogCompleted,
		Duration:  100,
	}
	if _, err := f.repo.Create(context.Background(), nil, record); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.service.Delete(context.Background(), f.userID, record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if stored := f.repo.get(record.ID); stored != nil {
		t.Fatalf("record still present after delete")
	}
}

func TestWorklogDelete_ActiveIsInvalidState(t *testing.T) {
	f := newWorklogFixture(t)

	record := &types.Worklog{
		ID:        uuid.New(),
		UserID:    f.userID,
		CompanyID: f.company.ID,
		Status:    types.WorklogPaused,
	}
	if _, err := f.repo.Create(context.Background(), nil, record); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := f.service.Delete(context.Background(), f.userID, record.ID)
	if !apierr.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if stored := f.repo.get(record.ID); stored == nil {
		t.Fatalf("active record was deleted")
	}
}
