package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type DailyTotal struct {
	Date    string `json:"date"` // 2006-01-02
	Seconds int64  `json:"seconds"`
}

type StatsSummary struct {
	TodaySeconds  int64          `json:"today_seconds"`
	CurrentStreak int            `json:"current_streak"`
	LongestStreak int            `json:"longest_streak"`
	LastSession   *types.Worklog `json:"last_session,omitempty"`
}

type StatsService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*StatsSummary, error)
	DailyTotals(ctx context.Context, userID uuid.UUID, days int) ([]DailyTotal, error)
	WeeklyHours(ctx context.Context, userID uuid.UUID) ([]DailyTotal, error)
}

type statsService struct {
	log         *logger.Logger
	worklogRepo repos.WorklogRepo
	now         func() time.Time
}

func NewStatsService(log *logger.Logger, worklogRepo repos.WorklogRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{log: serviceLog, worklogRepo: worklogRepo, now: time.Now}
}

func (ss *statsService) Summary(ctx context.Context, userID uuid.UUID) (*StatsSummary, error) {
	// A year back is plenty for streak accounting.
	now := ss.now().UTC()
	from := now.AddDate(-1, 0, 0)
	records, err := ss.worklogRepo.ListCompletedByUserID(ctx, nil, userID, from.UnixMilli(), 0)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list worklogs: %w", err))
	}

	byDay := groupSecondsByDay(records)
	today := dayKey(now)

	summary := &StatsSummary{
		TodaySeconds: byDay[today],
	}
	if len(records) > 0 {
		summary.LastSession = records[0]
	}
	summary.CurrentStreak, summary.LongestStreak = streaks(byDay, now)
	return summary, nil
}

func (ss *statsService) DailyTotals(ctx context.Context, userID uuid.UUID, days int) ([]DailyTotal, error) {
	if days <= 0 {
		days = 365
	}
	now := ss.now().UTC()
	start := startOfDay(now).AddDate(0, 0, -(days - 1))

	records, err := ss.worklogRepo.ListCompletedByUserID(ctx, nil, userID, start.UnixMilli(), 0)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list worklogs: %w", err))
	}
	byDay := groupSecondsByDay(records)

	totals := make([]DailyTotal, 0, days)
	for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		totals = append(totals, DailyTotal{Date: key, Seconds: byDay[key]})
	}
	return totals, nil
}

// WeeklyHours returns Monday..Sunday totals for the current week.
func (ss *statsService) WeeklyHours(ctx context.Context, userID uuid.UUID) ([]DailyTotal, error) {
	now := ss.now().UTC()
	monday := startOfDay(now)
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	records, err := ss.worklogRepo.ListCompletedByUserID(ctx, nil, userID, monday.UnixMilli(), monday.AddDate(0, 0, 7).UnixMilli())
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list worklogs: %w", err))
	}
	byDay := groupSecondsByDay(records)

	totals := make([]DailyTotal, 0, 7)
	for i := 0; i < 7; i++ {
		key := dayKey(monday.AddDate(0, 0, i))
		totals = append(totals, DailyTotal{Date: key, Seconds: byDay[key]})
	}
	return totals, nil
}

func groupSecondsByDay(records []*types.Worklog) map[string]int64 {
	byDay := make(map[string]int64, len(records))
	for _, r := range records {
		key := dayKey(time.UnixMilli(r.StartTime).UTC())
		byDay[key] += r.Duration
	}
	return byDay
}

// streaks walks backwards from today counting consecutive tracked days; a
// streak survives when today has nothing yet but yesterday was tracked.
func streaks(byDay map[string]int64, now time.Time) (current, longest int) {
	day := startOfDay(now)
	if byDay[dayKey(day)] == 0 {
		day = day.AddDate(0, 0, -1)
	}
	for byDay[dayKey(day)] > 0 {
		current++
		day = day.AddDate(0, 0, -1)
	}

	// Longest run anywhere in the map.
	for key, secs := range byDay {
		if secs == 0 {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", key, time.UTC)
		if err != nil {
			continue
		}
		// Only count from the start of a run.
		if byDay[dayKey(d.AddDate(0, 0, -1))] > 0 {
			continue
		}
		run := 0
		for byDay[dayKey(d)] > 0 {
			run++
			d = d.AddDate(0, 0, 1)
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
