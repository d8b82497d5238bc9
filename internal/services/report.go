package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
)

type CompanyReportRow struct {
	CompanyID  uuid.UUID `json:"company_id"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"`
	HourlyRate float64   `json:"hourly_rate"`
	Seconds    int64     `json:"seconds"`
	Earnings   float64   `json:"earnings"`
}

type ProjectReportRow struct {
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Seconds   int64     `json:"seconds"`
}

// MonthlyReport is the aggregate the PDF exporter and reports page consume.
type MonthlyReport struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	TotalSeconds int64              `json:"total_seconds"`
	Companies    []CompanyReportRow `json:"companies"`
	Projects     []ProjectReportRow `json:"projects"`
	ExpenseTotal float64            `json:"expense_total"`
	PaymentTotal float64            `json:"payment_total"`
}

type ReportService interface {
	Monthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyReport, error)
}

type reportService struct {
	log         *logger.Logger
	worklogRepo repos.WorklogRepo
	companyRepo repos.CompanyRepo
	projectRepo repos.ProjectRepo
	expenseRepo repos.ExpenseRepo
	paymentRepo repos.PaymentRepo
}

func NewReportService(log *logger.Logger, worklogRepo repos.WorklogRepo, companyRepo repos.CompanyRepo, projectRepo repos.ProjectRepo, expenseRepo repos.ExpenseRepo, paymentRepo repos.PaymentRepo) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		log:         serviceLog,
		worklogRepo: worklogRepo,
		companyRepo: companyRepo,
		projectRepo: projectRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
	}
}

func (rs *reportService) Monthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apierr.Validation("month", fmt.Errorf("month must be 1..12"))
	}
	if year < 2000 || year > 2200 {
		return nil, apierr.Validation("year", fmt.Errorf("implausible year"))
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	fromMs, toMs := from.UnixMilli(), to.UnixMilli()

	records, err := rs.worklogRepo.ListCompletedByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list worklogs: %w", err))
	}
	companies, err := rs.companyRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list companies: %w", err))
	}
	projects, err := rs.projectRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list projects: %w", err))
	}

	report := &MonthlyReport{Year: year, Month: month}

	companySeconds := make(map[uuid.UUID]int64)
	projectSeconds := make(map[uuid.UUID]int64)
	for _, r := range records {
		report.TotalSeconds += r.Duration
		companySeconds[r.CompanyID] += r.Duration
		if r.ProjectID != nil {
			projectSeconds[*r.ProjectID] += r.Duration
		}
	}

	for _, c := range companies {
		secs := companySeconds[c.ID]
		if secs == 0 {
			continue
		}
		report.Companies = append(report.Companies, CompanyReportRow{
			CompanyID:  c.ID,
			Name:       c.Name,
			Currency:   c.Currency,
			HourlyRate: c.HourlyRate,
			Seconds:    secs,
			Earnings:   float64(secs) / 3600 * c.HourlyRate,
		})
	}
	for _, p := range projects {
		secs := projectSeconds[p.ID]
		if secs == 0 {
			continue
		}
		report.Projects = append(report.Projects, ProjectReportRow{
			ProjectID: p.ID,
			Name:      p.Name,
			Seconds:   secs,
		})
	}

	expenses, err := rs.expenseRepo.ListByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list expenses: %w", err))
	}
	for _, e := range expenses {
		report.ExpenseTotal += e.Amount
	}

	payments, err := rs.paymentRepo.ListByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list payments: %w", err))
	}
	for _, p := range payments {
		report.PaymentTotal += p.Amount
	}

	return report, nil
}
