package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type CompanyInput struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	Currency   string  `json:"currency"`
}

type CompanyService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*types.Company, error)
	Create(ctx context.Context, userID uuid.UUID, in CompanyInput) (*types.Company, error)
	Update(ctx context.Context, userID, companyID uuid.UUID, in CompanyInput) (*types.Company, error)
	Delete(ctx context.Context, userID, companyID uuid.UUID) error
}

type companyService struct {
	log         *logger.Logger
	companyRepo repos.CompanyRepo
	worklogRepo repos.WorklogRepo
}

func NewCompanyService(log *logger.Logger, companyRepo repos.CompanyRepo, worklogRepo repos.WorklogRepo) CompanyService {
	serviceLog := log.With("service", "CompanyService")
	return &companyService{log: serviceLog, companyRepo: companyRepo, worklogRepo: worklogRepo}
}

func (cs *companyService) List(ctx context.Context, userID uuid.UUID) ([]*types.Company, error) {
	companies, err := cs.companyRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list companies: %w", err))
	}
	return companies, nil
}

func (cs *companyService) Create(ctx context.Context, userID uuid.UUID, in CompanyInput) (*types.Company, error) {
	if err := validateCompanyInput(&in); err != nil {
		return nil, err
	}

	company := &types.Company{
		UserID:     userID,
		Name:       in.Name,
		HourlyRate: in.HourlyRate,
		Currency:   in.Currency,
		CreatedAt:  time.Now().UnixMilli(),
	}
	created, err := cs.companyRepo.Create(ctx, nil, company)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create company: %w", err))
	}

	cs.log.Info("Company created", "company_id", created.ID, "user_id", userID)
	return created, nil
}

func (cs *companyService) Update(ctx context.Context, userID, companyID uuid.UUID, in CompanyInput) (*types.Company, error) {
	if err := validateCompanyInput(&in); err != nil {
		return nil, err
	}

	company, err := cs.companyRepo.GetByID(ctx, nil, userID, companyID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load company: %w", err))
	}
	if company == nil {
		return nil, apierr.NotFound(fmt.Errorf("company not found"))
	}

	err = cs.companyRepo.Update(ctx, nil, userID, companyID, map[string]interface{}{
		"name":        in.Name,
		"hourly_rate": in.HourlyRate,
		"currency":    in.Currency,
	})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("update company: %w", err))
	}

	company.Name = in.Name
	company.HourlyRate = in.HourlyRate
	company.Currency = in.Currency
	return company, nil
}

func (cs *companyService) Delete(ctx context.Context, userID, companyID uuid.UUID) error {
	count, err := cs.worklogRepo.CountByCompanyID(ctx, nil, userID, companyID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("count worklogs: %w", err))
	}
	if count > 0 {
		return apierr.Validation("companyId", fmt.Errorf("company still has %d worklogs", count))
	}

	ok, err := cs.companyRepo.Delete(ctx, nil, userID, companyID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("delete company: %w", err))
	}
	if !ok {
		return apierr.NotFound(fmt.Errorf("company not found"))
	}

	cs.log.Info("Company deleted", "company_id", companyID, "user_id", userID)
	return nil
}

func validateCompanyInput(in *CompanyInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apierr.Validation("name", fmt.Errorf("a company name is required"))
	}
	if in.HourlyRate < 0 {
		return apierr.Validation("hourlyRate", fmt.Errorf("hourly rate cannot be negative"))
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if _, ok := types.ValidCurrencies[in.Currency]; !ok {
		return apierr.Validation("currency", fmt.Errorf("unsupported currency %q", in.Currency))
	}
	return nil
}
