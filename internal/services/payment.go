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

type PaymentInput struct {
	CompanyID uuid.UUID `json:"company_id"`
	Amount    float64   `json:"amount"`
	Period    string    `json:"period"`
}

type PaymentService interface {
	List(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Payment, error)
	Create(ctx context.Context, userID uuid.UUID, in PaymentInput) (*types.Payment, error)
	Delete(ctx context.Context, userID, paymentID uuid.UUID) error
}

type paymentService struct {
	log         *logger.Logger
	paymentRepo repos.PaymentRepo
	companyRepo repos.CompanyRepo
}

func NewPaymentService(log *logger.Logger, paymentRepo repos.PaymentRepo, companyRepo repos.CompanyRepo) PaymentService {
	serviceLog := log.With("service", "PaymentService")
	return &paymentService{log: serviceLog, paymentRepo: paymentRepo, companyRepo: companyRepo}
}

func (ps *paymentService) List(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Payment, error) {
	payments, err := ps.paymentRepo.ListByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list payments: %w", err))
	}
	return payments, nil
}

func (ps *paymentService) Create(ctx context.Context, userID uuid.UUID, in PaymentInput) (*types.Payment, error) {
	if in.CompanyID == uuid.Nil {
		return nil, apierr.Validation("companyId", fmt.Errorf("a company is required"))
	}
	if in.Amount <= 0 {
		return nil, apierr.Validation("amount", fmt.Errorf("amount must be positive"))
	}
	in.Period = strings.TrimSpace(in.Period)
	if in.Period == "" {
		return nil, apierr.Validation("period", fmt.Errorf("a period is required"))
	}

	company, err := ps.companyRepo.GetByID(ctx, nil, userID, in.CompanyID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load company: %w", err))
	}
	if company == nil {
		return nil, apierr.Validation("companyId", fmt.Errorf("company does not exist"))
	}

	payment := &types.Payment{
		UserID:    userID,
		CompanyID: in.CompanyID,
		Amount:    in.Amount,
		Period:    in.Period,
		CreatedAt: time.Now().UnixMilli(),
	}
	created, err := ps.paymentRepo.Create(ctx, nil, payment)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create payment: %w", err))
	}

	ps.log.Info("Payment created", "payment_id", created.ID, "user_id", userID)
	return created, nil
}

func (ps *paymentService) Delete(ctx context.Context, userID, paymentID uuid.UUID) error {
	ok, err := ps.paymentRepo.Delete(ctx, nil, userID, paymentID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("delete payment: %w", err))
	}
	if !ok {
		return apierr.NotFound(fmt.Errorf("payment not found"))
	}
	return nil
}
