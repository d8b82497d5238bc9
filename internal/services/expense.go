package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type ExpenseInput struct {
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Description string     `json:"description,omitempty"`
}

type ExpenseService interface {
	List(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Expense, error)
	Create(ctx context.Context, userID uuid.UUID, in ExpenseInput) (*types.Expense, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
	Categories(ctx context.Context) ([]*types.ExpenseCategory, error)
	SeedCategoriesFromFile(ctx context.Context, path string) error
}

type expenseService struct {
	log         *logger.Logger
	expenseRepo repos.ExpenseRepo
}

func NewExpenseService(log *logger.Logger, expenseRepo repos.ExpenseRepo) ExpenseService {
	serviceLog := log.With("service", "ExpenseService")
	return &expenseService{log: serviceLog, expenseRepo: expenseRepo}
}

func (es *expenseService) List(ctx context.Context, userID uuid.UUID, fromMs, toMs int64) ([]*types.Expense, error) {
	expenses, err := es.expenseRepo.ListByUserID(ctx, nil, userID, fromMs, toMs)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list expenses: %w", err))
	}
	return expenses, nil
}

func (es *expenseService) Create(ctx context.Context, userID uuid.UUID, in ExpenseInput) (*types.Expense, error) {
	if in.Amount <= 0 {
		return nil, apierr.Validation("amount", fmt.Errorf("amount must be positive"))
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return nil, apierr.Validation("category", fmt.Errorf("a category is required"))
	}

	expense := &types.Expense{
		UserID:      userID,
		CompanyID:   in.CompanyID,
		ProjectID:   in.ProjectID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   time.Now().UnixMilli(),
	}
	created, err := es.expenseRepo.Create(ctx, nil, expense)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create expense: %w", err))
	}

	es.log.Info("Expense created", "expense_id", created.ID, "user_id", userID)
	return created, nil
}

func (es *expenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	ok, err := es.expenseRepo.Delete(ctx, nil, userID, expenseID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("delete expense: %w", err))
	}
	if !ok {
		return apierr.NotFound(fmt.Errorf("expense not found"))
	}
	return nil
}

func (es *expenseService) Categories(ctx context.Context) ([]*types.ExpenseCategory, error) {
	categories, err := es.expenseRepo.ListCategories(ctx, nil)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list categories: %w", err))
	}
	return categories, nil
}

// SeedCategoriesFromFile loads the category list shipped in configs/ and
// upserts it; existing names are left alone.
func (es *expenseService) SeedCategoriesFromFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read categories file: %w", err)
	}

	var doc struct {
		Categories []string `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse categories file: %w", err)
	}

	names := make([]string, 0, len(doc.Categories))
	for _, name := range doc.Categories {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	if err := es.expenseRepo.SeedCategories(ctx, nil, names); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	es.log.Info("Expense categories seeded", "count", len(names))
	return nil
}
