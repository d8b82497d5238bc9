package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/types"
)

type ExpenseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, expense *types.Expense) (*types.Expense, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Expense, error)
  Delete(ctx context.Context, tx *gorm.DB, userID, expenseID uuid.UUID) (bool, error)
  SeedCategories(ctx context.Context, tx *gorm.DB, names []string) error
  ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.ExpenseCategory, error)
}

type expenseRepo struct {
  db          *gorm.DB
  log         *logger.Logger
}

func NewExpenseRepo(db *gorm.DB, baseLog *logger.Logger) ExpenseRepo {
  repoLog := baseLog.With("repo", "ExpenseRepo")
  return &expenseRepo{db: db, log: repoLog}
}

func (er *expenseRepo) Create(ctx context.Context, tx *gorm.DB, expense *types.Expense) (*types.Expense, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }

  if expense.ID == uuid.Nil {
    expense.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(expense).Error; err != nil {
    return nil, err
  }

  return expense, nil
}

func (er *expenseRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Expense, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ?", userID)
  if fromMs > 0 {
    query = query.Where("created_at >= ?", fromMs)
  }
  if toMs > 0 {
    query = query.Where("created_at < ?", toMs)
  }

  var results []*types.Expense
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (er *expenseRepo) Delete(ctx context.Context, tx *gorm.DB, userID, expenseID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", expenseID, userID).
    Delete(&types.Expense{})
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}

func (er *expenseRepo) SeedCategories(ctx context.Context, tx *gorm.DB, names []string) error {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }

  if len(names) == 0 {
    return nil
  }

  categories := make([]*types.ExpenseCategory, 0, len(names))
  for _, name := range names {
    categories = append(categories, &types.ExpenseCategory{ID: uuid.New(), Name: name})
  }

  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
    Create(&categories).Error
}

func (er *expenseRepo) ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.ExpenseCategory, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }

  var results []*types.ExpenseCategory
  if err := transaction.WithContext(ctx).Order("name ASC").Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}
