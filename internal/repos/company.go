package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/types"
)

type CompanyRepo interface {
  Create(ctx context.Context, tx *gorm.DB, company *types.Company) (*types.Company, error)
  GetByID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (*types.Company, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Company, error)
  Update(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID, fields map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (bool, error)
}

type companyRepo struct {
  db          *gorm.DB
  log         *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
  repoLog := baseLog.With("repo", "CompanyRepo")
  return &companyRepo{db: db, log: repoLog}
}

func (cr *companyRepo) Create(ctx context.Context, tx *gorm.DB, company *types.Company) (*types.Company, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if company.ID == uuid.Nil {
    company.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(company).Error; err != nil {
    return nil, err
  }

  return company, nil
}

func (cr *companyRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (*types.Company, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var result types.Company
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", companyID, userID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }

  return &result, nil
}

func (cr *companyRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Company, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Company
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at ASC").
    Find(&results).Error
  if err != nil {
    return nil, err
  }

  return results, nil
}

func (cr *companyRepo) Update(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Company{}).
    Where("id = ? AND user_id = ?", companyID, userID).
    Updates(fields).Error
}

func (cr *companyRepo) Delete(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", companyID, userID).
    Delete(&types.Company{})
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}
