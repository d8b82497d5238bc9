package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/types"
)

type PaymentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, payment *types.Payment) (*types.Payment, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Payment, error)
  Delete(ctx context.Context, tx *gorm.DB, userID, paymentID uuid.UUID) (bool, error)
}

type paymentRepo struct {
  db          *gorm.DB
  log         *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
  repoLog := baseLog.With("repo", "PaymentRepo")
  return &paymentRepo{db: db, log: repoLog}
}

func (pr *paymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *types.Payment) (*types.Payment, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if payment.ID == uuid.Nil {
    payment.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(payment).Error; err != nil {
    return nil, err
  }

  return payment, nil
}

func (pr *paymentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Payment, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ?", userID)
  if fromMs > 0 {
    query = query.Where("created_at >= ?", fromMs)
  }
  if toMs > 0 {
    query = query.Where("created_at < ?", toMs)
  }

  var results []*types.Payment
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (pr *paymentRepo) Delete(ctx context.Context, tx *gorm.DB, userID, paymentID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", paymentID, userID).
    Delete(&types.Payment{})
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}
