package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/types"
)

// WorklogRepo is the persistence surface of the worklog collection. Guarded
// updates are single statements conditioned on the current status; they return
// false (no error) when the record has already moved on, which is how stale
// transitions lose races instead of corrupting pause accounting.
type WorklogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, worklog *types.Worklog) (*types.Worklog, error)
  GetByID(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (*types.Worklog, error)
  GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Worklog, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Worklog, error)
  ListCompletedByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Worklog, error)
  UpdateGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fromStatuses []types.WorklogStatus, fields map[string]interface{}) (bool, error)
  AddPausedTimeGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, pausedDeltaMs int64, fields map[string]interface{}) (bool, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fields map[string]interface{}) error
  DeleteCompleted(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (bool, error)
  CountByCompanyID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (int64, error)
}

type worklogRepo struct {
  db          *gorm.DB
  log         *logger.Logger
}

func NewWorklogRepo(db *gorm.DB, baseLog *logger.Logger) WorklogRepo {
  repoLog := baseLog.With("repo", "WorklogRepo")
  return &worklogRepo{db: db, log: repoLog}
}

func (wr *worklogRepo) Create(ctx context.Context, tx *gorm.DB, worklog *types.Worklog) (*types.Worklog, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  if worklog.ID == uuid.Nil {
    worklog.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(worklog).Error; err != nil {
    return nil, err
  }

  return worklog, nil
}

func (wr *worklogRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (*types.Worklog, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var result types.Worklog
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", worklogID, userID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }

  return &result, nil
}

func (wr *worklogRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Worklog, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var results []*types.Worklog
  err := transaction.WithContext(ctx).
    Where("user_id = ? AND status IN ?", userID, []types.WorklogStatus{types.WorklogRunning, types.WorklogPaused}).
    Order("created_at DESC").
    Limit(1).
    Find(&results).Error
  if err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }

  return results[0], nil
}

func (wr *worklogRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Worklog, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var results []*types.Worklog
  err := transaction.WithContext(ctx).
    Where("status IN ?", []types.WorklogStatus{types.WorklogRunning, types.WorklogPaused}).
    Find(&results).Error
  if err != nil {
    return nil, err
  }

  return results, nil
}

func (wr *worklogRepo) ListCompletedByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Worklog, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ? AND status = ?", userID, types.WorklogCompleted)
  if fromMs > 0 {
    query = query.Where("start_time >= ?", fromMs)
  }
  if toMs > 0 {
    query = query.Where("start_time < ?", toMs)
  }

  var results []*types.Worklog
  if err := query.Order("start_time DESC").Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (wr *worklogRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fromStatuses []types.WorklogStatus, fields map[string]interface{}) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  res := transaction.WithContext(ctx).
    Model(&types.Worklog{}).
    Where("id = ? AND status IN ?", worklogID, fromStatuses).
    Updates(fields)
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}

func (wr *worklogRepo) AddPausedTimeGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, pausedDeltaMs int64, fields map[string]interface{}) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  updates := map[string]interface{}{
    "total_paused_time": gorm.Expr("total_paused_time + ?", pausedDeltaMs),
  }
  for k, v := range fields {
    updates[k] = v
  }

  res := transaction.WithContext(ctx).
    Model(&types.Worklog{}).
    Where("id = ? AND status = ?", worklogID, types.WorklogPaused).
    Updates(updates)
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}

func (wr *worklogRepo) UpdateFields(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Worklog{}).
    Where("id = ?", worklogID).
    Updates(fields).Error
}

func (wr *worklogRepo) DeleteCompleted(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ? AND status = ?", worklogID, userID, types.WorklogCompleted).
    Delete(&types.Worklog{})
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}

func (wr *worklogRepo) CountByCompanyID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.Worklog{}).
    Where("user_id = ? AND company_id = ?", userID, companyID).
    Count(&count).Error
  if err != nil {
    return 0, err
  }

  return count, nil
}
