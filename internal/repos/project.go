package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/types"
)

type ProjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
  GetByID(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (*types.Project, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Project, error)
  Update(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID, fields map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (bool, error)
}

type projectRepo struct {
  db          *gorm.DB
  log         *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
  repoLog := baseLog.With("repo", "ProjectRepo")
  return &projectRepo{db: db, log: repoLog}
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if project.ID == uuid.Nil {
    project.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(project).Error; err != nil {
    return nil, err
  }

  return project, nil
}

func (pr *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var result types.Project
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", projectID, userID).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }

  return &result, nil
}

func (pr *projectRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Project
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at ASC").
    Find(&results).Error
  if err != nil {
    return nil, err
  }

  return results, nil
}

func (pr *projectRepo) Update(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Project{}).
    Where("id = ? AND user_id = ?", projectID, userID).
    Updates(fields).Error
}

func (pr *projectRepo) Delete(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", projectID, userID).
    Delete(&types.Project{})
  if res.Error != nil {
    return false, res.Error
  }

  return res.RowsAffected > 0, nil
}
