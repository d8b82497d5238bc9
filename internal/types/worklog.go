package types

import (
  "github.com/google/uuid"
)

type WorklogStatus string

const (
  WorklogRunning    WorklogStatus = "running"
  WorklogPaused     WorklogStatus = "paused"
  WorklogCompleted  WorklogStatus = "completed"
)

type WorklogSource string

const (
  // WorklogSourceManual marks an entry created directly as completed; it never ran.
  WorklogSourceManual WorklogSource = "manual"
  // WorklogSourceEdited marks a tracked session that was modified after completion.
  WorklogSourceEdited WorklogSource = "edited"
)

// Worklog is one continuous (possibly paused) work session. Timer fields are
// epoch milliseconds; Duration is seconds and only meaningful once completed.
type Worklog struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_worklog_user_status;column:user_id" json:"user_id"`
  CompanyID         uuid.UUID       `gorm:"type:uuid;not null;column:company_id" json:"company_id"`
  ProjectID         *uuid.UUID      `gorm:"type:uuid;column:project_id" json:"project_id,omitempty"`
  Description       string          `gorm:"column:description" json:"description,omitempty"`
  StartTime         int64           `gorm:"not null;column:start_time" json:"start_time"`
  EndTime           int64           `gorm:"not null;default:0;column:end_time" json:"end_time"`
  Status            WorklogStatus   `gorm:"not null;index:idx_worklog_user_status;column:status" json:"status"`
  PauseStartTime    *int64          `gorm:"column:pause_start_time" json:"pause_start_time,omitempty"`
  TotalPausedTime   int64           `gorm:"not null;default:0;column:total_paused_time" json:"total_paused_time"`
  Duration          int64           `gorm:"not null;default:0;column:duration" json:"duration"`
  CreatedAt         int64           `gorm:"not null;column:created_at" json:"created_at"`
  Source            WorklogSource   `gorm:"column:source" json:"source,omitempty"`
}

func (Worklog) TableName() string {
  return "worklog"
}

func (w *Worklog) IsActive() bool {
  if w == nil {
    return false
  }
  return w.Status == WorklogRunning || w.Status == WorklogPaused
}
