package types

import (
  "github.com/google/uuid"
)

type Project struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  CompanyID         *uuid.UUID      `gorm:"type:uuid;column:company_id" json:"company_id,omitempty"`
  Name              string          `gorm:"not null;column:name" json:"name"`
  IsCompleted       bool            `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
  CreatedAt         int64           `gorm:"not null;column:created_at" json:"created_at"`
}

func (Project) TableName() string {
  return "project"
}
