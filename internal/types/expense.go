package types

import (
  "github.com/google/uuid"
)

type Expense struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  CompanyID         *uuid.UUID      `gorm:"type:uuid;column:company_id" json:"company_id,omitempty"`
  ProjectID         *uuid.UUID      `gorm:"type:uuid;column:project_id" json:"project_id,omitempty"`
  Amount            float64         `gorm:"not null;column:amount" json:"amount"`
  Category          string          `gorm:"not null;column:category" json:"category"`
  Description       string          `gorm:"column:description" json:"description,omitempty"`
  CreatedAt         int64           `gorm:"not null;column:created_at" json:"created_at"`
}

func (Expense) TableName() string {
  return "expense"
}

type ExpenseCategory struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Name              string          `gorm:"uniqueIndex;not null;column:name" json:"name"`
}

func (ExpenseCategory) TableName() string {
  return "expense_category"
}
