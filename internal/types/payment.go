package types

import (
  "github.com/google/uuid"
)

// Payment records money received from a company for a period, e.g. "May 2025".
type Payment struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  CompanyID         uuid.UUID       `gorm:"type:uuid;not null;column:company_id" json:"company_id"`
  Amount            float64         `gorm:"not null;column:amount" json:"amount"`
  Period            string          `gorm:"not null;column:period" json:"period"`
  CreatedAt         int64           `gorm:"not null;column:created_at" json:"created_at"`
}

func (Payment) TableName() string {
  return "payment"
}
