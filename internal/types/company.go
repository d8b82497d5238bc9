package types

import (
  "github.com/google/uuid"
)

type Company struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  Name              string          `gorm:"not null;column:name" json:"name"`
  HourlyRate        float64         `gorm:"not null;default:0;column:hourly_rate" json:"hourly_rate"`
  Currency          string          `gorm:"not null;default:'USD';column:currency" json:"currency"`
  CreatedAt         int64           `gorm:"not null;column:created_at" json:"created_at"`
}

func (Company) TableName() string {
  return "company"
}

var ValidCurrencies = map[string]struct{}{
  "USD": {},
  "EUR": {},
  "PKR": {},
}
