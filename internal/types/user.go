package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type User struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email             string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Name              string          `gorm:"not null;column:name" json:"name"`
  PinHash           string          `gorm:"column:pin_hash" json:"-"`
  Approved          bool            `gorm:"not null;default:false;column:approved" json:"approved"`
  IsAdmin           bool            `gorm:"not null;default:false;column:is_admin" json:"is_admin"`
  Preferences       datatypes.JSON  `gorm:"column:preferences" json:"preferences,omitempty"`
  CreatedAt         time.Time       `gorm:"not null;column:created_at" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
