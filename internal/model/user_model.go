package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID            string    `gorm:"type:uuid;primary_key"`
	Username      string    `gorm:"uniqueIndex;not null"`
	Password      string    `gorm:"not null"`
	Coins         int       `gorm:"default:100"`
	AvatarURL     string
	DMAccessUntil time.Time `gorm:"column:dm_access_until"`
	LastClaim     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
