package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	FromID    string    `gorm:"type:uuid;not null;index"`
	ToID      string    `gorm:"type:uuid;not null;index"`
	Amount    int       `gorm:"not null"`
	Progress  int       `gorm:"default:0"`
	Status    string    `gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt time.Time
}

func (TransferModel) TableName() string {
	return "transfers"
}

func (t *TransferModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
