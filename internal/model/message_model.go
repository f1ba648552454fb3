package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	FromID    string    `gorm:"type:uuid;not null;index"`
	ToID      string    `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
