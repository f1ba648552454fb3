package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post;index"`
	CreatedAt time.Time
}

func (LikeModel) TableName() string {
	return "likes"
}

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type ReshareModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reshares_user_post"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reshares_user_post;index"`
	CreatedAt time.Time
}

func (ReshareModel) TableName() string {
	return "reshares"
}

func (r *ReshareModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
