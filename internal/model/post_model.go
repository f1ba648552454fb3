package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID             string `gorm:"type:uuid;primary_key"`
	UserID         string `gorm:"type:uuid;not null;index"`
	Username       string `gorm:"not null"`
	Text           string `gorm:"type:varchar(280)"`
	Value          int    `gorm:"default:10;index:idx_posts_value,sort:desc"`
	Likes          int    `gorm:"default:0"`
	Reshares       int    `gorm:"default:0"`
	OriginalPostID *string `gorm:"type:uuid;index"`
	ShowOriginal   bool   `gorm:"default:true"`
	CreatedAt      time.Time `gorm:"index:idx_posts_created,sort:desc"`
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
