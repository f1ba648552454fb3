package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioModel holds post ownership. The unique index on post_id enforces
// the one-owner-per-post invariant at the schema level.
type PortfolioModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex"`
	BuyPrice  int       `gorm:"not null"`
	CreatedAt time.Time
}

func (PortfolioModel) TableName() string {
	return "portfolio"
}

func (p *PortfolioModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type ListingModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	PostID    string    `gorm:"type:uuid;not null;index"`
	Price     int       `gorm:"not null"`
	CreatedAt time.Time
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
