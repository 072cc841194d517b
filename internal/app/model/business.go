package model

import (
	"time"

	"gorm.io/gorm"
)

// Business is the tenant entity. Widgets, reviews, analytics and the
// subscription all hang off it.
type Business struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `json:"email"`
	Industry  string         `gorm:"default:'General'" json:"industry"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Widgets []Widget `gorm:"foreignKey:BusinessID" json:"widgets,omitempty"`
	Reviews []Review `gorm:"foreignKey:BusinessID" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}
