package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewPublished ReviewStatus = "published"
	ReviewHidden    ReviewStatus = "hidden"
)

// ValidReviewStatus reports whether s is in the closed status set.
func ValidReviewStatus(s ReviewStatus) bool {
	return s == ReviewPublished || s == ReviewHidden
}

type ReviewSource string

const (
	SourceWidget ReviewSource = "widget" // submitted through an embed snippet
	SourceManual ReviewSource = "manual" // entered by the owner in the dashboard
)

// Review is a customer-submitted rating-and-text record. PublicID is
// the identifier handed back to the embed snippet; the numeric primary
// key never leaves the owner API.
type Review struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	PublicID   string       `gorm:"uniqueIndex;not null" json:"public_id"`
	BusinessID uint         `gorm:"not null;index" json:"business_id"`
	WidgetID   uint         `gorm:"not null;index" json:"widget_id"`
	Title      string       `gorm:"not null" json:"title"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	Rating     int          `gorm:"not null" json:"rating"` // 1..5

	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `gorm:"not null" json:"customer_email"`

	Status ReviewStatus `gorm:"type:varchar(20);default:'published';index" json:"status"`
	Source ReviewSource `gorm:"type:varchar(20);not null" json:"source"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns the public identifier.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.PublicID == "" {
		r.PublicID = uuid.New().String()
	}
	return nil
}

// ReviewTitle derives the stored title from rating and reviewer name.
func ReviewTitle(rating int, customerName string) string {
	return fmt.Sprintf("%d star review from %s", rating, customerName)
}
