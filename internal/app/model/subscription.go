package model

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"   // created, awaiting PayPal approval
	SubscriptionActive    SubscriptionStatus = "active"    // approved and billing
	SubscriptionCancelled SubscriptionStatus = "cancelled" // cancelled at PayPal or locally
)

// Subscription tracks a user's PayPal billing agreement. At most one
// active subscription per user; history rows keep their terminal status.
type Subscription struct {
	ID                   uint               `gorm:"primarykey" json:"id"`
	UserID               uint               `gorm:"not null;index" json:"user_id"`
	PlanID               string             `gorm:"not null" json:"plan_id"`
	PayPalSubscriptionID string             `gorm:"index" json:"paypal_subscription_id"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	DeletedAt            gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Plan is a billable tier. Plans are static configuration, not rows.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PayPalPlanID string  `json:"paypal_plan_id"`
	PriceUSD     float64 `json:"price_usd"`
	WidgetLimit  int     `json:"widget_limit"` // 0 means unlimited
}
