package model

import "time"

type AnalyticsEventType string

const (
	EventReviewSubmitted AnalyticsEventType = "review_submitted"
	EventWidgetView      AnalyticsEventType = "widget_view"
	EventWidgetClick     AnalyticsEventType = "widget_click"
)

// ValidDashboardEvent reports whether t may be recorded through the
// owner API. review_submitted events are only ever written by the
// submission path itself.
func ValidDashboardEvent(t AnalyticsEventType) bool {
	return t == EventWidgetView || t == EventWidgetClick
}

// AnalyticsEvent is an append-only record of widget activity. EventData
// carries a free-form JSON payload (rating, widget name, reviewer name).
type AnalyticsEvent struct {
	ID         uint               `gorm:"primarykey" json:"id"`
	BusinessID uint               `gorm:"not null;index" json:"business_id"`
	WidgetID   uint               `gorm:"not null;index" json:"widget_id"`
	EventType  AnalyticsEventType `gorm:"type:varchar(40);not null;index" json:"event_type"`
	EventData  string             `gorm:"type:text" json:"event_data"`

	Views       int64 `gorm:"default:0" json:"views"`
	Clicks      int64 `gorm:"default:0" json:"clicks"`
	Conversions int64 `gorm:"default:0" json:"conversions"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// AnalyticsDaily is a per-business daily rollup written by the
// scheduler. One row per business per date.
type AnalyticsDaily struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	BusinessID uint      `gorm:"not null;index:idx_analytics_daily_business_date,unique" json:"business_id"`
	Date       time.Time `gorm:"type:date;not null;index:idx_analytics_daily_business_date,unique" json:"date"`

	Views         int64   `gorm:"default:0" json:"views"`
	Clicks        int64   `gorm:"default:0" json:"clicks"`
	Conversions   int64   `gorm:"default:0" json:"conversions"`
	ReviewCount   int64   `gorm:"default:0" json:"review_count"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AnalyticsDaily) TableName() string {
	return "analytics_daily"
}
