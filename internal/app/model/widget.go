package model

import (
	"time"

	"gorm.io/gorm"
)

type WidgetTheme string

const (
	ThemeLight WidgetTheme = "light"
	ThemeDark  WidgetTheme = "dark"
)

type WidgetPosition string

const (
	PositionBottomRight WidgetPosition = "bottom-right"
	PositionBottomLeft  WidgetPosition = "bottom-left"
	PositionTopRight    WidgetPosition = "top-right"
	PositionTopLeft     WidgetPosition = "top-left"
)

// ValidTheme reports whether t is in the closed theme set.
func ValidTheme(t WidgetTheme) bool {
	return t == ThemeLight || t == ThemeDark
}

// ValidPosition reports whether p is in the closed position set.
func ValidPosition(p WidgetPosition) bool {
	switch p {
	case PositionBottomRight, PositionBottomLeft, PositionTopRight, PositionTopLeft:
		return true
	}
	return false
}

// Widget is an owner-configured, embeddable review collection unit.
// It is addressed externally by WidgetCode, never by its primary key.
// Widgets are soft-deleted only: historical reviews keep referencing
// them.
type Widget struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	WidgetCode string         `gorm:"uniqueIndex;not null" json:"widget_code"`
	Name       string         `gorm:"not null" json:"name"`
	Title      string         `gorm:"not null" json:"title"`
	Subtitle   string         `json:"subtitle"`
	ButtonText string         `gorm:"not null" json:"button_text"`
	Theme      WidgetTheme    `gorm:"type:varchar(20);not null" json:"theme"`
	Position   WidgetPosition `gorm:"type:varchar(20);not null" json:"position"`
	ShowAfter  int            `gorm:"not null" json:"show_after"` // milliseconds

	PrimaryColor   string `gorm:"not null" json:"primary_color"`
	SecondaryColor string `gorm:"not null" json:"secondary_color"`
	TextColor      string `gorm:"not null" json:"text_color"`

	IsActive bool  `gorm:"default:true;index" json:"is_active"`
	Views    int64 `gorm:"default:0" json:"views"`
	Clicks   int64 `gorm:"default:0" json:"clicks"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reviews []Review `gorm:"foreignKey:WidgetID" json:"-"`
}

func (Widget) TableName() string {
	return "widgets"
}

// Widget defaults, mirrored by the dashboard widget builder.
const (
	DefaultWidgetTitle      = "How was your experience?"
	DefaultWidgetSubtitle   = "We'd love to hear your feedback!"
	DefaultWidgetButtonText = "Leave a Review"
	DefaultShowAfterMS      = 5000
	DefaultPrimaryColor     = "#007cba"
	DefaultSecondaryColor   = "#f8f9fa"
	DefaultTextColor        = "#333333"
)

// ApplyDefaults is the single defaulting step for widget construction.
// After it returns every display field is populated; the snippet
// generator performs no defaulting of its own.
func (w *Widget) ApplyDefaults() {
	if w.Name == "" {
		w.Name = "Review Widget"
	}
	if w.Title == "" {
		w.Title = DefaultWidgetTitle
	}
	if w.Subtitle == "" {
		w.Subtitle = DefaultWidgetSubtitle
	}
	if w.ButtonText == "" {
		w.ButtonText = DefaultWidgetButtonText
	}
	if !ValidTheme(w.Theme) {
		w.Theme = ThemeLight
	}
	if !ValidPosition(w.Position) {
		w.Position = PositionBottomRight
	}
	if w.ShowAfter <= 0 {
		w.ShowAfter = DefaultShowAfterMS
	}
	if w.PrimaryColor == "" {
		w.PrimaryColor = DefaultPrimaryColor
	}
	if w.SecondaryColor == "" {
		w.SecondaryColor = DefaultSecondaryColor
	}
	if w.TextColor == "" {
		w.TextColor = DefaultTextColor
	}
}
