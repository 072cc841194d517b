package repository

import (
	"context"
	"time"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventTotals struct {
	Views       int64
	Clicks      int64
	Conversions int64
}

type AnalyticsRepository interface {
	CreateEvent(ctx context.Context, event *model.AnalyticsEvent) error
	SumEvents(businessID uint, from, to time.Time) (*EventTotals, error)
	CountEvents(businessID uint, eventType model.AnalyticsEventType, from, to time.Time) (int64, error)
	BusinessesWithEvents(from, to time.Time) ([]uint, error)
	ReviewTotals(businessID uint, from, to time.Time) (int64, float64, error)
	UpsertDaily(daily *model.AnalyticsDaily) error
	ListDaily(businessID uint, from, to time.Time) ([]model.AnalyticsDaily, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CreateEvent(ctx context.Context, event *model.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *analyticsRepository) SumEvents(businessID uint, from, to time.Time) (*EventTotals, error) {
	var totals EventTotals
	err := r.db.Model(&model.AnalyticsEvent{}).
		Where("business_id = ? AND created_at >= ? AND created_at < ?", businessID, from, to).
		Select("COALESCE(SUM(views), 0) as views, COALESCE(SUM(clicks), 0) as clicks, COALESCE(SUM(conversions), 0) as conversions").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *analyticsRepository) CountEvents(businessID uint, eventType model.AnalyticsEventType, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.AnalyticsEvent{}).
		Where("business_id = ? AND event_type = ? AND created_at >= ? AND created_at < ?",
			businessID, eventType, from, to).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) BusinessesWithEvents(from, to time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.AnalyticsEvent{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("business_id").
		Pluck("business_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReviewTotals returns the published review count and average rating
// for a business over [from, to).
func (r *analyticsRepository) ReviewTotals(businessID uint, from, to time.Time) (int64, float64, error) {
	query := r.db.Model(&model.Review{}).
		Where("business_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			businessID, model.ReviewPublished, from, to)

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	if err := query.Session(&gorm.Session{}).Select("AVG(rating)").Scan(&avg).Error; err != nil {
		return 0, 0, err
	}
	return count, avg, nil
}

// UpsertDaily inserts or replaces the rollup row for the business/date
// pair, so re-running a day's rollup is idempotent.
func (r *analyticsRepository) UpsertDaily(daily *model.AnalyticsDaily) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"views", "clicks", "conversions", "review_count", "average_rating", "updated_at",
		}),
	}).Create(daily).Error
}

func (r *analyticsRepository) ListDaily(businessID uint, from, to time.Time) ([]model.AnalyticsDaily, error) {
	var rows []model.AnalyticsDaily
	err := r.db.Where("business_id = ? AND date >= ? AND date < ?", businessID, from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
