package service

import (
	"context"
	"errors"
	"time"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
)

var ErrInvalidRange = errors.New("range must be 7, 30 or 90 days")

// AnalyticsSummary is the dashboard overview for a date range.
type AnalyticsSummary struct {
	RangeDays      int                    `json:"range_days"`
	Views          int64                  `json:"views"`
	Clicks         int64                  `json:"clicks"`
	Conversions    int64                  `json:"conversions"`
	ReviewCount    int64                  `json:"review_count"`
	AverageRating  float64                `json:"average_rating"`
	ConversionRate float64                `json:"conversion_rate"` // conversions / views
	Daily          []model.AnalyticsDaily `json:"daily"`
}

var ErrInvalidEventType = errors.New("event type must be widget_view or widget_click")

type AnalyticsService interface {
	Summary(businessID uint, rangeDays int) (*AnalyticsSummary, error)
	Daily(businessID uint, rangeDays int) ([]model.AnalyticsDaily, error)
	RecordEvent(ctx context.Context, businessID, widgetID uint, eventType string) error
	RollupDay(day time.Time) error
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

func validRange(days int) bool {
	return days == 7 || days == 30 || days == 90
}

func (s *analyticsService) Summary(businessID uint, rangeDays int) (*AnalyticsSummary, error) {
	if !validRange(rangeDays) {
		return nil, ErrInvalidRange
	}

	to := time.Now()
	from := to.AddDate(0, 0, -rangeDays)

	totals, err := s.analyticsRepo.SumEvents(businessID, from, to)
	if err != nil {
		return nil, err
	}

	reviewCount, avgRating, err := s.analyticsRepo.ReviewTotals(businessID, from, to)
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.ListDaily(businessID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		RangeDays:     rangeDays,
		Views:         totals.Views,
		Clicks:        totals.Clicks,
		Conversions:   totals.Conversions,
		ReviewCount:   reviewCount,
		AverageRating: avgRating,
		Daily:         daily,
	}
	if totals.Views > 0 {
		summary.ConversionRate = float64(totals.Conversions) / float64(totals.Views)
	}
	return summary, nil
}

// Daily returns the rolled-up rows for a range, for dashboard charts
// that don't need the event-level totals.
func (s *analyticsService) Daily(businessID uint, rangeDays int) ([]model.AnalyticsDaily, error) {
	if !validRange(rangeDays) {
		return nil, ErrInvalidRange
	}
	to := time.Now()
	return s.analyticsRepo.ListDaily(businessID, to.AddDate(0, 0, -rangeDays), to)
}

// RecordEvent stores a dashboard-originated widget event. The
// submission path writes its own events; only view and click types are
// accepted here.
func (s *analyticsService) RecordEvent(ctx context.Context, businessID, widgetID uint, eventType string) error {
	t := model.AnalyticsEventType(eventType)
	if !model.ValidDashboardEvent(t) {
		return ErrInvalidEventType
	}

	event := &model.AnalyticsEvent{
		BusinessID: businessID,
		WidgetID:   widgetID,
		EventType:  t,
	}
	switch t {
	case model.EventWidgetView:
		event.Views = 1
	case model.EventWidgetClick:
		event.Clicks = 1
	}
	return s.analyticsRepo.CreateEvent(ctx, event)
}

// RollupDay aggregates the raw event stream for one calendar day (UTC)
// into per-business daily rows. Re-running the same day overwrites the
// previous rollup.
func (s *analyticsService) RollupDay(day time.Time) error {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	businessIDs, err := s.analyticsRepo.BusinessesWithEvents(from, to)
	if err != nil {
		logger.Error("Daily rollup: failed to list businesses", err, nil)
		return err
	}

	var failed int
	for _, businessID := range businessIDs {
		if err := s.rollupBusiness(businessID, from, to); err != nil {
			logger.Error("Daily rollup failed for business", err, map[string]interface{}{
				"business_id": businessID,
				"date":        from.Format("2006-01-02"),
			})
			failed++
		}
	}

	logger.Info("Daily analytics rollup finished", map[string]interface{}{
		"date":       from.Format("2006-01-02"),
		"businesses": len(businessIDs),
		"failed":     failed,
	})
	return nil
}

func (s *analyticsService) rollupBusiness(businessID uint, from, to time.Time) error {
	totals, err := s.analyticsRepo.SumEvents(businessID, from, to)
	if err != nil {
		return err
	}

	reviewCount, avgRating, err := s.analyticsRepo.ReviewTotals(businessID, from, to)
	if err != nil {
		return err
	}

	return s.analyticsRepo.UpsertDaily(&model.AnalyticsDaily{
		BusinessID:    businessID,
		Date:          from,
		Views:         totals.Views,
		Clicks:        totals.Clicks,
		Conversions:   totals.Conversions,
		ReviewCount:   reviewCount,
		AverageRating: avgRating,
	})
}
