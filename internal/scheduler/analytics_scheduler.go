package scheduler

import (
	"time"

	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// AnalyticsScheduler rolls raw analytics events up into daily rows.
type AnalyticsScheduler struct {
	cron             *cron.Cron
	analyticsService service.AnalyticsService
}

func NewAnalyticsScheduler(analyticsService service.AnalyticsService) *AnalyticsScheduler {
	return &AnalyticsScheduler{
		cron:             cron.New(cron.WithLocation(time.UTC)),
		analyticsService: analyticsService,
	}
}

// Start schedules the daily rollup. Runs at 01:00 UTC and aggregates
// the previous calendar day, so late events from just before midnight
// are included.
func (s *AnalyticsScheduler) Start() error {
	_, err := s.cron.AddFunc("0 1 * * *", func() {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		logger.Info("Starting scheduled analytics rollup", map[string]interface{}{
			"day": yesterday.Format("2006-01-02"),
		})

		if err := s.analyticsService.RollupDay(yesterday); err != nil {
			logger.Error("Scheduled analytics rollup failed", err)
			return
		}

		logger.Info("Scheduled analytics rollup completed", map[string]interface{}{
			"day": yesterday.Format("2006-01-02"),
		})
	})

	if err != nil {
		logger.Error("Failed to register analytics rollup job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Analytics scheduler started (daily rollup at 01:00 UTC)")

	return nil
}

func (s *AnalyticsScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Analytics scheduler stopped")
}
