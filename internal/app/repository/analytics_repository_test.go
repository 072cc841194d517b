package repository

import (
	"context"
	"testing"
	"time"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAnalyticsTest(t *testing.T) (*gorm.DB, AnalyticsRepository, *model.Business, *model.Widget) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_metrics0000x")
	require.NoError(t, testDB.Create(widget).Error)

	return testDB, NewAnalyticsRepository(testDB), business, widget
}

func TestAnalyticsRepository_SumEvents(t *testing.T) {
	testDB, repo, business, widget := setupAnalyticsTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	events := []model.AnalyticsEvent{
		{BusinessID: business.ID, WidgetID: widget.ID, EventType: model.EventReviewSubmitted, Clicks: 1, Conversions: 1},
		{BusinessID: business.ID, WidgetID: widget.ID, EventType: model.EventReviewSubmitted, Clicks: 1, Conversions: 1},
		{BusinessID: business.ID, WidgetID: widget.ID, EventType: model.EventWidgetView, Views: 3},
	}
	for i := range events {
		require.NoError(t, repo.CreateEvent(ctx, &events[i]))
	}

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	totals, err := repo.SumEvents(business.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.Views)
	assert.Equal(t, int64(2), totals.Clicks)
	assert.Equal(t, int64(2), totals.Conversions)

	submitted, err := repo.CountEvents(business.ID, model.EventReviewSubmitted, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), submitted)
}

func TestAnalyticsRepository_SumEvents_EmptyRange(t *testing.T) {
	testDB, repo, business, _ := setupAnalyticsTest(t)
	defer db.CleanupTestDB(testDB)

	totals, err := repo.SumEvents(business.ID, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, totals.Views)
	assert.Zero(t, totals.Clicks)
	assert.Zero(t, totals.Conversions)
}

func TestAnalyticsRepository_BusinessesWithEvents(t *testing.T) {
	testDB, repo, business, widget := setupAnalyticsTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	require.NoError(t, repo.CreateEvent(ctx, &model.AnalyticsEvent{
		BusinessID: business.ID,
		WidgetID:   widget.ID,
		EventType:  model.EventReviewSubmitted,
	}))

	ids, err := repo.BusinessesWithEvents(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []uint{business.ID}, ids)
}

func TestAnalyticsRepository_UpsertDaily(t *testing.T) {
	testDB, repo, business, _ := setupAnalyticsTest(t)
	defer db.CleanupTestDB(testDB)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	first := &model.AnalyticsDaily{
		BusinessID:  business.ID,
		Date:        date,
		Views:       10,
		Clicks:      4,
		Conversions: 2,
		ReviewCount: 2,
	}
	require.NoError(t, repo.UpsertDaily(first))

	// A second rollup for the same day replaces, not duplicates.
	second := &model.AnalyticsDaily{
		BusinessID:    business.ID,
		Date:          date,
		Views:         12,
		Clicks:        5,
		Conversions:   3,
		ReviewCount:   3,
		AverageRating: 4.5,
	}
	require.NoError(t, repo.UpsertDaily(second))

	rows, err := repo.ListDaily(business.ID, date.Add(-24*time.Hour), date.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(12), rows[0].Views)
	assert.Equal(t, int64(3), rows[0].ReviewCount)
	assert.InDelta(t, 4.5, rows[0].AverageRating, 0.001)
}
