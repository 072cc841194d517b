package repository

import (
	"context"
	"testing"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewTest(t *testing.T) (*gorm.DB, ReviewRepository, *model.Business, *model.Widget) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_review000000x")
	require.NoError(t, testDB.Create(widget).Error)

	return testDB, NewReviewRepository(testDB), business, widget
}

func newTestReview(businessID, widgetID uint, rating int, status model.ReviewStatus) *model.Review {
	return &model.Review{
		BusinessID:    businessID,
		WidgetID:      widgetID,
		Title:         model.ReviewTitle(rating, "Jamie"),
		Content:       "Great service, would come back.",
		Rating:        rating,
		CustomerName:  "Jamie",
		CustomerEmail: "jamie@example.com",
		Status:        status,
		Source:        model.SourceWidget,
	}
}

func TestReviewRepository_Create(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	review := newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)
	err := repo.Create(context.Background(), review)

	assert.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.NotEmpty(t, review.PublicID, "public id must be assigned on create")
	assert.Equal(t, "5 star review from Jamie", review.Title)
}

func TestReviewRepository_Create_UniquePublicIDs(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	first := newTestReview(business.ID, widget.ID, 4, model.ReviewPublished)
	second := newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEqual(t, first.PublicID, second.PublicID)
}

func TestReviewRepository_FindByBusinessID(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)))
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 3, model.ReviewPublished)))
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 1, model.ReviewHidden)))

	all, total, err := repo.FindByBusinessID(ReviewFilter{BusinessID: business.ID, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	published, total, err := repo.FindByBusinessID(ReviewFilter{
		BusinessID: business.ID,
		Status:     model.ReviewPublished,
		Limit:      10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, published, 2)
}

func TestReviewRepository_FindByBusinessID_Pagination(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 4, model.ReviewPublished)))
	}

	page, total, err := repo.FindByBusinessID(ReviewFilter{
		BusinessID: business.ID,
		Offset:     3,
		Limit:      2,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)
}

func TestReviewRepository_Stats(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)))
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)))
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 2, model.ReviewPublished)))
	// Hidden reviews stay out of public stats.
	require.NoError(t, repo.Create(ctx, newTestReview(business.ID, widget.ID, 1, model.ReviewHidden)))

	stats, err := repo.Stats(business.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.Equal(t, int64(2), stats.Distribution[5])
	assert.Equal(t, int64(1), stats.Distribution[2])
	assert.Zero(t, stats.Distribution[1])
}

func TestReviewRepository_Stats_Empty(t *testing.T) {
	testDB, repo, business, _ := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	stats, err := repo.Stats(business.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.AverageRating)
}

func TestReviewRepository_Delete_ScopedToBusiness(t *testing.T) {
	testDB, repo, business, widget := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	review := newTestReview(business.ID, widget.ID, 5, model.ReviewPublished)
	require.NoError(t, repo.Create(context.Background(), review))

	err := repo.Delete(review.ID, business.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, repo.Delete(review.ID, business.ID))
}
