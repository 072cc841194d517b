package service

import (
	"context"
	"testing"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*gorm.DB, ReviewService, *model.Business, *model.Widget) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	business, widget := seedBusinessWithWidget(t, testDB, "widget_reviews0000zz", true)
	return testDB, NewReviewService(repository.NewReviewRepository(testDB)), business, widget
}

func seedReview(t *testing.T, testDB *gorm.DB, businessID, widgetID uint, rating int, status model.ReviewStatus) *model.Review {
	review := &model.Review{
		BusinessID:    businessID,
		WidgetID:      widgetID,
		Title:         model.ReviewTitle(rating, "Jamie"),
		Content:       "Solid experience overall.",
		Rating:        rating,
		CustomerName:  "Jamie",
		CustomerEmail: "jamie@example.com",
		Status:        status,
		Source:        model.SourceWidget,
	}
	require.NoError(t, repository.NewReviewRepository(testDB).Create(context.Background(), review))
	return review
}

func TestReviewService_List(t *testing.T) {
	testDB, svc, business, widget := setupReviewServiceTest(t)

	seedReview(t, testDB, business.ID, widget.ID, 5, model.ReviewPublished)
	seedReview(t, testDB, business.ID, widget.ID, 2, model.ReviewHidden)

	all, total, err := svc.List(business.ID, ReviewListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	hidden, total, err := svc.List(business.ID, ReviewListOptions{Status: "hidden"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hidden, 1)
	assert.Equal(t, 2, hidden[0].Rating)

	_, _, err = svc.List(business.ID, ReviewListOptions{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidReviewStatus)
}

func TestReviewService_CreateManual(t *testing.T) {
	_, svc, business, widget := setupReviewServiceTest(t)

	review, err := svc.CreateManual(context.Background(), business.ID, ManualReviewInput{
		WidgetID: widget.ID,
		Name:     "Morgan",
		Email:    "morgan@example.com",
		Rating:   4,
		Content:  "Told us in person, adding it here.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceManual, review.Source)
	assert.Equal(t, model.ReviewPublished, review.Status)
	assert.Equal(t, model.ReviewTitle(4, "Morgan"), review.Title)

	_, err = svc.CreateManual(context.Background(), business.ID, ManualReviewInput{
		Name:    "Morgan",
		Email:   "morgan@example.com",
		Rating:  6,
		Content: "Out of bounds",
	})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_Update(t *testing.T) {
	testDB, svc, business, widget := setupReviewServiceTest(t)

	review := seedReview(t, testDB, business.ID, widget.ID, 4, model.ReviewPublished)

	updated, err := svc.Update(review.ID, business.ID, ReviewUpdateInput{
		Content: "Edited by the owner.",
		Status:  "hidden",
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited by the owner.", updated.Content)
	assert.Equal(t, model.ReviewHidden, updated.Status)
	assert.Equal(t, review.Title, updated.Title, "empty title leaves the existing one")

	_, err = svc.Update(review.ID, business.ID, ReviewUpdateInput{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidReviewStatus)

	_, err = svc.Update(review.ID+100, business.ID, ReviewUpdateInput{Content: "x"})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_SetStatus(t *testing.T) {
	testDB, svc, business, widget := setupReviewServiceTest(t)

	review := seedReview(t, testDB, business.ID, widget.ID, 1, model.ReviewPublished)

	updated, err := svc.SetStatus(review.ID, business.ID, "hidden")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewHidden, updated.Status)

	_, err = svc.SetStatus(review.ID, business.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidReviewStatus)

	_, err = svc.SetStatus(review.ID+100, business.ID, "hidden")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_Delete(t *testing.T) {
	testDB, svc, business, widget := setupReviewServiceTest(t)

	review := seedReview(t, testDB, business.ID, widget.ID, 3, model.ReviewPublished)

	require.NoError(t, svc.Delete(review.ID, business.ID))
	assert.ErrorIs(t, svc.Delete(review.ID, business.ID), ErrReviewNotFound)
}

func TestReviewService_Export(t *testing.T) {
	testDB, svc, business, widget := setupReviewServiceTest(t)

	seedReview(t, testDB, business.ID, widget.ID, 5, model.ReviewPublished)
	seedReview(t, testDB, business.ID, widget.ID, 4, model.ReviewPublished)

	f, err := svc.Export(business.ID)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reviews")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two reviews")
	assert.Equal(t, "Customer", rows[0][1])
	assert.Equal(t, "Jamie", rows[1][1])
}
