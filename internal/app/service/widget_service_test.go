package service

import (
	"context"
	"strings"
	"testing"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubSubscriptionService pins the widget limit for tests.
type stubSubscriptionService struct {
	limit int
}

func (s *stubSubscriptionService) Plans() []model.Plan { return nil }
func (s *stubSubscriptionService) Create(ctx context.Context, userID uint, planID string) (string, error) {
	return "", nil
}
func (s *stubSubscriptionService) Approve(ctx context.Context, userID uint, paypalID string) (*model.Subscription, error) {
	return nil, nil
}
func (s *stubSubscriptionService) Current(userID uint) (*SubscriptionDetail, error) {
	return nil, nil
}
func (s *stubSubscriptionService) Cancel(ctx context.Context, userID uint, reason string) error {
	return nil
}
func (s *stubSubscriptionService) WidgetLimit(userID uint) int { return s.limit }

func setupWidgetServiceTest(t *testing.T, limit int) (*gorm.DB, WidgetService, *model.Business, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(user).Error)
	business := &model.Business{UserID: user.ID, Name: "Acme Coffee"}
	require.NoError(t, testDB.Create(business).Error)

	svc := NewWidgetService(
		repository.NewWidgetRepository(testDB),
		&stubSubscriptionService{limit: limit},
		nil, // S3 publishing disabled
		"http://localhost:8080",
	)
	return testDB, svc, business, user.ID
}

func TestWidgetService_Create_AppliesDefaults(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(widget.WidgetCode, "widget_"))
	assert.Equal(t, "Review Widget", widget.Name)
	assert.Equal(t, model.DefaultWidgetTitle, widget.Title)
	assert.Equal(t, model.DefaultWidgetSubtitle, widget.Subtitle)
	assert.Equal(t, model.DefaultWidgetButtonText, widget.ButtonText)
	assert.Equal(t, model.ThemeLight, widget.Theme)
	assert.Equal(t, model.PositionBottomRight, widget.Position)
	assert.Equal(t, model.DefaultShowAfterMS, widget.ShowAfter)
	assert.Equal(t, model.DefaultPrimaryColor, widget.PrimaryColor)
	assert.True(t, widget.IsActive)
}

func TestWidgetService_Create_InvalidEnums(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	_, err := svc.Create(business.ID, userID, WidgetInput{Theme: "neon"})
	assert.ErrorIs(t, err, ErrInvalidTheme)

	_, err = svc.Create(business.ID, userID, WidgetInput{Position: "center"})
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestWidgetService_Create_EnforcesPlanLimit(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 1)

	_, err := svc.Create(business.ID, userID, WidgetInput{Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(business.ID, userID, WidgetInput{Name: "Second"})
	assert.ErrorIs(t, err, ErrWidgetLimitReached)
}

func TestWidgetService_Update(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{})
	require.NoError(t, err)

	updated, err := svc.Update(widget.ID, business.ID, WidgetInput{
		Title:    "Rate your visit",
		Theme:    "dark",
		Position: "top-left",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rate your visit", updated.Title)
	assert.Equal(t, model.ThemeDark, updated.Theme)
	assert.Equal(t, model.PositionTopLeft, updated.Position)
	// Untouched fields keep their values.
	assert.Equal(t, model.DefaultWidgetButtonText, updated.ButtonText)

	_, err = svc.Update(widget.ID, business.ID+1, WidgetInput{Title: "x"})
	assert.ErrorIs(t, err, ErrWidgetNotFound)
}

func TestWidgetService_SetActive(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{})
	require.NoError(t, err)

	updated, err := svc.SetActive(widget.ID, business.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestWidgetService_Delete(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(widget.ID, business.ID))
	_, err = svc.Get(widget.ID, business.ID)
	assert.ErrorIs(t, err, ErrWidgetNotFound)

	err = svc.Delete(widget.ID, business.ID)
	assert.ErrorIs(t, err, ErrWidgetNotFound)
}

func TestWidgetService_EmbedSnippet(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{Position: "bottom-right"})
	require.NoError(t, err)

	code, err := svc.EmbedSnippet(widget.ID, business.ID)
	require.NoError(t, err)

	assert.Contains(t, code, widget.WidgetCode)
	assert.Contains(t, code, "bottom: 20px; right: 20px;")
	assert.Contains(t, code, "/api/v1/public/reviews")

	// Same widget, same snippet.
	again, err := svc.EmbedSnippet(widget.ID, business.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestWidgetService_PublishEmbed_StorageDisabled(t *testing.T) {
	_, svc, business, userID := setupWidgetServiceTest(t, 0)

	widget, err := svc.Create(business.ID, userID, WidgetInput{})
	require.NoError(t, err)

	_, err = svc.PublishEmbed(context.Background(), widget.ID, business.ID)
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
