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

func setupWidgetTest(t *testing.T) (*gorm.DB, WidgetRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewWidgetRepository(testDB)
	return testDB, repo
}

func createTestBusiness(t *testing.T, testDB *gorm.DB) *model.Business {
	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed",
		Name:         "Owner",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(user).Error)

	business := &model.Business{
		UserID: user.ID,
		Name:   "Acme Coffee",
		Email:  "hello@acme.example",
	}
	require.NoError(t, testDB.Create(business).Error)
	return business
}

func newTestWidget(businessID uint, code string) *model.Widget {
	w := &model.Widget{
		BusinessID: businessID,
		WidgetCode: code,
		IsActive:   true,
	}
	w.ApplyDefaults()
	return w
}

func TestWidgetRepository_Create(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_abc123def4567")

	err := repo.Create(widget)
	assert.NoError(t, err)
	assert.NotZero(t, widget.ID)
}

func TestWidgetRepository_Create_DuplicateCode(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)

	require.NoError(t, repo.Create(newTestWidget(business.ID, "widget_dup000000000")))
	err := repo.Create(newTestWidget(business.ID, "widget_dup000000000"))
	assert.Error(t, err)
}

func TestWidgetRepository_FindByCode(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_live00000000a")
	require.NoError(t, repo.Create(widget))

	found, err := repo.FindByCode(context.Background(), "widget_live00000000a", true)
	assert.NoError(t, err)
	assert.Equal(t, widget.ID, found.ID)
	assert.Equal(t, model.ThemeLight, found.Theme)
}

func TestWidgetRepository_FindByCode_InactiveExcluded(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_off000000000b")
	require.NoError(t, repo.Create(widget))
	require.NoError(t, testDB.Model(widget).Update("is_active", false).Error)

	_, err := repo.FindByCode(context.Background(), "widget_off000000000b", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Owner-side lookups still see it.
	found, err := repo.FindByCode(context.Background(), "widget_off000000000b", false)
	assert.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestWidgetRepository_FindByCode_Unknown(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByCode(context.Background(), "widget_nosuchcode000", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWidgetRepository_IncrementClicks(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_click0000000c")
	require.NoError(t, repo.Create(widget))

	ctx := context.Background()
	require.NoError(t, repo.IncrementClicks(ctx, widget.ID))
	require.NoError(t, repo.IncrementClicks(ctx, widget.ID))
	require.NoError(t, repo.IncrementViews(ctx, widget.ID))

	found, err := repo.FindByCode(ctx, widget.WidgetCode, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Clicks)
	assert.Equal(t, int64(1), found.Views)
}

func TestWidgetRepository_Delete_ScopedToBusiness(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	widget := newTestWidget(business.ID, "widget_scope0000000d")
	require.NoError(t, repo.Create(widget))

	// A different business must not be able to delete it.
	err := repo.Delete(widget.ID, business.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(widget.ID, business.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(widget.ID, business.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWidgetRepository_CountByBusinessID(t *testing.T) {
	testDB, repo := setupWidgetTest(t)
	defer db.CleanupTestDB(testDB)

	business := createTestBusiness(t, testDB)
	require.NoError(t, repo.Create(newTestWidget(business.ID, "widget_count000000aa")))
	require.NoError(t, repo.Create(newTestWidget(business.ID, "widget_count000000bb")))

	count, err := repo.CountByBusinessID(business.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
