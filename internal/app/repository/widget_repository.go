package repository

import (
	"context"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"gorm.io/gorm"
)

// WidgetRepository covers both the owner dashboard (CRUD by primary
// key, scoped to a business) and the public submission path (lookup by
// widget code). Public-path methods take a context so the handler's
// deadline bounds the query.
type WidgetRepository interface {
	Create(widget *model.Widget) error
	Update(widget *model.Widget) error
	Delete(id, businessID uint) error
	FindByID(id, businessID uint) (*model.Widget, error)
	FindByBusinessID(businessID uint) ([]model.Widget, error)
	CountByBusinessID(businessID uint) (int64, error)
	FindByCode(ctx context.Context, code string, activeOnly bool) (*model.Widget, error)
	IncrementClicks(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type widgetRepository struct {
	db *gorm.DB
}

func NewWidgetRepository(db *gorm.DB) WidgetRepository {
	return &widgetRepository{db: db}
}

func (r *widgetRepository) Create(widget *model.Widget) error {
	logger.Debug("Creating widget in database", map[string]interface{}{
		"widget_code": widget.WidgetCode,
		"business_id": widget.BusinessID,
	})

	if err := r.db.Create(widget).Error; err != nil {
		logger.Error("Failed to create widget in database", err, map[string]interface{}{
			"widget_code": widget.WidgetCode,
			"business_id": widget.BusinessID,
		})
		return err
	}
	return nil
}

func (r *widgetRepository) Update(widget *model.Widget) error {
	return r.db.Save(widget).Error
}

func (r *widgetRepository) Delete(id, businessID uint) error {
	result := r.db.Where("business_id = ?", businessID).Delete(&model.Widget{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *widgetRepository) FindByID(id, businessID uint) (*model.Widget, error) {
	var widget model.Widget
	err := r.db.Where("business_id = ?", businessID).First(&widget, id).Error
	if err != nil {
		return nil, err
	}
	return &widget, nil
}

func (r *widgetRepository) FindByBusinessID(businessID uint) ([]model.Widget, error) {
	var widgets []model.Widget
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&widgets).Error
	if err != nil {
		return nil, err
	}
	return widgets, nil
}

func (r *widgetRepository) CountByBusinessID(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Widget{}).
		Where("business_id = ?", businessID).
		Count(&count).Error
	return count, err
}

func (r *widgetRepository) FindByCode(ctx context.Context, code string, activeOnly bool) (*model.Widget, error) {
	query := r.db.WithContext(ctx).Where("widget_code = ?", code)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var widget model.Widget
	if err := query.First(&widget).Error; err != nil {
		return nil, err
	}
	return &widget, nil
}

func (r *widgetRepository) IncrementClicks(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Widget{}).
		Where("id = ?", id).
		Update("clicks", gorm.Expr("clicks + 1")).Error
}

func (r *widgetRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Widget{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}
