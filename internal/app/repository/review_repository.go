package repository

import (
	"context"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewFilter struct {
	BusinessID uint
	WidgetID   uint
	Status     model.ReviewStatus
	Offset     int
	Limit      int
}

type ReviewStats struct {
	Total         int64
	AverageRating float64
	Distribution  map[int]int64 // rating -> count, published only
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(review *model.Review) error
	Delete(id, businessID uint) error
	FindByID(id, businessID uint) (*model.Review, error)
	FindByBusinessID(filter ReviewFilter) ([]model.Review, int64, error)
	FindAllForExport(businessID uint) ([]model.Review, error)
	Stats(businessID uint) (*ReviewStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id, businessID uint) error {
	result := r.db.Where("business_id = ?", businessID).Delete(&model.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) FindByID(id, businessID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("business_id = ?", businessID).First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByBusinessID(filter ReviewFilter) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("business_id = ?", filter.BusinessID)
	if filter.WidgetID != 0 {
		query = query.Where("widget_id = ?", filter.WidgetID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) FindAllForExport(businessID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Stats(businessID uint) (*ReviewStats, error) {
	stats := &ReviewStats{Distribution: make(map[int]int64)}

	base := r.db.Model(&model.Review{}).
		Where("business_id = ? AND status = ?", businessID, model.ReviewPublished)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return stats, nil
	}

	if err := base.Session(&gorm.Session{}).
		Select("AVG(rating)").
		Scan(&stats.AverageRating).Error; err != nil {
		return nil, err
	}

	type ratingCount struct {
		Rating int
		Count  int64
	}
	var rows []ratingCount
	err := base.Session(&gorm.Session{}).
		Select("rating, COUNT(*) as count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.Count
	}

	return stats, nil
}
