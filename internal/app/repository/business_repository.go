package repository

import (
	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(business *model.Business) error
	Update(business *model.Business) error
	FindByID(id uint) (*model.Business, error)
	FindByUserID(userID uint) (*model.Business, error)
	DeleteCascade(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	return r.db.Create(business).Error
}

func (r *businessRepository) Update(business *model.Business) error {
	return r.db.Save(business).Error
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByUserID(userID uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("user_id = ?", userID).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// DeleteCascade soft-deletes a business together with its widgets and
// reviews in one transaction. Used by account deletion.
func (r *businessRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&model.Widget{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Business{}, id).Error
	})
}
