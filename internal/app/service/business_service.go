package service

import (
	"errors"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrBusinessNotFound = errors.New("business not found")

type BusinessService interface {
	GetByUserID(userID uint) (*model.Business, error)
	Update(userID uint, name, email, industry string) (*model.Business, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository) BusinessService {
	return &businessService{businessRepo: businessRepo}
}

func (s *businessService) GetByUserID(userID uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) Update(userID uint, name, email, industry string) (*model.Business, error) {
	business, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		business.Name = name
	}
	if email != "" {
		business.Email = email
	}
	if industry != "" {
		business.Industry = industry
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}
	return business, nil
}
