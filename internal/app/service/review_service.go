package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrInvalidReviewStatus = errors.New("invalid review status")
)

// ReviewListOptions filters the owner-facing review listing.
type ReviewListOptions struct {
	WidgetID uint
	Status   string
	Page     int
	PageSize int
}

// ManualReviewInput is an owner-entered review, e.g. transcribed from
// email or an in-person conversation.
type ManualReviewInput struct {
	WidgetID uint
	Name     string
	Email    string
	Rating   int
	Content  string
}

// ReviewUpdateInput carries owner edits. Empty fields stay untouched.
type ReviewUpdateInput struct {
	Title   string
	Content string
	Status  string
}

type ReviewService interface {
	List(businessID uint, opts ReviewListOptions) ([]model.Review, int64, error)
	Get(id, businessID uint) (*model.Review, error)
	CreateManual(ctx context.Context, businessID uint, input ManualReviewInput) (*model.Review, error)
	Update(id, businessID uint, input ReviewUpdateInput) (*model.Review, error)
	SetStatus(id, businessID uint, status string) (*model.Review, error)
	Delete(id, businessID uint) error
	Stats(businessID uint) (*repository.ReviewStats, error)
	Export(businessID uint) (*excelize.File, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *reviewService) List(businessID uint, opts ReviewListOptions) ([]model.Review, int64, error) {
	if opts.Status != "" && !model.ValidReviewStatus(model.ReviewStatus(opts.Status)) {
		return nil, 0, ErrInvalidReviewStatus
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	return s.reviewRepo.FindByBusinessID(repository.ReviewFilter{
		BusinessID: businessID,
		WidgetID:   opts.WidgetID,
		Status:     model.ReviewStatus(opts.Status),
		Offset:     (opts.Page - 1) * opts.PageSize,
		Limit:      opts.PageSize,
	})
}

func (s *reviewService) Get(id, businessID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// CreateManual stores an owner-entered review. It bypasses widget
// resolution and rate limiting but keeps the same rating bounds as the
// public path.
func (s *reviewService) CreateManual(ctx context.Context, businessID uint, input ManualReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &model.Review{
		BusinessID:    businessID,
		WidgetID:      input.WidgetID,
		Title:         model.ReviewTitle(input.Rating, input.Name),
		Content:       input.Content,
		Rating:        input.Rating,
		CustomerName:  input.Name,
		CustomerEmail: input.Email,
		Status:        model.ReviewPublished,
		Source:        model.SourceManual,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	logger.Info("Manual review created", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
		"rating":      input.Rating,
	})
	return review, nil
}

func (s *reviewService) Update(id, businessID uint, input ReviewUpdateInput) (*model.Review, error) {
	if input.Status != "" && !model.ValidReviewStatus(model.ReviewStatus(input.Status)) {
		return nil, ErrInvalidReviewStatus
	}

	review, err := s.reviewRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if input.Title != "" {
		review.Title = input.Title
	}
	if input.Content != "" {
		review.Content = input.Content
	}
	if input.Status != "" {
		review.Status = model.ReviewStatus(input.Status)
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// SetStatus publishes or hides a review on the public widget surface.
func (s *reviewService) SetStatus(id, businessID uint, status string) (*model.Review, error) {
	if !model.ValidReviewStatus(model.ReviewStatus(status)) {
		return nil, ErrInvalidReviewStatus
	}

	review, err := s.Get(id, businessID)
	if err != nil {
		return nil, err
	}

	review.Status = model.ReviewStatus(status)
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	logger.Info("Review status changed", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
		"status":      status,
	})
	return review, nil
}

func (s *reviewService) Delete(id, businessID uint) error {
	if err := s.reviewRepo.Delete(id, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) Stats(businessID uint) (*repository.ReviewStats, error) {
	return s.reviewRepo.Stats(businessID)
}

// Export builds an xlsx workbook of every review for the business.
func (s *reviewService) Export(businessID uint) (*excelize.File, error) {
	reviews, err := s.reviewRepo.FindAllForExport(businessID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Reviews"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Customer", "Email", "Rating", "Title", "Review", "Status", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, review := range reviews {
		values := []interface{}{
			review.CreatedAt.Format("2006-01-02 15:04"),
			review.CustomerName,
			review.CustomerEmail,
			review.Rating,
			review.Title,
			review.Content,
			string(review.Status),
			string(review.Source),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	logger.Info("Review export generated", map[string]interface{}{
		"business_id": businessID,
		"rows":        len(reviews),
	})
	return f, nil
}

// ExportFilename names the download for the dashboard.
func ExportFilename(businessID uint) string {
	return fmt.Sprintf("reviews-business-%d.xlsx", businessID)
}
