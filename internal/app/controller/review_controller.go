package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

type ReviewController struct {
	reviewService   service.ReviewService
	businessService service.BusinessService
}

func NewReviewController(reviewService service.ReviewService, businessService service.BusinessService) *ReviewController {
	return &ReviewController{
		reviewService:   reviewService,
		businessService: businessService,
	}
}

type SetReviewStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateReviewRequest struct {
	WidgetID uint   `json:"widget_id"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Rating   int    `json:"rating" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type UpdateReviewRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

func reviewIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return 0, false
	}
	return uint(id), true
}

func respondReviewError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
	case errors.Is(err, service.ErrInvalidReviewStatus):
		apperrors.BadRequest(c, apperrors.ReviewInvalidStatus, "Status must be one of: published, hidden")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListReviews returns reviews for the authenticated business
// GET /api/v1/reviews?page=1&page_size=20&status=published&widget_id=3
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	widgetID, _ := strconv.ParseUint(c.Query("widget_id"), 10, 32)

	reviews, total, err := ctrl.reviewService.List(businessID, service.ReviewListOptions{
		WidgetID: uint(widgetID),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondReviewError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":   reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// CreateReview stores an owner-entered review
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, email, rating and content are required")
		return
	}

	review, err := ctrl.reviewService.CreateManual(c.Request.Context(), businessID, service.ManualReviewInput{
		WidgetID: req.WidgetID,
		Name:     req.Name,
		Email:    req.Email,
		Rating:   req.Rating,
		Content:  req.Content,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be a whole number between 1 and 5")
			return
		}
		respondReviewError(c, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// UpdateReview edits a review's title, content or status
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review details")
		return
	}

	review, err := ctrl.reviewService.Update(id, businessID, service.ReviewUpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		respondReviewError(c, err, "update review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// GetReview returns a single review
// GET /api/v1/reviews/:id
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.Get(id, businessID)
	if err != nil {
		respondReviewError(c, err, "get review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// SetReviewStatus moderates a review
// PATCH /api/v1/reviews/:id/status
func (ctrl *ReviewController) SetReviewStatus(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req SetReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	review, err := ctrl.reviewService.SetStatus(id, businessID, req.Status)
	if err != nil {
		respondReviewError(c, err, "set review status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review status updated",
		"review":  review,
	})
}

// DeleteReview removes a review
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.reviewService.Delete(id, businessID); err != nil {
		respondReviewError(c, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// GetReviewStats returns aggregate rating stats
// GET /api/v1/reviews/stats
func (ctrl *ReviewController) GetReviewStats(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	stats, err := ctrl.reviewService.Stats(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get review stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ExportReviews streams all reviews as an Excel workbook
// GET /api/v1/reviews/export
func (ctrl *ReviewController) ExportReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	file, err := ctrl.reviewService.Export(businessID)
	if err != nil {
		log.Error("Failed to export reviews", err, map[string]interface{}{
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export reviews")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFilename(businessID)))

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write review export", err)
	}
}
