package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

// SubmissionController serves the public widget endpoints. These are
// hit cross-origin by the embed snippet on customer sites, so the
// response contract is frozen: the deployed snippets parse it.
type SubmissionController struct {
	submissionService service.SubmissionService
}

func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
	}
}

// requiredFieldsMessage lists every required field so embedders can fix
// their form in one pass instead of resubmitting field by field.
const requiredFieldsMessage = "Missing required fields: name, email, rating, review, widgetId"

type SubmitReviewRequest struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Rating   *json.Number `json:"rating"`
	Review   string       `json:"review"`
	WidgetID string       `json:"widgetId"`
}

// SubmitReview accepts a review from an embedded widget
// POST /api/v1/public/reviews
func (ctrl *SubmissionController) SubmitReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Rating == nil || req.Review == "" || req.WidgetID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, requiredFieldsMessage)
		return
	}

	// JSON numbers arrive untyped; "3.5" must be rejected here, not
	// silently truncated.
	rating, err := req.Rating.Int64()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be a whole number between 1 and 5")
		return
	}

	result, err := ctrl.submissionService.Submit(c.Request.Context(), service.SubmitInput{
		WidgetCode: req.WidgetID,
		Name:       req.Name,
		Email:      req.Email,
		Rating:     int(rating),
		Review:     req.Review,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be a whole number between 1 and 5")
		case errors.Is(err, service.ErrActiveWidgetNotFound):
			apperrors.NotFound(c, apperrors.WidgetNotFound, "Widget not found or inactive")
		case errors.Is(err, service.ErrRateLimited):
			apperrors.TooManyRequests(c, "Too many submissions. Please try again later")
		default:
			log.Error("Review submission failed", err, map[string]interface{}{
				"widget_code": req.WidgetID,
			})
			apperrors.InternalError(c, "Failed to submit review. Please try again later")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Review submitted successfully",
		"reviewId": result.ReviewID,
	})
}

// TrackWidgetView records an impression for an embedded widget
// POST /api/v1/public/widgets/:code/view
func (ctrl *SubmissionController) TrackWidgetView(c *gin.Context) {
	code := c.Param("code")

	if err := ctrl.submissionService.TrackView(c.Request.Context(), code); err != nil {
		if errors.Is(err, service.ErrActiveWidgetNotFound) {
			apperrors.NotFound(c, apperrors.WidgetNotFound, "Widget not found or inactive")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
