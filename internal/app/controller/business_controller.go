package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{
		businessService: businessService,
	}
}

type UpdateBusinessRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Industry string `json:"industry"`
}

// currentBusinessID resolves the authenticated user's business. Every
// owner-facing controller scopes its queries by this ID. Writes the
// error response itself when resolution fails.
func currentBusinessID(c *gin.Context, businesses service.BusinessService) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return 0, false
	}

	business, err := businesses.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return 0, false
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve business")
		return 0, false
	}
	return business.ID, true
}

// GetBusiness returns the authenticated user's business profile
// GET /api/v1/business
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	business, err := ctrl.businessService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// UpdateBusiness updates the authenticated user's business profile
// PUT /api/v1/business
func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid business details")
		return
	}

	business, err := ctrl.businessService.Update(userID, req.Name, req.Email, req.Industry)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to update business", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business updated",
		"business": business,
	})
}
