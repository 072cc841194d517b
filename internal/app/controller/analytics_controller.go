package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
	businessService  service.BusinessService
}

func NewAnalyticsController(analyticsService service.AnalyticsService, businessService service.BusinessService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		businessService:  businessService,
	}
}

// GetSummary returns the analytics summary for a date range
// GET /api/v1/analytics/summary?range=30
func (ctrl *AnalyticsController) GetSummary(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	rangeDays, err := strconv.Atoi(c.DefaultQuery("range", "30"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.AnalyticsInvalidRange, "Range must be 7, 30 or 90 days")
		return
	}

	summary, err := ctrl.analyticsService.Summary(businessID, rangeDays)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			apperrors.BadRequest(c, apperrors.AnalyticsInvalidRange, "Range must be 7, 30 or 90 days")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get analytics summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": summary})
}

type RecordEventRequest struct {
	WidgetID  uint   `json:"widget_id" binding:"required"`
	EventType string `json:"event_type" binding:"required"`
}

// GetDaily returns per-day analytics rows for a date range
// GET /api/v1/analytics/daily?range=30
func (ctrl *AnalyticsController) GetDaily(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	rangeDays, err := strconv.Atoi(c.DefaultQuery("range", "30"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.AnalyticsInvalidRange, "Range must be 7, 30 or 90 days")
		return
	}

	daily, err := ctrl.analyticsService.Daily(businessID, rangeDays)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			apperrors.BadRequest(c, apperrors.AnalyticsInvalidRange, "Range must be 7, 30 or 90 days")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get daily analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily": daily})
}

// RecordEvent stores a widget view or click reported by the dashboard
// POST /api/v1/analytics/events
func (ctrl *AnalyticsController) RecordEvent(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Widget ID and event type are required")
		return
	}

	if err := ctrl.analyticsService.RecordEvent(c.Request.Context(), businessID, req.WidgetID, req.EventType); err != nil {
		if errors.Is(err, service.ErrInvalidEventType) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Event type must be widget_view or widget_click")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "record analytics event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Event recorded"})
}
