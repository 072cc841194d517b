package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

type WidgetController struct {
	widgetService   service.WidgetService
	businessService service.BusinessService
}

func NewWidgetController(widgetService service.WidgetService, businessService service.BusinessService) *WidgetController {
	return &WidgetController{
		widgetService:   widgetService,
		businessService: businessService,
	}
}

type WidgetRequest struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	ButtonText     string `json:"button_text"`
	Theme          string `json:"theme"`
	Position       string `json:"position"`
	ShowAfter      int    `json:"show_after"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	TextColor      string `json:"text_color"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (r WidgetRequest) toInput() service.WidgetInput {
	return service.WidgetInput{
		Name:           r.Name,
		Title:          r.Title,
		Subtitle:       r.Subtitle,
		ButtonText:     r.ButtonText,
		Theme:          r.Theme,
		Position:       r.Position,
		ShowAfter:      r.ShowAfter,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		TextColor:      r.TextColor,
	}
}

func widgetIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid widget ID")
		return 0, false
	}
	return uint(id), true
}

// respondWidgetError maps widget service errors to HTTP responses.
func respondWidgetError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrWidgetNotFound):
		apperrors.NotFound(c, apperrors.WidgetNotFound, "Widget not found")
	case errors.Is(err, service.ErrInvalidTheme):
		apperrors.BadRequest(c, apperrors.WidgetInvalidTheme, "Theme must be one of: light, dark, auto")
	case errors.Is(err, service.ErrInvalidPosition):
		apperrors.BadRequest(c, apperrors.WidgetInvalidPosition, "Position must be one of: bottom-right, bottom-left, top-right, top-left")
	case errors.Is(err, service.ErrWidgetLimitReached):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.WidgetLimitReached, "Widget limit for your plan reached. Upgrade to add more widgets")
	case errors.Is(err, service.ErrStorageDisabled):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalServerError, "Asset publishing is not available")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListWidgets returns all widgets for the authenticated business
// GET /api/v1/widgets
func (ctrl *WidgetController) ListWidgets(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	widgets, err := ctrl.widgetService.List(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list widgets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"widgets": widgets,
		"count":   len(widgets),
	})
}

// GetWidget returns a single widget
// GET /api/v1/widgets/:id
func (ctrl *WidgetController) GetWidget(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	widget, err := ctrl.widgetService.Get(id, businessID)
	if err != nil {
		respondWidgetError(c, err, "get widget")
		return
	}

	c.JSON(http.StatusOK, gin.H{"widget": widget})
}

// CreateWidget creates a new widget
// POST /api/v1/widgets
func (ctrl *WidgetController) CreateWidget(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}

	var req WidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid widget details")
		return
	}

	widget, err := ctrl.widgetService.Create(businessID, userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrWidgetLimitReached) {
			log.Warn("Widget limit reached", map[string]interface{}{
				"business_id": businessID,
			})
		}
		respondWidgetError(c, err, "create widget")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Widget created successfully",
		"widget":  widget,
	})
}

// UpdateWidget updates an existing widget
// PUT /api/v1/widgets/:id
func (ctrl *WidgetController) UpdateWidget(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	var req WidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid widget details")
		return
	}

	widget, err := ctrl.widgetService.Update(id, businessID, req.toInput())
	if err != nil {
		respondWidgetError(c, err, "update widget")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Widget updated successfully",
		"widget":  widget,
	})
}

// SetWidgetActive toggles a widget's active flag
// PATCH /api/v1/widgets/:id/active
func (ctrl *WidgetController) SetWidgetActive(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Active flag is required")
		return
	}

	widget, err := ctrl.widgetService.SetActive(id, businessID, *req.Active)
	if err != nil {
		respondWidgetError(c, err, "set widget active")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Widget updated successfully",
		"widget":  widget,
	})
}

// DeleteWidget removes a widget
// DELETE /api/v1/widgets/:id
func (ctrl *WidgetController) DeleteWidget(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.widgetService.Delete(id, businessID); err != nil {
		respondWidgetError(c, err, "delete widget")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Widget deleted successfully"})
}

// GetEmbedSnippet returns the copy-paste embed snippet for a widget
// GET /api/v1/widgets/:id/snippet
func (ctrl *WidgetController) GetEmbedSnippet(c *gin.Context) {
	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	snippet, err := ctrl.widgetService.EmbedSnippet(id, businessID)
	if err != nil {
		respondWidgetError(c, err, "render embed snippet")
		return
	}

	c.JSON(http.StatusOK, gin.H{"snippet": snippet})
}

// PublishEmbed uploads the widget's embed assets to object storage
// POST /api/v1/widgets/:id/publish
func (ctrl *WidgetController) PublishEmbed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c, ctrl.businessService)
	if !ok {
		return
	}
	id, ok := widgetIDParam(c)
	if !ok {
		return
	}

	asset, err := ctrl.widgetService.PublishEmbed(c.Request.Context(), id, businessID)
	if err != nil {
		log.Error("Failed to publish widget embed", err, map[string]interface{}{
			"widget_id":   id,
			"business_id": businessID,
		})
		respondWidgetError(c, err, "publish widget embed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Widget embed published",
		"asset":   asset,
	})
}
