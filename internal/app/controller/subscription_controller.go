package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionController(subscriptionService service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

type CreateSubscriptionRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type ApproveSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

// ListPlans returns the plan catalog
// GET /api/v1/billing/plans
func (ctrl *SubscriptionController) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": ctrl.subscriptionService.Plans()})
}

// CreateSubscription starts a PayPal subscription and returns the
// approval URL for the checkout redirect
// POST /api/v1/billing/subscriptions
func (ctrl *SubscriptionController) CreateSubscription(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Plan ID is required")
		return
	}

	approvalURL, err := ctrl.subscriptionService.Create(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			apperrors.BadRequest(c, apperrors.SubscriptionInvalidPlan, "Unknown or free plan")
		case errors.Is(err, service.ErrAlreadySubscribed):
			apperrors.Conflict(c, apperrors.SubscriptionExists, "An active subscription already exists")
		case errors.Is(err, service.ErrBillingDisabled):
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalServerError, "Billing is not available")
		default:
			log.Error("Failed to create subscription", err, map[string]interface{}{
				"user_id": userID,
				"plan_id": req.PlanID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create subscription")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Subscription created. Redirect the user to approve payment",
		"approval_url": approvalURL,
	})
}

// ApproveSubscription confirms a subscription after PayPal checkout
// POST /api/v1/billing/subscriptions/approve
func (ctrl *SubscriptionController) ApproveSubscription(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ApproveSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Subscription ID is required")
		return
	}

	subscription, err := ctrl.subscriptionService.Approve(c.Request.Context(), userID, req.SubscriptionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			apperrors.NotFound(c, apperrors.SubscriptionNotFound, "Subscription not found")
		case errors.Is(err, service.ErrSubscriptionNotActive):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Subscription has not been activated by the payment provider")
		default:
			log.Error("Failed to approve subscription", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "approve subscription")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription activated",
		"subscription": subscription,
	})
}

// GetCurrentSubscription returns the user's current plan and subscription
// GET /api/v1/billing/subscriptions/current
func (ctrl *SubscriptionController) GetCurrentSubscription(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	detail, err := ctrl.subscriptionService.Current(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get current subscription")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetBillingPortal returns the payment provider's billing portal URL
// POST /api/v1/billing/portal
func (ctrl *SubscriptionController) GetBillingPortal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	detail, err := ctrl.subscriptionService.Current(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get billing portal")
		return
	}
	if detail.PortalURL == "" {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalServerError, "Billing is not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{"portal_url": detail.PortalURL})
}

// CancelSubscription cancels the user's active subscription
// POST /api/v1/billing/subscriptions/cancel
func (ctrl *SubscriptionController) CancelSubscription(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	// reason is optional; an empty body is fine
	var req CancelSubscriptionRequest
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.subscriptionService.Cancel(c.Request.Context(), userID, req.Reason); err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			apperrors.NotFound(c, apperrors.SubscriptionNotFound, "No active subscription to cancel")
			return
		}
		log.Error("Failed to cancel subscription", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cancel subscription")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}
