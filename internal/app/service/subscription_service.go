package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/reviewpop/reviewpop-backend/pkg/payment/paypal"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound          = errors.New("plan not found")
	ErrAlreadySubscribed     = errors.New("an active subscription already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSubscriptionNotActive = errors.New("subscription is not active at the payment provider")
	ErrBillingDisabled       = errors.New("billing is not configured")
)

// FreePlanID is the implicit tier for accounts without a paid
// subscription.
const FreePlanID = "free"

// plans is the static billing catalog. PayPal plan IDs come from the
// merchant dashboard and are referenced here by env-configured values
// baked in at deploy time.
var plans = []model.Plan{
	{ID: FreePlanID, Name: "Free", PriceUSD: 0, WidgetLimit: 1},
	{ID: "starter", Name: "Starter", PayPalPlanID: "P-STARTER", PriceUSD: 9, WidgetLimit: 3},
	{ID: "pro", Name: "Pro", PayPalPlanID: "P-PRO", PriceUSD: 29, WidgetLimit: 0},
}

// PlanByID returns the catalog entry for id, or nil.
func PlanByID(id string) *model.Plan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}

// SubscriptionDetail is the billing state shown on the dashboard.
type SubscriptionDetail struct {
	Plan         model.Plan          `json:"plan"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
	PortalURL    string              `json:"portal_url,omitempty"`
}

type SubscriptionService interface {
	Plans() []model.Plan
	Create(ctx context.Context, userID uint, planID string) (approvalURL string, err error)
	Approve(ctx context.Context, userID uint, paypalSubscriptionID string) (*model.Subscription, error)
	Current(userID uint) (*SubscriptionDetail, error)
	Cancel(ctx context.Context, userID uint, reason string) error
	WidgetLimit(userID uint) int
}

type subscriptionService struct {
	repo      repository.SubscriptionRepository
	paypal    *paypal.Client
	portalURL string
}

func NewSubscriptionService(repo repository.SubscriptionRepository, paypalClient *paypal.Client, portalURL string) SubscriptionService {
	return &subscriptionService{
		repo:      repo,
		paypal:    paypalClient,
		portalURL: portalURL,
	}
}

func (s *subscriptionService) Plans() []model.Plan {
	out := make([]model.Plan, len(plans))
	copy(out, plans)
	return out
}

// Create starts a PayPal subscription for a paid plan and returns the
// approval URL the dashboard redirects the owner to. The local record
// stays pending until Approve confirms it.
func (s *subscriptionService) Create(ctx context.Context, userID uint, planID string) (string, error) {
	if s.paypal == nil {
		return "", ErrBillingDisabled
	}

	plan := PlanByID(planID)
	if plan == nil || plan.PayPalPlanID == "" {
		return "", ErrPlanNotFound
	}

	existing, err := s.repo.FindActiveByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if existing != nil {
		return "", ErrAlreadySubscribed
	}

	resp, err := s.paypal.CreateSubscription(ctx, paypal.CreateSubscriptionRequest{
		PlanID:   plan.PayPalPlanID,
		CustomID: fmt.Sprintf("user-%d", userID),
		ApplicationContext: paypal.ApplicationContext{
			BrandName:  "ReviewPop",
			UserAction: "SUBSCRIBE_NOW",
		},
	})
	if err != nil {
		logger.Error("Failed to create PayPal subscription", err, map[string]interface{}{
			"user_id": userID,
			"plan_id": planID,
		})
		return "", err
	}

	sub := &model.Subscription{
		UserID:               userID,
		PlanID:               plan.ID,
		PayPalSubscriptionID: resp.ID,
		Status:               model.SubscriptionPending,
	}
	if err := s.repo.Create(sub); err != nil {
		logger.Error("Failed to persist pending subscription", err, map[string]interface{}{
			"user_id":   userID,
			"paypal_id": resp.ID,
		})
		return "", err
	}

	logger.Info("Subscription created, awaiting approval", map[string]interface{}{
		"user_id":   userID,
		"plan_id":   plan.ID,
		"paypal_id": resp.ID,
	})
	return resp.ApprovalURL(), nil
}

// Approve verifies the subscription with PayPal after the buyer
// returns from the approval flow and activates the local record.
func (s *subscriptionService) Approve(ctx context.Context, userID uint, paypalSubscriptionID string) (*model.Subscription, error) {
	if s.paypal == nil {
		return nil, ErrBillingDisabled
	}

	sub, err := s.repo.FindByPayPalID(paypalSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}

	remote, err := s.paypal.GetSubscription(ctx, paypalSubscriptionID)
	if err != nil {
		logger.Error("Failed to verify subscription with PayPal", err, map[string]interface{}{
			"paypal_id": paypalSubscriptionID,
		})
		return nil, err
	}
	if remote.Status != "ACTIVE" {
		logger.Warn("Subscription not active at PayPal", map[string]interface{}{
			"paypal_id": paypalSubscriptionID,
			"status":    remote.Status,
		})
		return nil, ErrSubscriptionNotActive
	}

	sub.Status = model.SubscriptionActive
	if err := s.repo.Update(sub); err != nil {
		return nil, err
	}

	logger.Info("Subscription activated", map[string]interface{}{
		"user_id":   userID,
		"plan_id":   sub.PlanID,
		"paypal_id": paypalSubscriptionID,
	})
	return sub, nil
}

func (s *subscriptionService) Current(userID uint) (*SubscriptionDetail, error) {
	detail := &SubscriptionDetail{
		Plan:      *PlanByID(FreePlanID),
		PortalURL: s.portalURL,
	}

	sub, err := s.repo.FindLatestByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, nil
		}
		return nil, err
	}

	detail.Subscription = sub
	if sub.Status == model.SubscriptionActive {
		if plan := PlanByID(sub.PlanID); plan != nil {
			detail.Plan = *plan
		}
	}
	return detail, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID uint, reason string) error {
	if s.paypal == nil {
		return ErrBillingDisabled
	}

	sub, err := s.repo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	if reason == "" {
		reason = "customer requested cancellation"
	}
	if err := s.paypal.CancelSubscription(ctx, sub.PayPalSubscriptionID, reason); err != nil {
		logger.Error("Failed to cancel subscription at PayPal", err, map[string]interface{}{
			"user_id":   userID,
			"paypal_id": sub.PayPalSubscriptionID,
		})
		return err
	}

	sub.Status = model.SubscriptionCancelled
	if err := s.repo.Update(sub); err != nil {
		return err
	}

	logger.Info("Subscription cancelled", map[string]interface{}{
		"user_id":   userID,
		"paypal_id": sub.PayPalSubscriptionID,
	})
	return nil
}

// WidgetLimit resolves the widget cap for a user from their current
// plan. Zero means unlimited.
func (s *subscriptionService) WidgetLimit(userID uint) int {
	detail, err := s.Current(userID)
	if err != nil {
		logger.Error("Failed to resolve plan, falling back to free tier", err, map[string]interface{}{
			"user_id": userID,
		})
		return PlanByID(FreePlanID).WidgetLimit
	}
	return detail.Plan.WidgetLimit
}
