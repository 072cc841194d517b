package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/reviewpop/reviewpop-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrActiveWidgetNotFound = errors.New("widget not found or inactive")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrRateLimited          = errors.New("too many submissions from this address")
)

const (
	// Bound on the review insert; past it the submission fails.
	submitTimeout = 5 * time.Second
	// Bound on each best-effort side effect after the insert.
	telemetryTimeout = 3 * time.Second
)

// SubmitInput is a review submission from an embedded widget.
type SubmitInput struct {
	WidgetCode string
	Name       string
	Email      string
	Rating     int
	Review     string
	IPAddress  string
	UserAgent  string
}

// SubmitResult carries the public identifier handed back to the embed
// script.
type SubmitResult struct {
	ReviewID string
}

// Broadcaster pushes live events to connected dashboards.
type Broadcaster interface {
	Broadcast(businessID uint, message interface{}) error
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	TrackView(ctx context.Context, widgetCode string) error
}

type submissionService struct {
	widgetRepo    repository.WidgetRepository
	reviewRepo    repository.ReviewRepository
	analyticsRepo repository.AnalyticsRepository
	hub           Broadcaster
	rateLimit     int
	cacheTTL      time.Duration
}

// NewSubmissionService wires the public submission path. hub may be
// nil when no live feed is running.
func NewSubmissionService(
	widgetRepo repository.WidgetRepository,
	reviewRepo repository.ReviewRepository,
	analyticsRepo repository.AnalyticsRepository,
	hub Broadcaster,
	rateLimit int,
	cacheTTL time.Duration,
) SubmissionService {
	return &submissionService{
		widgetRepo:    widgetRepo,
		reviewRepo:    reviewRepo,
		analyticsRepo: analyticsRepo,
		hub:           hub,
		rateLimit:     rateLimit,
		cacheTTL:      cacheTTL,
	}
}

// cachedWidget is the subset of widget state the submission path
// needs, serialized into the Redis cache.
type cachedWidget struct {
	ID         uint   `json:"id"`
	BusinessID uint   `json:"business_id"`
	Name       string `json:"name"`
}

// resolveWidget finds an active widget by code, consulting the cache
// first. Cache failures fall through to the database.
func (s *submissionService) resolveWidget(ctx context.Context, code string) (*cachedWidget, error) {
	if payload, ok := redis.GetCachedWidget(ctx, code); ok {
		var cached cachedWidget
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return &cached, nil
		}
		logger.Warn("Dropping malformed widget cache entry", map[string]interface{}{
			"widget_code": code,
		})
		redis.InvalidateWidget(ctx, code)
	}

	widget, err := s.widgetRepo.FindByCode(ctx, code, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveWidgetNotFound
		}
		return nil, err
	}

	cached := &cachedWidget{ID: widget.ID, BusinessID: widget.BusinessID, Name: widget.Name}
	if payload, err := json.Marshal(cached); err == nil {
		redis.CacheWidget(ctx, code, string(payload), s.cacheTTL)
	}
	return cached, nil
}

// Submit validates and persists a widget review. The review insert is
// the only fatal step: click counting, the analytics event and the
// dashboard broadcast are telemetry and never fail the submission.
func (s *submissionService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if !redis.AllowSubmission(ctx, input.IPAddress, s.rateLimit) {
		logger.Warn("Submission rate limited", map[string]interface{}{
			"ip":          input.IPAddress,
			"widget_code": input.WidgetCode,
		})
		return nil, ErrRateLimited
	}

	widget, err := s.resolveWidget(ctx, input.WidgetCode)
	if err != nil {
		return nil, err
	}

	ipAddress := input.IPAddress
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	userAgent := input.UserAgent
	if userAgent == "" {
		userAgent = "unknown"
	}

	review := &model.Review{
		BusinessID:    widget.BusinessID,
		WidgetID:      widget.ID,
		Title:         model.ReviewTitle(input.Rating, input.Name),
		Content:       input.Review,
		Rating:        input.Rating,
		CustomerName:  input.Name,
		CustomerEmail: input.Email,
		Status:        model.ReviewPublished,
		Source:        model.SourceWidget,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	}

	insertCtx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	if err := s.reviewRepo.Create(insertCtx, review); err != nil {
		logger.Error("Failed to store review submission", err, map[string]interface{}{
			"widget_code": input.WidgetCode,
			"business_id": widget.BusinessID,
		})
		return nil, err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"review_id":   review.PublicID,
		"widget_code": input.WidgetCode,
		"business_id": widget.BusinessID,
		"rating":      input.Rating,
	})

	s.recordSubmissionTelemetry(widget, review)

	return &SubmitResult{ReviewID: review.PublicID}, nil
}

// recordSubmissionTelemetry updates counters, writes the analytics
// event and notifies dashboards. Each step is independent; failures
// are logged and swallowed.
func (s *submissionService) recordSubmissionTelemetry(widget *cachedWidget, review *model.Review) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()

	if err := s.widgetRepo.IncrementClicks(ctx, widget.ID); err != nil {
		logger.Error("Failed to increment widget clicks", err, map[string]interface{}{
			"widget_id": widget.ID,
		})
	}

	eventData, _ := json.Marshal(map[string]interface{}{
		"rating":        review.Rating,
		"widget_name":   widget.Name,
		"customer_name": review.CustomerName,
	})
	event := &model.AnalyticsEvent{
		BusinessID:  widget.BusinessID,
		WidgetID:    widget.ID,
		EventType:   model.EventReviewSubmitted,
		EventData:   string(eventData),
		Clicks:      1,
		Conversions: 1,
	}
	if err := s.analyticsRepo.CreateEvent(ctx, event); err != nil {
		logger.Error("Failed to record submission analytics event", err, map[string]interface{}{
			"widget_id": widget.ID,
		})
	}

	if s.hub != nil {
		payload := map[string]interface{}{
			"type":          "review_submitted",
			"review_id":     review.PublicID,
			"widget_id":     widget.ID,
			"rating":        review.Rating,
			"customer_name": review.CustomerName,
			"content":       review.Content,
			"created_at":    review.CreatedAt,
		}
		if err := s.hub.Broadcast(widget.BusinessID, payload); err != nil {
			logger.Error("Failed to broadcast review to dashboards", err, map[string]interface{}{
				"business_id": widget.BusinessID,
			})
		}
	}
}

// TrackView records a widget impression from an embedding page. Like
// submission telemetry it is best-effort, but an unknown widget code
// still reports not found.
func (s *submissionService) TrackView(ctx context.Context, widgetCode string) error {
	widget, err := s.resolveWidget(ctx, widgetCode)
	if err != nil {
		return err
	}

	if err := s.widgetRepo.IncrementViews(ctx, widget.ID); err != nil {
		logger.Error("Failed to increment widget views", err, map[string]interface{}{
			"widget_id": widget.ID,
		})
	}

	event := &model.AnalyticsEvent{
		BusinessID: widget.BusinessID,
		WidgetID:   widget.ID,
		EventType:  model.EventWidgetView,
		Views:      1,
	}
	if err := s.analyticsRepo.CreateEvent(ctx, event); err != nil {
		logger.Error("Failed to record widget view event", err, map[string]interface{}{
			"widget_id": widget.ID,
		})
	}
	return nil
}
