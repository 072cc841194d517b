package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/snippet"
	"github.com/reviewpop/reviewpop-backend/internal/storage"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/reviewpop/reviewpop-backend/pkg/redis"
	"github.com/reviewpop/reviewpop-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrWidgetNotFound     = errors.New("widget not found")
	ErrInvalidTheme       = errors.New("invalid widget theme")
	ErrInvalidPosition    = errors.New("invalid widget position")
	ErrWidgetLimitReached = errors.New("widget limit for the current plan reached")
	ErrStorageDisabled    = errors.New("asset storage is not configured")
)

// WidgetInput carries owner-editable widget fields. Empty fields fall
// back to defaults on create and stay untouched on update.
type WidgetInput struct {
	Name           string
	Title          string
	Subtitle       string
	ButtonText     string
	Theme          string
	Position       string
	ShowAfter      int
	PrimaryColor   string
	SecondaryColor string
	TextColor      string
}

type WidgetService interface {
	Create(businessID, userID uint, input WidgetInput) (*model.Widget, error)
	Update(id, businessID uint, input WidgetInput) (*model.Widget, error)
	SetActive(id, businessID uint, active bool) (*model.Widget, error)
	Delete(id, businessID uint) error
	Get(id, businessID uint) (*model.Widget, error)
	List(businessID uint) ([]model.Widget, error)
	EmbedSnippet(id, businessID uint) (string, error)
	PublishEmbed(ctx context.Context, id, businessID uint) (*storage.PublishedAsset, error)
}

type widgetService struct {
	widgetRepo    repository.WidgetRepository
	subscriptions SubscriptionService
	storage       *storage.S3Storage
	publicBaseURL string
}

// NewWidgetService wires the widget CRUD surface. storage may be nil
// when S3 publishing is disabled.
func NewWidgetService(
	widgetRepo repository.WidgetRepository,
	subscriptions SubscriptionService,
	s3 *storage.S3Storage,
	publicBaseURL string,
) WidgetService {
	return &widgetService{
		widgetRepo:    widgetRepo,
		subscriptions: subscriptions,
		storage:       s3,
		publicBaseURL: publicBaseURL,
	}
}

func validateWidgetInput(input WidgetInput) error {
	if input.Theme != "" && !model.ValidTheme(model.WidgetTheme(input.Theme)) {
		return ErrInvalidTheme
	}
	if input.Position != "" && !model.ValidPosition(model.WidgetPosition(input.Position)) {
		return ErrInvalidPosition
	}
	return nil
}

func (s *widgetService) Create(businessID, userID uint, input WidgetInput) (*model.Widget, error) {
	if err := validateWidgetInput(input); err != nil {
		return nil, err
	}

	if limit := s.subscriptions.WidgetLimit(userID); limit > 0 {
		count, err := s.widgetRepo.CountByBusinessID(businessID)
		if err != nil {
			return nil, err
		}
		if count >= int64(limit) {
			logger.Warn("Widget limit reached", map[string]interface{}{
				"business_id": businessID,
				"limit":       limit,
			})
			return nil, ErrWidgetLimitReached
		}
	}

	code, err := util.GenerateWidgetCode()
	if err != nil {
		return nil, err
	}

	widget := &model.Widget{
		BusinessID:     businessID,
		WidgetCode:     code,
		Name:           input.Name,
		Title:          input.Title,
		Subtitle:       input.Subtitle,
		ButtonText:     input.ButtonText,
		Theme:          model.WidgetTheme(input.Theme),
		Position:       model.WidgetPosition(input.Position),
		ShowAfter:      input.ShowAfter,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		TextColor:      input.TextColor,
		IsActive:       true,
	}
	widget.ApplyDefaults()

	if err := s.widgetRepo.Create(widget); err != nil {
		return nil, err
	}

	logger.Info("Widget created", map[string]interface{}{
		"widget_id":   widget.ID,
		"widget_code": widget.WidgetCode,
		"business_id": businessID,
	})
	return widget, nil
}

func (s *widgetService) Update(id, businessID uint, input WidgetInput) (*model.Widget, error) {
	if err := validateWidgetInput(input); err != nil {
		return nil, err
	}

	widget, err := s.widgetRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		widget.Name = input.Name
	}
	if input.Title != "" {
		widget.Title = input.Title
	}
	if input.Subtitle != "" {
		widget.Subtitle = input.Subtitle
	}
	if input.ButtonText != "" {
		widget.ButtonText = input.ButtonText
	}
	if input.Theme != "" {
		widget.Theme = model.WidgetTheme(input.Theme)
	}
	if input.Position != "" {
		widget.Position = model.WidgetPosition(input.Position)
	}
	if input.ShowAfter > 0 {
		widget.ShowAfter = input.ShowAfter
	}
	if input.PrimaryColor != "" {
		widget.PrimaryColor = input.PrimaryColor
	}
	if input.SecondaryColor != "" {
		widget.SecondaryColor = input.SecondaryColor
	}
	if input.TextColor != "" {
		widget.TextColor = input.TextColor
	}

	if err := s.widgetRepo.Update(widget); err != nil {
		return nil, err
	}

	// Embedding pages must pick up the edit on the next submission.
	redis.InvalidateWidget(context.Background(), widget.WidgetCode)

	return widget, nil
}

func (s *widgetService) SetActive(id, businessID uint, active bool) (*model.Widget, error) {
	widget, err := s.widgetRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, err
	}

	widget.IsActive = active
	if err := s.widgetRepo.Update(widget); err != nil {
		return nil, err
	}

	redis.InvalidateWidget(context.Background(), widget.WidgetCode)

	logger.Info("Widget active state changed", map[string]interface{}{
		"widget_id": widget.ID,
		"is_active": active,
	})
	return widget, nil
}

func (s *widgetService) Delete(id, businessID uint) error {
	widget, err := s.widgetRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWidgetNotFound
		}
		return err
	}

	if err := s.widgetRepo.Delete(id, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWidgetNotFound
		}
		return err
	}

	redis.InvalidateWidget(context.Background(), widget.WidgetCode)
	return nil
}

func (s *widgetService) Get(id, businessID uint) (*model.Widget, error) {
	widget, err := s.widgetRepo.FindByID(id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, err
	}
	return widget, nil
}

func (s *widgetService) List(businessID uint) ([]model.Widget, error) {
	return s.widgetRepo.FindByBusinessID(businessID)
}

func (s *widgetService) snippetConfig(widget *model.Widget) snippet.Config {
	return snippet.Config{
		WidgetCode:     widget.WidgetCode,
		Title:          widget.Title,
		Subtitle:       widget.Subtitle,
		ButtonText:     widget.ButtonText,
		Theme:          string(widget.Theme),
		Position:       string(widget.Position),
		ShowAfterMS:    widget.ShowAfter,
		PrimaryColor:   widget.PrimaryColor,
		SecondaryColor: widget.SecondaryColor,
		TextColor:      widget.TextColor,
		SubmitURL:      s.publicBaseURL + "/api/v1/public/reviews",
	}
}

// EmbedSnippet renders the copy-paste embed code for a widget.
func (s *widgetService) EmbedSnippet(id, businessID uint) (string, error) {
	widget, err := s.Get(id, businessID)
	if err != nil {
		return "", err
	}
	return snippet.Generate(s.snippetConfig(widget)), nil
}

// PublishEmbed uploads the widget's snippet and display config to S3
// for owners serving the embed from a CDN instead of inline paste.
func (s *widgetService) PublishEmbed(ctx context.Context, id, businessID uint) (*storage.PublishedAsset, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	widget, err := s.Get(id, businessID)
	if err != nil {
		return nil, err
	}

	configPayload, err := json.Marshal(s.snippetConfig(widget))
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.PublishWidgetConfig(ctx, widget.WidgetCode, configPayload); err != nil {
		return nil, err
	}

	asset, err := s.storage.PublishSnippet(ctx, widget.WidgetCode, snippet.Generate(s.snippetConfig(widget)))
	if err != nil {
		logger.Error("Failed to publish widget embed", err, map[string]interface{}{
			"widget_id": widget.ID,
		})
		return nil, err
	}

	logger.Info("Widget embed published", map[string]interface{}{
		"widget_id": widget.ID,
		"key":       asset.Key,
	})
	return asset, nil
}
