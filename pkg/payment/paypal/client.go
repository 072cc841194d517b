package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client represents a PayPal REST API client for subscriptions.
type Client struct {
	config     Config
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateSubscription creates a subscription in APPROVAL_PENDING state.
// The caller redirects the buyer to the returned approval link.
func (c *Client) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*SubscriptionResponse, error) {
	if req.ApplicationContext.ReturnURL == "" {
		req.ApplicationContext.ReturnURL = c.config.ReturnURL
	}
	if req.ApplicationContext.CancelURL == "" {
		req.ApplicationContext.CancelURL = c.config.CancelURL
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/billing/subscriptions", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	var sub SubscriptionResponse
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription response: %w", err)
	}
	if sub.ApprovalURL() == "" {
		return nil, ErrNoApprovalLink
	}

	return &sub, nil
}

// GetSubscription fetches a subscription by its PayPal ID.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResponse, error) {
	if subscriptionID == "" {
		return nil, ErrInvalidRequest
	}

	path := "/v1/billing/subscriptions/" + url.PathEscape(subscriptionID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	var sub SubscriptionResponse
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription response: %w", err)
	}

	return &sub, nil
}

// CancelSubscription cancels an active subscription.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	if subscriptionID == "" {
		return ErrInvalidRequest
	}

	path := fmt.Sprintf("/v1/billing/subscriptions/%s/cancel", url.PathEscape(subscriptionID))
	_, err := c.doRequest(ctx, http.MethodPost, path, CancelSubscriptionRequest{Reason: reason})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// token returns a cached OAuth2 access token, refreshing it when it is
// within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// doRequest performs an authenticated HTTP request to the PayPal API
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("PayPal API error - Status: %d, Name: %s, Message: %s, DebugID: %s",
			resp.StatusCode, errResp.Name, errResp.Message, errResp.DebugID)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionFailed, errorMsg)
		}
	}

	return body, nil
}
