package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		ClientID:  "client-id",
		Secret:    "client-secret",
		BaseURL:   baseURL,
		ReturnURL: "https://app.example.com/dashboard?success=true",
		CancelURL: "https://app.example.com/billing?canceled=true",
	}
}

// newTestServer serves the OAuth token endpoint plus a caller-supplied
// handler for everything else.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		require.Equal(t, "client-secret", pass)

		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "test-token",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		})
	})
	mux.HandleFunc("/", handler)
	return httptest.NewServer(mux)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{ClientID: "only-id"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateSubscription(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/billing/subscriptions", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req CreateSubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "P-PLAN123", req.PlanID)
		assert.Equal(t, "https://app.example.com/dashboard?success=true", req.ApplicationContext.ReturnURL)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SubscriptionResponse{
			ID:     "I-SUB123",
			PlanID: req.PlanID,
			Status: "APPROVAL_PENDING",
			Links: []Link{
				{Href: "https://www.paypal.com/webapps/billing/subscriptions?ba_token=BA-1", Rel: "approve", Method: "GET"},
				{Href: "https://api.paypal.com/v1/billing/subscriptions/I-SUB123", Rel: "self", Method: "GET"},
			},
		})
	})
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	sub, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{
		PlanID: "P-PLAN123",
	})
	require.NoError(t, err)
	assert.Equal(t, "I-SUB123", sub.ID)
	assert.Equal(t, "APPROVAL_PENDING", sub.Status)
	assert.Equal(t, "https://www.paypal.com/webapps/billing/subscriptions?ba_token=BA-1", sub.ApprovalURL())
}

func TestCreateSubscription_NoApprovalLink(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SubscriptionResponse{ID: "I-SUB124", Status: "APPROVAL_PENDING"})
	})
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.CreateSubscription(context.Background(), CreateSubscriptionRequest{PlanID: "P-1"})
	assert.ErrorIs(t, err, ErrNoApprovalLink)
}

func TestGetSubscription(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/billing/subscriptions/I-SUB123", r.URL.Path)

		json.NewEncoder(w).Encode(SubscriptionResponse{
			ID:     "I-SUB123",
			Status: "ACTIVE",
		})
	})
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	sub, err := client.GetSubscription(context.Background(), "I-SUB123")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", sub.Status)
}

func TestGetSubscription_NotFound(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{
			Name:    "RESOURCE_NOT_FOUND",
			Message: "The specified resource does not exist.",
		})
	})
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetSubscription(context.Background(), "I-MISSING")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestCancelSubscription(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/billing/subscriptions/I-SUB123/cancel", r.URL.Path)

		var req CancelSubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user requested cancellation", req.Reason)

		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	err = client.CancelSubscription(context.Background(), "I-SUB123", "user requested cancellation")
	assert.NoError(t, err)
}

func TestTokenReuse(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "test-token", ExpiresIn: 3600})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SubscriptionResponse{ID: "I-1", Status: "ACTIVE"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.GetSubscription(ctx, "I-1")
	require.NoError(t, err)
	_, err = client.GetSubscription(ctx, "I-1")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls, "token must be cached across requests")
}
