package paypal

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the credentials are rejected
	ErrUnauthorized = errors.New("unauthorized: invalid client credentials")

	// ErrSubscriptionFailed is returned when a subscription call fails
	ErrSubscriptionFailed = errors.New("subscription request failed")

	// ErrSubscriptionNotFound is returned for an unknown subscription ID
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNoApprovalLink is returned when the create response carries no
	// approve link for the buyer to follow
	ErrNoApprovalLink = errors.New("no approval link in response")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
