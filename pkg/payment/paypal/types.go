package paypal

import "time"

// TokenResponse is the response of the OAuth2 client-credentials grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ApplicationContext controls the buyer approval flow.
type ApplicationContext struct {
	BrandName  string `json:"brand_name,omitempty"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	UserAction string `json:"user_action,omitempty"`
}

// Subscriber identifies the buyer on a subscription.
type Subscriber struct {
	Name  SubscriberName `json:"name,omitempty"`
	Email string         `json:"email_address,omitempty"`
}

type SubscriberName struct {
	GivenName string `json:"given_name,omitempty"`
}

// CreateSubscriptionRequest represents the request parameters for the
// create-subscription API.
type CreateSubscriptionRequest struct {
	PlanID             string             `json:"plan_id"`
	CustomID           string             `json:"custom_id,omitempty"`
	Subscriber         *Subscriber        `json:"subscriber,omitempty"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

// Link is a HATEOAS link in a PayPal response.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// SubscriptionResponse represents a subscription resource.
type SubscriptionResponse struct {
	ID         string     `json:"id"`
	PlanID     string     `json:"plan_id"`
	Status     string     `json:"status"` // APPROVAL_PENDING, ACTIVE, CANCELLED, ...
	CustomID   string     `json:"custom_id,omitempty"`
	CreateTime time.Time  `json:"create_time"`
	Subscriber Subscriber `json:"subscriber,omitempty"`
	Links      []Link     `json:"links"`
}

// ApprovalURL returns the link the buyer must visit to approve the
// subscription, or empty when none is present.
func (r *SubscriptionResponse) ApprovalURL() string {
	for _, link := range r.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}

// CancelSubscriptionRequest represents the cancel-subscription body.
type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

// ErrorResponse is the PayPal API error envelope.
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}
