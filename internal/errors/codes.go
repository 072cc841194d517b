package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The dashboard frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed/forged token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access to resource
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // owner-only operation

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // bad request body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // bad path/query ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // value out of range
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Business (BUSINESS_) ====================
	BusinessNotFound = "BUSINESS_NOT_FOUND" // tenant record missing

	// ==================== Widget (WIDGET_) ====================
	WidgetNotFound        = "WIDGET_NOT_FOUND"         // unknown or inactive widget code
	WidgetInvalidTheme    = "WIDGET_INVALID_THEME"     // theme outside the closed set
	WidgetInvalidPosition = "WIDGET_INVALID_POSITION"  // position outside the closed set
	WidgetCodeExists      = "WIDGET_CODE_EXISTS"       // widget code collision
	WidgetLimitReached    = "WIDGET_LIMIT_REACHED"     // plan widget cap hit

	// ==================== Review (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // rating outside 1..5
	ReviewInvalidStatus = "REVIEW_INVALID_STATUS" // status outside the closed set

	// ==================== Analytics (ANALYTICS_) ====================
	AnalyticsInvalidRange = "ANALYTICS_INVALID_RANGE" // unknown date range

	// ==================== Subscription (SUBSCRIPTION_) ====================
	SubscriptionNotFound    = "SUBSCRIPTION_NOT_FOUND"
	SubscriptionInvalidPlan = "SUBSCRIPTION_INVALID_PLAN"
	SubscriptionExists      = "SUBSCRIPTION_EXISTS" // already has an active subscription

	// ==================== Rate limiting (RATE_) ====================
	RateLimited = "RATE_LIMITED" // too many submissions from one IP

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	MethodNotAllowed      = "METHOD_NOT_ALLOWED"
)
