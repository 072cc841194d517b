package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a lower-layer error.
type ErrorInfo struct {
	Code    string // error code, see codes.go
	Message string // user-facing message
}

// ParseError converts database and transport errors into a code plus a
// user-facing message. Internal detail (constraint names, SQL, driver
// messages) never reaches the caller.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// GORM sentinel
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations

	// unique_violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// foreign_key_violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	// not_null_violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// check_violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "A field value is out of the allowed range",
		}
	}

	// Outbound call failures (database node or payment provider)
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "context deadline exceeded") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}

	if strings.Contains(errLower, "widget_code") || strings.Contains(errLower, "idx_widgets_widget_code") {
		return ErrorInfo{
			Code:    WidgetCodeExists,
			Message: "Widget code collision. Please retry",
		}
	}

	if strings.Contains(errLower, "public_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please retry",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		// Widgets are never hard-deleted while reviews reference them,
		// so a reference violation here means a caller bypassed the
		// soft-delete path.
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is still referenced and cannot be removed",
		}
	}

	if strings.Contains(errLower, "business_id") || strings.Contains(errLower, "fk_businesses") {
		return ErrorInfo{
			Code:    BusinessNotFound,
			Message: "Business not found",
		}
	}
	if strings.Contains(errLower, "widget_id") || strings.Contains(errLower, "fk_widgets") {
		return ErrorInfo{
			Code:    WidgetNotFound,
			Message: "Widget not found",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "User not found",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record was not found",
	}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "widget"):
		return "Widget not found"
	case strings.Contains(context, "review"):
		return "Review not found"
	case strings.Contains(context, "business"):
		return "Business not found"
	case strings.Contains(context, "subscription"):
		return "Subscription not found"
	case strings.Contains(context, "user"):
		return "User not found"
	default:
		return "Record not found"
	}
}

func getDefaultErrorMessage(context string) string {
	switch {
	case strings.Contains(context, "submit"):
		return "Failed to submit review"
	case strings.Contains(context, "widget"):
		return "Failed to process widget request"
	case strings.Contains(context, "subscription"):
		return "Failed to process subscription request"
	default:
		return "An internal error occurred. Please try again later"
	}
}

// ParseAndRespond parses an error and writes the JSON error response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
