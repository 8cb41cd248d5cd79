package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError    failure.ErrorCode = "InternalServerError"
	TimeoutExceeded        failure.ErrorCode = "TimeoutExceeded"
	Forbidden              failure.ErrorCode = "Forbidden"
	ValidationError        failure.ErrorCode = "ValidationError"
	NotFound               failure.ErrorCode = "NotFound"
	RateLimited            failure.ErrorCode = "RateLimited"
	AccessTokenInvalid     failure.ErrorCode = "AccessTokenInvalid"
	AuthenticationRequired failure.ErrorCode = "AuthenticationRequired"
	InvalidPaging          failure.ErrorCode = "InvalidPaging"
	InvalidUserID          failure.ErrorCode = "InvalidUserID"

	// Reports.
	InvalidTicker           failure.ErrorCode = "InvalidTicker"
	ReportNotFound          failure.ErrorCode = "ReportNotFound"
	ReportGenerationFailed  failure.ErrorCode = "ReportGenerationFailed"
	ReportParseFailed       failure.ErrorCode = "ReportParseFailed"
	AIProviderNotConfigured failure.ErrorCode = "AIProviderNotConfigured"
	UsageLimitReached       failure.ErrorCode = "UsageLimitReached"

	// Blog.
	PostNotFound  failure.ErrorCode = "PostNotFound"
	PostDuplicate failure.ErrorCode = "PostDuplicate"

	// Billing.
	InvalidPlan             failure.ErrorCode = "InvalidPlan"
	SubscriptionNotFound    failure.ErrorCode = "SubscriptionNotFound"
	NoStripeSubscription    failure.ErrorCode = "NoStripeSubscription"
	CheckoutSessionNotFound failure.ErrorCode = "CheckoutSessionNotFound"
	InvalidWebhookSignature failure.ErrorCode = "InvalidWebhookSignature"
	InvalidCheckoutSession  failure.ErrorCode = "InvalidCheckoutSession"
	BillingNotConfigured    failure.ErrorCode = "BillingNotConfigured"
	DatabaseNotConfigured   failure.ErrorCode = "DatabaseNotConfigured"
	PaymentProviderError    failure.ErrorCode = "PaymentProviderError"

	// Watchlist.
	WatchlistItemNotFound failure.ErrorCode = "WatchlistItemNotFound"
)

//nolint:gochecknoglobals
var statuses = map[failure.ErrorCode]int{
	TimeoutExceeded:         http.StatusGatewayTimeout,
	Forbidden:               http.StatusForbidden,
	ValidationError:         http.StatusBadRequest,
	NotFound:                http.StatusNotFound,
	RateLimited:             http.StatusTooManyRequests,
	AccessTokenInvalid:      http.StatusUnauthorized,
	AuthenticationRequired:  http.StatusUnauthorized,
	InvalidPaging:           http.StatusBadRequest,
	InvalidUserID:           http.StatusBadRequest,
	InvalidTicker:           http.StatusBadRequest,
	ReportNotFound:          http.StatusNotFound,
	ReportGenerationFailed:  http.StatusBadGateway,
	ReportParseFailed:       http.StatusBadGateway,
	AIProviderNotConfigured: http.StatusServiceUnavailable,
	UsageLimitReached:       http.StatusPaymentRequired,
	PostNotFound:            http.StatusNotFound,
	PostDuplicate:           http.StatusConflict,
	InvalidPlan:             http.StatusBadRequest,
	SubscriptionNotFound:    http.StatusNotFound,
	NoStripeSubscription:    http.StatusBadRequest,
	CheckoutSessionNotFound: http.StatusNotFound,
	InvalidWebhookSignature: http.StatusBadRequest,
	InvalidCheckoutSession:  http.StatusBadRequest,
	BillingNotConfigured:    http.StatusServiceUnavailable,
	DatabaseNotConfigured:   http.StatusServiceUnavailable,
	PaymentProviderError:    http.StatusBadGateway,
	WatchlistItemNotFound:   http.StatusNotFound,
}

// HTTPStatus reports the response status for a domain error code. Unknown codes
// are internal errors.
func HTTPStatus(code failure.ErrorCode) int {
	if status, ok := statuses[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
