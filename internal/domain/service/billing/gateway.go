package billing

import (
	"context"
	"time"
)

// Stripe event types the service reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentSucceeded    = "invoice.payment_succeeded"
	EventPaymentFailed       = "invoice.payment_failed"
)

// Session metadata keys.
const (
	MetaUserID       = "user_id"
	MetaPlan         = "plan"
	MetaBillingCycle = "billing_cycle"
)

type CheckoutSession struct {
	ID             string
	URL            string
	CustomerID     string
	SubscriptionID string
	Metadata       map[string]string
	// Subscription is set when the gateway returned it expanded.
	Subscription *GatewaySubscription
}

type GatewaySubscription struct {
	ID                string
	Status            string
	ItemID            string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	CancelAtPeriodEnd bool
}

type NewCheckout struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// WebhookEvent is a verified payment provider event. Only the object matching
// Type is set.
type WebhookEvent struct {
	ID             string
	Type           string
	Session        *CheckoutSession
	Subscription   *GatewaySubscription
	SubscriptionID string
}

type PaymentGateway interface {
	// CustomerExists reports false for unknown and deleted customers.
	CustomerExists(ctx context.Context, customerID string) (bool, error)
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, params NewCheckout) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (GatewaySubscription, error)
	ChangeSubscriptionPrice(ctx context.Context, sub GatewaySubscription, priceID string, metadata map[string]string) (GatewaySubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ParseWebhook(payload []byte, signature string) (WebhookEvent, error)
}
