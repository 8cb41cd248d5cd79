// Package payments implements the billing gateway on Stripe.
package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/billing"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const customerMetaUserID = "supabase_user_id"

type Stripe struct {
	api           *client.API
	webhookSecret string
}

// NewStripe uses backends when given, the live Stripe API otherwise.
func NewStripe(secretKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	return &Stripe{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := s.api.Customers.Get(customerID, params)
	if err != nil {
		if isMissing(err) {
			return false, nil
		}

		return false, providerError(err)
	}

	return !c.Deleted, nil
}

func (s *Stripe) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddMetadata(customerMetaUserID, userID)

	if email != "" {
		params.Email = stripe.String(email)
	}

	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", providerError(err)
	}

	return c.ID, nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, p billing.NewCheckout) (billing.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(p.CustomerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx

	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return billing.CheckoutSession{}, providerError(err)
	}

	return toSession(session), nil
}

func (s *Stripe) GetCheckoutSession(ctx context.Context, sessionID string) (billing.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")

	session, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		if isMissing(err) {
			return billing.CheckoutSession{}, domain.WrapError(err, errcodes.CheckoutSessionNotFound, "Checkout session not found")
		}

		return billing.CheckoutSession{}, providerError(err)
	}

	return toSession(session), nil
}

func (s *Stripe) GetSubscription(ctx context.Context, subscriptionID string) (billing.GatewaySubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := s.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		if isMissing(err) {
			return billing.GatewaySubscription{}, domain.WrapError(err, errcodes.SubscriptionNotFound, "Subscription not found")
		}

		return billing.GatewaySubscription{}, providerError(err)
	}

	return toSubscription(sub), nil
}

func (s *Stripe) ChangeSubscriptionPrice(
	ctx context.Context,
	sub billing.GatewaySubscription,
	priceID string,
	metadata map[string]string,
) (billing.GatewaySubscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
		ProrationBehavior: stripe.String("create_prorations"),
		Items: []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(sub.ItemID), Price: stripe.String(priceID)},
		},
	}
	params.Context = ctx

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	updated, err := s.api.Subscriptions.Update(sub.ID, params)
	if err != nil {
		return billing.GatewaySubscription{}, providerError(err)
	}

	return toSubscription(updated), nil
}

func (s *Stripe) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := s.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return providerError(err)
	}

	return nil
}

// ParseWebhook verifies the signature when a webhook secret is configured and
// decodes the payload as-is otherwise.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (billing.WebhookEvent, error) {
	var (
		event stripe.Event
		err   error
	)

	if s.webhookSecret != "" {
		event, err = webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return billing.WebhookEvent{}, domain.WrapError(err, errcodes.InvalidWebhookSignature, "Invalid signature")
		}
	} else if err = json.Unmarshal(payload, &event); err != nil {
		return billing.WebhookEvent{}, domain.WrapError(err, errcodes.InvalidWebhookSignature, "Invalid payload")
	}

	result := billing.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return result, nil
	}

	switch result.Type {
	case billing.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return billing.WebhookEvent{}, domain.WrapError(err, errcodes.InvalidCheckoutSession, "Invalid checkout session")
		}

		converted := toSession(&session)
		result.Session = &converted
	case billing.EventSubscriptionUpdated, billing.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return billing.WebhookEvent{}, domain.WrapError(err, errcodes.ValidationError, "Invalid subscription")
		}

		converted := toSubscription(&sub)
		result.Subscription = &converted
	case billing.EventPaymentSucceeded, billing.EventPaymentFailed:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return billing.WebhookEvent{}, domain.WrapError(err, errcodes.ValidationError, "Invalid invoice")
		}

		if invoice.Subscription != nil {
			result.SubscriptionID = invoice.Subscription.ID
		}
	}

	return result, nil
}

func toSession(s *stripe.CheckoutSession) billing.CheckoutSession {
	result := billing.CheckoutSession{
		ID:       s.ID,
		URL:      s.URL,
		Metadata: s.Metadata,
	}

	if s.Customer != nil {
		result.CustomerID = s.Customer.ID
	}

	if s.Subscription != nil {
		result.SubscriptionID = s.Subscription.ID

		// An unexpanded subscription only carries its id.
		if s.Subscription.Status != "" {
			sub := toSubscription(s.Subscription)
			result.Subscription = &sub
		}
	}

	return result
}

func toSubscription(s *stripe.Subscription) billing.GatewaySubscription {
	result := billing.GatewaySubscription{
		ID:                s.ID,
		Status:            string(s.Status),
		PeriodStart:       unix(s.CurrentPeriodStart),
		PeriodEnd:         unix(s.CurrentPeriodEnd),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}

	if s.Items != nil && len(s.Items.Data) > 0 {
		result.ItemID = s.Items.Data[0].ID
	}

	return result
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}

	return time.Unix(sec, 0).UTC()
}

func isMissing(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}

	return stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound
}

func providerError(err error) error {
	msg := "Payment provider error"

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		msg = stripeErr.Msg
	}

	return domain.WrapError(err, errcodes.PaymentProviderError, msg)
}
