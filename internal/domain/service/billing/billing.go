package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (entity.Subscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (entity.Subscription, error)
	Upsert(ctx context.Context, sub entity.Subscription) error
	SetCustomerID(ctx context.Context, userID, customerID string) error
	DeleteByStripeID(ctx context.Context, stripeSubscriptionID string) error
}

type Notifier interface {
	SendText(ctx context.Context, text string) error
}

type Options struct {
	// Prices maps "plan:cycle" to the provider price id.
	Prices    map[string]string
	ClientURL string
}

type CheckoutParams struct {
	UserID       string
	Plan         string
	BillingCycle string
	Email        string
	SuccessURL   string
	CancelURL    string
}

type ChangePlanParams struct {
	UserID       string
	Plan         string
	BillingCycle string
}

type Service struct {
	gateway  PaymentGateway
	repo     SubscriptionRepository
	notifier Notifier
	opts     Options
	now      func() time.Time
}

// NewService builds the billing service. gateway, repo and notifier may be nil
// when the corresponding subsystem is not configured.
func NewService(gateway PaymentGateway, repo SubscriptionRepository, notifier Notifier, opts Options) *Service {
	return &Service{
		gateway:  gateway,
		repo:     repo,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s.gateway != nil
}

// Plans is the public plan catalogue.
func (s *Service) Plans() []entity.PlanPrice {
	return []entity.PlanPrice{
		{Plan: value.PlanFree, Name: "Free", Reports: value.PlanFree.ReportsLimit()},
		{Plan: value.PlanPro, Name: "Pro", MonthlyPrice: 7.99, YearlyPrice: 5.99, Reports: value.PlanPro.ReportsLimit()},
		{
			Plan: value.PlanPremium, Name: "Premium", MonthlyPrice: 14.99, YearlyPrice: 11.99,
			Reports: value.PlanPremium.ReportsLimit(), Unlimited: true,
		},
	}
}

// CreateCheckout opens a hosted checkout for a paid plan and returns its URL.
func (s *Service) CreateCheckout(ctx context.Context, p CheckoutParams) (string, error) {
	if err := s.require(); err != nil {
		return "", err
	}

	plan, cycle, priceID, err := s.price(p.Plan, p.BillingCycle)
	if err != nil {
		return "", err
	}

	customerID, err := s.customer(ctx, p.UserID, p.Email)
	if err != nil {
		return "", err
	}

	successURL := p.SuccessURL
	if successURL == "" {
		successURL = s.opts.ClientURL + "/dashboard?stripe_success=1&session_id={CHECKOUT_SESSION_ID}"
	}

	cancelURL := p.CancelURL
	if cancelURL == "" {
		cancelURL = s.opts.ClientURL + "/dashboard?stripe_cancel=1"
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, NewCheckout{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			MetaUserID:       p.UserID,
			MetaPlan:         plan.String(),
			MetaBillingCycle: cycle.String(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gateway.CreateCheckoutSession: %w", err)
	}

	logger(ctx).Info("checkout session created",
		slog.String(logx.FieldUserID, p.UserID),
		slog.String(logx.FieldPlan, plan.String()),
	)

	return session.URL, nil
}

// SyncCheckout stores the subscription of a completed checkout session.
func (s *Service) SyncCheckout(ctx context.Context, sessionID string) error {
	if err := s.require(); err != nil {
		return err
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("gateway.GetCheckoutSession: %w", err)
	}

	return s.upsertFromSession(ctx, session)
}

// ChangePlan swaps the price of an existing paid subscription with proration.
func (s *Service) ChangePlan(ctx context.Context, p ChangePlanParams) error {
	if err := s.require(); err != nil {
		return err
	}

	plan, cycle, priceID, err := s.price(p.Plan, p.BillingCycle)
	if err != nil {
		return err
	}

	current, err := s.repo.Get(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("repo.Get: %w", err)
	}

	if current.StripeSubscriptionID == nil || *current.StripeSubscriptionID == "" {
		return domain.NewError(errcodes.NoStripeSubscription, "No Stripe subscription to change")
	}

	remote, err := s.gateway.GetSubscription(ctx, *current.StripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("gateway.GetSubscription: %w", err)
	}

	updated, err := s.gateway.ChangeSubscriptionPrice(ctx, remote, priceID, map[string]string{
		MetaUserID:       p.UserID,
		MetaPlan:         plan.String(),
		MetaBillingCycle: cycle.String(),
	})
	if err != nil {
		return fmt.Errorf("gateway.ChangeSubscriptionPrice: %w", err)
	}

	status := updated.Status
	if status == "" {
		status = entity.StatusActive
	}

	current.PlanName = plan
	current.BillingCycle = cycle
	current.Status = status
	current.ReportsLimit = plan.ReportsLimit()
	current.CancelAtPeriodEnd = updated.CancelAtPeriodEnd
	setPeriod(&current, updated)

	if err := s.repo.Upsert(ctx, current); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	logger(ctx).Info("plan changed",
		slog.String(logx.FieldUserID, p.UserID),
		slog.String(logx.FieldPlan, plan.String()),
	)

	return nil
}

// CreateFree moves the user to the free plan, cancelling any paid
// subscription on a best-effort basis.
func (s *Service) CreateFree(ctx context.Context, userID string) error {
	if s.repo == nil {
		return domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	free := entity.FreeSubscription(userID)

	current, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		free.StripeCustomerID = current.StripeCustomerID

		if current.StripeSubscriptionID != nil && *current.StripeSubscriptionID != "" && s.gateway != nil {
			if err := s.gateway.CancelSubscription(ctx, *current.StripeSubscriptionID); err != nil {
				logger(ctx).Warn("gateway.CancelSubscription", slog.String(logx.FieldUserID, userID), logx.Error(err))
			}
		}
	case domain.HasCode(err, errcodes.SubscriptionNotFound):
	default:
		return fmt.Errorf("repo.Get: %w", err)
	}

	free.UpdatedAt = s.now().UTC()

	if err := s.repo.Upsert(ctx, free); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	return nil
}

// GetSubscription returns the stored subscription or the free default.
func (s *Service) GetSubscription(ctx context.Context, userID string) (entity.Subscription, error) {
	if s.repo == nil {
		return entity.FreeSubscription(userID), nil
	}

	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		if domain.HasCode(err, errcodes.SubscriptionNotFound) {
			return entity.FreeSubscription(userID), nil
		}

		return entity.Subscription{}, fmt.Errorf("repo.Get: %w", err)
	}

	return sub, nil
}

// HandleWebhook verifies and applies one provider event. Unknown event types
// are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.require(); err != nil {
		return err
	}

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err //nolint:wrapcheck
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldEventType, event.Type)))
	logger(ctx).Info("webhook received")
	metrics.BillingEventsTotal.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case EventCheckoutCompleted:
		if event.Session == nil {
			return nil
		}

		if err := s.upsertFromSession(ctx, *event.Session); err != nil {
			return err
		}

		s.notify(ctx, fmt.Sprintf("💳 New %s subscription (%s) for user %s",
			event.Session.Metadata[MetaPlan], event.Session.Metadata[MetaBillingCycle], event.Session.Metadata[MetaUserID]))
	case EventSubscriptionUpdated:
		if event.Subscription == nil {
			return nil
		}

		return s.onSubscriptionUpdated(ctx, *event.Subscription)
	case EventSubscriptionDeleted:
		if event.Subscription == nil {
			return nil
		}

		if err := s.repo.DeleteByStripeID(ctx, event.Subscription.ID); err != nil {
			return fmt.Errorf("repo.DeleteByStripeID: %w", err)
		}
	case EventPaymentSucceeded:
		return s.onPaymentSucceeded(ctx, event.SubscriptionID)
	case EventPaymentFailed:
		return s.onPaymentFailed(ctx, event.SubscriptionID)
	default:
		logger(ctx).Info("unhandled webhook event")
	}

	return nil
}

func (s *Service) onSubscriptionUpdated(ctx context.Context, remote GatewaySubscription) error {
	sub, err := s.repo.GetByStripeID(ctx, remote.ID)
	if err != nil {
		if domain.HasCode(err, errcodes.SubscriptionNotFound) {
			return nil
		}

		return fmt.Errorf("repo.GetByStripeID: %w", err)
	}

	sub.Status = remote.Status
	sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	setPeriod(&sub, remote)

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	return nil
}

func (s *Service) onPaymentSucceeded(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return nil
	}

	remote, err := s.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("gateway.GetSubscription: %w", err)
	}

	sub, err := s.repo.GetByStripeID(ctx, subscriptionID)
	if err != nil {
		if domain.HasCode(err, errcodes.SubscriptionNotFound) {
			return nil
		}

		return fmt.Errorf("repo.GetByStripeID: %w", err)
	}

	sub.Status = entity.StatusActive
	sub.ReportsLimit = sub.PlanName.ReportsLimit()
	setPeriod(&sub, remote)

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	return nil
}

func (s *Service) onPaymentFailed(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return nil
	}

	sub, err := s.repo.GetByStripeID(ctx, subscriptionID)
	if err != nil {
		if domain.HasCode(err, errcodes.SubscriptionNotFound) {
			return nil
		}

		return fmt.Errorf("repo.GetByStripeID: %w", err)
	}

	sub.Status = entity.StatusPastDue

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	s.notify(ctx, fmt.Sprintf("⚠️ Payment failed for user %s (%s plan)", sub.UserID, sub.PlanName))

	return nil
}

func (s *Service) upsertFromSession(ctx context.Context, session CheckoutSession) error {
	userID := session.Metadata[MetaUserID]
	planName := session.Metadata[MetaPlan]
	cycleName := session.Metadata[MetaBillingCycle]

	if userID == "" || planName == "" || cycleName == "" {
		return domain.NewError(errcodes.InvalidCheckoutSession, "Missing required session metadata")
	}

	plan, err := value.ParsePlan(planName)
	if err != nil {
		return err //nolint:wrapcheck
	}

	cycle, err := value.ParseBillingCycle(cycleName)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var remote GatewaySubscription

	switch {
	case session.Subscription != nil:
		remote = *session.Subscription
	case session.SubscriptionID != "":
		remote, err = s.gateway.GetSubscription(ctx, session.SubscriptionID)
		if err != nil {
			return fmt.Errorf("gateway.GetSubscription: %w", err)
		}
	default:
		return domain.NewError(errcodes.InvalidCheckoutSession, "Missing subscription id on session")
	}

	sub := entity.Subscription{
		UserID:               userID,
		StripeCustomerID:     optional(session.CustomerID),
		StripeSubscriptionID: optional(remote.ID),
		PlanName:             plan,
		BillingCycle:         cycle,
		Status:               entity.StatusActive,
		ReportsLimit:         plan.ReportsLimit(),
		CancelAtPeriodEnd:    remote.CancelAtPeriodEnd,
		UpdatedAt:            s.now().UTC(),
	}

	if remote.PeriodStart.IsZero() {
		remote.PeriodStart = s.now().UTC()
	}

	if remote.PeriodEnd.IsZero() {
		remote.PeriodEnd = s.now().UTC()
	}

	setPeriod(&sub, remote)

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("repo.Upsert: %w", err)
	}

	logger(ctx).Info("subscription synced",
		slog.String(logx.FieldUserID, userID),
		slog.String(logx.FieldPlan, plan.String()),
	)

	return nil
}

// customer returns the stored provider customer, replacing it when the
// provider no longer knows it.
func (s *Service) customer(ctx context.Context, userID, email string) (string, error) {
	var stored string

	existing, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		if existing.StripeCustomerID != nil {
			stored = *existing.StripeCustomerID
		}
	case domain.HasCode(err, errcodes.SubscriptionNotFound):
	default:
		return "", fmt.Errorf("repo.Get: %w", err)
	}

	if stored != "" {
		ok, err := s.gateway.CustomerExists(ctx, stored)
		if err != nil {
			return "", fmt.Errorf("gateway.CustomerExists: %w", err)
		}

		if ok {
			return stored, nil
		}

		logger(ctx).Warn("stored customer missing at provider, creating a new one",
			slog.String(logx.FieldUserID, userID))
	}

	customerID, err := s.gateway.CreateCustomer(ctx, email, userID)
	if err != nil {
		return "", fmt.Errorf("gateway.CreateCustomer: %w", err)
	}

	if stored != "" {
		if err := s.repo.SetCustomerID(ctx, userID, customerID); err != nil {
			return "", fmt.Errorf("repo.SetCustomerID: %w", err)
		}
	}

	return customerID, nil
}

func (s *Service) price(planName, cycleName string) (value.Plan, value.BillingCycle, string, error) {
	plan, err := value.ParsePlan(planName)
	if err != nil {
		return "", "", "", err //nolint:wrapcheck
	}

	cycle, err := value.ParseBillingCycle(cycleName)
	if err != nil {
		return "", "", "", err //nolint:wrapcheck
	}

	priceID := s.opts.Prices[plan.String()+":"+cycle.String()]
	if priceID == "" {
		return "", "", "", domain.NewError(errcodes.InvalidPlan, "Invalid plan or billing cycle")
	}

	return plan, cycle, priceID, nil
}

func (s *Service) require() error {
	if s.gateway == nil {
		return domain.NewError(errcodes.BillingNotConfigured, "Stripe is not configured")
	}

	if s.repo == nil {
		return domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	return nil
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.SendText(ctx, text); err != nil {
		logger(ctx).Warn("notifier.SendText", logx.Error(err))
	}
}

func setPeriod(sub *entity.Subscription, remote GatewaySubscription) {
	if !remote.PeriodStart.IsZero() {
		start := remote.PeriodStart.UTC()
		sub.CurrentPeriodStart = &start
	}

	if !remote.PeriodEnd.IsZero() {
		end := remote.PeriodEnd.UTC()
		sub.CurrentPeriodEnd = &end
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
