package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/billing"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/req"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

const (
	headerNameStripeSignature = "Stripe-Signature"
	maxWebhookBody            = 1 << 20
)

type billingService interface {
	Plans() []entity.PlanPrice
	CreateCheckout(ctx context.Context, p billing.CheckoutParams) (string, error)
	SyncCheckout(ctx context.Context, sessionID string) error
	ChangePlan(ctx context.Context, p billing.ChangePlanParams) error
	CreateFree(ctx context.Context, userID string) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetSubscription(ctx context.Context, userID string) (entity.Subscription, error)
}

type BillingServer struct {
	billingService billingService
}

func NewBillingServer(billingService billingService) BillingServer {
	return BillingServer{
		billingService: billingService,
	}
}

func (s BillingServer) getPlans(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.PlansResponse{Plans: newRESTPlans(s.billingService.Plans())})
	return nil
}

func (s BillingServer) postCreateCheckout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CheckoutRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	url, err := s.billingService.CreateCheckout(ctx, billing.CheckoutParams{
		UserID:       request.UserID,
		Plan:         request.Plan,
		BillingCycle: request.BillingCycle,
		Email:        request.Email,
		SuccessURL:   request.SuccessURL,
		CancelURL:    request.CancelURL,
	})
	if err != nil {
		return fmt.Errorf("billingService.CreateCheckout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CheckoutResponse{URL: url})

	return nil
}

func (s BillingServer) postSyncCheckout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SyncCheckoutRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.billingService.SyncCheckout(ctx, request.SessionID); err != nil {
		return fmt.Errorf("billingService.SyncCheckout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SuccessResponse{Success: true})

	return nil
}

func (s BillingServer) postChangePlan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ChangePlanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	err := s.billingService.ChangePlan(ctx, billing.ChangePlanParams{
		UserID:       request.UserID,
		Plan:         request.Plan,
		BillingCycle: request.BillingCycle,
	})
	if err != nil {
		return fmt.Errorf("billingService.ChangePlan: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SuccessResponse{Success: true})

	return nil
}

func (s BillingServer) postCreateFree(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.FreeSubscriptionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.billingService.CreateFree(ctx, request.UserID); err != nil {
		return fmt.Errorf("billingService.CreateFree: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SuccessResponse{Success: true})

	return nil
}

func (s BillingServer) postWebhook(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("io.ReadAll: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid payload"),
		)
	}

	if err := s.billingService.HandleWebhook(ctx, payload, r.Header.Get(headerNameStripeSignature)); err != nil {
		return fmt.Errorf("billingService.HandleWebhook: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.WebhookResponse{Received: true})

	return nil
}

func (s BillingServer) getSubscription(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sub, err := s.billingService.GetSubscription(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		return fmt.Errorf("billingService.GetSubscription: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSubscription(sub))

	return nil
}
