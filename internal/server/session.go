package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

type usageService interface {
	Peek(ctx context.Context, subject usage.Subject) (entity.Quota, error)
}

type subscriptionService interface {
	GetSubscription(ctx context.Context, userID string) (entity.Subscription, error)
}

// SessionServer exposes what the signed-in (or anonymous) caller may do.
type SessionServer struct {
	usageService        usageService
	subscriptionService subscriptionService
}

func NewSessionServer(usageService usageService, subscriptionService subscriptionService) SessionServer {
	return SessionServer{
		usageService:        usageService,
		subscriptionService: subscriptionService,
	}
}

func (s SessionServer) getUsage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	quota, err := s.usageService.Peek(ctx, usage.SubjectFromContext(ctx))
	if err != nil {
		return fmt.Errorf("usageService.Peek: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTQuota(quota))

	return nil
}

func (s SessionServer) getMe(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	sub, err := s.subscriptionService.GetSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("subscriptionService.GetSubscription: %w", err)
	}

	quota, err := s.usageService.Peek(ctx, usage.SubjectFromContext(ctx))
	if err != nil {
		return fmt.Errorf("usageService.Peek: %w", err)
	}

	email, _ := contextx.UserEmailFromContext(ctx)

	reply.JSON(ctx, w, http.StatusOK, rest.Session{
		UserID:       userID,
		Email:        email,
		Subscription: newRESTSubscription(sub),
		Usage:        newRESTQuota(quota),
	})

	return nil
}

func currentUserID(ctx context.Context) (string, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return "", domain.WrapError(err, errcodes.AuthenticationRequired, "Sign in required")
	}

	return userID.String(), nil
}
