package usage

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

// Counter stores monthly usage per subject. Acquire must be atomic: it
// increments only while used < limit and reports whether it did.
type Counter interface {
	Acquire(ctx context.Context, subject, period string, limit int) (used int, ok bool, err error)
	Release(ctx context.Context, subject, period string) error
	Used(ctx context.Context, subject, period string) (int, error)
}

type SubscriptionReader interface {
	GetSubscription(ctx context.Context, userID string) (entity.Subscription, error)
}

// Subject is whoever consumes quota: a signed-in user or an anonymous client.
type Subject struct {
	UserID   string
	ClientID string
}

func SubjectFromContext(ctx context.Context) Subject {
	var s Subject

	if userID, err := contextx.UserIDFromContext(ctx); err == nil {
		s.UserID = userID.String()
	}

	if clientID, err := contextx.ClientIDFromContext(ctx); err == nil {
		s.ClientID = clientID.String()
	}

	return s
}

func (s Subject) Anonymous() bool {
	return s.UserID == ""
}

func (s Subject) Key() string {
	if !s.Anonymous() {
		return "user:" + s.UserID
	}

	return "anon:" + s.ClientID
}

type Service struct {
	users Counter
	anon  Counter
	subs  SubscriptionReader
	now   func() time.Time
}

// NewService wires the counters. subs may be nil, in which case every user is
// on the free plan.
func NewService(users, anon Counter, subs SubscriptionReader) *Service {
	return &Service{
		users: users,
		anon:  anon,
		subs:  subs,
		now:   time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Period is the UTC calendar month quotas reset on, formatted YYYY-MM.
func (s *Service) Period() string {
	return s.now().UTC().Format("2006-01")
}

// Acquire consumes one report unit. When the allowance is used up it returns
// the current quota together with a UsageLimitReached error.
func (s *Service) Acquire(ctx context.Context, subject Subject) (entity.Quota, error) {
	plan, limit, err := s.limit(ctx, subject)
	if err != nil {
		return entity.Quota{}, err
	}

	period := s.Period()

	used, ok, err := s.counter(subject).Acquire(ctx, subject.Key(), period, limit)
	if err != nil {
		return entity.Quota{}, fmt.Errorf("counter.Acquire: %w", err)
	}

	quota := entity.NewQuota(used, limit, period, plan, subject.Anonymous())

	if !ok {
		metrics.UsageDeniedTotal.WithLabelValues(subjectLabel(subject)).Inc()
		logger(ctx).Info("usage limit reached",
			slog.String("subject", subject.Key()),
			slog.Int("limit", limit),
		)

		return quota, domain.NewError(errcodes.UsageLimitReached, limitMessage(quota))
	}

	return quota, nil
}

// Release returns a unit taken by Acquire, e.g. after a failed generation.
func (s *Service) Release(ctx context.Context, subject Subject) {
	if err := s.counter(subject).Release(ctx, subject.Key(), s.Period()); err != nil {
		logger(ctx).Error("counter.Release", slog.String("subject", subject.Key()), logx.Error(err))
	}
}

// Peek reads the quota without consuming it.
func (s *Service) Peek(ctx context.Context, subject Subject) (entity.Quota, error) {
	plan, limit, err := s.limit(ctx, subject)
	if err != nil {
		return entity.Quota{}, err
	}

	period := s.Period()

	used, err := s.counter(subject).Used(ctx, subject.Key(), period)
	if err != nil {
		return entity.Quota{}, fmt.Errorf("counter.Used: %w", err)
	}

	return entity.NewQuota(used, limit, period, plan, subject.Anonymous()), nil
}

func (s *Service) counter(subject Subject) Counter {
	if subject.Anonymous() || s.users == nil {
		return s.anon
	}

	return s.users
}

func (s *Service) limit(ctx context.Context, subject Subject) (value.Plan, int, error) {
	if subject.Anonymous() {
		return "", value.AnonymousMonthlyLimit, nil
	}

	if s.subs == nil {
		return value.PlanFree, value.PlanFree.ReportsLimit(), nil
	}

	sub, err := s.subs.GetSubscription(ctx, subject.UserID)
	if err != nil {
		return "", 0, fmt.Errorf("subs.GetSubscription: %w", err)
	}

	plan := sub.EffectivePlan()
	limit := sub.ReportsLimit

	if plan != sub.PlanName || limit <= 0 {
		limit = plan.ReportsLimit()
	}

	return plan, limit, nil
}

func limitMessage(q entity.Quota) string {
	if q.Anonymous {
		return fmt.Sprintf("You've used %d/%d free reports this month. Sign up for a free account to get 3 reports/month.", min(q.Used, q.Limit), q.Limit)
	}

	return fmt.Sprintf("You've used %d/%d reports this month. Upgrade your plan for more.", min(q.Used, q.Limit), q.Limit)
}

func subjectLabel(s Subject) string {
	if s.Anonymous() {
		return "anonymous"
	}

	return "user"
}
