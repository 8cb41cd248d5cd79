package usage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

type fakeCounter struct {
	mu   sync.Mutex
	used map[string]int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{used: make(map[string]int)}
}

func (f *fakeCounter) Acquire(_ context.Context, subject, period string, limit int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := subject + "|" + period
	if f.used[key] >= limit {
		return f.used[key], false, nil
	}

	f.used[key]++

	return f.used[key], true, nil
}

func (f *fakeCounter) Release(_ context.Context, subject, period string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := subject + "|" + period
	if f.used[key] > 0 {
		f.used[key]--
	}

	return nil
}

func (f *fakeCounter) Used(_ context.Context, subject, period string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.used[subject+"|"+period], nil
}

type fakeSubs map[string]entity.Subscription

func (f fakeSubs) GetSubscription(_ context.Context, userID string) (entity.Subscription, error) {
	if userID == "broken" {
		return entity.Subscription{}, errors.New("db down")
	}

	if sub, ok := f[userID]; ok {
		return sub, nil
	}

	return entity.FreeSubscription(userID), nil
}

func march() time.Time {
	return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
}

func TestAcquire(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	subs := fakeSubs{
		"pro-user": {UserID: "pro-user", PlanName: value.PlanPro, Status: entity.StatusActive, ReportsLimit: 30},
		"lapsed":   {UserID: "lapsed", PlanName: value.PlanPro, Status: entity.StatusPastDue, ReportsLimit: 30},
		"premium":  {UserID: "premium", PlanName: value.PlanPremium, Status: entity.StatusActive, ReportsLimit: 999999},
	}

	testCases := []struct {
		name      string
		subject   usage.Subject
		attempts  int
		allowed   int
		wantLimit int
	}{
		{name: "Anonymous gets one", subject: usage.Subject{ClientID: "c1"}, attempts: 3, allowed: 1, wantLimit: 1},
		{name: "Free user gets three", subject: usage.Subject{UserID: "free-user"}, attempts: 5, allowed: 3, wantLimit: 3},
		{name: "Pro user gets thirty", subject: usage.Subject{UserID: "pro-user"}, attempts: 31, allowed: 30, wantLimit: 30},
		{name: "Lapsed pro falls back to free", subject: usage.Subject{UserID: "lapsed"}, attempts: 4, allowed: 3, wantLimit: 3},
		{name: "Premium is unlimited", subject: usage.Subject{UserID: "premium"}, attempts: 50, allowed: 50, wantLimit: 999999},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			svc := usage.NewService(newFakeCounter(), newFakeCounter(), subs).WithClock(march)

			allowed := 0

			for range tc.attempts {
				quota, err := svc.Acquire(ctx, tc.subject)
				rq.Equal(tc.wantLimit, quota.Limit)
				rq.Equal("2026-03", quota.Period)

				if err != nil {
					rq.True(domain.HasCode(err, errcodes.UsageLimitReached))
					rq.True(quota.Exhausted())

					continue
				}

				allowed++
			}

			rq.Equal(tc.allowed, allowed)
		})
	}
}

func TestAcquireConcurrent(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := usage.NewService(newFakeCounter(), newFakeCounter(), nil).WithClock(march)
	subject := usage.Subject{UserID: "u1"}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.Acquire(ctx, subject); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	rq.Equal(3, granted)
}

func TestReleaseAndPeek(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := usage.NewService(newFakeCounter(), newFakeCounter(), nil).WithClock(march)
	subject := usage.Subject{ClientID: "c1"}

	_, err := svc.Acquire(ctx, subject)
	rq.NoError(err)

	quota, err := svc.Peek(ctx, subject)
	rq.NoError(err)
	rq.Equal(1, quota.Used)
	rq.True(quota.Anonymous)

	svc.Release(ctx, subject)

	quota, err = svc.Peek(ctx, subject)
	rq.NoError(err)
	rq.Equal(0, quota.Used)
	rq.Equal(1, quota.Remaining())
}

func TestSubscriptionLookupFails(t *testing.T) {
	rq := require.New(t)

	svc := usage.NewService(newFakeCounter(), newFakeCounter(), fakeSubs{})

	_, err := svc.Acquire(context.Background(), usage.Subject{UserID: "broken"})
	rq.Error(err)
}

func TestSubjectFromContext(t *testing.T) {
	rq := require.New(t)

	ctx := contextx.WithClientID(context.Background(), "c9")
	subject := usage.SubjectFromContext(ctx)
	rq.True(subject.Anonymous())
	rq.Equal("anon:c9", subject.Key())

	subject = usage.SubjectFromContext(contextx.WithUserID(ctx, "u9"))
	rq.False(subject.Anonymous())
	rq.Equal("user:u9", subject.Key())
}
