package entity

import (
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

type Subscription struct {
	UserID               string             `json:"user_id"`
	StripeCustomerID     *string            `json:"stripe_customer_id"`
	StripeSubscriptionID *string            `json:"stripe_subscription_id"`
	PlanName             value.Plan         `json:"plan_name"`
	BillingCycle         value.BillingCycle `json:"billing_cycle"`
	Status               string             `json:"status"`
	ReportsLimit         int                `json:"reports_limit"`
	CurrentPeriodStart   *time.Time         `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end"`
	CancelAtPeriodEnd    bool               `json:"cancel_at_period_end"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// FreeSubscription is reported for users that never subscribed.
func FreeSubscription(userID string) Subscription {
	return Subscription{
		UserID:       userID,
		PlanName:     value.PlanFree,
		BillingCycle: value.CycleMonthly,
		Status:       StatusActive,
		ReportsLimit: value.PlanFree.ReportsLimit(),
	}
}

// EffectivePlan is the plan that governs quotas. Lapsed paid plans fall back to
// free; trials count as active.
func (s Subscription) EffectivePlan() value.Plan {
	switch s.Status {
	case StatusActive, StatusTrialing:
		return s.PlanName
	default:
		return value.PlanFree
	}
}

// PeriodUpdate carries the fields Stripe reports for a subscription period.
type PeriodUpdate struct {
	Status            string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	CancelAtPeriodEnd bool
}

type PlanPrice struct {
	Plan         value.Plan `json:"plan"`
	Name         string     `json:"name"`
	MonthlyPrice float64    `json:"monthlyPrice"`
	YearlyPrice  float64    `json:"yearlyPrice"`
	Reports      int        `json:"reports"`
	Unlimited    bool       `json:"unlimited"`
}
