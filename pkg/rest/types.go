// Package rest holds the JSON wire types of the public API.
package rest

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Error is the body of every non-2xx API response.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// SupportID is the request trace id.
	SupportID string `json:"supportId"`
	// Detail carries the caller's quota on UsageLimitReached.
	Detail *Quota `json:"detail,omitempty"`
}

type ErrorCode string

type Quota struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	Period    string `json:"period"`
	Plan      string `json:"plan,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

type ReportResponse struct {
	Ticker string              `json:"ticker"`
	Cached bool                `json:"cached"`
	Report jsoniter.RawMessage `json:"report"`
	Saved  bool                `json:"saved"`
	Usage  *Quota              `json:"usage,omitempty"`
}

type SavedReport struct {
	ID          string              `json:"id"`
	Ticker      string              `json:"ticker"`
	Verdict     string              `json:"verdict"`
	Model       string              `json:"model"`
	GeneratedAt time.Time           `json:"generated_at"`
	Report      jsoniter.RawMessage `json:"report"`
}

type ReportsResponse struct {
	Reports []SavedReport `json:"reports"`
}

type Post struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content,omitempty"`
	ContentHTML string    `json:"content_html,omitempty"`
	Verdict     string    `json:"verdict"`
	CompanyName string    `json:"company_name"`
	AuthorName  string    `json:"author_name"`
	Tags        []string  `json:"tags"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PostPage struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
}

type SlugEntry struct {
	Ticker      string    `json:"ticker"`
	Slug        string    `json:"slug"`
	CompanyName string    `json:"company_name"`
	Verdict     string    `json:"verdict"`
	CreatedAt   time.Time `json:"created_at"`
}

type SlugsResponse struct {
	Posts []SlugEntry `json:"posts"`
}

type SlugMigration struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

type Plan struct {
	Plan         string  `json:"plan"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	YearlyPrice  float64 `json:"yearlyPrice"`
	Reports      int     `json:"reports"`
	Unlimited    bool    `json:"unlimited"`
}

type PlansResponse struct {
	Plans []Plan `json:"plans"`
}

type Subscription struct {
	UserID               string     `json:"user_id,omitempty"`
	StripeCustomerID     *string    `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	PlanName             string     `json:"plan_name"`
	BillingCycle         string     `json:"billing_cycle"`
	Status               string     `json:"status"`
	ReportsLimit         int        `json:"reports_limit"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end"`
}

type Session struct {
	UserID       string       `json:"user_id"`
	Email        string       `json:"email,omitempty"`
	Subscription Subscription `json:"subscription"`
	Usage        Quota        `json:"usage"`
}

type CheckoutRequest struct {
	UserID       string `json:"userId" validate:"required"`
	Plan         string `json:"plan" validate:"required"`
	BillingCycle string `json:"billingCycle"`
	Email        string `json:"email,omitempty"`
	SuccessURL   string `json:"successUrl,omitempty"`
	CancelURL    string `json:"cancelUrl,omitempty"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type SyncCheckoutRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type ChangePlanRequest struct {
	UserID       string `json:"userId" validate:"required"`
	Plan         string `json:"plan" validate:"required"`
	BillingCycle string `json:"billingCycle"`
}

type FreeSubscriptionRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type Quote struct {
	Price   float64 `json:"price"`
	Change  float64 `json:"change"`
	Percent float64 `json:"percent"`
}

type WatchlistItem struct {
	Ticker      string    `json:"ticker"`
	LastVerdict *string   `json:"last_verdict"`
	CreatedAt   time.Time `json:"created_at"`
}

type WatchlistResponse struct {
	Items []WatchlistItem `json:"items"`
}

type WatchRequest struct {
	Ticker      string `json:"ticker" validate:"required"`
	LastVerdict string `json:"last_verdict,omitempty"`
}

type Health struct {
	Status             string `json:"status"`
	AIProvider         string `json:"ai_provider"`
	AIConfigured       bool   `json:"ai_configured"`
	CacheEntries       int    `json:"cache_entries"`
	BillingConfigured  bool   `json:"billing_configured"`
	DatabaseConfigured bool   `json:"database_configured"`
	RedisConfigured    bool   `json:"redis_configured"`
}

type ServiceInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
