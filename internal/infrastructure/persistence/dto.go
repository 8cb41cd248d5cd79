package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// reportSchema maps a row of the reports table.
type reportSchema struct {
	ID          uuid.UUID `db:"id"`
	UserID      string    `db:"user_id"`
	Ticker      string    `db:"ticker"`
	ReportData  []byte    `db:"report_data"`
	Model       string    `db:"gemini_model"`
	Verdict     string    `db:"verdict"`
	GeneratedAt time.Time `db:"generated_at"`
}

func fromSavedReport(r entity.SavedReport) (reportSchema, error) {
	data, err := json.Marshal(r.Report)
	if err != nil {
		return reportSchema{}, fmt.Errorf("json.Marshal: %w", err)
	}

	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return reportSchema{
		ID:          id,
		UserID:      r.UserID,
		Ticker:      r.Ticker.String(),
		ReportData:  data,
		Model:       r.Model,
		Verdict:     r.Verdict,
		GeneratedAt: r.GeneratedAt,
	}, nil
}

func (s reportSchema) toDomain() (entity.SavedReport, error) {
	var report entity.Report
	if err := json.Unmarshal(s.ReportData, &report); err != nil {
		return entity.SavedReport{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return entity.SavedReport{
		ID:          s.ID,
		UserID:      s.UserID,
		Ticker:      value.Ticker(s.Ticker),
		Report:      report,
		Model:       s.Model,
		Verdict:     s.Verdict,
		GeneratedAt: s.GeneratedAt,
	}, nil
}

// postSchema maps a row of the blog_posts table. Tags are stored as JSONB.
type postSchema struct {
	ID          uuid.UUID     `db:"id"`
	Ticker      string        `db:"ticker"`
	Title       string        `db:"title"`
	Slug        string        `db:"slug"`
	Excerpt     string        `db:"excerpt"`
	Content     string        `db:"content"`
	Verdict     string        `db:"verdict"`
	CompanyName string        `db:"company_name"`
	AuthorName  string        `db:"author_name"`
	Tags        []byte        `db:"tags"`
	Views       int           `db:"views"`
	ReportID    uuid.NullUUID `db:"report_id"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func fromPost(p entity.Post) (postSchema, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	rawTags, err := json.Marshal(tags)
	if err != nil {
		return postSchema{}, fmt.Errorf("json.Marshal: %w", err)
	}

	s := postSchema{
		ID:          p.ID,
		Ticker:      p.Ticker.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Verdict:     p.Verdict,
		CompanyName: p.CompanyName,
		AuthorName:  p.AuthorName,
		Tags:        rawTags,
		Views:       p.Views,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	if s.AuthorName == "" {
		s.AuthorName = entity.DefaultAuthor
	}

	if p.ReportID != nil {
		s.ReportID = uuid.NullUUID{UUID: *p.ReportID, Valid: true}
	}

	return s, nil
}

func (s postSchema) toDomain() (entity.Post, error) {
	var tags []string
	if len(s.Tags) > 0 {
		if err := json.Unmarshal(s.Tags, &tags); err != nil {
			return entity.Post{}, fmt.Errorf("json.Unmarshal: %w", err)
		}
	}

	if tags == nil {
		tags = []string{}
	}

	p := entity.Post{
		ID:          s.ID,
		Ticker:      value.Ticker(s.Ticker),
		Title:       s.Title,
		Slug:        s.Slug,
		Excerpt:     s.Excerpt,
		Content:     s.Content,
		Verdict:     s.Verdict,
		CompanyName: s.CompanyName,
		AuthorName:  s.AuthorName,
		Tags:        tags,
		Views:       s.Views,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	if s.ReportID.Valid {
		id := s.ReportID.UUID
		p.ReportID = &id
	}

	return p, nil
}

type slugSchema struct {
	Ticker      string    `db:"ticker"`
	Slug        string    `db:"slug"`
	CompanyName string    `db:"company_name"`
	Verdict     string    `db:"verdict"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s slugSchema) toDomain() entity.SlugEntry {
	return entity.SlugEntry{
		Ticker:      value.Ticker(s.Ticker),
		Slug:        s.Slug,
		CompanyName: s.CompanyName,
		Verdict:     s.Verdict,
		CreatedAt:   s.CreatedAt,
	}
}

// subscriptionSchema maps a row of the subscriptions table.
type subscriptionSchema struct {
	UserID               string         `db:"user_id"`
	StripeCustomerID     sql.NullString `db:"stripe_customer_id"`
	StripeSubscriptionID sql.NullString `db:"stripe_subscription_id"`
	PlanName             string         `db:"plan_name"`
	BillingCycle         string         `db:"billing_cycle"`
	Status               string         `db:"status"`
	ReportsLimit         int            `db:"reports_limit"`
	CurrentPeriodStart   sql.NullTime   `db:"current_period_start"`
	CurrentPeriodEnd     sql.NullTime   `db:"current_period_end"`
	CancelAtPeriodEnd    bool           `db:"cancel_at_period_end"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func fromSubscription(s entity.Subscription) subscriptionSchema {
	return subscriptionSchema{
		UserID:               s.UserID,
		StripeCustomerID:     nullString(s.StripeCustomerID),
		StripeSubscriptionID: nullString(s.StripeSubscriptionID),
		PlanName:             s.PlanName.String(),
		BillingCycle:         s.BillingCycle.String(),
		Status:               s.Status,
		ReportsLimit:         s.ReportsLimit,
		CurrentPeriodStart:   nullTime(s.CurrentPeriodStart),
		CurrentPeriodEnd:     nullTime(s.CurrentPeriodEnd),
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (s subscriptionSchema) toDomain() entity.Subscription {
	sub := entity.Subscription{
		UserID:            s.UserID,
		PlanName:          value.Plan(s.PlanName),
		BillingCycle:      value.BillingCycle(s.BillingCycle),
		Status:            s.Status,
		ReportsLimit:      s.ReportsLimit,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		UpdatedAt:         s.UpdatedAt,
	}

	if s.StripeCustomerID.Valid {
		sub.StripeCustomerID = &s.StripeCustomerID.String
	}

	if s.StripeSubscriptionID.Valid {
		sub.StripeSubscriptionID = &s.StripeSubscriptionID.String
	}

	if s.CurrentPeriodStart.Valid {
		sub.CurrentPeriodStart = &s.CurrentPeriodStart.Time
	}

	if s.CurrentPeriodEnd.Valid {
		sub.CurrentPeriodEnd = &s.CurrentPeriodEnd.Time
	}

	return sub
}

type watchlistSchema struct {
	UserID      string         `db:"user_id"`
	Ticker      string         `db:"ticker"`
	LastVerdict sql.NullString `db:"last_verdict"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (s watchlistSchema) toDomain() entity.WatchlistItem {
	item := entity.WatchlistItem{
		UserID:    s.UserID,
		Ticker:    value.Ticker(s.Ticker),
		CreatedAt: s.CreatedAt,
	}

	if s.LastVerdict.Valid {
		item.LastVerdict = &s.LastVerdict.String
	}

	return item
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
