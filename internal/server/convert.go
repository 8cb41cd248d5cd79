package server

import (
	"fmt"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/lox"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

func newRESTQuota(q entity.Quota) rest.Quota {
	return rest.Quota{
		Used:      q.Used,
		Limit:     q.Limit,
		Unlimited: q.Unlimited,
		Period:    q.Period,
		Plan:      q.Plan.String(),
		Anonymous: q.Anonymous,
	}
}

func newRESTQuotaPtr(q *entity.Quota) *rest.Quota {
	if q == nil {
		return nil
	}

	quota := newRESTQuota(*q)

	return &quota
}

func newRESTReport(result entity.ReportResult) (rest.ReportResponse, error) {
	raw, err := json.Marshal(result.Report)
	if err != nil {
		return rest.ReportResponse{}, fmt.Errorf("json.Marshal: %w", err)
	}

	return rest.ReportResponse{
		Ticker: result.Ticker.String(),
		Cached: result.Cached,
		Report: raw,
		Saved:  result.Saved,
		Usage:  newRESTQuotaPtr(result.Usage),
	}, nil
}

func newRESTSavedReports(reports []entity.SavedReport) ([]rest.SavedReport, error) {
	return lox.MapErr(reports, func(r entity.SavedReport) (rest.SavedReport, error) {
		raw, err := json.Marshal(r.Report)
		if err != nil {
			return rest.SavedReport{}, fmt.Errorf("json.Marshal: %w", err)
		}

		return rest.SavedReport{
			ID:          r.ID.String(),
			Ticker:      r.Ticker.String(),
			Verdict:     r.Verdict,
			Model:       r.Model,
			GeneratedAt: r.GeneratedAt,
			Report:      raw,
		}, nil
	})
}

func newRESTPost(p entity.Post) rest.Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return rest.Post{
		ID:          p.ID.String(),
		Ticker:      p.Ticker.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		ContentHTML: p.ContentHTML,
		Verdict:     p.Verdict,
		CompanyName: p.CompanyName,
		AuthorName:  p.AuthorName,
		Tags:        tags,
		Views:       p.Views,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newRESTPosts(posts []entity.Post) []rest.Post {
	return lox.Map(posts, newRESTPost)
}

func newRESTPostPage(page entity.PostPage) rest.PostPage {
	return rest.PostPage{
		Posts: newRESTPosts(page.Posts),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
		Pages: page.Pages,
	}
}

func newRESTSlugs(entries []entity.SlugEntry) []rest.SlugEntry {
	return lox.Map(entries, func(e entity.SlugEntry) rest.SlugEntry {
		return rest.SlugEntry{
			Ticker:      e.Ticker.String(),
			Slug:        e.Slug,
			CompanyName: e.CompanyName,
			Verdict:     e.Verdict,
			CreatedAt:   e.CreatedAt,
		}
	})
}

func newRESTPlans(plans []entity.PlanPrice) []rest.Plan {
	return lox.Map(plans, func(p entity.PlanPrice) rest.Plan {
		return rest.Plan{
			Plan:         p.Plan.String(),
			Name:         p.Name,
			MonthlyPrice: p.MonthlyPrice,
			YearlyPrice:  p.YearlyPrice,
			Reports:      p.Reports,
			Unlimited:    p.Unlimited,
		}
	})
}

func newRESTSubscription(s entity.Subscription) rest.Subscription {
	return rest.Subscription{
		UserID:               s.UserID,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		PlanName:             s.PlanName.String(),
		BillingCycle:         s.BillingCycle.String(),
		Status:               s.Status,
		ReportsLimit:         s.ReportsLimit,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
	}
}

func newRESTWatchlist(items []entity.WatchlistItem) []rest.WatchlistItem {
	return lox.Map(items, newRESTWatchlistItem)
}

func newRESTWatchlistItem(item entity.WatchlistItem) rest.WatchlistItem {
	return rest.WatchlistItem{
		Ticker:      item.Ticker.String(),
		LastVerdict: item.LastVerdict,
		CreatedAt:   item.CreatedAt,
	}
}
