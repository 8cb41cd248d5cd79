package blog_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/blog"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

type memoryRepo struct {
	mu    sync.Mutex
	posts []entity.Post
	now   time.Time
}

func (m *memoryRepo) ExistsSince(_ context.Context, ticker value.Ticker, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Ticker == ticker && !p.CreatedAt.Before(since) {
			return true, nil
		}
	}

	return false, nil
}

func (m *memoryRepo) Upsert(_ context.Context, post entity.Post) (entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post.CreatedAt = m.now

	for i, p := range m.posts {
		if p.Slug == post.Slug {
			post.ID = p.ID
			m.posts[i] = post

			return post, nil
		}
	}

	post.ID = uuid.New()
	m.posts = append(m.posts, post)

	return post, nil
}

func (m *memoryRepo) List(_ context.Context, f entity.PostFilter) ([]entity.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []entity.Post

	for _, p := range m.newest() {
		if (f.Verdict == "" || p.Verdict == f.Verdict) && (f.Ticker == "" || p.Ticker == f.Ticker) {
			matched = append(matched, p)
		}
	}

	start := min(f.Offset(), len(matched))
	end := min(start+f.Limit, len(matched))

	return matched[start:end], len(matched), nil
}

func (m *memoryRepo) GetBySlug(_ context.Context, slug string) (entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}

	return entity.Post{}, domain.NewError(errcodes.PostNotFound, "Post not found")
}

func (m *memoryRepo) IncrementViews(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.posts {
		if m.posts[i].Slug == slug {
			m.posts[i].Views++
		}
	}

	return nil
}

func (m *memoryRepo) Recent(_ context.Context, exclude value.Ticker, limit int) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Post

	for _, p := range m.newest() {
		if p.Ticker != exclude && len(out) < limit {
			out = append(out, p)
		}
	}

	return out, nil
}

func (m *memoryRepo) AllSlugs(context.Context) ([]entity.SlugEntry, error) {
	return nil, nil
}

func (m *memoryRepo) UpdateSlug(_ context.Context, post entity.Post, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			return domain.NewError(errcodes.PostDuplicate, "slug taken")
		}
	}

	for i := range m.posts {
		if m.posts[i].ID == post.ID {
			m.posts[i].Slug = slug
		}
	}

	return nil
}

func (m *memoryRepo) ListForMigration(context.Context) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]entity.Post(nil), m.posts...), nil
}

func (m *memoryRepo) newest() []entity.Post {
	out := append([]entity.Post(nil), m.posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out
}

type CompleterMock struct {
	CompleteFunc func(ctx context.Context, prompt entity.Prompt) (string, error)
	calls        int
}

func (m *CompleterMock) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	m.calls++
	return m.CompleteFunc(ctx, prompt)
}

const draftJSON = `{
  "title": "AAPL Stock: Is the Fortress Still Standing?",
  "excerpt": "A short teaser.",
  "content": "**Opening Hook**\n| Metric | Value |\n|---|---|\n| Revenue | $1 |\nOur verdict: BUY.",
  "tags": ["AAPL", "Tech"]
}`

func testReport(t *testing.T) entity.Report {
	t.Helper()

	r, err := entity.ParseReport(`{"meta":{"company_name":"Apple Inc."},"step_7_verdict":{"action":"BUY"}}`)
	require.NoError(t, err)

	return r
}

func TestGenerate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	repo := &memoryRepo{now: now}
	completer := &CompleterMock{
		CompleteFunc: func(_ context.Context, p entity.Prompt) (string, error) {
			rq.Equal(entity.PurposeBlog, p.Purpose)
			rq.False(p.Grounding)
			rq.Contains(p.User, "ticker AAPL")
			rq.Contains(p.User, "Apple Inc.")

			return draftJSON, nil
		},
	}

	svc := blog.NewService(repo, completer, blog.Options{Model: "m", Temperature: 0.6}).
		WithClock(func() time.Time { return now })

	post, created, err := svc.Generate(ctx, "AAPL", testReport(t))
	rq.NoError(err)
	rq.True(created)
	rq.Equal("aapl-stock-analysis", post.Slug)
	rq.Equal("BUY", post.Verdict)
	rq.Equal("Apple Inc.", post.CompanyName)
	rq.Equal(entity.DefaultAuthor, post.AuthorName)
	rq.Equal([]string{"AAPL", "Tech"}, post.Tags)
	rq.NotContains(post.Content, "|")
	rq.Contains(post.Content, "Our verdict: BUY.")

	_, created, err = svc.Generate(ctx, "AAPL", testReport(t))
	rq.NoError(err)
	rq.False(created)
	rq.Equal(1, completer.calls)
}

func TestGenerateDefaults(t *testing.T) {
	rq := require.New(t)

	repo := &memoryRepo{now: time.Now()}
	completer := &CompleterMock{
		CompleteFunc: func(context.Context, entity.Prompt) (string, error) {
			return `{"excerpt":"` + strings.Repeat("x", 300) + `","content":"body","tags":null}`, nil
		},
	}

	svc := blog.NewService(repo, completer, blog.Options{})

	post, created, err := svc.Generate(context.Background(), "TSLA", entity.Report{})
	rq.NoError(err)
	rq.True(created)
	rq.Equal("TSLA Stock Analysis", post.Title)
	rq.Equal([]string{"TSLA"}, post.Tags)
	rq.Len(post.Excerpt, 200)
	rq.Equal(entity.VerdictWatch, post.Verdict)
}

func TestGenerateFailures(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		text string
		err  error
	}{
		{name: "Provider error", err: errors.New("boom")},
		{name: "Bad JSON", text: "not json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			repo := &memoryRepo{now: time.Now()}
			completer := &CompleterMock{
				CompleteFunc: func(context.Context, entity.Prompt) (string, error) {
					return tc.text, tc.err
				},
			}

			_, created, err := blog.NewService(repo, completer, blog.Options{}).
				Generate(context.Background(), "AMD", entity.Report{})
			rq.Error(err)
			rq.False(created)
			rq.Empty(repo.posts)
		})
	}
}

func TestListAndRelated(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := &memoryRepo{}
	for i, ticker := range []value.Ticker{"AAPL", "MSFT", "TSLA", "NVDA", "AMD", "META", "GOOG"} {
		repo.posts = append(repo.posts, entity.Post{
			ID:        uuid.New(),
			Ticker:    ticker,
			Slug:      ticker.Slug(),
			Verdict:   map[bool]string{true: "BUY", false: "AVOID"}[i%2 == 0],
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Content:   "# Title\n\nSome **bold** text",
		})
	}

	svc := blog.NewService(repo, nil, blog.Options{})

	filter, err := blog.NormalizeFilter(entity.PostFilter{Limit: 3})
	rq.NoError(err)

	page, err := svc.List(ctx, filter)
	rq.NoError(err)
	rq.Equal(7, page.Total)
	rq.Equal(3, page.Pages)
	rq.Equal(value.Ticker("GOOG"), page.Posts[0].Ticker)

	page, err = svc.List(ctx, entity.PostFilter{Page: 1, Limit: 12, Verdict: "buy"})
	rq.NoError(err)
	rq.Equal(4, page.Total)
	rq.Equal(1, page.Pages)

	related, err := svc.Related(ctx, "goog-stock-analysis")
	rq.NoError(err)
	rq.Len(related, blog.RelatedLimit)

	for _, p := range related {
		rq.NotEqual(value.Ticker("GOOG"), p.Ticker)
	}

	post, err := svc.GetBySlug(ctx, "aapl-stock-analysis", true)
	rq.NoError(err)
	rq.Equal(1, post.Views)
	rq.Contains(post.ContentHTML, "<strong>bold</strong>")

	_, err = svc.GetBySlug(ctx, "missing", false)
	rq.True(domain.HasCode(err, errcodes.PostNotFound))
}

func TestNormalizeFilter(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		in      entity.PostFilter
		want    entity.PostFilter
		wantErr bool
	}{
		{name: "Defaults", in: entity.PostFilter{}, want: entity.PostFilter{Page: 1, Limit: 12}},
		{name: "Max limit", in: entity.PostFilter{Page: 2, Limit: 50}, want: entity.PostFilter{Page: 2, Limit: 50}},
		{name: "Limit too big", in: entity.PostFilter{Page: 1, Limit: 51}, wantErr: true},
		{name: "Negative page", in: entity.PostFilter{Page: -1, Limit: 5}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := blog.NormalizeFilter(tc.in)
			if tc.wantErr {
				rq.True(domain.HasCode(err, errcodes.InvalidPaging))
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestMigrateSlugs(t *testing.T) {
	rq := require.New(t)

	repo := &memoryRepo{posts: []entity.Post{
		{ID: uuid.New(), Ticker: "AAPL", Slug: "aapl-stock-analysis"},
		{ID: uuid.New(), Ticker: "MSFT", Slug: "msft-why-the-cloud-matters-2026-01-02"},
		{ID: uuid.New(), Ticker: "AAPL", Slug: "aapl-old-2025-12-01"},
	}}

	res, err := blog.NewService(repo, nil, blog.Options{}).MigrateSlugs(context.Background())
	rq.NoError(err)
	rq.Equal(1, res.Updated)
	rq.Equal(2, res.Skipped)
	rq.Equal("Migration complete. Updated: 1, Skipped: 2", res.Message)
}

func TestStripTables(t *testing.T) {
	rq := require.New(t)

	in := "Intro\n| a | b |\n|---|---|\n| 1 | 2 |\nOutro\n  |:--|--:|  \nEnd"
	rq.Equal("Intro\nOutro\nEnd", blog.StripTables(in))
}

func TestDisabled(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := blog.NewService(nil, nil, blog.Options{})
	rq.False(svc.Enabled())

	_, err := svc.List(ctx, entity.PostFilter{Page: 1, Limit: 12})
	rq.True(domain.HasCode(err, errcodes.DatabaseNotConfigured))

	slugs, err := svc.AllSlugs(ctx)
	rq.NoError(err)
	rq.Empty(slugs)

	_, created, err := svc.Generate(ctx, "AAPL", entity.Report{})
	rq.NoError(err)
	rq.False(created)
}
