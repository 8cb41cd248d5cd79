package blog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

var (
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

	tableSeparator = regexp.MustCompile(`\n\s*\|[\s:\-|]+\|\s*\n`) //nolint:gochecknoglobals
)

const (
	DefaultLimit = 12
	MaxLimit     = 50
	RelatedLimit = 5
	maxExcerpt   = 200
)

type Repository interface {
	ExistsSince(ctx context.Context, ticker value.Ticker, since time.Time) (bool, error)
	Upsert(ctx context.Context, post entity.Post) (entity.Post, error)
	List(ctx context.Context, filter entity.PostFilter) ([]entity.Post, int, error)
	GetBySlug(ctx context.Context, slug string) (entity.Post, error)
	IncrementViews(ctx context.Context, slug string) error
	Recent(ctx context.Context, excludeTicker value.Ticker, limit int) ([]entity.Post, error)
	AllSlugs(ctx context.Context) ([]entity.SlugEntry, error)
	UpdateSlug(ctx context.Context, post entity.Post, slug string) error
	ListForMigration(ctx context.Context) ([]entity.Post, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt entity.Prompt) (string, error)
}

type Options struct {
	Model       string
	Temperature float32
}

type Service struct {
	repo      Repository
	completer Completer
	opts      Options
	now       func() time.Time
}

// NewService builds the blog service. A nil repo means the database is not
// configured: reads degrade and generation is skipped.
func NewService(repo Repository, completer Completer, opts Options) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Enabled() bool {
	return s.repo != nil
}

// Generate writes a teaser article for the ticker unless one was already
// published today. created is false when the post was skipped.
func (s *Service) Generate(ctx context.Context, ticker value.Ticker, report entity.Report) (post entity.Post, created bool, err error) {
	if s.repo == nil {
		logger(ctx).Warn("blog: database not configured, skipping")
		return entity.Post{}, false, nil
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTicker, ticker.String())))

	exists, err := s.repo.ExistsSince(ctx, ticker, startOfDay(s.now()))
	if err != nil {
		return entity.Post{}, false, fmt.Errorf("repo.ExistsSince: %w", err)
	}

	if exists {
		metrics.BlogPostsTotal.WithLabelValues("skipped").Inc()
		logger(ctx).Info("blog post already exists today, skipping")

		return entity.Post{}, false, nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return entity.Post{}, false, fmt.Errorf("json.MarshalIndent: %w", err)
	}

	text, err := s.completer.Complete(ctx, entity.Prompt{
		Purpose:     entity.PurposeBlog,
		Model:       s.opts.Model,
		System:      SystemPrompt,
		User:        fmt.Sprintf("Generate a blog article for ticker %s. Here is the analysis data:\n\n%s", ticker, data),
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		metrics.BlogPostsTotal.WithLabelValues("failed").Inc()
		return entity.Post{}, false, fmt.Errorf("completer.Complete: %w", err)
	}

	var draft entity.PostDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		metrics.BlogPostsTotal.WithLabelValues("failed").Inc()
		return entity.Post{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	post = buildPost(ticker, report, draft)

	saved, err := s.repo.Upsert(ctx, post)
	if err != nil {
		if domain.HasCode(err, errcodes.PostDuplicate) {
			metrics.BlogPostsTotal.WithLabelValues("skipped").Inc()
			logger(ctx).Info("blog post duplicate detected, skipping")

			return entity.Post{}, false, nil
		}

		metrics.BlogPostsTotal.WithLabelValues("failed").Inc()

		return entity.Post{}, false, fmt.Errorf("repo.Upsert: %w", err)
	}

	metrics.BlogPostsTotal.WithLabelValues("published").Inc()
	logger(ctx).Info("blog post published",
		slog.String(logx.FieldSlug, saved.Slug),
		slog.String("title", saved.Title),
	)

	return saved, true, nil
}

// List returns a page of posts, newest first.
func (s *Service) List(ctx context.Context, filter entity.PostFilter) (entity.PostPage, error) {
	if s.repo == nil {
		return entity.PostPage{}, domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	filter.Verdict = strings.ToUpper(strings.TrimSpace(filter.Verdict))

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return entity.PostPage{}, fmt.Errorf("repo.List: %w", err)
	}

	if posts == nil {
		posts = []entity.Post{}
	}

	return entity.PostPage{
		Posts: posts,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: max(1, (total+filter.Limit-1)/filter.Limit),
	}, nil
}

// GetBySlug returns one post and bumps its view counter. With renderHTML the
// markdown body is also rendered to HTML.
func (s *Service) GetBySlug(ctx context.Context, slug string, renderHTML bool) (entity.Post, error) {
	if s.repo == nil {
		return entity.Post{}, domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return entity.Post{}, fmt.Errorf("repo.GetBySlug: %w", err)
	}

	if err := s.repo.IncrementViews(ctx, slug); err != nil {
		logger(ctx).Warn("repo.IncrementViews", slog.String(logx.FieldSlug, slug), logx.Error(err))
	} else {
		post.Views++
	}

	if renderHTML {
		html, err := RenderHTML(post.Content)
		if err != nil {
			return entity.Post{}, err
		}

		post.ContentHTML = html
	}

	return post, nil
}

// Related returns the most recent posts about other tickers.
func (s *Service) Related(ctx context.Context, slug string) ([]entity.Post, error) {
	if s.repo == nil {
		return []entity.Post{}, nil
	}

	var current value.Ticker

	post, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case err == nil:
		current = post.Ticker
	case domain.HasCode(err, errcodes.PostNotFound):
	default:
		return nil, fmt.Errorf("repo.GetBySlug: %w", err)
	}

	posts, err := s.repo.Recent(ctx, current, RelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("repo.Recent: %w", err)
	}

	if posts == nil {
		posts = []entity.Post{}
	}

	return posts, nil
}

func (s *Service) AllSlugs(ctx context.Context) ([]entity.SlugEntry, error) {
	if s.repo == nil {
		return []entity.SlugEntry{}, nil
	}

	slugs, err := s.repo.AllSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.AllSlugs: %w", err)
	}

	if slugs == nil {
		slugs = []entity.SlugEntry{}
	}

	return slugs, nil
}

// MigrateSlugs rewrites legacy slugs to the canonical per-ticker form.
// Posts already canonical, or whose canonical slug is taken, are skipped.
func (s *Service) MigrateSlugs(ctx context.Context) (entity.SlugMigration, error) {
	if s.repo == nil {
		return entity.SlugMigration{}, domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	posts, err := s.repo.ListForMigration(ctx)
	if err != nil {
		return entity.SlugMigration{}, fmt.Errorf("repo.ListForMigration: %w", err)
	}

	var res entity.SlugMigration

	for _, post := range posts {
		slug := post.Ticker.Slug()
		if post.Slug == slug {
			res.Skipped++
			continue
		}

		if err := s.repo.UpdateSlug(ctx, post, slug); err != nil {
			logger(ctx).Warn("slug conflict",
				slog.String(logx.FieldSlug, slug),
				slog.String("from", post.Slug),
				logx.Error(err),
			)

			res.Skipped++

			continue
		}

		logger(ctx).Info("slug migrated", slog.String("from", post.Slug), slog.String(logx.FieldSlug, slug))

		res.Updated++
	}

	res.Message = fmt.Sprintf("Migration complete. Updated: %d, Skipped: %d", res.Updated, res.Skipped)

	return res, nil
}

func buildPost(ticker value.Ticker, report entity.Report, draft entity.PostDraft) entity.Post {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = ticker.String() + " Stock Analysis"
	}

	tags := []string(draft.Tags)
	if len(tags) == 0 {
		tags = []string{ticker.String()}
	}

	excerpt := draft.Excerpt
	if r := []rune(excerpt); len(r) > maxExcerpt {
		excerpt = string(r[:maxExcerpt])
	}

	return entity.Post{
		Ticker:      ticker,
		Title:       title,
		Slug:        ticker.Slug(),
		Excerpt:     excerpt,
		Content:     StripTables(draft.Content),
		Verdict:     report.Action(),
		CompanyName: report.CompanyName(),
		AuthorName:  entity.DefaultAuthor,
		Tags:        tags,
	}
}

// StripTables removes markdown table rows the model was told not to write.
func StripTables(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]

	for _, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|") {
			continue
		}

		kept = append(kept, line)
	}

	out := tableSeparator.ReplaceAllString(strings.Join(kept, "\n"), "\n")

	return strings.TrimSpace(out)
}

// NormalizeFilter applies paging defaults and bounds.
func NormalizeFilter(f entity.PostFilter) (entity.PostFilter, error) {
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}

	if f.Page < 1 || f.Limit < 1 || f.Limit > MaxLimit {
		return f, domain.NewError(errcodes.InvalidPaging,
			fmt.Sprintf("page must be >= 1 and limit between 1 and %d", MaxLimit))
	}

	return f, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
