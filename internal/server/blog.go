package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/blog"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/req"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

type blogService interface {
	List(ctx context.Context, filter entity.PostFilter) (entity.PostPage, error)
	GetBySlug(ctx context.Context, slug string, renderHTML bool) (entity.Post, error)
	Related(ctx context.Context, slug string) ([]entity.Post, error)
	AllSlugs(ctx context.Context) ([]entity.SlugEntry, error)
	MigrateSlugs(ctx context.Context) (entity.SlugMigration, error)
}

type BlogServer struct {
	blogService blogService
}

func NewBlogServer(blogService blogService) BlogServer {
	return BlogServer{
		blogService: blogService,
	}
}

func (s BlogServer) getBlogPosts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter, err := postFilter(r)
	if err != nil {
		return err
	}

	page, err := s.blogService.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("blogService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPostPage(page))

	return nil
}

func (s BlogServer) getBlogSlugs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	slugs, err := s.blogService.AllSlugs(ctx)
	if err != nil {
		return fmt.Errorf("blogService.AllSlugs: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SlugsResponse{Posts: newRESTSlugs(slugs)})

	return nil
}

func (s BlogServer) postMigrateSlugs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	res, err := s.blogService.MigrateSlugs(ctx)
	if err != nil {
		return fmt.Errorf("blogService.MigrateSlugs: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SlugMigration{
		Message: res.Message,
		Updated: res.Updated,
		Skipped: res.Skipped,
	})

	return nil
}

func (s BlogServer) getBlogPost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	renderHTML := req.QueryString(r, "format", "") == "html"

	post, err := s.blogService.GetBySlug(ctx, chi.URLParam(r, "slug"), renderHTML)
	if err != nil {
		return fmt.Errorf("blogService.GetBySlug: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPost(post))

	return nil
}

func (s BlogServer) getRelatedPosts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	posts, err := s.blogService.Related(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		return fmt.Errorf("blogService.Related: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PostsResponse{Posts: newRESTPosts(posts)})

	return nil
}

func postFilter(r *http.Request) (entity.PostFilter, error) {
	page, err := req.QueryInt(r, "page", 1)
	if err != nil {
		return entity.PostFilter{}, fmt.Errorf("req.QueryInt: %w", err)
	}

	limit, err := req.QueryInt(r, "limit", blog.DefaultLimit)
	if err != nil {
		return entity.PostFilter{}, fmt.Errorf("req.QueryInt: %w", err)
	}

	filter := entity.PostFilter{
		Page:    page,
		Limit:   limit,
		Verdict: req.QueryString(r, "verdict", ""),
	}

	if raw := req.QueryString(r, "ticker", ""); raw != "" {
		ticker, err := value.ParseTicker(raw)
		if err != nil {
			return entity.PostFilter{}, fmt.Errorf("value.ParseTicker: %w", err)
		}

		filter.Ticker = ticker
	}

	filter, err = blog.NormalizeFilter(filter)
	if err != nil {
		return entity.PostFilter{}, fmt.Errorf("blog.NormalizeFilter: %w", err)
	}

	return filter, nil
}
