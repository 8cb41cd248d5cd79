package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

const postColumns = `id, ticker, title, slug, excerpt, content, verdict, company_name,
	author_name, tags, views, report_id, created_at, updated_at`

// listColumns leave the body out; list views only show the excerpt.
const listColumns = `id, ticker, title, slug, excerpt, '' AS content, verdict, company_name,
	author_name, tags, views, report_id, created_at, updated_at`

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) ExistsSince(ctx context.Context, ticker value.Ticker, since time.Time) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE ticker = $1 AND created_at >= $2)`
	if err := r.db.GetContext(ctx, &exists, query, ticker.String(), since); err != nil {
		return false, internal(err, "failed to check blog post")
	}

	return exists, nil
}

// Upsert inserts the post or replaces the one with the same slug.
func (r *PostRepository) Upsert(ctx context.Context, post entity.Post) (entity.Post, error) {
	schema, err := fromPost(post)
	if err != nil {
		return entity.Post{}, internal(err, "failed to encode post")
	}

	now := time.Now().UTC()
	if schema.CreatedAt.IsZero() {
		schema.CreatedAt = now
	}

	schema.UpdatedAt = now

	query := `
		INSERT INTO blog_posts (
			id, ticker, title, slug, excerpt, content, verdict, company_name,
			author_name, tags, views, report_id, created_at, updated_at
		) VALUES (
			:id, :ticker, :title, :slug, :excerpt, :content, :verdict, :company_name,
			:author_name, :tags, :views, :report_id, :created_at, :updated_at
		)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			verdict = EXCLUDED.verdict,
			company_name = EXCLUDED.company_name,
			tags = EXCLUDED.tags,
			report_id = EXCLUDED.report_id,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + postColumns

	var saved postSchema

	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return internal(err, "failed to prepare post upsert")
		}
		defer stmt.Close()

		if err := stmt.GetContext(ctx, &saved, schema); err != nil {
			if isUniqueViolation(err) {
				return domain.WrapError(err, errcodes.PostDuplicate, "Post already exists")
			}

			return internal(err, "failed to upsert post")
		}

		return nil
	})
	if err != nil {
		return entity.Post{}, err
	}

	result, err := saved.toDomain()
	if err != nil {
		return entity.Post{}, internal(err, "failed to decode post")
	}

	return result, nil
}

// List returns one page of posts matching the filter and the total count.
func (r *PostRepository) List(ctx context.Context, filter entity.PostFilter) ([]entity.Post, int, error) {
	where, args := postWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM blog_posts`+where, args...); err != nil {
		return nil, 0, internal(err, "failed to count posts")
	}

	n := len(args)
	query := `SELECT ` + listColumns + ` FROM blog_posts` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	var schemas []postSchema
	if err := r.db.SelectContext(ctx, &schemas, query, append(args, filter.Limit, filter.Offset())...); err != nil {
		return nil, 0, internal(err, "failed to list posts")
	}

	posts, err := postsToDomain(schemas)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (entity.Post, error) {
	var schema postSchema

	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	if err := r.db.GetContext(ctx, &schema, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Post{}, domain.NewError(errcodes.PostNotFound, "Post not found")
		}

		return entity.Post{}, internal(err, "failed to get post")
	}

	post, err := schema.toDomain()
	if err != nil {
		return entity.Post{}, internal(err, "failed to decode post")
	}

	return post, nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, slug string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE blog_posts SET views = views + 1 WHERE slug = $1`, slug); err != nil {
		return internal(err, "failed to bump views")
	}

	return nil
}

// Recent returns the newest posts, skipping excludeTicker when it is set.
func (r *PostRepository) Recent(ctx context.Context, excludeTicker value.Ticker, limit int) ([]entity.Post, error) {
	query := `SELECT ` + listColumns + ` FROM blog_posts
		WHERE ($1 = '' OR ticker <> $1)
		ORDER BY created_at DESC
		LIMIT $2`

	var schemas []postSchema
	if err := r.db.SelectContext(ctx, &schemas, query, excludeTicker.String(), limit); err != nil {
		return nil, internal(err, "failed to list recent posts")
	}

	return postsToDomain(schemas)
}

func (r *PostRepository) AllSlugs(ctx context.Context) ([]entity.SlugEntry, error) {
	query := `SELECT ticker, slug, company_name, verdict, created_at FROM blog_posts ORDER BY created_at DESC`

	var schemas []slugSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, internal(err, "failed to list slugs")
	}

	result := make([]entity.SlugEntry, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

func (r *PostRepository) ListForMigration(ctx context.Context) ([]entity.Post, error) {
	var schemas []postSchema

	query := `SELECT ` + listColumns + ` FROM blog_posts ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, internal(err, "failed to list posts")
	}

	return postsToDomain(schemas)
}

func (r *PostRepository) UpdateSlug(ctx context.Context, post entity.Post, slug string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts SET slug = $1, updated_at = $2 WHERE id = $3`,
		slug, time.Now().UTC(), post.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(err, errcodes.PostDuplicate, "Slug already taken")
		}

		return internal(err, "failed to update slug")
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NewError(errcodes.PostNotFound, "Post not found")
	}

	return nil
}

func postWhere(filter entity.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Verdict != "" {
		args = append(args, filter.Verdict)
		conds = append(conds, "verdict = $"+strconv.Itoa(len(args)))
	}

	if filter.Ticker != "" {
		args = append(args, filter.Ticker.String())
		conds = append(conds, "ticker = $"+strconv.Itoa(len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func postsToDomain(schemas []postSchema) ([]entity.Post, error) {
	result := make([]entity.Post, 0, len(schemas))

	for _, s := range schemas {
		post, err := s.toDomain()
		if err != nil {
			return nil, internal(err, "failed to decode post")
		}

		result = append(result, post)
	}

	return result, nil
}
