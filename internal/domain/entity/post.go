package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

const DefaultAuthor = "Stock Fortress Research"

type Post struct {
	ID          uuid.UUID    `json:"id"`
	Ticker      value.Ticker `json:"ticker"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content,omitempty"`
	ContentHTML string       `json:"content_html,omitempty"`
	Verdict     string       `json:"verdict"`
	CompanyName string       `json:"company_name"`
	AuthorName  string       `json:"author_name"`
	Tags        []string     `json:"tags"`
	Views       int          `json:"views"`
	ReportID    *uuid.UUID   `json:"report_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PostDraft is the model's article before it is stored.
type PostDraft struct {
	Title   string            `json:"title"`
	Excerpt string            `json:"excerpt"`
	Content string            `json:"content"`
	Tags    value.FlexStrings `json:"tags"`
}

type PostFilter struct {
	Page    int
	Limit   int
	Verdict string
	Ticker  value.Ticker
}

func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PostPage struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

// SlugEntry is one row of the slug index used by the sitemap.
type SlugEntry struct {
	Ticker      value.Ticker `json:"ticker"`
	Slug        string       `json:"slug"`
	CompanyName string       `json:"company_name"`
	Verdict     string       `json:"verdict"`
	CreatedAt   time.Time    `json:"created_at"`
}

type SlugMigration struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}
