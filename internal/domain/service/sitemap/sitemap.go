package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

type SlugSource interface {
	AllSlugs(ctx context.Context) ([]entity.SlugEntry, error)
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type Service struct {
	baseURL string
	posts   SlugSource
	now     func() time.Time
}

func NewService(baseURL string, posts SlugSource) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		posts:   posts,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// URLs lists the static pages followed by one entry per blog post. A failing
// post lookup still yields the static pages.
func (s *Service) URLs(ctx context.Context) []URL {
	today := s.now().UTC().Format(dateLayout)

	urls := []URL{
		{Loc: s.baseURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
		{Loc: s.baseURL + "/blog", LastMod: today, ChangeFreq: "daily", Priority: "0.9"},
		{Loc: s.baseURL + "/pricing", LastMod: today, ChangeFreq: "weekly", Priority: "0.7"},
	}

	if s.posts == nil {
		return urls
	}

	posts, err := s.posts.AllSlugs(ctx)
	if err != nil {
		logger(ctx).Warn("sitemap: posts.AllSlugs", logx.Error(err))
		return urls
	}

	for _, p := range posts {
		lastmod := today
		if !p.CreatedAt.IsZero() {
			lastmod = p.CreatedAt.UTC().Format(dateLayout)
		}

		urls = append(urls, URL{
			Loc:        s.baseURL + "/blog/" + p.Slug,
			LastMod:    lastmod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	return urls
}

// XML renders the sitemap document.
func (s *Service) XML(ctx context.Context) ([]byte, error) {
	body, err := xml.MarshalIndent(urlSet{Xmlns: namespace, URLs: s.URLs(ctx)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("xml.MarshalIndent: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// Robots is the robots.txt body pointing crawlers at the sitemap.
func (s *Service) Robots() string {
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /dashboard/\n" +
		"Disallow: /api/\n" +
		"\n" +
		"Sitemap: " + s.baseURL + "/sitemap.xml\n"
}
