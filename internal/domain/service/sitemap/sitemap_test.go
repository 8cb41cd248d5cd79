package sitemap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/sitemap"
)

type slugSource struct {
	entries []entity.SlugEntry
	err     error
}

func (s slugSource) AllSlugs(context.Context) ([]entity.SlugEntry, error) {
	return s.entries, s.err
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
}

func TestXML(t *testing.T) {
	rq := require.New(t)

	src := slugSource{entries: []entity.SlugEntry{
		{Slug: "aapl-stock-analysis", CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)},
		{Slug: "msft-stock-analysis"},
	}}

	svc := sitemap.NewService("https://stockfortress.com/", src).WithClock(fixedNow)

	urls := svc.URLs(context.Background())
	rq.Len(urls, 5)
	rq.Equal("https://stockfortress.com/", urls[0].Loc)
	rq.Equal("2026-03-15", urls[0].LastMod)
	rq.Equal("0.7", urls[2].Priority)
	rq.Equal("https://stockfortress.com/blog/aapl-stock-analysis", urls[3].Loc)
	rq.Equal("2026-03-10", urls[3].LastMod)
	rq.Equal("2026-03-15", urls[4].LastMod)

	body, err := svc.XML(context.Background())
	rq.NoError(err)
	rq.Contains(string(body), `<?xml version="1.0" encoding="UTF-8"?>`)
	rq.Contains(string(body), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	rq.Contains(string(body), "<changefreq>weekly</changefreq>")
}

func TestXMLWithoutPosts(t *testing.T) {
	rq := require.New(t)

	svc := sitemap.NewService("https://stockfortress.com", slugSource{err: errors.New("db down")})
	rq.Len(svc.URLs(context.Background()), 3)

	svc = sitemap.NewService("https://stockfortress.com", nil)
	rq.Len(svc.URLs(context.Background()), 3)
}

func TestRobots(t *testing.T) {
	rq := require.New(t)

	want := "User-agent: *\nAllow: /\nDisallow: /dashboard/\nDisallow: /api/\n\nSitemap: https://stockfortress.com/sitemap.xml\n"
	rq.Equal(want, sitemap.NewService("https://stockfortress.com", nil).Robots())
}
