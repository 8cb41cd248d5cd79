package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

const indexFile = "index.html"

type sitemapService interface {
	XML(ctx context.Context) ([]byte, error)
	Robots() string
}

// HealthFunc reports the state of the optional subsystems.
type HealthFunc func(ctx context.Context) rest.Health

// SiteServer serves health, SEO files and the single page app bundle.
type SiteServer struct {
	sitemapService sitemapService
	health         HealthFunc
	staticDir      string
	info           rest.ServiceInfo
}

// NewSiteServer builds the site server. An empty staticDir disables the
// bundle; "/" then answers with info.
func NewSiteServer(sitemapService sitemapService, health HealthFunc, staticDir string, info rest.ServiceInfo) SiteServer {
	return SiteServer{
		sitemapService: sitemapService,
		health:         health,
		staticDir:      staticDir,
		info:           info,
	}
}

func (s SiteServer) getHealth(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.JSON(ctx, w, http.StatusOK, s.health(ctx))

	return nil
}

func (s SiteServer) getSitemap(w http.ResponseWriter, r *http.Request) error {
	body, err := s.sitemapService.XML(r.Context())
	if err != nil {
		return fmt.Errorf("sitemapService.XML: %w", err)
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	return nil
}

func (s SiteServer) getRobots(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.sitemapService.Robots()))

	return nil
}

func (s SiteServer) apiNotFound(_ http.ResponseWriter, _ *http.Request) error {
	return domain.NewError(errcodes.NotFound, "Not found")
}

// serveSPA serves a file from the bundle when it exists and index.html for
// every other path, so client-side routes survive a reload.
func (s SiteServer) serveSPA(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if s.staticDir == "" {
		if r.URL.Path == "/" {
			reply.JSON(ctx, w, http.StatusOK, s.info)
			return nil
		}

		return domain.NewError(errcodes.NotFound, "Not found")
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		return domain.NewError(errcodes.NotFound, "Not found")
	}

	name := filepath.Join(s.staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))

	info, err := os.Stat(name)
	switch {
	case err == nil && !info.IsDir():
		http.ServeFile(w, r, name)
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		logger(ctx).Warn("os.Stat", slog.String("path", name), logx.Error(err))
	}

	index := filepath.Join(s.staticDir, indexFile)
	if _, err := os.Stat(index); err != nil {
		return domain.NewError(errcodes.NotFound, "Not found")
	}

	http.ServeFile(w, r, index)

	return nil
}
