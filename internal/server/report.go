package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/req"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

type reportService interface {
	Get(ctx context.Context, ticker value.Ticker, viewer usage.Subject) (entity.ReportResult, error)
	Cached(ctx context.Context, ticker value.Ticker) (entity.Report, bool)
	History(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error)
}

type watchlistService interface {
	List(ctx context.Context, userID string) ([]entity.WatchlistItem, error)
	Add(ctx context.Context, userID string, ticker value.Ticker, verdict string) (entity.WatchlistItem, error)
	Remove(ctx context.Context, userID string, ticker value.Ticker) error
}

type ReportServer struct {
	reportService    reportService
	watchlistService watchlistService
}

func NewReportServer(reportService reportService, watchlistService watchlistService) ReportServer {
	return ReportServer{
		reportService:    reportService,
		watchlistService: watchlistService,
	}
}

func (s ReportServer) getReport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ticker, err := value.ParseTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		return fmt.Errorf("value.ParseTicker: %w", err)
	}

	result, err := s.reportService.Get(ctx, ticker, usage.SubjectFromContext(ctx))
	if err != nil {
		if domain.HasCode(err, errcodes.UsageLimitReached) {
			reply.ErrorWithDetail(ctx, w, err, newRESTQuotaPtr(result.Usage))
			return nil
		}

		return fmt.Errorf("reportService.Get: %w", err)
	}

	response, err := newRESTReport(result)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

// postReportWatch adds the ticker to the caller's watchlist with the verdict
// of the cached report, if there is one.
func (s ReportServer) postReportWatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	ticker, err := value.ParseTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		return fmt.Errorf("value.ParseTicker: %w", err)
	}

	var verdict string
	if report, ok := s.reportService.Cached(ctx, ticker); ok {
		verdict = report.Action()
	}

	item, err := s.watchlistService.Add(ctx, userID, ticker, verdict)
	if err != nil {
		return fmt.Errorf("watchlistService.Add: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWatchlistItem(item))

	return nil
}

func (s ReportServer) getReports(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	limit, err := req.QueryInt(r, "limit", 0)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	reports, err := s.reportService.History(ctx, userID, limit)
	if err != nil {
		return fmt.Errorf("reportService.History: %w", err)
	}

	result, err := newRESTSavedReports(reports)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ReportsResponse{Reports: result})

	return nil
}
