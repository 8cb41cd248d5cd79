package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/req"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

type WatchlistServer struct {
	watchlistService watchlistService
}

func NewWatchlistServer(watchlistService watchlistService) WatchlistServer {
	return WatchlistServer{
		watchlistService: watchlistService,
	}
}

func (s WatchlistServer) getWatchlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	items, err := s.watchlistService.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("watchlistService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.WatchlistResponse{Items: newRESTWatchlist(items)})

	return nil
}

func (s WatchlistServer) postWatchlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var request rest.WatchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	ticker, err := value.ParseTicker(request.Ticker)
	if err != nil {
		return fmt.Errorf("value.ParseTicker: %w", err)
	}

	item, err := s.watchlistService.Add(ctx, userID, ticker, request.LastVerdict)
	if err != nil {
		return fmt.Errorf("watchlistService.Add: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTWatchlistItem(item))

	return nil
}

func (s WatchlistServer) deleteWatchlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	ticker, err := value.ParseTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		return fmt.Errorf("value.ParseTicker: %w", err)
	}

	if err := s.watchlistService.Remove(ctx, userID, ticker); err != nil {
		return fmt.Errorf("watchlistService.Remove: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SuccessResponse{Success: true})

	return nil
}
