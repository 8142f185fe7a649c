package cashflow

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/ledgerline/internal/platform/cache"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Handler exposes cash flow reads over JSON. Responses are cached per
// version and concurrent cold fetches for the same key collapse into
// one build.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *cache.ReportCache
	group   singleflight.Group
}

// NewHandler builds the cash flow HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, reportCache *cache.ReportCache) *Handler {
	return &Handler{logger: logger, service: service, cache: reportCache}
}

// MountRoutes attaches cash flow endpoints under a company scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cashflow/history", h.History)
	r.Get("/cashflow/forecast", h.Forecast)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	var series []DailyBalance
	err := h.cached(r.Context(), &series, func(ctx context.Context) (interface{}, error) {
		return h.service.History(ctx, companyID)
	}, "cashflow", "history", strconv.FormatInt(companyID, 10))
	if err != nil {
		h.logger.Error("cashflow history", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, series)
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	var forecast Forecast
	err := h.cached(r.Context(), &forecast, func(ctx context.Context) (interface{}, error) {
		return h.service.Forecast(ctx, companyID)
	}, "cashflow", "forecast", strconv.FormatInt(companyID, 10))
	if err != nil {
		h.logger.Error("cashflow forecast", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, forecast)
}

// cached reads through the report cache, collapsing concurrent cold
// builds for the same key into a single service call.
func (h *Handler) cached(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), parts ...string) error {
	key, err := h.cache.BuildKey(ctx, parts...)
	if err != nil {
		return err
	}
	return h.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) (interface{}, error) {
		resultChan := h.group.DoChan(key, func() (interface{}, error) {
			return loader(ctx)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-resultChan:
			return res.Val, res.Err
		}
	})
}

func (h *Handler) companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company id")
		return 0, false
	}
	return id, true
}
