package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	models "CoinPulse/internal/domain/models"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/internal/usecase"
	pcache "CoinPulse/pkg/cache"
	xhttp "CoinPulse/pkg/http"
	xlogger "CoinPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the analysis pipeline over HTTP.
type AnalysisHandler struct {
	logger    *xlogger.Logger
	analyzer  *usecase.Analyzer
	fetcher   *usecase.Fetcher
	limiter   *ratelimit.Limiter
	respCache pcache.Service
	respTTL   time.Duration
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, fetcher *usecase.Fetcher, limiter *ratelimit.Limiter, respCache pcache.Service, respTTL time.Duration) *AnalysisHandler {
	if respTTL <= 0 {
		respTTL = 30 * time.Second
	}
	return &AnalysisHandler{
		logger:    logger,
		analyzer:  analyzer,
		fetcher:   fetcher,
		limiter:   limiter,
		respCache: respCache,
		respTTL:   respTTL,
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.throttle)
	g.GET("/analysis", h.Analysis)
	g.GET("/price", h.Price)
	g.GET("/history", h.History)
	g.GET("/news", h.News)

	e.GET("/healthz", h.Health)
}

// throttle applies a per-client token bucket before any handler runs.
func (h *AnalysisHandler) throttle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"code":    "RATE_LIMITED",
				"message": "too many requests",
			})
		}
		return next(c)
	}
}

func (h *AnalysisHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	key := fmt.Sprintf("analysis:%s:%d", req.Symbol, req.Days)
	if h.respCache != nil {
		var cached models.AnalysisResult
		if err := h.respCache.Get(ctx, key, &cached); err == nil {
			cached.Cached = true
			c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	res, err := h.analyzer.Analyze(ctx, req.Symbol, req.Days)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			return xhttp.NotFoundResponse(c, map[string]string{
				"code":    "NO_DATA",
				"message": "no market data available for " + req.Symbol,
			})
		}
		h.logger.Error("analysis usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if h.respCache != nil {
		if err := h.respCache.Set(ctx, key, res, h.respTTL); err != nil {
			h.logger.Warn("response cache set failed", xlogger.Error(err))
		}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Price(c echo.Context) error {
	req := &models.PriceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, err := h.fetcher.Price(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("price usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *AnalysisHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	hist, err := h.fetcher.History(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			return xhttp.NotFoundResponse(c, map[string]string{
				"code":    "NO_DATA",
				"message": "no market history available for " + req.Symbol,
			})
		}
		h.logger.Error("history usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, hist)
}

func (h *AnalysisHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := h.fetcher.News(c.Request().Context(), req.Symbol, req.Page, req.Limit)
	if err != nil {
		h.logger.Error("news usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, page)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
