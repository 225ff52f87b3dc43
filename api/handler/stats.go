package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/pkg/httpcontext"
	statsUC "github.com/taskhive/backend/usecase/stats"
)

type StatsHandler struct {
	baseHandler
	uc *statsUC.UseCase
}

func NewStatsHandler(uc *statsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Trailing seven-day completion count
// @Tags stats
// @Router /tasks/stats [get]
func (h *StatsHandler) Weekly(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.Weekly(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, stats)
}

// @Summary Per-week completion breakdown
// @Tags stats
// @Router /tasks/stats/weekly [get]
func (h *StatsHandler) Breakdown(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	buckets, err := h.uc.Breakdown(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.WeeklyBreakdownResponse{
		TotalWeeks:  len(buckets),
		WeeklyStats: buckets,
	})
}
