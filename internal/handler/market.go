package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Quote godoc
// @Summary      Latest quote for a symbol
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Ticker or alias such as NIFTY50"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/market/quote/{symbol} [get]
func (h *Handler) Quote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.market-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", c.Param("symbol")))

	q, err := h.market.Quote(ctx, c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}

// MarketHistory godoc
// @Summary      Normalized close history for a symbol
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true   "Ticker or alias"
// @Param        range   query     string  false  "1mo, 3mo, 6mo or 1y (default 3mo)"
// @Success      200     {object}  domain.History
// @Failure      400     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/market/history/{symbol} [get]
func (h *Handler) MarketHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.market-history")
	defer span.End()

	hist, err := h.market.History(ctx, c.Param("symbol"), c.Query("range"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// Compare godoc
// @Summary      Compare normalized histories
// @Description  Up to three comma-separated symbols, merged into date-keyed chart rows
// @Tags         market
// @Produce      json
// @Param        symbols  query     string  true   "Comma-separated symbols, e.g. AAPL,MSFT"
// @Param        range    query     string  false  "1mo, 3mo, 6mo or 1y (default 3mo)"
// @Success      200      {object}  domain.Comparison
// @Failure      400      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/market/compare [get]
func (h *Handler) Compare(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.market-compare")
	defer span.End()

	symbols := strings.Split(c.Query("symbols"), ",")
	cmp, err := h.market.Compare(ctx, symbols, c.Query("range"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}
