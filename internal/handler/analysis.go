package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/archive"
	"stocksentix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RunRequest struct {
	Ticker   string `json:"ticker" binding:"required"`
	Model    string `json:"model" binding:"required,analysismodel"`
	DateFrom string `json:"dateFrom" binding:"required,isodate"`
	DateTo   string `json:"dateTo" binding:"required,isodate"`
}

// RunAnalysis godoc
// @Summary      Run an analysis
// @Description  Correlates daily headline sentiment with next-day returns, or with model CSV-ML predicts the next move from the indicator dataset
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      RunRequest  true  "Analysis request"
// @Success      200      {object}  domain.CorrelationReport
// @Failure      400      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/run [post]
func (h *Handler) RunAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.run-analysis")
	defer span.End()

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	model, _ := canonicalModel(req.Model)
	// isodate already accepted both, so these cannot fail.
	from, _ := domain.CanonicalDate(req.DateFrom)
	to, _ := domain.CanonicalDate(req.DateTo)

	outcome, err := h.analysis.Run(ctx, service.RunRequest{
		Ticker:      strings.TrimSpace(req.Ticker),
		Model:       model,
		DateFrom:    from,
		DateTo:      to,
		RequestedBy: requester(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome.Report)
}

// History godoc
// @Summary      Recent analysis runs
// @Tags         analysis
// @Produce      json
// @Param        requestedBy  query     string  false  "Only runs by this requester"
// @Param        limit        query     int     false  "Maximum rows (default 30)"
// @Success      200          {object}  map[string]interface{}
// @Failure      500          {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/history [get]
func (h *Handler) History(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.history")
	defer span.End()

	filter := domain.RunFilter{RequestedBy: c.Query("requestedBy")}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = n
	}

	rows, err := h.analysis.History(ctx, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// DataRange godoc
// @Summary      News dataset coverage
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/data-range [get]
func (h *Handler) DataRange(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.data-range")
	defer span.End()

	r, err := h.news.DataRange(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r})
}

// ArchivePredictions godoc
// @Summary      Archive model predictions
// @Description  Returns the archive prediction summary and the first rows of each predictions file
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  archive.Preview
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/archive-predictions [get]
func (h *Handler) ArchivePredictions(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.archive-predictions")
	defer span.End()

	preview, err := h.loadArchive(h.archiveDir, archive.PreviewRows)
	if errors.Is(err, archive.ErrNoArtifacts) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Archive prediction files were not found. Run prediction generation first."})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// writeError maps domain errors to 400 (502 for upstream sources) and
// everything else to an opaque 500.
func writeError(c *gin.Context, err error) {
	if msg, ok := domain.UserMessage(err); ok {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrDataSource) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
