package handler

import (
	"context"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/archive"
	"stocksentix/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Analyzer interface {
	Run(ctx context.Context, req service.RunRequest) (*service.RunOutcome, error)
	History(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error)
}

type NewsRanger interface {
	DataRange(ctx context.Context) (domain.NewsRange, error)
}

// Marketer serves live quote and history lookups.
type Marketer interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
	History(ctx context.Context, symbol, rng string) (*domain.History, error)
	Compare(ctx context.Context, symbols []string, rng string) (*domain.Comparison, error)
}

type Handler struct {
	tracer      trace.Tracer
	analysis    Analyzer
	news        NewsRanger
	market      Marketer
	archiveDir  string
	loadArchive func(dir string, limit int) (*archive.Preview, error)
}

func New(tracer trace.Tracer, analysis Analyzer, news NewsRanger, market Marketer, archiveDir string) *Handler {
	return &Handler{
		tracer:      tracer,
		analysis:    analysis,
		news:        news,
		market:      market,
		archiveDir:  archiveDir,
		loadArchive: archive.LoadPreview,
	}
}

// RegisterRoutes mounts the public health route and the key-protected
// analysis and market APIs. Market routes are skipped without a Marketer.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api/analysis", APIKeyAuth(apiKey))
	api.POST("/run", h.RunAnalysis)
	api.GET("/history", h.History)
	api.GET("/data-range", h.DataRange)
	api.GET("/archive-predictions", h.ArchivePredictions)

	if h.market == nil {
		return
	}
	market := r.Group("/api/market", APIKeyAuth(apiKey))
	market.GET("/quote/:symbol", h.Quote)
	market.GET("/history/:symbol", h.MarketHistory)
	market.GET("/compare", h.Compare)
}
