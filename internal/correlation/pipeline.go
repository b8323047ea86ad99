// Package correlation aligns daily headline sentiment with next-day price
// returns and reports how strongly the two move together.
package correlation

import (
	"context"
	"errors"
	"strings"
	"time"

	"stocksentix/internal/domain"
	"stocksentix/internal/sentiment"
	"stocksentix/internal/stats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	minAlignedSamples     = 3
	rollingReturnWindow   = 5
	insufficientAlignment = "Insufficient aligned news/price data. Expand the date range or provide richer input data."
)

type NewsSource interface {
	FetchHeadlines(ctx context.Context, from, to, ticker string) (map[string][]string, error)
}

type PriceSource interface {
	FetchPrices(ctx context.Context, ticker, from, to string) (*domain.PriceSeries, error)
}

type Request struct {
	Ticker   string
	Model    string
	DateFrom string
	DateTo   string
}

type Pipeline struct {
	tracer  trace.Tracer
	news    NewsSource
	prices  PriceSource
	now     func() time.Time
	pMethod stats.PValueMethod
	window  int
}

type Option func(*Pipeline)

// WithClock overrides the clock used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithPValueMethod selects the significance test; the default is the normal approximation.
func WithPValueMethod(m stats.PValueMethod) Option {
	return func(p *Pipeline) { p.pMethod = m }
}

func WithRollingWindow(n int) Option {
	return func(p *Pipeline) { p.window = n }
}

func NewPipeline(tracer trace.Tracer, news NewsSource, prices PriceSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		tracer:  tracer,
		news:    news,
		prices:  prices,
		now:     time.Now,
		pMethod: stats.NormalApprox,
		window:  stats.DefaultRollingWindow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run validates the window, fetches headlines for [from, to] and prices for
// [from, to+1], and builds the correlation report.
func (p *Pipeline) Run(ctx context.Context, req Request) (*domain.CorrelationReport, error) {
	ctx, span := p.tracer.Start(ctx, "correlation-pipeline.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("ticker", req.Ticker),
		attribute.String("model", req.Model),
	)

	from, to, err := domain.ValidateRange(req.DateFrom, req.DateTo, p.now())
	if err != nil {
		return nil, err
	}
	req.DateFrom, req.DateTo = from, to
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, domain.InvalidRequestError("Ticker is required.")
	}
	priceTo, err := domain.AddDays(to, 1)
	if err != nil {
		return nil, err
	}

	headlines, err := p.news.FetchHeadlines(ctx, from, to, ticker)
	if err != nil {
		return nil, asSourceError("news", err)
	}
	series, err := p.prices.FetchPrices(ctx, ticker, from, priceTo)
	if err != nil {
		return nil, asSourceError("price", err)
	}

	model := sentiment.ParseModel(req.Model)
	daily := sentiment.Aggregate(headlines, model)
	aligned := Align(daily, series.Points)
	span.SetAttributes(attribute.Int("aligned_samples", len(aligned)))
	if len(aligned) < minAlignedSamples {
		return nil, domain.InsufficientDataError(insufficientAlignment)
	}

	report := p.buildReport(req, ticker, aligned)
	report.PriceSource = "provider"
	if series.Synthetic {
		report.PriceSource = "synthetic"
		if series.Warning != "" {
			report.Warnings = append(report.Warnings, series.Warning)
		}
	}
	return report, nil
}

func asSourceError(source string, err error) error {
	var ae *domain.AnalysisError
	if errors.As(err, &ae) {
		return err
	}
	return domain.DataSourceError(source, err)
}

// Align inner-joins daily sentiment with next-day returns. A price row
// contributes a return (rounded to 5 decimals) and its close (3 decimals)
// only when it has a successor and both closes are non-zero.
func Align(daily []domain.DailySentiment, prices []domain.PricePoint) []domain.AlignedSample {
	type move struct {
		ret   float64
		close float64
	}
	moves := make(map[string]move, len(prices))
	for i := 0; i < len(prices)-1; i++ {
		cur, next := prices[i], prices[i+1]
		if cur.Close == 0 || next.Close == 0 {
			continue
		}
		moves[cur.Date] = move{
			ret:   stats.Round((next.Close-cur.Close)/cur.Close, 5),
			close: stats.Round(cur.Close, 3),
		}
	}

	out := make([]domain.AlignedSample, 0, len(daily))
	for _, d := range daily {
		m, ok := moves[d.Date]
		if !ok {
			continue
		}
		out = append(out, domain.AlignedSample{
			Date:          d.Date,
			Sentiment:     d.SentimentMean,
			NextDayReturn: m.ret,
			Close:         m.close,
			Variance:      d.SentimentVariance,
			HeadlineCount: d.HeadlineCount,
			PositiveCount: d.PositiveCount,
			NegativeCount: d.NegativeCount,
		})
	}
	return out
}
