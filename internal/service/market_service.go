package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"stocksentix/internal/domain"
	"stocksentix/internal/provider"
	"stocksentix/internal/stats"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMarketCacheTTL = 5 * time.Minute
	defaultMarketRange    = "3mo"
	quoteRange            = "1mo"
	maxCompareSymbols     = 3
)

var marketRanges = map[string]bool{"1mo": true, "3mo": true, "6mo": true, "1y": true}

type ChartProvider interface {
	FetchChart(ctx context.Context, symbol, rng string) (*domain.Chart, error)
}

// MarketService serves quotes and normalized close histories straight from
// the chart provider. Charts are cached briefly in Redis when configured.
type MarketService struct {
	tracer trace.Tracer
	charts ChartProvider
	redis  RedisClient
	ttl    time.Duration
	now    func() time.Time
}

func NewMarketService(tracer trace.Tracer, charts ChartProvider, redisClient RedisClient, ttl time.Duration) *MarketService {
	if ttl <= 0 {
		ttl = defaultMarketCacheTTL
	}
	return &MarketService{
		tracer: tracer,
		charts: charts,
		redis:  redisClient,
		ttl:    ttl,
		now:    time.Now,
	}
}

// ResolveRange returns rng when it is a supported chart range and the
// three-month default otherwise.
func ResolveRange(rng string) string {
	clean := strings.TrimSpace(rng)
	if marketRanges[clean] {
		return clean
	}
	return defaultMarketRange
}

// Quote summarizes the latest trading state of symbol from its one-month chart.
func (s *MarketService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	chart, err := s.chart(ctx, symbol, quoteRange)
	if err != nil {
		return nil, err
	}
	clean := provider.SanitizeSymbol(symbol)
	if len(chart.Points) == 0 {
		return nil, noMarketData(clean)
	}
	latest := chart.Points[len(chart.Points)-1]
	meta := chart.Meta

	current := orElse(meta.RegularMarketPrice, latest.Close)
	prevFallback := latest.Close
	if n := len(chart.Points); n > 1 {
		prevFallback = chart.Points[n-2].Close
	}
	previous := orElse(meta.PreviousClose, prevFallback)
	change := stats.Round(current-previous, 3)
	changePct := 0.0
	if previous != 0 {
		changePct = stats.Round(change/previous*100, 3)
	}

	return &domain.Quote{
		Symbol:           clean,
		ProviderSymbol:   providerSymbol(meta, symbol),
		Name:             displayName(meta, clean),
		Exchange:         firstNonEmpty(meta.ExchangeName, meta.FullExchangeName),
		Currency:         meta.Currency,
		MarketState:      meta.MarketState,
		CurrentPrice:     current,
		PreviousClose:    previous,
		Change:           change,
		ChangePercent:    changePct,
		DayHigh:          orElse(meta.DayHigh, current),
		DayLow:           orElse(meta.DayLow, current),
		FiftyTwoWeekHigh: orElse(meta.FiftyTwoWeekHigh, current),
		FiftyTwoWeekLow:  orElse(meta.FiftyTwoWeekLow, current),
		Volume:           orElse(meta.Volume, 0),
		AvgVolume:        orElse(meta.AvgVolume, 0),
		LastUpdatedAt:    s.now().UTC(),
	}, nil
}

// History returns the closes of symbol over rng, each normalized to the
// percent move from the first close.
func (s *MarketService) History(ctx context.Context, symbol, rng string) (*domain.History, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.history")
	defer span.End()

	rng = ResolveRange(rng)
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("range", rng))

	chart, err := s.chart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	clean := provider.SanitizeSymbol(symbol)
	if len(chart.Points) == 0 {
		return nil, noMarketData(clean)
	}
	return &domain.History{
		Symbol:         clean,
		ProviderSymbol: providerSymbol(chart.Meta, symbol),
		Name:           displayName(chart.Meta, clean),
		Range:          rng,
		Points:         Normalize(chart.Points),
	}, nil
}

// Compare fetches up to three distinct symbols concurrently and merges their
// normalized histories into date-keyed chart rows.
func (s *MarketService) Compare(ctx context.Context, symbols []string, rng string) (*domain.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.compare")
	defer span.End()

	unique := uniqueSymbols(symbols, maxCompareSymbols)
	if len(unique) < 2 {
		return nil, domain.InvalidRequestError("Select at least two symbols to compare.")
	}
	rng = ResolveRange(rng)
	span.SetAttributes(attribute.StringSlice("symbols", unique), attribute.String("range", rng))

	series := make([]domain.History, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	for i, sym := range unique {
		g.Go(func() error {
			h, err := s.History(gctx, sym, rng)
			if err != nil {
				return err
			}
			series[i] = *h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Comparison{
		Symbols: unique,
		Range:   rng,
		Series:  series,
		Chart:   compareRows(series),
	}, nil
}

// Normalize expresses each close as the percent change from the first close,
// rounded to 3 decimals. A zero base is treated as 1.
func Normalize(points []domain.PricePoint) []domain.HistoryPoint {
	if len(points) == 0 {
		return nil
	}
	base := points[0].Close
	if base == 0 {
		base = 1
	}
	out := make([]domain.HistoryPoint, len(points))
	for i, p := range points {
		out[i] = domain.HistoryPoint{
			Date:       p.Date,
			Close:      p.Close,
			Normalized: stats.Round((p.Close-base)/base*100, 3),
		}
	}
	return out
}

func compareRows(series []domain.History) []map[string]any {
	byDate := make(map[string]map[string]any)
	for _, h := range series {
		for _, p := range h.Points {
			row, ok := byDate[p.Date]
			if !ok {
				row = map[string]any{"date": p.Date}
				byDate[p.Date] = row
			}
			row[h.Symbol] = p.Normalized
		}
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]map[string]any, len(dates))
	for i, d := range dates {
		rows[i] = byDate[d]
	}
	return rows
}

func uniqueSymbols(symbols []string, limit int) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, limit)
	for _, raw := range symbols {
		clean := provider.SanitizeSymbol(raw)
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *MarketService) chart(ctx context.Context, symbol, rng string) (*domain.Chart, error) {
	key := fmt.Sprintf("chart:%s:%s", provider.ResolveYahooSymbol(symbol), rng)
	if s.redis != nil {
		cached, err := s.getChartCache(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis cache read error")
		}
		if cached != nil {
			return cached, nil
		}
	}

	chart, err := s.charts.FetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	if s.redis != nil && len(chart.Points) > 0 {
		if err := s.setChartCache(ctx, key, chart); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis cache write error")
		}
	}
	return chart, nil
}

func (s *MarketService) setChartCache(ctx context.Context, key string, chart *domain.Chart) error {
	data, err := json.Marshal(chart)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, s.ttl).Err()
}

func (s *MarketService) getChartCache(ctx context.Context, key string) (*domain.Chart, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var chart domain.Chart
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

func noMarketData(symbol string) error {
	return domain.InvalidRequestError(fmt.Sprintf("No market data available for %s.", symbol))
}

func providerSymbol(meta domain.ChartMeta, symbol string) string {
	return firstNonEmpty(meta.Symbol, provider.ResolveYahooSymbol(symbol))
}

func displayName(meta domain.ChartMeta, clean string) string {
	return firstNonEmpty(meta.LongName, meta.ShortName, clean)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orElse(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
