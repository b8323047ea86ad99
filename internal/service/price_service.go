package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stocksentix/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPriceCacheTTL = 6 * time.Hour
	syntheticWarning     = "Live prices unavailable; results use a deterministic synthetic price series and are for demonstration only."
)

type PriceProvider interface {
	FetchDailyCloses(ctx context.Context, ticker, from, to string) ([]domain.PricePoint, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type FallbackRecorder interface {
	PriceFallback(ticker string)
}

type SyntheticFunc func(from, to string) ([]domain.PricePoint, error)

// PriceService resolves close series for analysis runs, caching provider
// responses in Redis and substituting a synthetic series when the provider
// cannot serve the request.
type PriceService struct {
	tracer    trace.Tracer
	provider  PriceProvider
	redis     RedisClient
	synthetic SyntheticFunc
	metrics   FallbackRecorder
	ttl       time.Duration
}

func NewPriceService(
	tracer trace.Tracer,
	provider PriceProvider,
	redisClient RedisClient,
	synthetic SyntheticFunc,
	metrics FallbackRecorder,
	ttl time.Duration,
) *PriceService {
	if ttl <= 0 {
		ttl = defaultPriceCacheTTL
	}
	return &PriceService{
		tracer:    tracer,
		provider:  provider,
		redis:     redisClient,
		synthetic: synthetic,
		metrics:   metrics,
		ttl:       ttl,
	}
}

// FetchPrices returns the close series for ticker over [from, to].
func (s *PriceService) FetchPrices(ctx context.Context, ticker, from, to string) (*domain.PriceSeries, error) {
	ctx, span := s.tracer.Start(ctx, "price-service.fetch-prices")
	defer span.End()

	key := priceCacheKey(ticker, from, to)
	if s.redis != nil {
		cached, err := s.getPriceCache(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis cache read error")
		}
		if cached != nil {
			return cached, nil
		}
	}

	points, err := s.provider.FetchDailyCloses(ctx, ticker, from, to)
	if err == nil && len(points) == 0 {
		err = errors.New("no market data available")
	}
	if err != nil {
		return s.fallback(ticker, from, to, err)
	}

	series := &domain.PriceSeries{Ticker: ticker, Points: points}
	if s.redis != nil {
		if err := s.setPriceCache(ctx, key, series); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis cache write error")
		}
	}
	return series, nil
}

// fallback is never cached so that a recovered provider is used on the next request.
func (s *PriceService) fallback(ticker, from, to string, cause error) (*domain.PriceSeries, error) {
	if s.synthetic == nil {
		return nil, domain.DataSourceError("price", cause)
	}
	log.Warn().Err(cause).Str("ticker", ticker).Msg("falling back to synthetic prices")
	// One extra day so the last requested day still has a successor close.
	end, err := domain.AddDays(to, 1)
	if err != nil {
		return nil, domain.InvalidRequestError("dateTo must be a YYYY-MM-DD date")
	}
	points, err := s.synthetic(from, end)
	if err != nil {
		return nil, fmt.Errorf("build synthetic prices: %w", err)
	}
	if s.metrics != nil {
		s.metrics.PriceFallback(ticker)
	}
	return &domain.PriceSeries{
		Ticker:    ticker,
		Points:    points,
		Synthetic: true,
		Warning:   syntheticWarning,
	}, nil
}

func priceCacheKey(ticker, from, to string) string {
	return fmt.Sprintf("prices:%s:%s:%s", ticker, from, to)
}

func (s *PriceService) setPriceCache(ctx context.Context, key string, series *domain.PriceSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, s.ttl).Err()
}

func (s *PriceService) getPriceCache(ctx context.Context, key string) (*domain.PriceSeries, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var series domain.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, err
	}
	return &series, nil
}
