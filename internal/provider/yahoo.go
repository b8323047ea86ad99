package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"stocksentix/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const (
	yahooChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUserAgent    = "StockSentix/1.0"
)

// yahooSymbols maps display tickers to the exchange-qualified symbols Yahoo expects.
var yahooSymbols = map[string]string{
	"NIFTY50":  "^NSEI",
	"RELIANCE": "RELIANCE.NS",
	"TCS":      "TCS.NS",
	"INFY":     "INFY.NS",
}

var symbolStrip = regexp.MustCompile(`[^A-Z0-9.^=-]`)

// SanitizeSymbol upper-cases a ticker and drops characters no exchange uses.
func SanitizeSymbol(s string) string {
	return symbolStrip.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
}

// ResolveYahooSymbol returns the provider symbol for a display ticker.
func ResolveYahooSymbol(ticker string) string {
	clean := SanitizeSymbol(ticker)
	if s, ok := yahooSymbols[clean]; ok {
		return s
	}
	return clean
}

// YahooProvider fetches daily closes from the Yahoo Finance chart API.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: yahooChartBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(5, time.Second),
	}
}

// FetchDailyCloses returns the closes between from and to inclusive,
// ascending by date. Days with a null close are skipped.
func (p *YahooProvider) FetchDailyCloses(ctx context.Context, ticker, from, to string) ([]domain.PricePoint, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-daily-closes")
	defer span.End()

	symbol := ResolveYahooSymbol(ticker)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(to)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.AddDate(0, 0, 1).Unix()))
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(p.baseURL, "/"), url.PathEscape(symbol), q.Encode())

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}
	points, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("parse chart for %s: %w", symbol, err)
	}
	return points, nil
}

func (p *YahooProvider) doRequest(ctx context.Context, u string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// FetchChart returns the chart for symbol over a Yahoo range such as "3mo",
// with its quote metadata.
func (p *YahooProvider) FetchChart(ctx context.Context, symbol, rng string) (*domain.Chart, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-chart")
	defer span.End()

	resolved := ResolveYahooSymbol(symbol)
	if resolved == "" {
		return nil, domain.InvalidRequestError("Symbol is required.")
	}

	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(p.baseURL, "/"), url.PathEscape(resolved), q.Encode())

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, domain.DataSourceError("market", fmt.Errorf("market data provider failed for %s: %w", resolved, err))
	}
	if !gjson.ValidBytes(body) {
		return nil, domain.DataSourceError("market", fmt.Errorf("invalid JSON payload for %s", resolved))
	}
	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Get("timestamp.0").Exists() || !result.Get("indicators.quote.0").Exists() {
		return nil, domain.InvalidRequestError(fmt.Sprintf("No market data available for %s.", SanitizeSymbol(symbol)))
	}

	meta := result.Get("meta")
	return &domain.Chart{
		Meta: domain.ChartMeta{
			Symbol:             meta.Get("symbol").String(),
			LongName:           meta.Get("longName").String(),
			ShortName:          meta.Get("shortName").String(),
			ExchangeName:       meta.Get("exchangeName").String(),
			FullExchangeName:   meta.Get("fullExchangeName").String(),
			Currency:           meta.Get("currency").String(),
			MarketState:        meta.Get("marketState").String(),
			RegularMarketPrice: optFloat(meta.Get("regularMarketPrice")),
			PreviousClose:      optFloat(meta.Get("previousClose")),
			DayHigh:            optFloat(meta.Get("regularMarketDayHigh")),
			DayLow:             optFloat(meta.Get("regularMarketDayLow")),
			FiftyTwoWeekHigh:   optFloat(meta.Get("fiftyTwoWeekHigh")),
			FiftyTwoWeekLow:    optFloat(meta.Get("fiftyTwoWeekLow")),
			Volume:             optFloat(meta.Get("regularMarketVolume")),
			AvgVolume:          optFloat(meta.Get("averageDailyVolume3Month")),
		},
		Points: closePoints(result),
	}, nil
}

func optFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func parseChart(body []byte) ([]domain.PricePoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON payload")
	}
	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Get("timestamp.0").Exists() || !result.Get("indicators.quote.0.close.0").Exists() {
		return nil, fmt.Errorf("no market data available")
	}
	points := closePoints(result)
	if len(points) == 0 {
		return nil, fmt.Errorf("no valid close prices")
	}
	return points, nil
}

// closePoints pairs timestamps with closes, skipping null closes.
func closePoints(result gjson.Result) []domain.PricePoint {
	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.quote.0.close").Array()
	points := make([]domain.PricePoint, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type != gjson.Number {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:  domain.FormatDate(time.Unix(ts.Int(), 0)),
			Close: closes[i].Float(),
		})
	}
	return points
}
