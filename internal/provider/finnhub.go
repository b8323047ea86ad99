package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stocksentix/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// finnhubCandidates lists the provider symbols tried, in order, after the
// ticker itself.
var finnhubCandidates = map[string][]string{
	"AAPL":     {"AAPL"},
	"TSLA":     {"TSLA"},
	"MSFT":     {"MSFT"},
	"NIFTY50":  {"^NSEI", "NSE:NIFTY50"},
	"TCS":      {"TCS.NS", "NSE:TCS", "TCS"},
	"INFY":     {"INFY.NS", "NSE:INFY", "INFY"},
	"RELIANCE": {"RELIANCE.NS", "NSE:RELIANCE", "RELIANCE"},
}

// ErrNoNews is returned when every candidate symbol came back empty or failed.
var ErrNoNews = errors.New("no news returned")

// SymbolCandidates returns the de-duplicated list of symbols to query for ticker.
func SymbolCandidates(ticker string) []string {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if normalized == "" {
		return nil
	}
	seen := map[string]struct{}{normalized: {}}
	out := []string{normalized}
	for _, s := range finnhubCandidates[normalized] {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FinnhubProvider fetches company news headlines.
type FinnhubProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewFinnhubProvider(tracer trace.Tracer, apiKey string) *FinnhubProvider {
	return &FinnhubProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: finnhubBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(1, 350*time.Millisecond),
	}
}

// CompanyNews returns headlines for ticker between from and to. Each
// candidate symbol is tried until one yields a non-empty list; rows are
// labelled with the requested ticker.
func (p *FinnhubProvider) CompanyNews(ctx context.Context, ticker, from, to string) ([]domain.NewsArticle, error) {
	_, span := p.tracer.Start(ctx, "finnhub.company-news")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key missing")
	}
	candidates := SymbolCandidates(ticker)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("symbol is required")
	}
	ticker = candidates[0]

	lastErr := ErrNoNews
	for _, symbol := range candidates {
		q := url.Values{}
		q.Set("symbol", symbol)
		q.Set("from", from)
		q.Set("to", to)
		q.Set("token", p.apiKey)
		body, err := p.doRequest(ctx, strings.TrimRight(p.baseURL, "/")+"/company-news?"+q.Encode())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s: %w", symbol, err)
			continue
		}
		articles := parseCompanyNews(body, ticker)
		if len(articles) == 0 {
			lastErr = fmt.Errorf("%s: %w", symbol, ErrNoNews)
			continue
		}
		return articles, nil
	}
	return nil, lastErr
}

func (p *FinnhubProvider) doRequest(ctx context.Context, u string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub API status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func parseCompanyNews(body []byte, ticker string) []domain.NewsArticle {
	items := gjson.ParseBytes(body)
	if !items.IsArray() {
		return nil
	}
	var out []domain.NewsArticle
	items.ForEach(func(_, item gjson.Result) bool {
		ts := item.Get("datetime")
		headline := strings.TrimSpace(item.Get("headline").String())
		if ts.Type != gjson.Number || ts.Int() <= 0 || headline == "" {
			return true
		}
		out = append(out, domain.NewsArticle{
			Date:     domain.FormatDate(time.Unix(ts.Int(), 0)),
			Ticker:   ticker,
			Headline: headline,
			Source:   item.Get("source").String(),
			URL:      item.Get("url").String(),
		})
		return true
	})
	return out
}
