package service

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"stocksentix/internal/domain"
	"stocksentix/internal/provider"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// NewsService serves headlines from the ticker news CSV when it covers the
// request, otherwise from the generic daily dataset.
type NewsService struct {
	tracer      trace.Tracer
	tickerPath  string
	datasetPath string
	ranges      *rangeCache
}

func NewNewsService(tracer trace.Tracer, tickerPath, datasetPath string) *NewsService {
	return &NewsService{
		tracer:      tracer,
		tickerPath:  tickerPath,
		datasetPath: datasetPath,
		ranges:      &rangeCache{},
	}
}

// FetchHeadlines returns headlines keyed by date for [from, to]. A day with no
// news is simply absent from the map.
func (s *NewsService) FetchHeadlines(ctx context.Context, from, to, ticker string) (map[string][]string, error) {
	_, span := s.tracer.Start(ctx, "news-service.fetch-headlines")
	defer span.End()

	if s.hasTickerDataset() {
		records, err := provider.ReadTickerNews(s.tickerPath)
		if err != nil {
			log.Warn().Err(err).Str("path", s.tickerPath).Msg("ticker news unreadable, using generic dataset")
		} else if grouped := groupTickerNews(records, from, to, ticker); len(grouped) > 0 {
			return grouped, nil
		}
	}

	days, err := s.readDaily()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, d := range days {
		if d.Date < from || d.Date > to {
			continue
		}
		out[d.Date] = d.Headlines
	}
	return out, nil
}

// DataRange reports the dates covered by the dataset FetchHeadlines would
// prefer. The result is computed once per service.
func (s *NewsService) DataRange(ctx context.Context) (domain.NewsRange, error) {
	_, span := s.tracer.Start(ctx, "news-service.data-range")
	defer span.End()

	return s.ranges.get(func() (domain.NewsRange, error) {
		if s.hasTickerDataset() {
			records, err := provider.ReadTickerNews(s.tickerPath)
			if err == nil {
				dates := make([]string, len(records))
				for i, r := range records {
					dates[i] = r.Date
				}
				return resolveRange(dates), nil
			}
			log.Warn().Err(err).Str("path", s.tickerPath).Msg("ticker news range unreadable, using generic dataset")
		}
		days, err := s.readDaily()
		if err != nil {
			return domain.NewsRange{}, err
		}
		dates := make([]string, len(days))
		for i, d := range days {
			dates[i] = d.Date
		}
		return resolveRange(dates), nil
	})
}

func (s *NewsService) hasTickerDataset() bool {
	if s.tickerPath == "" {
		return false
	}
	_, err := os.Stat(s.tickerPath)
	return err == nil
}

func (s *NewsService) readDaily() ([]provider.DayHeadlines, error) {
	if s.datasetPath == "" {
		return nil, domain.DataSourceError("news", errors.New("no news dataset configured"))
	}
	days, err := provider.ReadDailyHeadlines(s.datasetPath)
	if err != nil {
		return nil, domain.DataSourceError("news", err)
	}
	return days, nil
}

func groupTickerNews(records []domain.HeadlineRecord, from, to, ticker string) map[string][]string {
	target := provider.SanitizeSymbol(ticker)
	out := make(map[string][]string)
	for _, r := range records {
		if r.Date < from || r.Date > to {
			continue
		}
		if target != "" && r.Ticker != target {
			continue
		}
		out[r.Date] = append(out[r.Date], r.Text)
	}
	return out
}

func resolveRange(dates []string) domain.NewsRange {
	set := make(map[string]struct{}, len(dates))
	var sorted []string
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := set[d]; !ok {
			set[d] = struct{}{}
			sorted = append(sorted, d)
		}
	}
	if len(sorted) == 0 {
		return domain.NewsRange{}
	}
	sort.Strings(sorted)
	return domain.NewsRange{DateFrom: sorted[0], DateTo: sorted[len(sorted)-1], TotalDays: len(sorted)}
}

// rangeCache memoizes a successful range computation. Failures are not cached.
type rangeCache struct {
	mu    sync.Mutex
	value *domain.NewsRange
}

func (c *rangeCache) get(compute func() (domain.NewsRange, error)) (domain.NewsRange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value != nil {
		return *c.value, nil
	}
	r, err := compute()
	if err != nil {
		return domain.NewsRange{}, err
	}
	c.value = &r
	return r, nil
}
