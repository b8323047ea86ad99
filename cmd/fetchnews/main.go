// Command fetchnews downloads company headlines from Finnhub into the
// ticker news CSV the analysis server reads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stocksentix/internal/config"
	"stocksentix/internal/domain"
	"stocksentix/internal/provider"
	"stocksentix/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultSymbols  = "AAPL,TSLA,MSFT,TCS,INFY,RELIANCE"
	defaultLookback = 120
	defaultOutput   = "server/data/ticker_news.csv"
)

type newsClient interface {
	CompanyNews(ctx context.Context, ticker, from, to string) ([]domain.NewsArticle, error)
}

var (
	newNewsClient = func(apiKey string) newsClient {
		return provider.NewFinnhubProvider(noop.NewTracerProvider().Tracer("fetchnews"), apiKey)
	}
	now = time.Now
)

type failure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

type result struct {
	From          string    `json:"from"`
	To            string    `json:"to"`
	Symbols       []string  `json:"symbols"`
	RowCount      int       `json:"rowCount"`
	FailedSymbols []failure `json:"failedSymbols"`
	Output        string    `json:"output"`
	NextStep      string    `json:"nextStep"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	_ = logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("fetch ticker news failed")
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	today := now().UTC()
	fs := flag.NewFlagSet("fetchnews", flag.ContinueOnError)
	apiKey := fs.String("api-key", cfg.FinnhubAPIKey, "Finnhub API key")
	symbolsRaw := fs.String("symbols", defaultSymbols, "comma-separated tickers")
	from := fs.String("from", domain.FormatDate(today.AddDate(0, 0, -defaultLookback)), "first day (YYYY-MM-DD)")
	to := fs.String("to", domain.FormatDate(today), "last day (YYYY-MM-DD)")
	output := fs.String("out", defaultOutput, "CSV destination")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*apiKey) == "" {
		return errors.New("Finnhub API key missing. Set FINNHUB_API_KEY or pass --api-key.")
	}
	var symbols []string
	for _, s := range strings.Split(*symbolsRaw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return errors.New("No symbols provided. Use --symbols AAPL,TSLA,...")
	}

	client := newNewsClient(*apiKey)
	var rows []domain.NewsArticle
	failures := []failure{}
	for _, symbol := range symbols {
		articles, err := client.CompanyNews(ctx, symbol, *from, *to)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Str("symbol", symbol).Msg("no news fetched")
			failures = append(failures, failure{Symbol: symbol, Reason: err.Error()})
			continue
		}
		rows = append(rows, articles...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Ticker < rows[j].Ticker
	})

	path, err := writeCSV(*output, rows)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result{
		From:          *from,
		To:            *to,
		Symbols:       symbols,
		RowCount:      len(rows),
		FailedSymbols: failures,
		Output:        path,
		NextStep:      "Set TICKER_NEWS_DATASET_PATH to this CSV path and run analysis.",
	})
}

func writeCSV(path string, rows []domain.NewsArticle) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", err
	}
	if err := provider.WriteTickerNews(f, rows); err != nil {
		f.Close()
		return "", err
	}
	return abs, f.Close()
}
