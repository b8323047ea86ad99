package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stocksentix/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const tickerCSV = "date,ticker,headline\n" +
	"2024-03-01,AAPL,Apple beats estimates\n" +
	"2024-03-01,AAPL,Apple raises dividend\n" +
	"2024-03-02,MSFT,Microsoft slips\n" +
	"2024-03-05,AAPL,Apple faces inquiry\n"

const dailyJSON = `[
	{"date":"2024-02-28","headlines":["markets calm"]},
	{"date":"2024-03-01","headlines":["stocks rally","bonds slip"]},
	{"date":"2024-03-04","headlines":["oil jumps"]}
]`

func TestNewsService_PrefersTickerDataset(t *testing.T) {
	dir := t.TempDir()
	svc := NewNewsService(testTracer, writeFile(t, dir, "ticker.csv", tickerCSV), writeFile(t, dir, "news.json", dailyJSON))

	got, err := svc.FetchHeadlines(context.Background(), "2024-03-01", "2024-03-04", "aapl")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"2024-03-01": {"Apple beats estimates", "Apple raises dividend"},
	}, got)
}

func TestNewsService_FallsBackWhenTickerHasNoNews(t *testing.T) {
	dir := t.TempDir()
	svc := NewNewsService(testTracer, writeFile(t, dir, "ticker.csv", tickerCSV), writeFile(t, dir, "news.json", dailyJSON))

	got, err := svc.FetchHeadlines(context.Background(), "2024-03-01", "2024-03-04", "TSLA")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"2024-03-01": {"stocks rally", "bonds slip"},
		"2024-03-04": {"oil jumps"},
	}, got)
}

func TestNewsService_MissingTickerFileUsesGeneric(t *testing.T) {
	dir := t.TempDir()
	svc := NewNewsService(testTracer, filepath.Join(dir, "absent.csv"), writeFile(t, dir, "news.json", dailyJSON))

	got, err := svc.FetchHeadlines(context.Background(), "2024-02-01", "2024-02-29", "AAPL")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNewsService_EmptyRangeIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	svc := NewNewsService(testTracer, "", writeFile(t, dir, "news.json", dailyJSON))

	got, err := svc.FetchHeadlines(context.Background(), "2023-01-01", "2023-01-31", "AAPL")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewsService_UnreadableDatasetIsSourceError(t *testing.T) {
	svc := NewNewsService(testTracer, "", filepath.Join(t.TempDir(), "missing.json"))

	_, err := svc.FetchHeadlines(context.Background(), "2024-03-01", "2024-03-04", "AAPL")
	assert.True(t, errors.Is(err, domain.ErrDataSource))
}

func TestNewsService_DataRangeIsCached(t *testing.T) {
	dir := t.TempDir()
	tickerPath := writeFile(t, dir, "ticker.csv", tickerCSV)
	svc := NewNewsService(testTracer, tickerPath, writeFile(t, dir, "news.json", dailyJSON))

	r, err := svc.DataRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewsRange{DateFrom: "2024-03-01", DateTo: "2024-03-05", TotalDays: 3}, r)

	require.NoError(t, os.Remove(tickerPath))
	again, err := svc.DataRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r, again)
}

func TestNewsService_DataRangeGeneric(t *testing.T) {
	dir := t.TempDir()
	svc := NewNewsService(testTracer, "", writeFile(t, dir, "news.json", dailyJSON))

	r, err := svc.DataRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewsRange{DateFrom: "2024-02-28", DateTo: "2024-03-04", TotalDays: 3}, r)
}
