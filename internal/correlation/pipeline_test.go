package correlation

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocksentix/internal/domain"
	"stocksentix/internal/sentiment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type stubNews struct {
	calls     int
	headlines map[string][]string
	err       error
	gotFrom   string
	gotTo     string
}

func (s *stubNews) FetchHeadlines(_ context.Context, from, to, _ string) (map[string][]string, error) {
	s.calls++
	s.gotFrom, s.gotTo = from, to
	return s.headlines, s.err
}

type stubPrices struct {
	calls   int
	series  *domain.PriceSeries
	err     error
	gotFrom string
	gotTo   string
}

func (s *stubPrices) FetchPrices(_ context.Context, _, from, to string) (*domain.PriceSeries, error) {
	s.calls++
	s.gotFrom, s.gotTo = from, to
	return s.series, s.err
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestPipeline(news NewsSource, prices PriceSource) *Pipeline {
	return NewPipeline(trace.NewNoopTracerProvider().Tracer("test"), news, prices, WithClock(fixedClock))
}

func threeDayFixture() (*stubNews, *stubPrices) {
	news := &stubNews{headlines: map[string][]string{
		"2024-01-01": {"rally"},
		"2024-01-02": {"crash"},
		"2024-01-03": {"gain"},
	}}
	prices := &stubPrices{series: &domain.PriceSeries{Points: []domain.PricePoint{
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-02", Close: 102},
		{Date: "2024-01-03", Close: 99},
		{Date: "2024-01-04", Close: 101},
	}}}
	return news, prices
}

func TestAlignTwoDayScenario(t *testing.T) {
	daily := sentiment.Aggregate(map[string][]string{
		"2024-01-01": {"markets rally on strong growth"},
		"2024-01-02": {"stocks fall amid recession fears"},
	}, sentiment.ModelVADER)
	prices := []domain.PricePoint{
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-02", Close: 102},
		{Date: "2024-01-03", Close: 99},
	}

	aligned := Align(daily, prices)
	require.Len(t, aligned, 2)
	assert.Equal(t, 0.02, aligned[0].NextDayReturn)
	assert.Equal(t, -0.02941, aligned[1].NextDayReturn)
	assert.Equal(t, 100.0, aligned[0].Close)
}

func TestAlignSkipsZeroCloses(t *testing.T) {
	daily := []domain.DailySentiment{{Date: "2024-01-01"}, {Date: "2024-01-02"}}
	prices := []domain.PricePoint{
		{Date: "2024-01-01", Close: 0},
		{Date: "2024-01-02", Close: 10},
		{Date: "2024-01-03", Close: 11},
	}
	aligned := Align(daily, prices)
	require.Len(t, aligned, 1)
	assert.Equal(t, "2024-01-02", aligned[0].Date)
}

func TestRunTwoAlignedSamplesIsInsufficient(t *testing.T) {
	news := &stubNews{headlines: map[string][]string{
		"2024-01-01": {"markets rally on strong growth"},
		"2024-01-02": {"stocks fall amid recession fears"},
	}}
	prices := &stubPrices{series: &domain.PriceSeries{Points: []domain.PricePoint{
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-02", Close: 102},
		{Date: "2024-01-03", Close: 99},
	}}}

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", Model: "VADER", DateFrom: "2024-01-01", DateTo: "2024-01-02",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientData))
	assert.Equal(t, "2024-01-03", prices.gotTo)
}

func TestRunThreeAlignedSamples(t *testing.T) {
	news, prices := threeDayFixture()

	report, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "aapl", Model: "VADER", DateFrom: "2024-01-01", DateTo: "2024-01-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Ticker)
	assert.Equal(t, 3, report.SampleSize)
	assert.Equal(t, domain.ResultTypeCorrelation, report.ResultType)
	assert.Greater(t, report.Correlation, 0.9)
	assert.Equal(t, "strong", report.EducationalReport.Strength)
	assert.Equal(t, "Strong relationship detected between sentiment and next-day returns.", report.EducationalReport.RelationshipSummary)
	assert.Len(t, report.EducationalReport.Warnings, 4)
	assert.Equal(t, "provider", report.PriceSource)

	require.Len(t, report.StockReturnRows, 3)
	assert.Equal(t, 2.0, report.StockReturnRows[0].NextDayReturnPct)
	assert.Equal(t, -2.941, report.StockReturnRows[1].NextDayReturnPct)
	assert.Equal(t, 2.02, report.StockReturnRows[2].NextDayReturnPct)
	assert.Equal(t, -1.0, report.StockReturnRows[1].RollingReturnPct)

	assert.Equal(t, "Positive", report.DailySentimentRows[0].Tone)
	assert.Equal(t, "Negative", report.DailySentimentRows[1].Tone)
	require.Len(t, report.RollingCorrelation, 2)
	assert.Equal(t, "2024-01-02", report.RollingCorrelation[0].Day)
}

func TestRunFutureDateFailsBeforeIO(t *testing.T) {
	news, prices := threeDayFixture()

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", Model: "VADER", DateFrom: "2024-06-02", DateTo: "2024-06-03",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFutureDate))
	assert.Equal(t, "Future dates are not allowed. Please choose a date on or before 2024-06-01.", err.Error())
	assert.Zero(t, news.calls)
	assert.Zero(t, prices.calls)
}

func TestRunPaddedFutureDateFailsBeforeIO(t *testing.T) {
	news, prices := threeDayFixture()

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", Model: "VADER", DateFrom: " 2999-01-01", DateTo: "2024-01-03",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFutureDate))
	assert.Zero(t, news.calls)
	assert.Zero(t, prices.calls)
}

func TestRunPaddedInvertedRangeFailsBeforeIO(t *testing.T) {
	news, prices := threeDayFixture()

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", DateFrom: "2024-01-05 ", DateTo: " 2024-01-01",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
	assert.Zero(t, news.calls)
	assert.Zero(t, prices.calls)
}

func TestRunCanonicalizesPaddedDates(t *testing.T) {
	news, prices := threeDayFixture()

	report, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", Model: "VADER", DateFrom: " 2024-01-01", DateTo: "2024-01-03\t",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", news.gotFrom)
	assert.Equal(t, "2024-01-03", news.gotTo)
	assert.Equal(t, "2024-01-01", prices.gotFrom)
	assert.Equal(t, "2024-01-04", prices.gotTo)
	assert.Equal(t, "2024-01-01", report.DateFrom)
	assert.Equal(t, "2024-01-03", report.DateTo)
}

func TestRunInvertedRange(t *testing.T) {
	news, prices := threeDayFixture()

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", DateFrom: "2024-01-05", DateTo: "2024-01-01",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
	assert.Zero(t, news.calls)
}

func TestRunWrapsSourceFailures(t *testing.T) {
	news, prices := threeDayFixture()
	prices.err = errors.New("connection refused")

	_, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", DateFrom: "2024-01-01", DateTo: "2024-01-03",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataSource))
}

func TestRunFlagsSyntheticPrices(t *testing.T) {
	news, prices := threeDayFixture()
	prices.series.Synthetic = true
	prices.series.Warning = "synthetic prices"

	report, err := newTestPipeline(news, prices).Run(context.Background(), Request{
		Ticker: "AAPL", DateFrom: "2024-01-01", DateTo: "2024-01-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "synthetic", report.PriceSource)
	assert.Equal(t, []string{"synthetic prices"}, report.Warnings)
}

func TestStrengthBands(t *testing.T) {
	assert.Equal(t, "weak", StrengthLabel(-0.19))
	assert.Equal(t, "moderate", StrengthLabel(0.2))
	assert.Equal(t, "moderate", StrengthLabel(-0.49))
	assert.Equal(t, "strong", StrengthLabel(0.5))
	assert.Contains(t, Explain(0.1), "Weak relationship")
}
