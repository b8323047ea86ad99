package provider

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stocksentix/internal/domain"
)

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-01":                "2024-03-01",
		"2024-03-01T23:30:00Z":      "2024-03-01",
		"2024-03-01T23:30:00-05:00": "2024-03-02",
		"2024-03-01 09:15:00":       "2024-03-01",
		"03/01/2024":                "2024-03-01",
		"":                          "",
		"yesterday":                 "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTickerNewsAliases(t *testing.T) {
	input := "symbol,publishedAt,title,source\n" +
		"aapl,2024-03-01T10:00:00Z,Apple beats estimates,wire\n" +
		"msft,,Missing date,wire\n" +
		",2024-03-01,Missing ticker,wire\n" +
		"TSLA,2024-03-02,\"Tesla, Inc. recalls\",wire\n"

	records, err := parseTickerNews(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	want := domain.HeadlineRecord{Date: "2024-03-01", Ticker: "AAPL", Text: "Apple beats estimates"}
	if records[0] != want {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Text != "Tesla, Inc. recalls" {
		t.Fatalf("quoted headline not preserved: %q", records[1].Text)
	}
}

func TestReadDailyHeadlinesCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "news.csv")
	if err := os.WriteFile(csvPath, []byte("Date,Top1,Top2,Top3\n2016-07-01,up,,down\n2016-07-04,flat,,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	days, err := ReadDailyHeadlines(csvPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 || days[0].Date != "2016-07-01" || len(days[0].Headlines) != 2 || len(days[1].Headlines) != 1 {
		t.Fatalf("unexpected csv days %+v", days)
	}

	jsonPath := filepath.Join(dir, "news.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"date":"2024-01-02","headlines":["a","b"]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	days, err = ReadDailyHeadlines(jsonPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 || len(days[0].Headlines) != 2 {
		t.Fatalf("unexpected json days %+v", days)
	}
}

func TestWriteTickerNewsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	articles := []domain.NewsArticle{
		{Date: "2024-03-01", Ticker: "AAPL", Headline: "Apple, again", Source: "wire", URL: "https://example.com/a"},
	}
	if err := WriteTickerNews(&buf, articles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := parseTickerNews(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Text != "Apple, again" || records[0].Ticker != "AAPL" {
		t.Fatalf("unexpected records %+v", records)
	}
}
