package provider

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stocksentix/internal/domain"
)

// DayHeadlines is one day of the generic (non ticker-specific) news dataset.
type DayHeadlines struct {
	Date      string   `json:"date"`
	Headlines []string `json:"headlines"`
}

var (
	tickerColumns   = []string{"ticker", "symbol", "Symbol"}
	dateColumns     = []string{"date", "Date", "datetime", "publishedAt", "published_at", "time"}
	headlineColumns = []string{"headline", "title", "Headline"}
)

var looseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC1123,
	time.RFC1123Z,
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate converts a loosely formatted timestamp to YYYY-MM-DD (UTC).
// Unparseable input yields "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(domain.DateLayout, raw); err == nil {
		return domain.FormatDate(t)
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.FormatDate(t)
		}
	}
	return ""
}

type csvTable struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func readCSVTable(r io.Reader) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &csvTable{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &csvTable{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.rows = append(t.rows, rec)
	}
}

// first returns the first non-empty value among the named columns.
func (t *csvTable) first(row []string, names []string) string {
	for _, n := range names {
		i, ok := t.index[n]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

// ReadTickerNews loads a per-ticker headline CSV. Column names are matched
// against common aliases and rows missing a ticker, date or headline are
// dropped.
func ReadTickerNews(path string) ([]domain.HeadlineRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTickerNews(f)
}

func parseTickerNews(r io.Reader) ([]domain.HeadlineRecord, error) {
	t, err := readCSVTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HeadlineRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := domain.HeadlineRecord{
			Ticker: SanitizeSymbol(t.first(row, tickerColumns)),
			Date:   NormalizeDate(t.first(row, dateColumns)),
			Text:   t.first(row, headlineColumns),
		}
		if rec.Ticker == "" || rec.Date == "" || rec.Text == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadDailyHeadlines loads the generic news dataset: a wide CSV with a Date
// column and one headline per remaining column, or a JSON array of
// {date, headlines} objects.
func ReadDailyHeadlines(path string) ([]DayHeadlines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return parseWideNews(f)
	}
	var days []DayHeadlines
	if err := json.NewDecoder(f).Decode(&days); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return days, nil
}

func parseWideNews(r io.Reader) ([]DayHeadlines, error) {
	t, err := readCSVTable(r)
	if err != nil {
		return nil, err
	}
	dateIdx, ok := t.index["Date"]
	if !ok {
		return nil, fmt.Errorf("missing Date column")
	}
	out := make([]DayHeadlines, 0, len(t.rows))
	for _, row := range t.rows {
		day := DayHeadlines{}
		for i, v := range row {
			if i == dateIdx {
				day.Date = strings.TrimSpace(v)
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				day.Headlines = append(day.Headlines, v)
			}
		}
		out = append(out, day)
	}
	return out, nil
}

// WriteTickerNews writes articles in the layout ReadTickerNews consumes.
func WriteTickerNews(w io.Writer, articles []domain.NewsArticle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "ticker", "headline", "source", "url"}); err != nil {
		return err
	}
	for _, a := range articles {
		if err := cw.Write([]string{a.Date, a.Ticker, a.Headline, a.Source, a.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
