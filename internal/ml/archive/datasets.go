package archive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	CombinedNewsFile = "Combined_News_DJIA.csv"
	RedditNewsFile   = "RedditNews.csv"
	DJIATableFile    = "upload_DJIA_table.csv"

	combinedHeadlineColumns = 25
)

type record map[string]string

// readRecords loads a headed CSV into column-keyed records. Short rows are
// tolerated; missing cells read as empty strings.
func readRecords(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseRecords(f)
}

func parseRecords(r io.Reader) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []record
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make(record, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		out = append(out, row)
	}
}

func toNum(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type labeledText struct {
	Date  string
	Label int
	Text  string
}

// combinedRows joins the Top1..Top25 headlines of each labeled day.
func combinedRows(records []record) []labeledText {
	rows := make([]labeledText, 0, len(records))
	for _, r := range records {
		label, err := strconv.ParseFloat(strings.TrimSpace(r["Label"]), 64)
		if err != nil || math.IsNaN(label) || math.IsInf(label, 0) {
			continue
		}
		parts := make([]string, 0, combinedHeadlineColumns)
		for i := 1; i <= combinedHeadlineColumns; i++ {
			if v := r["Top"+strconv.Itoa(i)]; v != "" {
				parts = append(parts, v)
			}
		}
		row := labeledText{Date: r["Date"], Text: strings.Join(parts, " ")}
		if label > 0 {
			row.Label = 1
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

type datedText struct {
	Date string
	Text string
}

// aggregateByDate concatenates every News cell sharing a Date.
func aggregateByDate(records []record) []datedText {
	byDate := make(map[string][]string)
	var order []string
	for _, r := range records {
		d := r["Date"]
		if _, ok := byDate[d]; !ok {
			order = append(order, d)
		}
		byDate[d] = append(byDate[d], r["News"])
	}
	out := make([]datedText, 0, len(order))
	for _, d := range order {
		out = append(out, datedText{Date: d, Text: strings.Join(byDate[d], " ")})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type ohlcv struct {
	Date                                     string
	Open, High, Low, Close, Volume, AdjClose float64
}

type closeSample struct {
	Date      string
	Features  []float64
	NextClose float64
}

func ohlcvRows(records []record) []ohlcv {
	rows := make([]ohlcv, len(records))
	for i, r := range records {
		rows[i] = ohlcv{
			Date:     r["Date"],
			Open:     toNum(r["Open"]),
			High:     toNum(r["High"]),
			Low:      toNum(r["Low"]),
			Close:    toNum(r["Close"]),
			Volume:   toNum(r["Volume"]),
			AdjClose: toNum(r["Adj Close"]),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// closeFeatures engineers the ten regression inputs for cur given the previous day.
func closeFeatures(prev, cur ohlcv) []float64 {
	return []float64{
		cur.Open,
		cur.High,
		cur.Low,
		cur.Close,
		cur.Volume,
		cur.AdjClose,
		cur.Close - cur.Open,
		(cur.High - cur.Low) / orOne(cur.Close),
		(cur.Close - prev.Close) / orOne(prev.Close),
		math.Log((cur.Volume + 1) / (prev.Volume + 1)),
	}
}

// closeSamples pairs each interior day with the following close.
func closeSamples(rows []ohlcv) []closeSample {
	var out []closeSample
	for i := 1; i < len(rows)-1; i++ {
		out = append(out, closeSample{
			Date:      rows[i].Date,
			Features:  closeFeatures(rows[i-1], rows[i]),
			NextClose: rows[i+1].Close,
		})
	}
	return out
}
