package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"stocksentix/internal/domain"
)

// Schema names the columns of the indicator dataset and how each row is
// turned into a FeatureRow.
type Schema struct {
	DateColumn   string
	TickerColumn string
	LabelColumn  string
	Features     []string
}

// IndicatorSchema is the technical-indicator layout the prediction engine trains on.
var IndicatorSchema = Schema{
	DateColumn:   "date",
	TickerColumn: "ticker",
	LabelColumn:  "TARGET",
	Features: []string{
		"RSIadjclose15",
		"RSIadjclose25",
		"RSIadjclose50",
		"MACDhistadjclose15",
		"MACDhistadjclose25",
		"MACDhistadjclose50",
		"diff",
		"INCREMENTO",
		"atr10",
		"stochastic-kd-10",
		"volumenrelativo",
	},
}

func (s Schema) Width() int { return len(s.Features) }

type columnIndex struct {
	date     int
	ticker   int
	label    int
	features []int
}

func (s Schema) index(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}
	idx := columnIndex{
		date:     lookup(s.DateColumn),
		ticker:   lookup(s.TickerColumn),
		label:    lookup(s.LabelColumn),
		features: make([]int, len(s.Features)),
	}
	if idx.label < 0 {
		return idx, fmt.Errorf("missing %s column", s.LabelColumn)
	}
	for j, name := range s.Features {
		idx.features[j] = lookup(name)
	}
	return idx, nil
}

// extract converts one record. ok is false when the date, ticker or a finite
// label is missing. Missing or non-numeric features become 0.
func (s Schema) extract(idx columnIndex, rec []string) (domain.FeatureRow, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date := field(idx.date)
	ticker := strings.ToUpper(field(idx.ticker))
	if date == "" || ticker == "" {
		return domain.FeatureRow{}, false
	}
	label, err := strconv.ParseFloat(field(idx.label), 64)
	if err != nil || math.IsNaN(label) || math.IsInf(label, 0) {
		return domain.FeatureRow{}, false
	}

	row := domain.FeatureRow{
		Date:     date,
		Ticker:   ticker,
		Features: make([]float64, len(idx.features)),
	}
	if label > 0 {
		row.Label = 1
	}
	for j, col := range idx.features {
		row.Features[j] = toNum(field(col))
	}
	return row, true
}

func toNum(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Stream reads a header row and then calls fn for every valid record, one
// line at a time, without holding the file in memory.
func (s Schema) Stream(r io.Reader, fn func(domain.FeatureRow) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	idx, err := s.index(append([]string(nil), header...))
	if err != nil {
		return err
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		row, ok := s.extract(idx, rec)
		if !ok {
			continue
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
