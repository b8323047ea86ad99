package domain

import "time"

// ChartMeta carries the quote metadata Yahoo attaches to a chart response.
// Numeric fields are nil when the provider omits them.
type ChartMeta struct {
	Symbol             string   `json:"symbol"`
	LongName           string   `json:"longName"`
	ShortName          string   `json:"shortName"`
	ExchangeName       string   `json:"exchangeName"`
	FullExchangeName   string   `json:"fullExchangeName"`
	Currency           string   `json:"currency"`
	MarketState        string   `json:"marketState"`
	RegularMarketPrice *float64 `json:"regularMarketPrice,omitempty"`
	PreviousClose      *float64 `json:"previousClose,omitempty"`
	DayHigh            *float64 `json:"regularMarketDayHigh,omitempty"`
	DayLow             *float64 `json:"regularMarketDayLow,omitempty"`
	FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow,omitempty"`
	Volume             *float64 `json:"regularMarketVolume,omitempty"`
	AvgVolume          *float64 `json:"averageDailyVolume3Month,omitempty"`
}

// Chart is one provider chart: metadata plus the non-null daily closes.
type Chart struct {
	Meta   ChartMeta    `json:"meta"`
	Points []PricePoint `json:"points"`
}

type Quote struct {
	Symbol           string    `json:"symbol"`
	ProviderSymbol   string    `json:"providerSymbol"`
	Name             string    `json:"name"`
	Exchange         string    `json:"exchange"`
	Currency         string    `json:"currency"`
	MarketState      string    `json:"marketState"`
	CurrentPrice     float64   `json:"currentPrice"`
	PreviousClose    float64   `json:"previousClose"`
	Change           float64   `json:"change"`
	ChangePercent    float64   `json:"changePercent"`
	DayHigh          float64   `json:"dayHigh"`
	DayLow           float64   `json:"dayLow"`
	FiftyTwoWeekHigh float64   `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64   `json:"fiftyTwoWeekLow"`
	Volume           float64   `json:"volume"`
	AvgVolume        float64   `json:"avgVolume"`
	LastUpdatedAt    time.Time `json:"lastUpdatedAt"`
}

// HistoryPoint is a close with its percent move from the first close of the
// window.
type HistoryPoint struct {
	Date       string  `json:"date"`
	Close      float64 `json:"close"`
	Normalized float64 `json:"normalized"`
}

type History struct {
	Symbol         string         `json:"symbol"`
	ProviderSymbol string         `json:"providerSymbol"`
	Name           string         `json:"name"`
	Range          string         `json:"range"`
	Points         []HistoryPoint `json:"points"`
}

// Comparison lines up normalized histories. Each Chart row holds "date" and
// one normalized value per symbol present on that day.
type Comparison struct {
	Symbols []string         `json:"symbols"`
	Range   string           `json:"range"`
	Series  []History        `json:"series"`
	Chart   []map[string]any `json:"chart"`
}
