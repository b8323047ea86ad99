package domain

// HeadlineRecord is a single headline as delivered by a news source.
type HeadlineRecord struct {
	Date   string `json:"date"`
	Ticker string `json:"ticker,omitempty"`
	Text   string `json:"text"`
}

// NewsArticle is a ticker headline fetched from an upstream news API.
type NewsArticle struct {
	Date     string `json:"date"`
	Ticker   string `json:"ticker"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// NewsRange describes the span of dates covered by the configured news dataset.
type NewsRange struct {
	DateFrom  string `json:"dateFrom,omitempty"`
	DateTo    string `json:"dateTo,omitempty"`
	TotalDays int    `json:"totalDays"`
}

type DailySentiment struct {
	Date              string  `json:"date"`
	SentimentMean     float64 `json:"sentimentMean"`
	SentimentVariance float64 `json:"sentimentVariance"`
	HeadlineCount     int     `json:"headlineCount"`
	PositiveCount     int     `json:"positiveHeadlineCount"`
	NegativeCount     int     `json:"negativeHeadlineCount"`
}

type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// PriceSeries is an ascending close series. Synthetic is set when the
// upstream provider failed and a deterministic fallback was substituted.
type PriceSeries struct {
	Ticker    string       `json:"ticker"`
	Points    []PricePoint `json:"points"`
	Synthetic bool         `json:"synthetic"`
	Warning   string       `json:"warning,omitempty"`
}

// AlignedSample joins a day's sentiment with the return realized the next day.
type AlignedSample struct {
	Date          string  `json:"date"`
	Sentiment     float64 `json:"sentiment"`
	NextDayReturn float64 `json:"nextDayReturn"`
	Close         float64 `json:"close"`
	Variance      float64 `json:"variance"`
	HeadlineCount int     `json:"headlineCount"`
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
}

// FeatureRow is one labeled row of the tabular indicator dataset.
type FeatureRow struct {
	Date     string    `json:"date"`
	Ticker   string    `json:"ticker"`
	Label    int       `json:"label"`
	Features []float64 `json:"features"`
}
