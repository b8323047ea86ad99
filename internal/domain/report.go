package domain

const (
	ResultTypeCorrelation   = "correlation"
	ResultTypeCSVPrediction = "csv_prediction"

	ModelCSVML = "CSV-ML"
)

type CorrelationStats struct {
	TStatistic                float64 `json:"tStatistic"`
	PValueApprox              float64 `json:"pValueApprox"`
	IsStatisticallyMeaningful bool    `json:"isStatisticallyMeaningful"`
	SignificanceLevel         float64 `json:"significanceLevel"`
	Method                    string  `json:"method"`
}

type EducationalReport struct {
	Strength            string   `json:"strength"`
	RelationshipSummary string   `json:"relationshipSummary"`
	StatisticalMeaning  string   `json:"statisticalMeaning"`
	Warnings            []string `json:"warnings"`
}

type DailySentimentRow struct {
	Date              string  `json:"date"`
	SentimentScore    float64 `json:"sentimentScore"`
	AverageSentiment  float64 `json:"averageSentiment"`
	PositiveHeadlines int     `json:"positiveHeadlines"`
	NegativeHeadlines int     `json:"negativeHeadlines"`
	TotalHeadlines    int     `json:"totalHeadlines"`
	Tone              string  `json:"tone"`
}

type StockReturnRow struct {
	Date             string  `json:"date"`
	Close            float64 `json:"close"`
	NextDayReturnPct float64 `json:"nextDayReturnPct"`
	RollingReturnPct float64 `json:"rollingReturnPct"`
}

type SentimentFeature struct {
	Date              string  `json:"date"`
	SentimentMean     float64 `json:"sentimentMean"`
	SentimentVariance float64 `json:"sentimentVariance"`
	HeadlineCount     int     `json:"headlineCount"`
	NextDayReturn     float64 `json:"nextDayReturn"`
}

type ScatterPoint struct {
	Sentiment float64 `json:"sentiment"`
	Return    float64 `json:"return"`
	Date      string  `json:"date"`
}

type RollingCorrelationPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// CorrelationReport is the response of the sentiment/return correlation mode.
type CorrelationReport struct {
	Ticker             string                    `json:"ticker"`
	Model              string                    `json:"model"`
	DateFrom           string                    `json:"dateFrom"`
	DateTo             string                    `json:"dateTo"`
	ResultType         string                    `json:"resultType"`
	SampleSize         int                       `json:"sampleSize"`
	Correlation        float64                   `json:"correlation"`
	Explanation        string                    `json:"explanation"`
	Stats              CorrelationStats          `json:"stats"`
	EducationalReport  EducationalReport         `json:"educationalReport"`
	DailySentimentRows []DailySentimentRow       `json:"dailySentimentRows"`
	StockReturnRows    []StockReturnRow          `json:"stockReturnRows"`
	SentimentFeatures  []SentimentFeature        `json:"sentimentFeatures"`
	ScatterData        []ScatterPoint            `json:"scatterData"`
	RollingCorrelation []RollingCorrelationPoint `json:"rollingCorrelation"`
	PriceSource        string                    `json:"priceSource"`
	Warnings           []string                  `json:"warnings,omitempty"`
}

type ClassificationScores struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type ConfusionMatrix struct {
	TP int `json:"tp"`
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

type PredictionPerformance struct {
	Validation ClassificationScores `json:"validation"`
	Test       ClassificationScores `json:"test"`
	TestAUC    float64              `json:"testAuc"`
	Confusion  ConfusionMatrix      `json:"confusion"`
}

// PredictionReport is the response of the CSV-ML mode.
type PredictionReport struct {
	Ticker                string                    `json:"ticker"`
	Model                 string                    `json:"model"`
	DateFrom              string                    `json:"dateFrom"`
	DateTo                string                    `json:"dateTo"`
	ResultType            string                    `json:"resultType"`
	SampleSize            int                       `json:"sampleSize"`
	TrainRows             int                       `json:"trainRows"`
	ValidationRows        int                       `json:"validationRows"`
	TestRows              int                       `json:"testRows"`
	Correlation           float64                   `json:"correlation"`
	PredictionProbability float64                   `json:"predictionProbability"`
	PredictionLabel       string                    `json:"predictionLabel"`
	PredictedFrom         string                    `json:"predictedFrom"`
	Threshold             float64                   `json:"threshold"`
	Explanation           string                    `json:"explanation"`
	Performance           PredictionPerformance     `json:"performance"`
	ScatterData           []ScatterPoint            `json:"scatterData"`
	RollingCorrelation    []RollingCorrelationPoint `json:"rollingCorrelation"`
}
