package domain

import "time"

const (
	RunTypeCorrelation = "correlation"
	RunTypePrediction  = "csv_prediction"
)

// RunRecord is what the result sink persists after a successful analysis.
type RunRecord struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	Date                  time.Time `json:"date" gorm:"index"`
	RequestedBy           string    `json:"requestedBy" gorm:"index"`
	Stock                 string    `json:"stock"`
	Correlation           float64   `json:"correlation"`
	Model                 string    `json:"model"`
	DateFrom              string    `json:"dateFrom"`
	DateTo                string    `json:"dateTo"`
	SampleSize            int       `json:"sampleSize"`
	RunType               string    `json:"runType"`
	PredictionLabel       *string   `json:"predictionLabel,omitempty"`
	PredictionProbability *float64  `json:"predictionProbability,omitempty"`
}

type RunFilter struct {
	RequestedBy string
	Limit       int
}

func (RunRecord) TableName() string { return "analysis_runs" }
