package correlation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stocksentix/internal/domain"
	"stocksentix/internal/stats"
)

const (
	weakCutoff     = 0.2
	moderateCutoff = 0.5
)

var educationalWarnings = []string{
	"Look-ahead bias can inflate results if same-day news timing is not controlled.",
	"Headline sentiment is noisy and can include contradictory narratives.",
	"Macro events, sector rotation, and liquidity can confound correlations.",
	"Short-horizon markets are partly random, so correlations can drift quickly.",
}

// StrengthLabel bands |r| into weak, moderate and strong.
func StrengthLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs < weakCutoff:
		return "weak"
	case abs < moderateCutoff:
		return "moderate"
	default:
		return "strong"
	}
}

func Explain(r float64) string {
	switch StrengthLabel(r) {
	case "weak":
		return "Weak relationship: sentiment alone explains little movement in next-day returns."
	case "moderate":
		return "Moderate relationship: sentiment has signal, but macro and sector effects remain important."
	default:
		return "Strong relationship: sentiment currently aligns meaningfully with next-day return direction."
	}
}

func tone(s float64) string {
	switch {
	case s > 0:
		return "Positive"
	case s < 0:
		return "Negative"
	default:
		return "Neutral"
	}
}

func (p *Pipeline) buildReport(req Request, ticker string, aligned []domain.AlignedSample) *domain.CorrelationReport {
	n := len(aligned)
	sentiments := make([]float64, n)
	returns := make([]float64, n)
	points := make([]stats.Point, n)
	for i, s := range aligned {
		sentiments[i] = s.Sentiment
		returns[i] = s.NextDayReturn
		points[i] = stats.Point{Date: s.Date, X: s.Sentiment, Y: s.NextDayReturn}
	}

	r := stats.Round(stats.PearsonCorrelation(sentiments, returns), 4)
	sig := stats.TestCorrelation(r, n, p.pMethod)
	strength := StrengthLabel(r)
	rolling := stats.RollingCompoundReturn(returns, rollingReturnWindow)

	report := &domain.CorrelationReport{
		Ticker:      ticker,
		Model:       req.Model,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		ResultType:  domain.ResultTypeCorrelation,
		SampleSize:  n,
		Correlation: r,
		Explanation: Explain(r),
		Stats: domain.CorrelationStats{
			TStatistic:                sig.T,
			PValueApprox:              sig.P,
			IsStatisticallyMeaningful: sig.Significant,
			SignificanceLevel:         stats.SignificanceLevel,
			Method:                    string(sig.Method),
		},
		EducationalReport: domain.EducationalReport{
			Strength:            strength,
			RelationshipSummary: strings.ToUpper(strength[:1]) + strength[1:] + " relationship detected between sentiment and next-day returns.",
			StatisticalMeaning:  statisticalMeaning(sig),
			Warnings:            append([]string(nil), educationalWarnings...),
		},
		DailySentimentRows: make([]domain.DailySentimentRow, n),
		StockReturnRows:    make([]domain.StockReturnRow, n),
		SentimentFeatures:  make([]domain.SentimentFeature, n),
		ScatterData:        make([]domain.ScatterPoint, n),
	}

	for i, s := range aligned {
		score := stats.Round(s.Sentiment, 4)
		report.DailySentimentRows[i] = domain.DailySentimentRow{
			Date:              s.Date,
			SentimentScore:    score,
			AverageSentiment:  score,
			PositiveHeadlines: s.PositiveCount,
			NegativeHeadlines: s.NegativeCount,
			TotalHeadlines:    s.HeadlineCount,
			Tone:              tone(s.Sentiment),
		}
		report.StockReturnRows[i] = domain.StockReturnRow{
			Date:             s.Date,
			Close:            s.Close,
			NextDayReturnPct: stats.Round(s.NextDayReturn*100, 3),
			RollingReturnPct: stats.Round(rolling[i]*100, 3),
		}
		report.SentimentFeatures[i] = domain.SentimentFeature{
			Date:              s.Date,
			SentimentMean:     s.Sentiment,
			SentimentVariance: s.Variance,
			HeadlineCount:     s.HeadlineCount,
			NextDayReturn:     s.NextDayReturn,
		}
		report.ScatterData[i] = domain.ScatterPoint{
			Sentiment: score,
			Return:    stats.Round(s.NextDayReturn*100, 3),
			Date:      s.Date,
		}
	}

	for _, rv := range stats.RollingCorrelation(points, p.window) {
		report.RollingCorrelation = append(report.RollingCorrelation, domain.RollingCorrelationPoint{
			Day:   rv.Date,
			Value: stats.Round(rv.Value, 4),
		})
	}
	return report
}

func statisticalMeaning(sig stats.Significance) string {
	if sig.Significant {
		return fmt.Sprintf("Approx. p-value %s is below 0.05, so this relationship is statistically meaningful for the selected sample.", formatP(sig.P))
	}
	return fmt.Sprintf("Approx. p-value %s is above 0.05, so the relationship is not statistically meaningful for the selected sample.", formatP(sig.P))
}

// formatP prints the shortest decimal form, so 1 prints as "1" and 0.0123 as "0.0123".
func formatP(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
