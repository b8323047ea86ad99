package sentiment

import (
	"sort"

	"stocksentix/internal/domain"
	"stocksentix/internal/stats"
)

// Aggregate scores every headline and returns one observation per date that
// has at least one headline, ascending by date. Mean and variance are
// rounded to 4 decimals; the sign counts use the unrounded scores.
func Aggregate(headlinesByDate map[string][]string, model Model) []domain.DailySentiment {
	daily := make([]domain.DailySentiment, 0, len(headlinesByDate))
	for date, headlines := range headlinesByDate {
		if len(headlines) == 0 {
			continue
		}
		scores := make([]float64, len(headlines))
		positive, negative := 0, 0
		for i, text := range headlines {
			s := ScoreHeadline(text, model)
			scores[i] = s
			switch {
			case s > 0:
				positive++
			case s < 0:
				negative++
			}
		}
		daily = append(daily, domain.DailySentiment{
			Date:              date,
			SentimentMean:     stats.Round(stats.Mean(scores), 4),
			SentimentVariance: stats.Round(stats.Variance(scores), 4),
			HeadlineCount:     len(headlines),
			PositiveCount:     positive,
			NegativeCount:     negative,
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}

// GroupByDate collects headline records into the date-keyed form Aggregate
// consumes. Blank headlines are ignored.
func GroupByDate(records []domain.HeadlineRecord) map[string][]string {
	out := make(map[string][]string)
	for _, r := range records {
		if r.Date == "" || r.Text == "" {
			continue
		}
		out[r.Date] = append(out[r.Date], r.Text)
	}
	return out
}
