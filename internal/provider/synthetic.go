package provider

import (
	"math"
	"time"

	"stocksentix/internal/domain"
	"stocksentix/internal/stats"
)

// SyntheticCloses builds the deterministic stand-in series used when no
// provider data is available: weekdays only, starting from 100 and drifting
// with the day of month and the parity of the month.
func SyntheticCloses(from, to string) ([]domain.PricePoint, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(to)
	if err != nil {
		return nil, err
	}

	var out []domain.PricePoint
	price := 100.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		drift := math.Sin(float64(d.Day())/5) * 0.003
		if (int(d.Month())-1)%2 == 0 {
			drift += 0.0008
		} else {
			drift -= 0.0006
		}
		price *= 1 + drift
		out = append(out, domain.PricePoint{Date: domain.FormatDate(d), Close: stats.Round(price, 3)})
	}
	return out, nil
}
