// Package stats resolves the earnings data for a month: the user's manual
// override when one exists, a simulated daily curve otherwise.
package stats

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/types"
)

// Source yields the random draws for the simulated daily shape. The
// production source samples freshly on every call, which keeps repeated
// simulations visually distinct. Tests can substitute a seeded generator.
type Source interface {
	Float64() float64
}

type randSource struct{}

func (randSource) Float64() float64 {
	return rand.Float64()
}

// NewSource returns the production randomness source.
func NewSource() Source {
	return randSource{}
}

// DailyStats is one day of earnings in the unified result shape. Both the
// override path and the simulation path produce it, so downstream consumers
// cannot tell which did.
type DailyStats struct {
	Date      string          `json:"date"`
	Tips      decimal.Decimal `json:"tips"`
	Subs      decimal.Decimal `json:"subs"`
	Media     decimal.Decimal `json:"media"`
	MediaSets decimal.Decimal `json:"mediaSets"`
	Total     decimal.Decimal `json:"total"`
}

// Simulate fabricates a daily earnings curve for the month that sums, per
// category, to exactly target times that category's distribution ratio.
//
// Every day gets a weight of a uniform draw in [0, 0.5) plus half a sine bump
// peaking mid-month. The weights are normalized by their own sum, and the
// last day takes the remainder of every column, which makes the sums exact.
// The draws are intentionally fresh on every call: identical inputs give
// different daily shapes with identical monthly totals.
func Simulate(target decimal.Decimal, month types.Month, source Source) []DailyStats {
	days := month.Days()

	weights := make([]float64, days)
	weightSum := 0.0
	for i := range weights {
		weights[i] = source.Float64()*0.5 + 0.5*math.Sin(float64(i)/float64(days)*math.Pi)
		weightSum += weights[i]
	}

	categoryTotals := overrides.DefaultRatios().Split(target)

	remaining := DailyStats{
		Media:     categoryTotals.Media,
		MediaSets: categoryTotals.MediaSets,
		Tips:      categoryTotals.Tips,
		Subs:      categoryTotals.Subscriptions,
		Total:     target,
	}

	dailyData := make([]DailyStats, 0, days)
	for i := 0; i < days; i++ {
		day := DailyStats{Date: month.Day(i + 1).Format("Jan 2, 2006")}

		if i == days-1 {
			day.Media = remaining.Media
			day.MediaSets = remaining.MediaSets
			day.Tips = remaining.Tips
			day.Subs = remaining.Subs
			day.Total = remaining.Total
		} else {
			fraction := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(days)))
			if weightSum != 0 {
				fraction = decimal.NewFromFloat(weights[i] / weightSum)
			}

			day.Media = categoryTotals.Media.Mul(fraction)
			day.MediaSets = categoryTotals.MediaSets.Mul(fraction)
			day.Tips = categoryTotals.Tips.Mul(fraction)
			day.Subs = categoryTotals.Subscriptions.Mul(fraction)
			day.Total = target.Mul(fraction)
		}

		remaining.Media = remaining.Media.Sub(day.Media)
		remaining.MediaSets = remaining.MediaSets.Sub(day.MediaSets)
		remaining.Tips = remaining.Tips.Sub(day.Tips)
		remaining.Subs = remaining.Subs.Sub(day.Subs)
		remaining.Total = remaining.Total.Sub(day.Total)

		dailyData = append(dailyData, day)
	}

	return dailyData
}
