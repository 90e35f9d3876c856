// Package overrides implements the manual override engine: the per-month
// earnings records entered by the user, the category math on their daily
// breakdowns and the store that persists them.
package overrides

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PlatformFeeMultiplier converts net income to gross income. The platform
// keeps a 20% fee, so gross = net * 1.2.
var PlatformFeeMultiplier = decimal.NewFromFloat(1.2)

// Breakdown is the 4-way earnings split for a single day, or the per-category
// totals of a month. The per-day values are the atomic unit of truth,
// everything else is derived from them.
type Breakdown struct {
	Media         decimal.Decimal `json:"media"`
	MediaSets     decimal.Decimal `json:"mediaSets"`
	Tips          decimal.Decimal `json:"tips"`
	Subscriptions decimal.Decimal `json:"subscriptions"`
}

// Ratios are the percentages used to split an aggregate total into the four
// categories when no finer-grained data exists.
type Ratios struct {
	Media         decimal.Decimal `json:"media"`
	MediaSets     decimal.Decimal `json:"mediaSets"`
	Tips          decimal.Decimal `json:"tips"`
	Subscriptions decimal.Decimal `json:"subscriptions"`
}

// DefaultRatios returns the standard 58/21/8/13 distribution.
func DefaultRatios() Ratios {
	return Ratios{
		Media:         decimal.NewFromFloat(0.58),
		MediaSets:     decimal.NewFromFloat(0.21),
		Tips:          decimal.NewFromFloat(0.08),
		Subscriptions: decimal.NewFromFloat(0.13),
	}
}

// Total returns the sum of the four categories.
func (b Breakdown) Total() decimal.Decimal {
	return b.Media.Add(b.MediaSets).Add(b.Tips).Add(b.Subscriptions)
}

// Split applies the ratios to a total, producing a breakdown.
func (r Ratios) Split(total decimal.Decimal) Breakdown {
	return Breakdown{
		Media:         total.Mul(r.Media),
		MediaSets:     total.Mul(r.MediaSets),
		Tips:          total.Mul(r.Tips),
		Subscriptions: total.Mul(r.Subscriptions),
	}
}

// GrossFromNet scales net income up by the platform fee multiplier.
func GrossFromNet(net decimal.Decimal) decimal.Decimal {
	return net.Mul(PlatformFeeMultiplier)
}

// CategoryTotals sums each category across all day entries present.
func CategoryTotals(dailyCategoryValues map[string]Breakdown) Breakdown {
	var totals Breakdown
	for _, b := range dailyCategoryValues {
		totals.Media = totals.Media.Add(b.Media)
		totals.MediaSets = totals.MediaSets.Add(b.MediaSets)
		totals.Tips = totals.Tips.Add(b.Tips)
		totals.Subscriptions = totals.Subscriptions.Add(b.Subscriptions)
	}

	return totals
}

// DailyValues derives the day -> total mapping from the per-day breakdowns.
func DailyValues(dailyCategoryValues map[string]Breakdown) map[string]decimal.Decimal {
	dailyValues := make(map[string]decimal.Decimal, len(dailyCategoryValues))
	for day, b := range dailyCategoryValues {
		dailyValues[day] = b.Total()
	}

	return dailyValues
}

// DistributeEvenly spreads a monthly total over all days of a month and splits
// every day into categories. A nil ratios argument uses the defaults.
//
// The last day absorbs the division remainder so that the daily totals sum to
// exactly the monthly total.
func DistributeEvenly(monthlyTotal decimal.Decimal, daysInMonth int, ratios *Ratios) map[string]Breakdown {
	r := DefaultRatios()
	if ratios != nil {
		r = *ratios
	}

	dailyCategoryValues := make(map[string]Breakdown, daysInMonth)
	if daysInMonth < 1 {
		return dailyCategoryValues
	}

	perDay := monthlyTotal.Div(decimal.NewFromInt(int64(daysInMonth)))
	distributed := decimal.Zero

	for day := 1; day <= daysInMonth; day++ {
		dayTotal := perDay
		if day == daysInMonth {
			dayTotal = monthlyTotal.Sub(distributed)
		}

		dailyCategoryValues[strconv.Itoa(day)] = r.Split(dayTotal)
		distributed = distributed.Add(dayTotal)
	}

	return dailyCategoryValues
}

// EmptyDailyCategoryValues returns zero breakdowns for every day of a month.
func EmptyDailyCategoryValues(daysInMonth int) map[string]Breakdown {
	dailyCategoryValues := make(map[string]Breakdown, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		dailyCategoryValues[strconv.Itoa(day)] = Breakdown{}
	}

	return dailyCategoryValues
}
