package stats

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/types"
)

// Stats is the resolved earnings data for one month: the summary totals plus
// the daily series. The presentation layer reads only this shape; whether the
// data came from an override or a simulation is visible solely through
// IsManualOverride.
type Stats struct {
	TargetAmount     decimal.Decimal `json:"targetAmount"`
	Tips             decimal.Decimal `json:"tips"`
	Subs             decimal.Decimal `json:"subs"`
	Media            decimal.Decimal `json:"media"`
	MediaSets        decimal.Decimal `json:"mediaSets"`
	GrossIncome      decimal.Decimal `json:"grossIncome"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	DailyData        []DailyStats    `json:"dailyData"`
	IsManualOverride bool            `json:"isManualOverride"`
	OverrideMonthKey string          `json:"overrideMonthKey,omitempty"`
}

// Resolver is the single entry point for earnings data. An override always
// wins over simulation; manual and simulated values are never blended for the
// same month.
type Resolver struct {
	store  *overrides.Store
	source Source
}

// NewResolver returns a Resolver reading overrides from the store and feeding
// the simulation from the source.
func NewResolver(store *overrides.Store, source Source) *Resolver {
	return &Resolver{store: store, source: source}
}

// Resolve returns the earnings data for a month: the stored override when one
// exists, otherwise a simulation of the target amount.
func (r *Resolver) Resolve(monthKey string, target decimal.Decimal) Stats {
	if o, ok := r.store.Get(monthKey); ok {
		return Stats{
			TargetAmount:     o.NetIncome,
			Tips:             o.Categories.Tips,
			Subs:             o.Categories.Subscriptions,
			Media:            o.Categories.Media,
			MediaSets:        o.Categories.MediaSets,
			GrossIncome:      o.GrossIncome,
			NetIncome:        o.NetIncome,
			DailyData:        overrideDailyData(monthKey, o),
			IsManualOverride: true,
			OverrideMonthKey: monthKey,
		}
	}

	categoryTotals := overrides.DefaultRatios().Split(target)

	return Stats{
		TargetAmount:     target,
		Tips:             categoryTotals.Tips,
		Subs:             categoryTotals.Subscriptions,
		Media:            categoryTotals.Media,
		MediaSets:        categoryTotals.MediaSets,
		GrossIncome:      overrides.GrossFromNet(target),
		NetIncome:        target,
		DailyData:        Simulate(target, resolveMonth(monthKey), r.source),
		IsManualOverride: false,
	}
}

// overrideDailyData expands an override into the daily series. The per-day
// fallback chain runs even for records the store has not migrated yet: a day
// key found only in the legacy dailyValues field is split with the default
// ratios, a day found in neither field is zero.
func overrideDailyData(monthKey string, o overrides.MonthlyOverride) []DailyStats {
	month := resolveMonth(monthKey)
	days := types.DaysInKey(monthKey)
	ratios := overrides.DefaultRatios()

	dailyData := make([]DailyStats, 0, days)
	for day := 1; day <= days; day++ {
		dayKey := strconv.Itoa(day)

		breakdown, ok := o.DailyCategoryValues[dayKey]
		if !ok {
			if total, legacy := o.DailyValues[dayKey]; legacy {
				breakdown = ratios.Split(total)
			}
		}

		dailyData = append(dailyData, DailyStats{
			Date:      month.Day(day).Format("Jan 2, 2006"),
			Tips:      breakdown.Tips,
			Subs:      breakdown.Subscriptions,
			Media:     breakdown.Media,
			MediaSets: breakdown.MediaSets,
			Total:     breakdown.Total(),
		})
	}

	return dailyData
}

// resolveMonth parses a month key, falling back to a synthetic 30 day month
// so that malformed keys still yield a plausible series instead of an error.
// The fallback length matches types.DaysInKey.
func resolveMonth(monthKey string) types.Month {
	month, err := types.ParseMonth(monthKey)
	if err != nil {
		return types.NewMonth(2000, 6)
	}

	return month
}
