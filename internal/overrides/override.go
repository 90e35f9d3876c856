package overrides

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyOverride is the record for one month of user-entered earnings. An
// override always wins over simulated data for its month.
//
// Older records exist in two legacy shapes: with only per-day totals
// (dailyValues) or with only the monthly aggregate. The store backfills the
// per-day category detail for those on read, see (*Store).All.
type MonthlyOverride struct {
	// DailyCategoryValues is the primary store of truth. Keys are 1-based day
	// numbers as strings ("1".."31").
	DailyCategoryValues map[string]Breakdown `json:"dailyCategoryValues"`

	// DailyValues is derived from DailyCategoryValues and kept for backward
	// compatibility with readers of the previous schema.
	DailyValues map[string]decimal.Decimal `json:"dailyValues,omitempty"`

	NetIncome   decimal.Decimal `json:"netIncome"`
	GrossIncome decimal.Decimal `json:"grossIncome"`

	// Categories caches the per-category sums across all days.
	Categories Breakdown `json:"categories"`

	// CategoryPercentages were used historically when only a monthly total
	// was known. Absent in new records.
	CategoryPercentages *Ratios `json:"categoryPercentages,omitempty"`

	// IsManual is always true for a stored override. It distinguishes
	// override records from simulated ones in the shared result shape.
	IsManual bool `json:"isManual"`

	// LastUpdated is stamped by the store on every save.
	LastUpdated time.Time `json:"lastUpdated"`

	Note string `json:"note,omitempty"`
}

// NewFromDailyCategoryValues builds an override from per-day category values,
// deriving all aggregate fields.
func NewFromDailyCategoryValues(dailyCategoryValues map[string]Breakdown, note string) MonthlyOverride {
	o := MonthlyOverride{
		DailyCategoryValues: dailyCategoryValues,
		IsManual:            true,
		Note:                note,
	}
	o.Recompute()

	return o
}

// NewFromDailyValues builds an override from per-day totals by splitting every
// day with the given ratios (defaults when nil). This is the shape the second
// schema generation was entered in; the ratios are recorded on the result.
func NewFromDailyValues(dailyValues map[string]decimal.Decimal, note string, ratios *Ratios) MonthlyOverride {
	r := DefaultRatios()
	if ratios != nil {
		r = *ratios
	}

	dailyCategoryValues := make(map[string]Breakdown, len(dailyValues))
	for day, total := range dailyValues {
		dailyCategoryValues[day] = r.Split(total)
	}

	o := MonthlyOverride{
		DailyCategoryValues: dailyCategoryValues,
		CategoryPercentages: ratios,
		IsManual:            true,
		Note:                note,
	}
	o.Recompute()

	return o
}

// NewFromMonthlyTotal builds an override from a single monthly net amount by
// distributing it evenly over the days of the month with the default ratios.
func NewFromMonthlyTotal(netIncome decimal.Decimal, daysInMonth int, note string) MonthlyOverride {
	return NewFromDailyCategoryValues(DistributeEvenly(netIncome, daysInMonth, nil), note)
}

// Recompute restores the derived fields from DailyCategoryValues: the per-day
// totals, the category sums, net income and gross income. It must be called
// after any change to the per-day values.
func (o *MonthlyOverride) Recompute() {
	o.DailyValues = DailyValues(o.DailyCategoryValues)
	o.Categories = CategoryTotals(o.DailyCategoryValues)
	o.NetIncome = o.Categories.Total()
	o.GrossIncome = GrossFromNet(o.NetIncome)
}
