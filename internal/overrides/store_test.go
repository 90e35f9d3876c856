package overrides_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/storage"
)

const overridesKey = "vibestats_manual_overrides"

type TestSuiteStore struct {
	suite.Suite

	backend *storage.Memory
	store   *overrides.Store
}

// Pseudo-Test run by go test that runs the test suite.
func TestSuite(t *testing.T) {
	suite.Run(t, new(TestSuiteStore))
}

// SetupTest is called before each test in the suite.
func (suite *TestSuiteStore) SetupTest() {
	suite.backend = storage.NewMemory()
	suite.store = overrides.NewStore(suite.backend)
}

func (suite *TestSuiteStore) saveTestOverride(monthKey string, netIncome int64) overrides.MonthlyOverride {
	o := overrides.NewFromMonthlyTotal(decimal.NewFromInt(netIncome), 30, "")
	err := suite.store.Save(monthKey, o)
	if err != nil {
		suite.Assert().FailNow("Override could not be saved", "Error: %s, Override: %#v", err, o)
	}

	return o
}

func (suite *TestSuiteStore) TestEmptyState() {
	suite.Assert().Empty(suite.store.All())
	suite.Assert().Equal(0, suite.store.Count())
	suite.Assert().Empty(suite.store.Months())

	_, ok := suite.store.Get("2024-01")
	suite.Assert().False(ok)
	suite.Assert().False(suite.store.Has("2024-01"))
}

// Corrupt persisted state is treated as empty, never surfaced as an error.
func (suite *TestSuiteStore) TestCorruptState() {
	for _, raw := range []string{"not json at all", `[1,2,3]`, `"a string"`, `null`} {
		suite.Require().Nil(suite.backend.Set(overridesKey, raw))
		suite.Assert().Empty(suite.store.All(), "state %q was not treated as empty", raw)
	}
}

func (suite *TestSuiteStore) TestSaveGetDelete() {
	suite.saveTestOverride("2024-02", 2900)

	o, ok := suite.store.Get("2024-02")
	suite.Require().True(ok)
	suite.Assert().True(o.NetIncome.Equal(decimal.NewFromInt(2900)))
	suite.Assert().True(suite.store.Has("2024-02"))

	suite.Require().Nil(suite.store.Delete("2024-02"))

	_, ok = suite.store.Get("2024-02")
	suite.Assert().False(ok)

	// Deleting a missing month is not an error
	suite.Assert().Nil(suite.store.Delete("2024-02"))
}

func (suite *TestSuiteStore) TestSaveStampsLastUpdated() {
	o := overrides.NewFromMonthlyTotal(decimal.NewFromInt(100), 31, "")
	o.LastUpdated = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.Require().Nil(suite.store.Save("2024-01", o))

	saved, ok := suite.store.Get("2024-01")
	suite.Require().True(ok)
	suite.Assert().True(saved.LastUpdated.Year() >= 2024, "lastUpdated was not stamped: %s", saved.LastUpdated)
}

func (suite *TestSuiteStore) TestSaveOverwritesWholesale() {
	suite.saveTestOverride("2024-03", 1000)

	replacement := overrides.NewFromDailyCategoryValues(map[string]overrides.Breakdown{
		"5": {Tips: decimal.NewFromInt(77)},
	}, "replaced")
	suite.Require().Nil(suite.store.Save("2024-03", replacement))

	o, ok := suite.store.Get("2024-03")
	suite.Require().True(ok)
	suite.Assert().Len(o.DailyCategoryValues, 1)
	suite.Assert().Equal("replaced", o.Note)
	suite.Assert().True(o.NetIncome.Equal(decimal.NewFromInt(77)))
}

func (suite *TestSuiteStore) TestClear() {
	suite.saveTestOverride("2024-01", 100)
	suite.saveTestOverride("2024-02", 200)

	suite.Require().Nil(suite.store.Clear())
	suite.Assert().Equal(0, suite.store.Count())
}

func (suite *TestSuiteStore) TestMonthsSortedDescending() {
	suite.saveTestOverride("2023-12", 1)
	suite.saveTestOverride("2024-06", 1)
	suite.saveTestOverride("2024-01", 1)

	suite.Assert().Equal([]string{"2024-06", "2024-01", "2023-12"}, suite.store.Months())
	suite.Assert().Equal(3, suite.store.Count())
}

func (suite *TestSuiteStore) TestVersionMarker() {
	suite.saveTestOverride("2024-01", 100)

	version, ok, err := suite.backend.Get("vibestats_manual_overrides_version")
	suite.Require().Nil(err)
	suite.Require().True(ok)
	suite.Assert().Equal("3.0", version)
}

// seed writes a raw record into the persisted blob, bypassing the store.
func (suite *TestSuiteStore) seed(monthKey, record string) {
	raw := `{"` + monthKey + `":` + record + `}`
	suite.Require().Nil(suite.backend.Set(overridesKey, raw))
}

// A first generation record carries only the monthly aggregate. Migration
// fabricates the per-day detail with an even distribution.
func (suite *TestSuiteStore) TestMigrateAggregateRecord() {
	suite.seed("2024-01", `{
		"netIncome": 10000,
		"grossIncome": 12000,
		"categories": {"media": 5800, "mediaSets": 2100, "tips": 800, "subscriptions": 1300},
		"isManual": true,
		"lastUpdated": "2024-01-15T10:30:00.000Z"
	}`)

	o, ok := suite.store.Get("2024-01")
	suite.Require().True(ok)

	// January has 31 days
	suite.Assert().Len(o.DailyCategoryValues, 31)
	suite.Assert().Len(o.DailyValues, 31)

	sum := decimal.Zero
	for _, total := range o.DailyValues {
		sum = sum.Add(total)
	}
	suite.Assert().True(sum.Equal(decimal.NewFromInt(10000)), "daily values sum to %s", sum)

	categories := overrides.CategoryTotals(o.DailyCategoryValues)
	suite.Assert().True(categories.Media.Sub(decimal.NewFromInt(5800)).Abs().LessThan(decimal.NewFromFloat(0.01)))
	suite.Assert().True(categories.MediaSets.Sub(decimal.NewFromInt(2100)).Abs().LessThan(decimal.NewFromFloat(0.01)))
	suite.Assert().True(categories.Tips.Sub(decimal.NewFromInt(800)).Abs().LessThan(decimal.NewFromFloat(0.01)))
	suite.Assert().True(categories.Subscriptions.Sub(decimal.NewFromInt(1300)).Abs().LessThan(decimal.NewFromFloat(0.01)))

	// Aggregates pass through unchanged
	suite.Assert().True(o.NetIncome.Equal(decimal.NewFromInt(10000)))
	suite.Assert().True(o.GrossIncome.Equal(decimal.NewFromInt(12000)))
	suite.Assert().Equal(2024, o.LastUpdated.Year())
}

// A second generation record has per-day totals. Migration splits them with
// the stored percentages and keeps dailyValues untouched.
func (suite *TestSuiteStore) TestMigrateDailyValuesRecord() {
	suite.seed("2024-02", `{
		"dailyValues": {"1": 100, "3": 200},
		"netIncome": 300,
		"grossIncome": 360,
		"categories": {"media": 174, "mediaSets": 63, "tips": 24, "subscriptions": 39},
		"categoryPercentages": {"media": 0.5, "mediaSets": 0.2, "tips": 0.2, "subscriptions": 0.1},
		"isManual": true,
		"lastUpdated": "2024-02-10T00:00:00Z"
	}`)

	o, ok := suite.store.Get("2024-02")
	suite.Require().True(ok)

	// 2024 is a leap year: every day of February gets an entry
	suite.Assert().Len(o.DailyCategoryValues, 29)

	// Days present in dailyValues are split with the stored percentages
	suite.Assert().True(o.DailyCategoryValues["1"].Media.Equal(decimal.NewFromInt(50)))
	suite.Assert().True(o.DailyCategoryValues["3"].Tips.Equal(decimal.NewFromInt(40)))

	// Absent days are zero
	suite.Assert().True(o.DailyCategoryValues["2"].Total().IsZero())

	// dailyValues is retained unchanged, absent days stay absent there
	suite.Assert().Len(o.DailyValues, 2)
	suite.Assert().True(o.DailyValues["1"].Equal(decimal.NewFromInt(100)))
}

// Migration persists its result, so the second read does no work, and
// migrating an already migrated record changes nothing.
func (suite *TestSuiteStore) TestMigrationIdempotent() {
	suite.seed("2024-01", `{"netIncome": 500, "grossIncome": 600, "categories": {"media": 290, "mediaSets": 105, "tips": 40, "subscriptions": 65}, "isManual": true, "lastUpdated": "2024-01-01T00:00:00Z"}`)

	first := suite.store.All()

	blobAfterFirst, _, err := suite.backend.Get(overridesKey)
	suite.Require().Nil(err)

	second := suite.store.All()

	blobAfterSecond, _, err := suite.backend.Get(overridesKey)
	suite.Require().Nil(err)

	suite.Assert().Equal(blobAfterFirst, blobAfterSecond)

	firstJSON, err := json.Marshal(first)
	suite.Require().Nil(err)
	secondJSON, err := json.Marshal(second)
	suite.Require().Nil(err)
	suite.Assert().JSONEq(string(firstJSON), string(secondJSON))
}

// One store can contain records of all three generations at once. Each is
// classified on its own.
func (suite *TestSuiteStore) TestMigrateMixedGenerations() {
	raw := `{
		"2024-01": {"netIncome": 310, "grossIncome": 372, "categories": {"media": 179.8, "mediaSets": 65.1, "tips": 24.8, "subscriptions": 40.3}, "isManual": true, "lastUpdated": "2024-01-01T00:00:00Z"},
		"2024-02": {"dailyValues": {"14": 290}, "netIncome": 290, "grossIncome": 348, "categories": {"media": 168.2, "mediaSets": 60.9, "tips": 23.2, "subscriptions": 37.7}, "isManual": true, "lastUpdated": "2024-02-14T00:00:00Z"},
		"2024-03": {"dailyCategoryValues": {"1": {"media": 10, "mediaSets": 0, "tips": 0, "subscriptions": 0}}, "netIncome": 10, "grossIncome": 12, "categories": {"media": 10, "mediaSets": 0, "tips": 0, "subscriptions": 0}, "isManual": true, "lastUpdated": "2024-03-01T00:00:00Z"}
	}`
	suite.Require().Nil(suite.backend.Set(overridesKey, raw))

	all := suite.store.All()
	suite.Require().Len(all, 3)

	suite.Assert().Len(all["2024-01"].DailyCategoryValues, 31)
	suite.Assert().Len(all["2024-02"].DailyCategoryValues, 29)

	// The current generation record passes through unchanged
	suite.Assert().Len(all["2024-03"].DailyCategoryValues, 1)
	suite.Assert().True(all["2024-03"].DailyCategoryValues["1"].Media.Equal(decimal.NewFromInt(10)))
}

func (suite *TestSuiteStore) TestRestoreKeepsTimestamp() {
	o := overrides.NewFromMonthlyTotal(decimal.NewFromInt(100), 31, "")
	o.LastUpdated = time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.Require().Nil(suite.store.Restore("2023-05", o))

	restored, ok := suite.store.Get("2023-05")
	suite.Require().True(ok)
	suite.Assert().True(restored.LastUpdated.Equal(o.LastUpdated))

	// Without a timestamp, Restore stamps like Save
	suite.Require().Nil(suite.store.Restore("2023-06", overrides.NewFromMonthlyTotal(decimal.NewFromInt(100), 30, "")))
	restored, ok = suite.store.Get("2023-06")
	suite.Require().True(ok)
	suite.Assert().False(restored.LastUpdated.IsZero())
}

func (suite *TestSuiteStore) TestTargetAmount() {
	// Default when nothing is stored
	suite.Assert().True(suite.store.TargetAmount().Equal(decimal.NewFromInt(12000)))

	suite.Require().Nil(suite.store.SetTargetAmount(decimal.NewFromInt(4500)))
	suite.Assert().True(suite.store.TargetAmount().Equal(decimal.NewFromInt(4500)))

	// Default when the stored value does not parse
	suite.Require().Nil(suite.backend.Set("vibestats_data", "garbage"))
	suite.Assert().True(suite.store.TargetAmount().Equal(decimal.NewFromInt(12000)))
}
