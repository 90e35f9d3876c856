package overrides

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/storage"
	"github.com/vibestats/backend/internal/types"
	"golang.org/x/exp/slices"
)

const (
	// overridesKey holds the entire serialized override mapping.
	overridesKey = "vibestats_manual_overrides"

	// versionKey marks the schema generation of the blob. Version 3.0 added
	// dailyCategoryValues.
	versionKey     = "vibestats_manual_overrides_version"
	currentVersion = "3.0"

	// targetKey holds the last simulation target amount, independent of the
	// override schema.
	targetKey = "vibestats_data"
)

// DefaultTargetAmount is used when no simulation target has been stored yet.
var DefaultTargetAmount = decimal.NewFromInt(12000)

// Storage is the entire persisted universe of overrides, keyed by month
// ("YYYY-MM").
type Storage map[string]MonthlyOverride

// Store owns the persisted override mapping. Reads never fail: corrupt or
// missing state degrades to an empty mapping and is logged. Writes report
// backend errors to the caller.
type Store struct {
	backend storage.Backend
	now     func() time.Time
}

// NewStore returns a Store persisting through the given backend.
func NewStore(backend storage.Backend) *Store {
	return &Store{
		backend: backend,
		now:     func() time.Time { return time.Now().In(time.UTC) },
	}
}

// All returns the full override mapping after migration. If migration changed
// any record, the migrated state is persisted immediately so the upgrade runs
// at most once per record.
func (s *Store) All() Storage {
	raw, ok, err := s.backend.Get(overridesKey)
	if err != nil {
		log.Warn().Err(err).Msg("reading overrides failed, using empty state")
		return Storage{}
	}

	if !ok || raw == "" {
		return Storage{}
	}

	var all Storage
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		log.Warn().Err(err).Msg("stored overrides are not valid JSON, using empty state")
		return Storage{}
	}

	if all == nil {
		return Storage{}
	}

	migrated := false
	for key, o := range all {
		record, changed := migrateRecord(key, o)
		if changed {
			all[key] = record
			migrated = true
		}
	}

	if migrated {
		if err := s.persist(all); err != nil {
			log.Warn().Err(err).Msg("persisting migrated overrides failed")
		}
	}

	return all
}

// Get returns the override for a month.
func (s *Store) Get(monthKey string) (MonthlyOverride, bool) {
	o, ok := s.All()[monthKey]
	return o, ok
}

// Has reports whether an override exists for a month.
func (s *Store) Has(monthKey string) bool {
	_, ok := s.All()[monthKey]
	return ok
}

// Save stores the record under the month key, replacing any previous record
// wholesale. LastUpdated is stamped by the store, never by the caller.
func (s *Store) Save(monthKey string, o MonthlyOverride) error {
	all := s.All()

	o.LastUpdated = s.now()
	all[monthKey] = o

	return s.persist(all)
}

// Restore stores a record keeping its original LastUpdated timestamp. It is
// used when loading backups; a record without a timestamp is stamped like a
// regular save.
func (s *Store) Restore(monthKey string, o MonthlyOverride) error {
	all := s.All()

	if o.LastUpdated.IsZero() {
		o.LastUpdated = s.now()
	}
	all[monthKey] = o

	return s.persist(all)
}

// Delete removes the override for a month. Deleting a month without an
// override is not an error.
func (s *Store) Delete(monthKey string) error {
	all := s.All()
	if _, ok := all[monthKey]; !ok {
		return nil
	}

	delete(all, monthKey)
	return s.persist(all)
}

// Clear removes all overrides.
func (s *Store) Clear() error {
	return s.backend.Delete(overridesKey)
}

// Months returns all override month keys, most recent month first.
func (s *Store) Months() []string {
	all := s.All()

	months := make([]string, 0, len(all))
	for key := range all {
		months = append(months, key)
	}

	// "YYYY-MM" keys sort chronologically as strings
	slices.Sort(months)
	slices.Reverse(months)

	return months
}

// Count returns the number of months with an override.
func (s *Store) Count() int {
	return len(s.All())
}

// TargetAmount returns the last stored simulation target, or the default when
// none is stored or the stored value does not parse.
func (s *Store) TargetAmount() decimal.Decimal {
	raw, ok, err := s.backend.Get(targetKey)
	if err != nil || !ok {
		return DefaultTargetAmount
	}

	target, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Str("value", raw).Msg("stored target amount does not parse, using default")
		return DefaultTargetAmount
	}

	return target
}

// SetTargetAmount persists the simulation target.
func (s *Store) SetTargetAmount(target decimal.Decimal) error {
	return s.backend.Set(targetKey, target.String())
}

func (s *Store) persist(all Storage) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("serializing overrides failed: %w", err)
	}

	if err := s.backend.Set(overridesKey, string(raw)); err != nil {
		return err
	}

	return s.backend.Set(versionKey, currentVersion)
}

// migrateRecord upgrades a record from one of the two legacy schema
// generations by backfilling the per-day category detail. Records that
// already carry dailyCategoryValues pass through unchanged; aggregate fields,
// note, isManual and lastUpdated are never altered.
//
// Classification is shape-based and per-record, so a single store can contain
// records of all three generations at once.
func migrateRecord(monthKey string, o MonthlyOverride) (MonthlyOverride, bool) {
	if len(o.DailyCategoryValues) > 0 {
		return o, false
	}

	daysInMonth := types.DaysInKey(monthKey)

	// Second generation: per-day totals without category detail. Every day of
	// the month gets an entry, absent days count as zero. The stored ratios
	// are honored when present.
	if len(o.DailyValues) > 0 {
		ratios := DefaultRatios()
		if o.CategoryPercentages != nil {
			ratios = *o.CategoryPercentages
		}

		dailyCategoryValues := make(map[string]Breakdown, daysInMonth)
		for day := 1; day <= daysInMonth; day++ {
			dayKey := strconv.Itoa(day)
			dailyCategoryValues[dayKey] = ratios.Split(o.DailyValues[dayKey])
		}

		o.DailyCategoryValues = dailyCategoryValues
		return o, true
	}

	// Oldest generation: only the monthly aggregate is known.
	o.DailyCategoryValues = DistributeEvenly(o.NetIncome, daysInMonth, o.CategoryPercentages)
	o.DailyValues = DailyValues(o.DailyCategoryValues)

	return o, true
}
