// Package backup implements the CSV export/import round-trip used to back up
// and restore manual overrides.
package backup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vibestats/backend/internal/overrides"
	"golang.org/x/exp/slices"
)

// ContentType is the media type of exported files.
const ContentType = "text/csv;charset=utf-8"

// DefaultFilenamePrefix is the prefix of the exported file name.
const DefaultFilenamePrefix = "vibestats_manual_overrides"

// header is the fixed column set of the current, day-granular export format.
// The import side also accepts the historical month-granular format, see
// Import.
var header = []string{
	"Date",
	"Net Income",
	"Gross Income",
	"Media",
	"Media Sets",
	"Tips",
	"Subscriptions",
	"Note",
	"Last Updated",
	"Is Manual",
}

// Filename returns the download file name for an export started now, e.g.
// "vibestats_manual_overrides_2026-08-27.csv".
func Filename(prefix string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, time.Now().UTC().Format("2006-01-02"))
}

type exportRow struct {
	date   string
	fields []string
}

// Export serializes all overrides into the day-granular CSV format: one row
// per day that has an entry in dailyCategoryValues, newest day first across
// all months. Months without day entries produce no rows.
func Export(store *overrides.Store) string {
	all := store.All()

	rows := make([]exportRow, 0)
	for monthKey, o := range all {
		lastUpdated := o.LastUpdated.UTC().Format(time.RFC3339)

		isManual := "FALSE"
		if o.IsManual {
			isManual = "TRUE"
		}

		for dayKey, b := range o.DailyCategoryValues {
			day, err := strconv.Atoi(dayKey)
			if err != nil {
				continue
			}

			dayTotal := b.Total()
			date := fmt.Sprintf("%s-%02d", monthKey, day)

			rows = append(rows, exportRow{
				date: date,
				fields: []string{
					date,
					dayTotal.StringFixed(2),
					overrides.GrossFromNet(dayTotal).StringFixed(2),
					b.Media.StringFixed(2),
					b.MediaSets.StringFixed(2),
					b.Tips.StringFixed(2),
					b.Subscriptions.StringFixed(2),
					o.Note,
					lastUpdated,
					isManual,
				},
			})
		}
	}

	slices.SortFunc(rows, func(a, b exportRow) int {
		return strings.Compare(b.date, a.date)
	})

	var out strings.Builder
	writeRecord(&out, header)
	for _, row := range rows {
		writeRecord(&out, row.fields)
	}

	return out.String()
}

// writeRecord appends one CSV line with every field quoted. Previously
// exported files are quoted this way, so the format is kept byte-compatible.
func writeRecord(out *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			out.WriteByte(',')
		}

		out.WriteByte('"')
		out.WriteString(strings.ReplaceAll(field, `"`, `""`))
		out.WriteByte('"')
	}

	out.WriteByte('\n')
}
