package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibestats/backend/internal/overrides"
	"github.com/vibestats/backend/internal/types"
)

// Result reports the outcome of an import. Import never fails as a whole once
// the file is readable: every problem is captured here.
type Result struct {
	// Success is the number of months that were saved.
	Success int `json:"success"`

	// Errors are human-readable messages for rows or files that could not be
	// processed.
	Errors []string `json:"errors"`

	// Total is the number of rows (or months, for the legacy format) that
	// were attempted.
	Total int `json:"total"`
}

// Import reads a CSV backup and saves one override per month it contains.
// Two header shapes are accepted: the current day-granular format (a "Date"
// column) and the historical month-granular format (a "Month" column).
//
// Import is all-or-partial: each month either succeeds and overwrites any
// existing override for that key, or is skipped or reported. One bad row does
// not abort the rest of the file.
func Import(store *overrides.Store, r io.Reader) Result {
	result := Result{Errors: []string{}}

	raw, err := io.ReadAll(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	lines := nonBlankLines(string(raw))
	if len(lines) < 2 {
		result.Errors = append(result.Errors, "CSV file is empty or has no data rows")
		return result
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse CSV file: %v", err))
		return result
	}

	columns := columnIndex(records[0])
	rows := records[1:]

	if _, ok := columns["Date"]; ok {
		return importDaily(store, columns, rows)
	}

	if _, ok := columns["Month"]; ok {
		return importMonthly(store, columns, rows)
	}

	result.Errors = append(result.Errors, fmt.Sprintf("CSV headers don't match expected format. Found: %s", strings.Join(records[0], ", ")))
	return result
}

// importDaily groups day rows by the month portion of their date and
// synthesizes one override per month. Rows with malformed dates are silently
// skipped; non-numeric amount fields default to zero.
func importDaily(store *overrides.Store, columns map[string]int, rows [][]string) Result {
	result := Result{Errors: []string{}, Total: len(rows)}

	type monthData struct {
		days        map[string]overrides.Breakdown
		note        string
		lastUpdated time.Time
		isManual    bool
	}
	months := make(map[string]*monthData)

	for _, row := range rows {
		date := field(row, columns, "Date")
		if len(date) < 7 {
			continue
		}

		monthKey := date[:7]
		if !types.ValidKey(monthKey) {
			continue
		}

		if len(date) < 10 {
			continue
		}
		day, err := strconv.Atoi(date[8:10])
		if err != nil || day < 1 || day > types.DaysInKey(monthKey) {
			continue
		}

		data, ok := months[monthKey]
		if !ok {
			data = &monthData{days: make(map[string]overrides.Breakdown)}
			months[monthKey] = data
		}

		data.days[strconv.Itoa(day)] = overrides.Breakdown{
			Media:         amountOrZero(field(row, columns, "Media")),
			MediaSets:     amountOrZero(field(row, columns, "Media Sets")),
			Tips:          amountOrZero(field(row, columns, "Tips")),
			Subscriptions: amountOrZero(field(row, columns, "Subscriptions")),
		}

		if note := field(row, columns, "Note"); note != "" {
			data.note = note
		}

		if updated, err := time.Parse(time.RFC3339, field(row, columns, "Last Updated")); err == nil && updated.After(data.lastUpdated) {
			data.lastUpdated = updated
		}

		data.isManual = strings.EqualFold(field(row, columns, "Is Manual"), "true")
	}

	for monthKey, data := range months {
		o := overrides.NewFromDailyCategoryValues(data.days, data.note)
		o.IsManual = data.isManual
		o.LastUpdated = data.lastUpdated

		if err := store.Restore(monthKey, o); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Month %s: %v", monthKey, err))
			continue
		}

		result.Success++
	}

	return result
}

// importMonthly handles the legacy format with one row per month. The single
// monthly total is expanded into a full daily breakdown with the default
// ratios; custom category percentages are not honored on this path.
func importMonthly(store *overrides.Store, columns map[string]int, rows [][]string) Result {
	result := Result{Errors: []string{}, Total: len(rows)}

	for i, row := range rows {
		rowNumber := i + 1

		if len(row) < len(columns) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Not enough columns (expected %d, got %d)", rowNumber, len(columns), len(row)))
			continue
		}

		monthKey := field(row, columns, "Month")
		if !types.ValidKey(monthKey) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid month format %q. Expected \"YYYY-MM\"", rowNumber, monthKey))
			continue
		}

		netField := field(row, columns, "Net Income")
		netIncome, err := decimal.NewFromString(netField)
		if err != nil || netIncome.IsNegative() {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid Net Income value %q", rowNumber, netField))
			continue
		}

		grossIncome, err := decimal.NewFromString(field(row, columns, "Gross Income"))
		if err != nil {
			grossIncome = overrides.GrossFromNet(netIncome)
		}

		o := overrides.NewFromMonthlyTotal(netIncome, types.DaysInKey(monthKey), field(row, columns, "Note"))
		o.GrossIncome = grossIncome
		o.IsManual = strings.EqualFold(field(row, columns, "Is Manual"), "true")

		if updated, err := time.Parse(time.RFC3339, field(row, columns, "Last Updated")); err == nil {
			o.LastUpdated = updated
		}

		if err := store.Restore(monthKey, o); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
			continue
		}

		result.Success++
	}

	return result
}

func nonBlankLines(s string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

func columnIndex(headerRow []string) map[string]int {
	columns := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		columns[strings.TrimSpace(name)] = i
	}

	return columns
}

// field returns the named column of a row, or "" when the row is too short or
// the column does not exist.
func field(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// amountOrZero parses a monetary field, defaulting to zero instead of
// rejecting the row.
func amountOrZero(s string) decimal.Decimal {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return amount
}
