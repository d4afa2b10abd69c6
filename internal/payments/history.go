// Package payments holds the normalization layer that turns the provider's
// raw feeds into grouped, currency-converted views. Everything here is pure
// computation; fetching lives in the wallet package.
package payments

import (
	"time"

	"github.com/satbase/admin-be/internal/wallet"
)

// HistorySummary is the single-record weekly rollup.
type HistorySummary struct {
	Date     string  `json:"date"`
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
	Balance  float64 `json:"balance"`
}

// GroupHistory buckets provider history entries by the requested window,
// evaluated against now.
//
// Day and month matching compare only day-of-month / month-of-year; an entry
// from another year can land in the bucket. The weekly balance is taken from
// the last in-window entry in feed order, which is only a closing balance if
// the provider feeds chronologically. Both behaviors are inherited product
// semantics; changing either needs a product decision, not a code one.
//
// An unrecognized or empty groupBy returns the feed unchanged.
func GroupHistory(entries []wallet.HistoryEntry, groupBy string, now time.Time) any {
	switch groupBy {
	case "day":
		out := make([]wallet.HistoryEntry, 0, len(entries))
		for _, entry := range entries {
			if date, ok := parseEntryDate(entry.Date); ok && date.Day() == now.Day() {
				out = append(out, entry)
			}
		}
		return out
	case "week":
		return weekSummary(entries, now)
	case "month":
		out := make([]wallet.HistoryEntry, 0, len(entries))
		for _, entry := range entries {
			if date, ok := parseEntryDate(entry.Date); ok && date.Month() == now.Month() {
				out = append(out, entry)
			}
		}
		return out
	default:
		return entries
	}
}

func weekSummary(entries []wallet.HistoryEntry, now time.Time) HistorySummary {
	start := now.AddDate(0, 0, -7)

	summary := HistorySummary{
		Date: start.Format("2006-01-02") + " to " + now.Format("2006-01-02"),
	}
	for _, entry := range entries {
		date, ok := parseEntryDate(entry.Date)
		if !ok || date.Before(start) || date.After(now) {
			continue
		}
		summary.Income += entry.Income
		summary.Spending += entry.Spending
		summary.Balance = entry.Balance
	}
	return summary
}

var entryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseEntryDate tolerates the date formats the provider has been observed to
// emit. Unparseable dates drop out of every filtered bucket.
func parseEntryDate(value string) (time.Time, bool) {
	for _, layout := range entryDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
