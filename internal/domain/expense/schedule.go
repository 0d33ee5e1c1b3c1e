package expense

import "time"

// DateOnly truncates t to a plain calendar date (midnight UTC), the form in
// which all expense dates are stored and compared.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the next due date strictly after anchor for the
// given cadence. An unrecognized or empty frequency returns the anchor
// unchanged, which halts catch-up loops instead of spinning forever on
// malformed data.
//
// Month and year steps use time.AddDate, so a month-end anchor rolls into
// the next month rather than clamping: Jan 31 + Monthly = Mar 2 (Mar 3 in
// non-leap years).
func NextOccurrence(anchor time.Time, freq Frequency) time.Time {
	anchor = DateOnly(anchor)
	switch freq {
	case FrequencyDaily:
		return anchor.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return anchor.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return anchor.AddDate(0, 3, 0)
	case FrequencySixMonths:
		return anchor.AddDate(0, 6, 0)
	case FrequencyYearly:
		return anchor.AddDate(1, 0, 0)
	default:
		return anchor
	}
}
