package expense

import (
	"fmt"
	"time"
)

// DateLayout is the boundary form of dates: year, month and day only,
// resolved against UTC. Internally dates are epoch-second timestamps.
const DateLayout = "2006-01-02"

// MonthLayout is the form used for month labels and range queries.
const MonthLayout = "2006-01"

// ParseDate converts a "YYYY-MM-DD" string to an epoch-second timestamp
// at the UTC start of that day.
func ParseDate(value string) (int64, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t.Unix(), nil
}

// FormatDate converts an epoch-second timestamp back to its "YYYY-MM-DD"
// form. The time-of-day component is dropped.
func FormatDate(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(DateLayout)
}

// MonthWindow returns the inclusive timestamp range that ends at the last
// second of latestMonth ("YYYY-MM") and starts at the first second of the
// month numberOfMonths-1 before it.
func MonthWindow(latestMonth string, numberOfMonths int) (start, end int64, err error) {
	first, err := time.Parse(MonthLayout, latestMonth)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", ErrInvalidArgument, latestMonth)
	}
	if numberOfMonths < 1 {
		return 0, 0, fmt.Errorf("%w: number of months must be positive", ErrInvalidArgument)
	}

	endTime := first.AddDate(0, 1, 0).Add(-time.Second)
	startTime := first.AddDate(0, -(numberOfMonths - 1), 0)

	return startTime.Unix(), endTime.Unix(), nil
}

// MonthLabel returns the "YYYY-MM" label of the month containing the
// given timestamp.
func MonthLabel(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(MonthLayout)
}

// MonthsBetween returns the contiguous list of "YYYY-MM" labels from the
// month of oldest through the month of newest, inclusive.
func MonthsBetween(oldest, newest time.Time) []string {
	months := []string{}
	cursor := time.Date(oldest.Year(), oldest.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(newest.Year(), newest.Month(), 1, 0, 0, 0, 0, time.UTC)

	for !cursor.After(last) {
		months = append(months, cursor.Format(MonthLayout))
		cursor = cursor.AddDate(0, 1, 0)
	}

	return months
}
