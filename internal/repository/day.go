package repository

import "time"

// Day buckets a timestamp into its UTC calendar day (YYYY-MM-DD).
func Day(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}

// DayNow returns the bucket for the current moment.
func DayNow() string {
	return Day(time.Now())
}
