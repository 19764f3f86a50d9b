package wearlog

import "time"

// LensCycleDays is the fixed replacement policy: a pair of lenses lasts 30
// wear days.
const LensCycleDays = 30

// CounterReset is the result of clearing the lens cycle.
type CounterReset struct {
	LensUsageDays           int
	LastLensReplacementDate string
}

// CalcMonthStats counts entries whose date falls within the given calendar
// month and year. Entries with unparseable dates are skipped.
func CalcMonthStats(entries []Entry, month time.Month, year int) MonthStats {
	var stats MonthStats
	for _, entry := range entries {
		d, err := time.Parse(DateLayout, entry.Date)
		if err != nil {
			continue
		}
		if d.Month() != month || d.Year() != year {
			continue
		}
		if entry.WearType == WearGlasses {
			stats.Glasses++
		} else {
			stats.Lenses++
		}
	}
	return stats
}

// DaysRemaining returns how many wear days are left in the current lens
// cycle, never negative.
func DaysRemaining(lensUsageDays int) int {
	remaining := LensCycleDays - lensUsageDays
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsReplacementDue reports whether the cycle counter has reached the limit.
func IsReplacementDue(lensUsageDays int) bool {
	return lensUsageDays >= LensCycleDays
}

// ResetCounter starts a fresh lens cycle dated at now.
func ResetCounter(now time.Time) CounterReset {
	return CounterReset{
		LensUsageDays:           0,
		LastLensReplacementDate: now.Format(DateLayout),
	}
}
