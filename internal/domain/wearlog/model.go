package wearlog

import "time"

// DateLayout is the calendar-date wire format used throughout the tracker.
// Dates are compared as strings, which works because the layout sorts
// lexicographically.
const DateLayout = "2006-01-02"

// WearType is the recorded choice for one day.
type WearType string

const (
	WearGlasses WearType = "glasses"
	WearLenses  WearType = "lenses"
)

func (w WearType) Valid() bool {
	return w == WearGlasses || w == WearLenses
}

// Entry is one day's wear record for an owner token. At most one entry
// exists per (token, date); a new entry for the same date replaces the
// prior one. LensUsageDays and LastLensReplacementDate are carried forward
// from the client on every write rather than derived from history.
type Entry struct {
	Token                   string    `json:"token"`
	Date                    string    `json:"date"`
	WearType                WearType  `json:"wearType"`
	LensUsageDays           int       `json:"lensUsageDays"`
	LastLensReplacementDate *string   `json:"lastLensReplacementDate"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// Summary aggregates one owner's full history. The counter fields come from
// the most recent record, not from a recount; the store trusts whatever the
// client supplied at write time.
type Summary struct {
	TotalDays               int     `json:"totalDays"`
	LensUsageDays           int     `json:"lensUsageDays"`
	GlassesUsageDays        int     `json:"glassesUsageDays"`
	LastLensReplacementDate *string `json:"lastLensReplacementDate"`
	CurrentLensUsageDays    int     `json:"currentLensUsageDays"`
	LatestLog               *Entry  `json:"latestLog"`
}

// MonthStats counts entries by wear type within one calendar month.
type MonthStats struct {
	Glasses int `json:"glasses"`
	Lenses  int `json:"lenses"`
}
