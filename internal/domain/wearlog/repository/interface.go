package repository

import (
	"eyewear-tracker-go/internal/domain/wearlog"
)

// LogRepository is the data access contract for wear records. The
// interface is defined in the parent wearlog package (which owns the
// Entry type) and aliased here to avoid an import cycle.
type LogRepository = wearlog.LogRepository
