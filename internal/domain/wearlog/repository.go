package wearlog

import "context"

// LogRepository is the data access contract for wear records. It is
// declared here so the repository subpackage (which imports this package
// for the Entry type) does not form an import cycle; the subpackage
// re-exports it under the same name via a type alias.
type LogRepository interface {
	// Upsert inserts or replaces the unique (token, date) record and
	// returns the stored row.
	Upsert(ctx context.Context, entry *Entry) (*Entry, error)

	// ListByToken returns every record for a token, date descending.
	ListByToken(ctx context.Context, token string) ([]Entry, error)

	// Latest returns the most recent record by date, nil when none exists.
	Latest(ctx context.Context, token string) (*Entry, error)

	// ListRange returns records with from <= date < to, date ascending.
	ListRange(ctx context.Context, token, from, to string) ([]Entry, error)

	// Delete removes the (token, date) record and returns it, nil when absent.
	Delete(ctx context.Context, token, date string) (*Entry, error)

	// DecrementLensDaysAfter subtracts one lens-usage day from every record
	// of the token dated strictly after date, floored at zero.
	DecrementLensDaysAfter(ctx context.Context, token, date string) error

	// ClearAll wipes every record for every token and reports how many
	// rows were removed.
	ClearAll(ctx context.Context) (int64, error)
}
