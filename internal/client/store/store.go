package store

import (
	"context"

	"eyewear-tracker-go/internal/domain/wearlog"
)

// StorageKey namespaces the persisted client state. File stores use it as
// the default file stem, redis stores as the key suffix.
const StorageKey = "eyewear-tracker-data"

// Entry is one locally cached day record.
type Entry struct {
	Date     string           `json:"date"`
	WearType wearlog.WearType `json:"wearType"`
}

// OwnerState is the cached mirror of one token's history plus the
// forward-carried lens counter.
type OwnerState struct {
	Entries                 []Entry `json:"entries"`
	LastLensReplacementDate *string `json:"lastLensReplacementDate"`
	LensUsageDays           int     `json:"lensUsageDays"`
}

// State is the single persisted blob: current token pointer plus the cached
// state of every previously-seen owner.
type State struct {
	Token           string                `json:"token"`
	TokenData       map[string]OwnerState `json:"tokenData"`
	GeneratedTokens []string              `json:"generatedTokens"`
}

// DefaultState returns an empty, usable state.
func DefaultState() State {
	return State{
		TokenData:       map[string]OwnerState{},
		GeneratedTokens: []string{},
	}
}

// Store persists the client state blob.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
	Close(ctx context.Context) error
}

// Config selects and configures a store driver.
type Config struct {
	Driver string
	File   *FileConfig
	Redis  *RedisConfig
}

// FileConfig holds the JSON file location.
type FileConfig struct {
	Path string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
