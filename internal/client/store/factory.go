package store

import "fmt"

// New selects a store driver from config. An empty driver defaults to the
// file store.
func New(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFile(cfg)
	case "redis":
		return NewRedis(cfg)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown client store driver: %s", cfg.Driver)
	}
}
