package contentstore

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/anchorstore/internal/metrics"
)

// Backend kinds accepted by Open.
const (
	KindMemory  = "memory"
	KindLocalFS = "localfs"
)

// Config selects and configures a backend.
type Config struct {
	Kind     string
	Root     string
	Compress bool
}

// Open builds the configured backend wrapped with metrics.
func Open(cfg Config) (Store, error) {
	kind := strings.ToLower(cfg.Kind)
	var store Store
	switch kind {
	case KindMemory:
		store = NewMemory()
	case KindLocalFS:
		fs, err := NewLocalFS(cfg.Root, cfg.Compress)
		if err != nil {
			return nil, err
		}
		store = fs
	default:
		return nil, fmt.Errorf("unknown content store kind %q (supported: %s, %s)", cfg.Kind, KindMemory, KindLocalFS)
	}
	return NewObserved(store, metrics.NewContentStore(kind)), nil
}
