package storage

import (
	"fmt"
	"log/slog"
)

func NewStore(kind, sqlitePath string) (Store, error) {
	log := slog.With("component", "storage")
	switch kind {
	case "", "memory":
		log.Debug("store selected", "kind", "memory")
		return NewMemoryStore(), nil
	case "sqlite":
		log.Debug("store selected", "kind", "sqlite", "path", sqlitePath)
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
