package repository

import (
	"fmt"

	"cantina/internal/connections/database"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// NewStore picks the payment store named in config.
func NewStore(kind string, db database.DB) (Store, error) {
	switch kind {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StorePostgres:
		if db == nil {
			return nil, fmt.Errorf("payment store %q needs a database", kind)
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown payment store %q", kind)
	}
}
