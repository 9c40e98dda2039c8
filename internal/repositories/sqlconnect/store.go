package sqlconnect

import (
	"database/sql"

	"houseledger/internal/services"
)

// Store implements services.Store on top of MySQL.
type Store struct {
	db *sql.DB
}

var _ services.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
