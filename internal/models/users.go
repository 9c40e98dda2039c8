package models

import "database/sql"

type User struct {
	ID           int            `json:"id,omitempty" db:"id,omitempty"`
	Username     string         `json:"username,omitempty" db:"username,omitempty"`
	Email        string         `json:"email,omitempty" db:"email,omitempty"`
	IsSuperuser  bool           `json:"is_superuser,omitempty" db:"is_superuser,omitempty"`
	PasswordHash string         `json:"-" db:"password_hash,omitempty"`
	CreatedAt    sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
