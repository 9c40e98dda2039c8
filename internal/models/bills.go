package models

import "database/sql"

const (
	BillStatusCreated = "created"
	BillStatusClosed  = "closed"
)

type Bill struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	BillNo    string         `json:"bill_no,omitempty" db:"bill_no,omitempty"`
	Status    string         `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
