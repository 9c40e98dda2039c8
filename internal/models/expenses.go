package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	Date      time.Time       `json:"date" db:"date"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Username  string          `json:"username,omitempty" db:"username,omitempty"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	TypeID    int             `json:"type_id,omitempty" db:"type_id,omitempty"`
	TypeName  string          `json:"type_name,omitempty" db:"type_name,omitempty"`
	GroupID   int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	GroupName string          `json:"group_name,omitempty" db:"group_name,omitempty"`
	Comment   string          `json:"comment,omitempty" db:"comment,omitempty"`
	Billed    bool            `json:"billed" db:"billed"`
	BillID    *int            `json:"bill_id,omitempty" db:"bill_id,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
