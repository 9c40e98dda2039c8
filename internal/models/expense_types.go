package models

type ExpenseType struct {
	ID      int    `json:"id,omitempty" db:"id,omitempty"`
	Name    string `json:"name,omitempty" db:"name,omitempty"`
	Default bool   `json:"default,omitempty" db:"is_default,omitempty"`
}
