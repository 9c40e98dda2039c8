package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserTotal is one involved user's slice of a summary. Balance is what the
// user paid minus their even share: positive means they are owed money.
type UserTotal struct {
	User    User            `json:"user"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Balance decimal.Decimal `json:"balance"`
}

type ExpenseTotals struct {
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	ByUser       []UserTotal     `json:"by_user"`
	AverageDaily decimal.Decimal `json:"average_daily"`
	AverageUser  decimal.Decimal `json:"average_user"`
}

type DateRange struct {
	Days int        `json:"days"`
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

type Summary struct {
	Bill     *Bill         `json:"bill,omitempty"`
	Expenses ExpenseTotals `json:"expenses"`
	Groups   []Group       `json:"groups"`
	Types    []ExpenseType `json:"types"`
	Dates    DateRange     `json:"dates"`
}
