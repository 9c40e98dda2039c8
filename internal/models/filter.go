package models

import "time"

// ExpenseFilter narrows an expense query. All set fields combine with AND.
// VisibleGroupIDs restricts results to the caller's groups; a nil slice means
// no visibility restriction (superuser).
type ExpenseFilter struct {
	VisibleGroupIDs []int
	UserID          *int
	TypeID          *int
	GroupID         *int
	BillID          *int
	Unbilled        bool
	From            *time.Time
	To              *time.Time
}
