package services

import "errors"

var (
	// ErrBillNotFound is returned when a bill lookup matches no row.
	ErrBillNotFound = errors.New("bill not found")

	// ErrDuplicateBillNo is returned when a bill insert collides with an
	// existing reference code.
	ErrDuplicateBillNo = errors.New("duplicate bill reference code")

	// ErrExpensesClaimed is returned when some expense in an issue batch was
	// already billed by a concurrent call. The whole transaction is rolled
	// back; nothing was assigned.
	ErrExpensesClaimed = errors.New("one or more expenses were already billed")

	// ErrBillClosed is returned when closing a bill that is not in the
	// created state.
	ErrBillClosed = errors.New("bill is already closed")
)
