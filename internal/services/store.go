package services

import (
	"context"

	"houseledger/internal/models"
)

// Store is the data-store contract the billing and summary services run
// against. The MySQL implementation lives in internal/repositories/sqlconnect.
type Store interface {
	// ListExpenses returns expenses matching the filter, joined with user,
	// type and group names, ordered by date descending then id.
	ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)

	// GroupsByID returns the given groups with their member lists, ordered by
	// group id ascending; members ordered by user id ascending.
	GroupsByID(ctx context.Context, ids []int) ([]models.Group, error)

	// TypesByID returns the given expense types, default types first, then
	// by name ascending.
	TypesByID(ctx context.Context, ids []int) ([]models.ExpenseType, error)

	// GetBill returns ErrBillNotFound when no bill has the given id.
	GetBill(ctx context.Context, id int) (*models.Bill, error)

	// CreateBillWithExpenses inserts the bill and claims the given expenses
	// in one transaction. Every expense must still be unbilled; if any was
	// claimed concurrently the transaction is rolled back and
	// ErrExpensesClaimed returned. A bill_no collision rolls back with
	// ErrDuplicateBillNo. On success bill.ID is populated.
	CreateBillWithExpenses(ctx context.Context, bill *models.Bill, expenseIDs []int) error

	// CloseBill transitions a bill from created to closed. Returns
	// ErrBillNotFound or ErrBillClosed when the transition does not apply.
	CloseBill(ctx context.Context, id int) error

	// ReleaseBillExpenses clears bill_id and billed on every expense of the
	// bill, making them available for a fresh issue run.
	ReleaseBillExpenses(ctx context.Context, billID int) error
}
