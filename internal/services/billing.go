package services

import (
	"context"
	"errors"
	"fmt"

	"houseledger/internal/models"
	"houseledger/pkg/utils"
)

const (
	// BillNoLength is the length of generated bill reference codes.
	BillNoLength = 6

	maxBillNoAttempts = 5
)

// IssueBill collects every unbilled expense matching the filter into a new
// bill. An empty scope is a no-op and returns (nil, nil). The bill insert and
// all expense updates happen in one transaction; a reference code collision
// is retried with a fresh code.
func IssueBill(ctx context.Context, store Store, filter models.ExpenseFilter) (*models.Bill, error) {
	filter.Unbilled = true
	filter.BillID = nil

	expenses, err := store.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	expenseIDs := make([]int, len(expenses))
	for i := range expenses {
		expenseIDs[i] = expenses[i].ID
	}

	for attempt := 0; attempt < maxBillNoAttempts; attempt++ {
		bill := &models.Bill{
			BillNo: utils.GenerateBillNo(BillNoLength),
			Status: models.BillStatusCreated,
		}
		err := store.CreateBillWithExpenses(ctx, bill, expenseIDs)
		if errors.Is(err, ErrDuplicateBillNo) {
			utils.Logger.Warnf("bill_no collision on %q, retrying", bill.BillNo)
			continue
		}
		if err != nil {
			return nil, err
		}
		return bill, nil
	}

	return nil, fmt.Errorf("could not allocate a unique bill reference code after %d attempts: %w", maxBillNoAttempts, ErrDuplicateBillNo)
}

// CloseBill transitions a bill from created to closed and returns the updated
// bill.
func CloseBill(ctx context.Context, store Store, billID int) (*models.Bill, error) {
	if err := store.CloseBill(ctx, billID); err != nil {
		return nil, err
	}
	return store.GetBill(ctx, billID)
}

// ResetBill releases every expense assigned to the bill so they can be
// collected again. This is the recovery path after a partially applied issue.
func ResetBill(ctx context.Context, store Store, billID int) error {
	if _, err := store.GetBill(ctx, billID); err != nil {
		return err
	}
	return store.ReleaseBillExpenses(ctx, billID)
}
