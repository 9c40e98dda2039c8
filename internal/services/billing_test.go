package services

import (
	"context"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseledger/internal/models"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	expenses []models.Expense
	groups   []models.Group
	types    []models.ExpenseType
	bills    []*models.Bill

	nextBillID    int
	duplicateHits int  // first N CreateBillWithExpenses calls fail with ErrDuplicateBillNo
	claimFails    bool // simulate a concurrent claim of some expense

	createCalls int
	lastFilter  models.ExpenseFilter
}

func (f *fakeStore) ListExpenses(_ context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	f.lastFilter = filter
	var out []models.Expense
	for _, e := range f.expenses {
		if filter.VisibleGroupIDs != nil {
			visible := false
			for _, id := range filter.VisibleGroupIDs {
				if id == e.GroupID {
					visible = true
					break
				}
			}
			if !visible {
				continue
			}
		}
		if filter.Unbilled && (e.Billed || e.BillID != nil) {
			continue
		}
		if filter.BillID != nil && (e.BillID == nil || *e.BillID != *filter.BillID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) GroupsByID(_ context.Context, ids []int) ([]models.Group, error) {
	var out []models.Group
	for _, g := range f.groups {
		for _, id := range ids {
			if g.ID == id {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) TypesByID(_ context.Context, ids []int) ([]models.ExpenseType, error) {
	var out []models.ExpenseType
	for _, t := range f.types {
		for _, id := range ids {
			if t.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Default != out[j].Default {
			return out[i].Default
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeStore) GetBill(_ context.Context, id int) (*models.Bill, error) {
	for _, b := range f.bills {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBillNotFound
}

func (f *fakeStore) CreateBillWithExpenses(_ context.Context, bill *models.Bill, expenseIDs []int) error {
	f.createCalls++
	if f.duplicateHits > 0 {
		f.duplicateHits--
		return ErrDuplicateBillNo
	}
	if f.claimFails {
		return ErrExpensesClaimed
	}

	f.nextBillID++
	bill.ID = f.nextBillID
	f.bills = append(f.bills, &models.Bill{ID: bill.ID, BillNo: bill.BillNo, Status: bill.Status})

	for _, id := range expenseIDs {
		for i := range f.expenses {
			if f.expenses[i].ID == id {
				billID := bill.ID
				f.expenses[i].Billed = true
				f.expenses[i].BillID = &billID
			}
		}
	}
	return nil
}

func (f *fakeStore) CloseBill(_ context.Context, id int) error {
	for _, b := range f.bills {
		if b.ID == id {
			if b.Status == models.BillStatusClosed {
				return ErrBillClosed
			}
			b.Status = models.BillStatusClosed
			return nil
		}
	}
	return ErrBillNotFound
}

func (f *fakeStore) ReleaseBillExpenses(_ context.Context, billID int) error {
	for i := range f.expenses {
		if f.expenses[i].BillID != nil && *f.expenses[i].BillID == billID {
			f.expenses[i].BillID = nil
			f.expenses[i].Billed = false
		}
	}
	return nil
}

var _ Store = (*fakeStore)(nil)

func unbilledScope() []models.Expense {
	return []models.Expense{
		{ID: 1, Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), UserID: 1, Amount: amount("30.00"), TypeID: 1, GroupID: 1},
		{ID: 2, Date: time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), UserID: 2, Amount: amount("10.00"), TypeID: 1, GroupID: 1},
	}
}

func TestIssueBillEmptyScopeIsNoOp(t *testing.T) {
	store := &fakeStore{}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.NoError(t, err)
	assert.Nil(t, bill)
	assert.Equal(t, 0, store.createCalls, "no bill row is created for an empty scope")
}

func TestIssueBillAssignsEveryExpense(t *testing.T) {
	store := &fakeStore{expenses: unbilledScope()}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), bill.BillNo)
	assert.Equal(t, models.BillStatusCreated, bill.Status)

	for _, e := range store.expenses {
		assert.True(t, e.Billed, "expense %d should be billed", e.ID)
		require.NotNil(t, e.BillID, "expense %d should reference the bill", e.ID)
		assert.Equal(t, bill.ID, *e.BillID)
	}
	assert.True(t, store.lastFilter.Unbilled, "issuer only collects unbilled expenses")
}

func TestIssueBillSkipsAlreadyBilled(t *testing.T) {
	prior := 99
	expenses := unbilledScope()
	expenses[0].Billed = true
	expenses[0].BillID = &prior
	store := &fakeStore{expenses: expenses}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, prior, *store.expenses[0].BillID, "previously billed expense keeps its bill")
	assert.Equal(t, bill.ID, *store.expenses[1].BillID)
}

func TestIssueBillRetriesOnDuplicateBillNo(t *testing.T) {
	store := &fakeStore{expenses: unbilledScope(), duplicateHits: 2}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, 3, store.createCalls)
}

func TestIssueBillGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := &fakeStore{expenses: unbilledScope(), duplicateHits: maxBillNoAttempts}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.ErrorIs(t, err, ErrDuplicateBillNo)
	assert.Nil(t, bill)
}

func TestIssueBillPropagatesClaimConflict(t *testing.T) {
	store := &fakeStore{expenses: unbilledScope(), claimFails: true}

	bill, err := IssueBill(context.Background(), store, models.ExpenseFilter{})

	require.ErrorIs(t, err, ErrExpensesClaimed)
	assert.Nil(t, bill)
}

func TestCloseBill(t *testing.T) {
	store := &fakeStore{bills: []*models.Bill{{ID: 1, BillNo: "AB12CD", Status: models.BillStatusCreated}}}

	bill, err := CloseBill(context.Background(), store, 1)

	require.NoError(t, err)
	assert.Equal(t, models.BillStatusClosed, bill.Status)

	_, err = CloseBill(context.Background(), store, 1)
	assert.ErrorIs(t, err, ErrBillClosed)

	_, err = CloseBill(context.Background(), store, 42)
	assert.ErrorIs(t, err, ErrBillNotFound)
}

func TestResetBillReleasesExpenses(t *testing.T) {
	billID := 1
	expenses := unbilledScope()
	expenses[0].Billed = true
	expenses[0].BillID = &billID
	expenses[1].Billed = true
	expenses[1].BillID = &billID
	store := &fakeStore{
		expenses: expenses,
		bills:    []*models.Bill{{ID: billID, BillNo: "AB12CD", Status: models.BillStatusCreated}},
	}

	require.NoError(t, ResetBill(context.Background(), store, billID))

	for _, e := range store.expenses {
		assert.False(t, e.Billed)
		assert.Nil(t, e.BillID)
	}

	assert.ErrorIs(t, ResetBill(context.Background(), store, 42), ErrBillNotFound)
}
