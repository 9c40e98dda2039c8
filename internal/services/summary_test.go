package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseledger/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func householdTypes() []models.ExpenseType {
	return []models.ExpenseType{
		{ID: 1, Name: "Groceries", Default: true},
		{ID: 2, Name: "Utilities"},
	}
}

func twoPersonHousehold() []models.Group {
	return []models.Group{
		{
			ID:   1,
			Name: "Flat 4B",
			Members: []models.User{
				{ID: 1, Username: "ada"},
				{ID: 2, Username: "bjorn"},
			},
		},
	}
}

func TestBuildSummaryEmptyScope(t *testing.T) {
	summary := BuildSummary(nil, nil, nil, nil)

	assert.Nil(t, summary.Bill)
	assert.Equal(t, 0, summary.Expenses.Count)
	assert.True(t, summary.Expenses.Total.IsZero(), "total = %s", summary.Expenses.Total)
	assert.Empty(t, summary.Expenses.ByUser)
	assert.True(t, summary.Expenses.AverageDaily.IsZero())
	assert.True(t, summary.Expenses.AverageUser.IsZero())
	assert.Equal(t, 0, summary.Dates.Days)
	assert.Nil(t, summary.Dates.From)
	assert.Nil(t, summary.Dates.To)
	assert.Empty(t, summary.Groups)
	assert.Empty(t, summary.Types)
}

func TestBuildSummarySingleExpense(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.January, 5), UserID: 1, Amount: amount("10.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
	}

	summary := BuildSummary(expenses, nil, twoPersonHousehold(), householdTypes())

	require.NotNil(t, summary.Dates.From)
	require.NotNil(t, summary.Dates.To)
	assert.Equal(t, date(2024, time.January, 5), *summary.Dates.From)
	assert.Equal(t, date(2024, time.January, 5), *summary.Dates.To)
	assert.Equal(t, 1, summary.Dates.Days, "single-day scope spans one day, not zero")
	assert.True(t, summary.Expenses.AverageDaily.Equal(amount("10.00")), "average_daily = %s", summary.Expenses.AverageDaily)
}

func TestBuildSummaryEvenSplitBalances(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.March, 1), UserID: 1, Amount: amount("30.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		{ID: 2, Date: date(2024, time.March, 2), UserID: 2, Amount: amount("10.00"), TypeID: 2, TypeName: "Utilities", GroupID: 1},
	}

	summary := BuildSummary(expenses, nil, twoPersonHousehold(), householdTypes())

	assert.Equal(t, 2, summary.Expenses.Count)
	assert.True(t, summary.Expenses.Total.Equal(amount("40.00")), "total = %s", summary.Expenses.Total)
	assert.True(t, summary.Expenses.AverageUser.Equal(amount("20.00")), "average_user = %s", summary.Expenses.AverageUser)

	require.Len(t, summary.Expenses.ByUser, 2)
	ada, bjorn := summary.Expenses.ByUser[0], summary.Expenses.ByUser[1]
	assert.Equal(t, "ada", ada.User.Username)
	assert.True(t, ada.Balance.Equal(amount("10.00")), "ada balance = %s", ada.Balance)
	assert.Equal(t, "bjorn", bjorn.User.Username)
	assert.True(t, bjorn.Balance.Equal(amount("-10.00")), "bjorn balance = %s", bjorn.Balance)

	require.Len(t, summary.Types, 2)
	assert.Equal(t, "Groceries", summary.Types[0].Name)
	assert.Equal(t, "Utilities", summary.Types[1].Name)
	require.Len(t, summary.Groups, 1)
	assert.Equal(t, "Flat 4B", summary.Groups[0].Name)
}

func TestBuildSummaryTypeOrderDefaultFirstThenName(t *testing.T) {
	// Rows arrive date-descending, so Utilities is encountered before
	// Groceries; the emitted type order must not depend on that.
	expenses := []models.Expense{
		{ID: 2, Date: date(2024, time.March, 2), UserID: 2, Amount: amount("10.00"), TypeID: 2, TypeName: "Utilities", GroupID: 1},
		{ID: 1, Date: date(2024, time.March, 1), UserID: 1, Amount: amount("30.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
	}

	summary := BuildSummary(expenses, nil, twoPersonHousehold(), householdTypes())

	require.Len(t, summary.Types, 2)
	assert.Equal(t, "Groceries", summary.Types[0].Name)
	assert.True(t, summary.Types[0].Default, "default flag carries through to the summary")
	assert.Equal(t, "Utilities", summary.Types[1].Name)
}

func TestBuildSummaryMembersWithoutExpensesAreInvolved(t *testing.T) {
	groups := []models.Group{
		{
			ID:   1,
			Name: "Flat 4B",
			Members: []models.User{
				{ID: 1, Username: "ada"},
				{ID: 2, Username: "bjorn"},
				{ID: 3, Username: "chiara"},
			},
		},
	}
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.June, 10), UserID: 1, Amount: amount("30.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
	}

	summary := BuildSummary(expenses, nil, groups, householdTypes())

	require.Len(t, summary.Expenses.ByUser, 3)
	assert.True(t, summary.Expenses.AverageUser.Equal(amount("10.00")))

	chiara := summary.Expenses.ByUser[2]
	assert.Equal(t, "chiara", chiara.User.Username)
	assert.Equal(t, 0, chiara.Count)
	assert.True(t, chiara.Total.IsZero())
	assert.True(t, chiara.Balance.Equal(amount("-10.00")), "chiara balance = %s", chiara.Balance)
}

func TestBuildSummaryUserOrderAcrossGroups(t *testing.T) {
	groups := []models.Group{
		{ID: 1, Name: "Flat 4B", Members: []models.User{{ID: 2, Username: "bjorn"}, {ID: 3, Username: "chiara"}}},
		{ID: 2, Name: "Summer house", Members: []models.User{{ID: 1, Username: "ada"}, {ID: 2, Username: "bjorn"}}},
	}
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.July, 1), UserID: 2, Amount: amount("5.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		{ID: 2, Date: date(2024, time.July, 2), UserID: 1, Amount: amount("5.00"), TypeID: 1, TypeName: "Groceries", GroupID: 2},
	}

	summary := BuildSummary(expenses, nil, groups, householdTypes())

	// First group's members first, then later groups' members not seen before.
	require.Len(t, summary.Expenses.ByUser, 3)
	assert.Equal(t, "bjorn", summary.Expenses.ByUser[0].User.Username)
	assert.Equal(t, "chiara", summary.Expenses.ByUser[1].User.Username)
	assert.Equal(t, "ada", summary.Expenses.ByUser[2].User.Username)
}

func TestBuildSummaryTotalsPartition(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.May, 1), UserID: 1, Amount: amount("12.35"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		{ID: 2, Date: date(2024, time.May, 3), UserID: 2, Amount: amount("7.01"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		{ID: 3, Date: date(2024, time.May, 9), UserID: 1, Amount: amount("0.99"), TypeID: 2, TypeName: "Utilities", GroupID: 1},
	}

	summary := BuildSummary(expenses, nil, twoPersonHousehold(), householdTypes())

	sumTotals := decimal.Zero
	sumBalances := decimal.Zero
	for _, ut := range summary.Expenses.ByUser {
		sumTotals = sumTotals.Add(ut.Total)
		sumBalances = sumBalances.Add(ut.Balance)
	}

	assert.True(t, sumTotals.Equal(summary.Expenses.Total),
		"per-user totals partition the grand total: %s vs %s", sumTotals, summary.Expenses.Total)

	n := decimal.NewFromInt(int64(len(summary.Expenses.ByUser)))
	want := summary.Expenses.Total.Sub(summary.Expenses.AverageUser.Mul(n))
	assert.True(t, sumBalances.Equal(want), "balances sum = %s, want %s", sumBalances, want)
}

func TestBuildSummaryIdempotent(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, Date: date(2024, time.May, 1), UserID: 1, Amount: amount("12.35"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		{ID: 2, Date: date(2024, time.May, 3), UserID: 2, Amount: amount("7.01"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
	}
	groups := twoPersonHousehold()

	first := BuildSummary(expenses, nil, groups, householdTypes())
	second := BuildSummary(expenses, nil, groups, householdTypes())

	assert.Equal(t, first, second)
}

func TestSummarizeNarrowsToBill(t *testing.T) {
	billID := 7
	store := &fakeStore{
		expenses: []models.Expense{
			{ID: 1, Date: date(2024, time.May, 1), UserID: 1, Amount: amount("30.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1, Billed: true, BillID: &billID},
			{ID: 2, Date: date(2024, time.May, 2), UserID: 2, Amount: amount("99.99"), TypeID: 1, TypeName: "Groceries", GroupID: 1},
		},
		groups: twoPersonHousehold(),
		types:  householdTypes(),
	}
	bill := &models.Bill{ID: billID, BillNo: "AB12CD", Status: models.BillStatusCreated}

	summary, err := Summarize(context.Background(), store, models.ExpenseFilter{}, bill)

	require.NoError(t, err)
	require.NotNil(t, summary.Bill)
	assert.Equal(t, "AB12CD", summary.Bill.BillNo)
	assert.Equal(t, 1, summary.Expenses.Count, "only the bill's expenses are in scope")
	assert.True(t, summary.Expenses.Total.Equal(amount("30.00")), "total = %s", summary.Expenses.Total)
	require.Len(t, summary.Types, 1)
	assert.Equal(t, "Groceries", summary.Types[0].Name)
}

func TestSummarizeKeepsVisibilityWhenScopedToBill(t *testing.T) {
	billID := 7
	store := &fakeStore{
		expenses: []models.Expense{
			{ID: 1, Date: date(2024, time.May, 1), UserID: 1, Amount: amount("30.00"), TypeID: 1, TypeName: "Groceries", GroupID: 1, Billed: true, BillID: &billID},
			{ID: 2, Date: date(2024, time.May, 2), UserID: 2, Amount: amount("50.00"), TypeID: 1, TypeName: "Groceries", GroupID: 2, Billed: true, BillID: &billID},
		},
		groups: []models.Group{
			{ID: 1, Name: "Flat 4B", Members: []models.User{{ID: 1, Username: "ada"}}},
			{ID: 2, Name: "Summer house", Members: []models.User{{ID: 2, Username: "bjorn"}}},
		},
		types: householdTypes(),
	}
	bill := &models.Bill{ID: billID, BillNo: "AB12CD", Status: models.BillStatusCreated}

	// A caller restricted to group 2 must not see group 1's share of the
	// bill, only their own.
	filter := models.ExpenseFilter{VisibleGroupIDs: []int{2}}
	summary, err := Summarize(context.Background(), store, filter, bill)

	require.NoError(t, err)
	assert.Equal(t, []int{2}, store.lastFilter.VisibleGroupIDs, "bill narrowing must not drop the visibility scope")
	require.NotNil(t, store.lastFilter.BillID)
	assert.Equal(t, billID, *store.lastFilter.BillID)

	assert.Equal(t, 1, summary.Expenses.Count)
	assert.True(t, summary.Expenses.Total.Equal(amount("50.00")), "total = %s", summary.Expenses.Total)
	require.Len(t, summary.Groups, 1)
	assert.Equal(t, "Summer house", summary.Groups[0].Name)
	require.Len(t, summary.Expenses.ByUser, 1)
	assert.Equal(t, "bjorn", summary.Expenses.ByUser[0].User.Username)
}
