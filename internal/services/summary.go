package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"houseledger/internal/models"
)

// Summarize computes the settlement summary for the expenses matching the
// filter. When bill is non-nil the scope narrows to expenses assigned to it.
// It is a pure read; no record is mutated.
func Summarize(ctx context.Context, store Store, filter models.ExpenseFilter, bill *models.Bill) (*models.Summary, error) {
	if bill != nil {
		id := bill.ID
		filter.BillID = &id
	}

	expenses, err := store.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups, err := store.GroupsByID(ctx, involvedGroupIDs(expenses))
	if err != nil {
		return nil, err
	}

	types, err := store.TypesByID(ctx, involvedTypeIDs(expenses))
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(expenses, bill, groups, types)
	return &summary, nil
}

// BuildSummary performs the settlement arithmetic over an already loaded
// scope. The groups argument supplies the member lists of every group
// referenced by the scope, in ascending id order; members that logged no
// expense still count toward the even split. The types argument supplies the
// expense types referenced by the scope, default types first then by name.
func BuildSummary(expenses []models.Expense, bill *models.Bill, groups []models.Group, types []models.ExpenseType) models.Summary {
	total := decimal.Zero
	var from, to *time.Time

	type userAgg struct {
		total decimal.Decimal
		count int
	}
	byUser := make(map[int]userAgg)

	groupSeen := make(map[int]bool)
	typeSeen := make(map[int]bool)

	for i := range expenses {
		e := &expenses[i]
		total = total.Add(e.Amount)
		if from == nil || e.Date.Before(*from) {
			d := e.Date
			from = &d
		}
		if to == nil || e.Date.After(*to) {
			d := e.Date
			to = &d
		}

		agg := byUser[e.UserID]
		agg.total = agg.total.Add(e.Amount)
		agg.count++
		byUser[e.UserID] = agg

		groupSeen[e.GroupID] = true
		typeSeen[e.TypeID] = true
	}

	var involvedGroups []models.Group
	for _, g := range groups {
		if groupSeen[g.ID] {
			involvedGroups = append(involvedGroups, g)
		}
	}

	var involvedTypes []models.ExpenseType
	for _, t := range types {
		if typeSeen[t.ID] {
			involvedTypes = append(involvedTypes, t)
		}
	}

	// Involved users are the union of all members of every involved group,
	// not just the users who logged expenses. Order is stable: first group's
	// members, then later groups' members not seen before.
	var involvedUsers []models.User
	userSeen := make(map[int]bool)
	for _, g := range involvedGroups {
		for _, member := range g.Members {
			if !userSeen[member.ID] {
				userSeen[member.ID] = true
				involvedUsers = append(involvedUsers, member)
			}
		}
	}

	days := 0
	if from != nil && to != nil {
		days = int(to.Sub(*from).Hours()/24) + 1
	}

	perUser := decimal.Zero
	if len(involvedUsers) > 0 {
		perUser = total.Div(decimal.NewFromInt(int64(len(involvedUsers)))).Round(2)
	}

	userTotals := make([]models.UserTotal, 0, len(involvedUsers))
	for _, user := range involvedUsers {
		agg, ok := byUser[user.ID]
		if !ok {
			agg = userAgg{total: decimal.Zero}
		}
		userTotals = append(userTotals, models.UserTotal{
			User:    user,
			Total:   agg.total,
			Count:   agg.count,
			Balance: agg.total.Sub(perUser),
		})
	}

	averageDaily := decimal.Zero
	if days != 0 {
		averageDaily = total.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	return models.Summary{
		Bill: bill,
		Expenses: models.ExpenseTotals{
			Count:        len(expenses),
			Total:        total,
			ByUser:       userTotals,
			AverageDaily: averageDaily,
			AverageUser:  perUser,
		},
		Groups: involvedGroups,
		Types:  involvedTypes,
		Dates: models.DateRange{
			Days: days,
			From: from,
			To:   to,
		},
	}
}

func involvedGroupIDs(expenses []models.Expense) []int {
	seen := make(map[int]bool)
	var ids []int
	for i := range expenses {
		if !seen[expenses[i].GroupID] {
			seen[expenses[i].GroupID] = true
			ids = append(ids, expenses[i].GroupID)
		}
	}
	return ids
}

func involvedTypeIDs(expenses []models.Expense) []int {
	seen := make(map[int]bool)
	var ids []int
	for i := range expenses {
		if !seen[expenses[i].TypeID] {
			seen[expenses[i].TypeID] = true
			ids = append(ids, expenses[i].TypeID)
		}
	}
	return ids
}
