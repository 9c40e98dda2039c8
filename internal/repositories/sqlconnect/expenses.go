package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"houseledger/internal/models"
)

const expenseColumns = `
	e.id, e.date, e.user_id, u.username, e.amount, e.type_id, t.name,
	e.group_id, g.name, e.comment, e.billed, e.bill_id, e.created_at, e.updated_at`

const expenseJoins = `
	FROM expenses e
	JOIN users u ON e.user_id = u.id
	JOIN expense_types t ON e.type_id = t.id
	JOIN expense_groups g ON e.group_id = g.id`

func (s *Store) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	var conds []string
	var args []interface{}

	if filter.VisibleGroupIDs != nil {
		if len(filter.VisibleGroupIDs) == 0 {
			return nil, nil
		}
		conds = append(conds, "e.group_id IN ("+placeholders(len(filter.VisibleGroupIDs))+")")
		for _, id := range filter.VisibleGroupIDs {
			args = append(args, id)
		}
	}
	if filter.UserID != nil {
		conds = append(conds, "e.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.TypeID != nil {
		conds = append(conds, "e.type_id = ?")
		args = append(args, *filter.TypeID)
	}
	if filter.GroupID != nil {
		conds = append(conds, "e.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.BillID != nil {
		conds = append(conds, "e.bill_id = ?")
		args = append(args, *filter.BillID)
	}
	if filter.Unbilled {
		conds = append(conds, "e.billed = FALSE AND e.bill_id IS NULL")
	}
	if filter.From != nil {
		conds = append(conds, "e.date >= ?")
		args = append(args, filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		conds = append(conds, "e.date <= ?")
		args = append(args, filter.To.Format("2006-01-02"))
	}

	query := "SELECT" + expenseColumns + expenseJoins
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.date DESC, e.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense returns a single expense by id, or sql.ErrNoRows.
func (s *Store) GetExpense(ctx context.Context, id int) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT"+expenseColumns+expenseJoins+" WHERE e.id = ?", id)
	return scanExpense(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	var dateRaw string
	var billID sql.NullInt64

	err := row.Scan(&e.ID, &dateRaw, &e.UserID, &e.Username, &e.Amount, &e.TypeID, &e.TypeName,
		&e.GroupID, &e.GroupName, &e.Comment, &e.Billed, &billID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Date, err = time.Parse("2006-01-02", dateRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense date %q: %w", dateRaw, err)
	}
	if billID.Valid {
		id := int(billID.Int64)
		e.BillID = &id
	}
	return &e, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
