package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"houseledger/internal/models"
	"houseledger/internal/services"
)

const mysqlErrDuplicateEntry = 1062

func (s *Store) GetBill(ctx context.Context, id int) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, bill_no, status, created_at, updated_at FROM bills WHERE id = ?", id).
		Scan(&bill.ID, &bill.BillNo, &bill.Status, &bill.CreatedAt, &bill.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, services.ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBills returns every bill, newest first.
func (s *Store) ListBills(ctx context.Context) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_no, status, created_at, updated_at FROM bills ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(&b.ID, &b.BillNo, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// ListBillsForGroups returns every bill holding at least one expense of the
// given groups, newest first. An empty group set sees no bills.
func (s *Store) ListBillsForGroups(ctx context.Context, groupIDs []int) ([]models.Bill, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	args := make([]interface{}, 0, len(groupIDs))
	for _, id := range groupIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT b.id, b.bill_no, b.status, b.created_at, b.updated_at FROM bills b"+
			" JOIN expenses e ON e.bill_id = b.id"+
			" WHERE e.group_id IN ("+placeholders(len(groupIDs))+")"+
			" ORDER BY b.created_at DESC, b.id DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(&b.ID, &b.BillNo, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

func (s *Store) CreateBillWithExpenses(ctx context.Context, bill *models.Bill, expenseIDs []int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bills (bill_no, status) VALUES (?, ?)", bill.BillNo, bill.Status)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return services.ErrDuplicateBillNo
		}
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	billID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read bill id: %w", err)
	}

	args := make([]interface{}, 0, len(expenseIDs)+1)
	args = append(args, billID)
	for _, id := range expenseIDs {
		args = append(args, id)
	}

	// The billed/bill_id guard makes the claim conditional: expenses grabbed
	// by a concurrent issue run are not updated, and the count mismatch
	// aborts the whole batch.
	res, err = tx.ExecContext(ctx,
		"UPDATE expenses SET bill_id = ?, billed = TRUE WHERE id IN ("+placeholders(len(expenseIDs))+") AND billed = FALSE AND bill_id IS NULL",
		args...)
	if err != nil {
		return fmt.Errorf("failed to assign expenses to bill: %w", err)
	}

	claimed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if claimed != int64(len(expenseIDs)) {
		return services.ErrExpensesClaimed
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill transaction: %w", err)
	}

	bill.ID = int(billID)
	return nil
}

func (s *Store) CloseBill(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bills SET status = ? WHERE id = ? AND status = ?",
		models.BillStatusClosed, id, models.BillStatusCreated)
	if err != nil {
		return fmt.Errorf("failed to close bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetBill(ctx, id); err != nil {
			return err
		}
		return services.ErrBillClosed
	}
	return nil
}

func (s *Store) ReleaseBillExpenses(ctx context.Context, billID int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET bill_id = NULL, billed = FALSE WHERE bill_id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to release bill expenses: %w", err)
	}
	return nil
}
