package sqlconnect

import (
	"context"
	"fmt"

	"houseledger/internal/models"
)

func (s *Store) ListTypes(ctx context.Context) ([]models.ExpenseType, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, is_default FROM expense_types ORDER BY is_default DESC, name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list expense types: %w", err)
	}
	defer rows.Close()

	var types []models.ExpenseType
	for rows.Next() {
		var t models.ExpenseType
		if err := rows.Scan(&t.ID, &t.Name, &t.Default); err != nil {
			return nil, fmt.Errorf("failed to scan expense type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense types: %w", err)
	}

	return types, nil
}

// TypesByID returns the given expense types, default types first, then by
// name ascending.
func (s *Store) TypesByID(ctx context.Context, ids []int) ([]models.ExpenseType, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, is_default FROM expense_types WHERE id IN ("+placeholders(len(ids))+") ORDER BY is_default DESC, name ASC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense types: %w", err)
	}
	defer rows.Close()

	var types []models.ExpenseType
	for rows.Next() {
		var t models.ExpenseType
		if err := rows.Scan(&t.ID, &t.Name, &t.Default); err != nil {
			return nil, fmt.Errorf("failed to scan expense type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense types: %w", err)
	}

	return types, nil
}

// DefaultType returns the expense type used when a new expense names none:
// the flagged default, lowest id winning, falling back to the lowest id
// overall. Returns database/sql.ErrNoRows when no types exist.
func (s *Store) DefaultType(ctx context.Context) (*models.ExpenseType, error) {
	var t models.ExpenseType
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_default FROM expense_types ORDER BY is_default DESC, id ASC LIMIT 1").
		Scan(&t.ID, &t.Name, &t.Default)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateType(ctx context.Context, t *models.ExpenseType) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_types (name, is_default) VALUES (?, ?)", t.Name, t.Default)
	if err != nil {
		return fmt.Errorf("failed to create expense type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense type id: %w", err)
	}
	t.ID = int(id)
	return nil
}
