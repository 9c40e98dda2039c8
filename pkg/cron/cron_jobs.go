package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"houseledger/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every Monday at 08:00 — remind members about unbilled expenses
	_, err := c.AddFunc("0 8 * * 1", func() {
		err := SendUnbilledReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send unbilled reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule unbilled reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (unbilled reminders every Monday at 08:00)")
	return c
}

// -------------------------------------------------------------
// Remind every group member about expenses not yet on a bill
// (email sends run concurrently)
// -------------------------------------------------------------
func SendUnbilledReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.email,
			u.username,
			g.name AS group_name,
			SUM(e.amount) AS total_unbilled,
			COUNT(e.id) AS expense_count
		FROM expenses e
		JOIN expense_groups g ON e.group_id = g.id
		JOIN group_members gm ON gm.group_id = g.id
		JOIN users u ON gm.user_id = u.id
		WHERE e.billed = FALSE AND e.bill_id IS NULL
		GROUP BY u.id, g.id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, username, groupName string
			totalUnbilled              decimal.Decimal
			expenseCount               int
		)

		if err := rows.Scan(
			&email,
			&username,
			&groupName,
			&totalUnbilled,
			&expenseCount,
		); err != nil {
			utils.Logger.Errorf("Failed to scan reminder row: %v", err)
			continue
		}

		wg.Add(1)
		go func(email, username, groupName string, total decimal.Decimal, count int) {
			defer wg.Done()

			if err := utils.SendUnbilledReminderEmail(
				email,
				username,
				groupName,
				total.StringFixed(2),
				count,
			); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("📧 Sent unbilled reminder to %s (%s) — %s over %d expenses in '%s'",
				username, email, total.StringFixed(2), count, groupName)
		}(email, username, groupName, totalUnbilled, expenseCount)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating reminder rows: %v", err)
		return err
	}

	utils.Logger.Info("✅ Finished sending unbilled reminder emails.")
	return nil
}
