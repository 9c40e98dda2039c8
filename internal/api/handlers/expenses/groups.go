package expenses

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"houseledger/internal/api/handlers"
	"houseledger/internal/models"
	"houseledger/internal/repositories/sqlconnect"
	"houseledger/pkg/utils"
)

type groupWithTotal struct {
	models.Group
	Total decimal.Decimal `json:"total"`
}

// FUNC TO LIST GROUPS WITH MEMBERS AND EXPENSE TOTALS
func GetGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.CurrentUserID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)

	var (
		groups []models.Group
		err    error
	)
	if handlers.IsSuperuser(r) {
		groups, err = store.ListGroups(ctx)
	} else {
		groups, err = store.UserGroups(ctx, userID)
	}
	if err != nil {
		utils.Logger.Errorf("failed to list groups: %v", err)
		utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
		return
	}

	result := make([]groupWithTotal, 0, len(groups))
	for _, group := range groups {
		total, err := groupTotal(ctx, db, group.ID)
		if err != nil {
			utils.Logger.Errorf("failed to total group %d: %v", group.ID, err)
			utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
			return
		}
		result = append(result, groupWithTotal{Group: group, Total: total})
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   result,
	}

	utils.WriteJSON(w, response)
}

func groupTotal(ctx context.Context, db *sql.DB, groupID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = ?",
		groupID).Scan(&total)
	return total, err
}
