package expenses

import (
	"context"
	"net/http"
	"time"

	"houseledger/internal/api/handlers"
	"houseledger/internal/models"
	"houseledger/internal/repositories/sqlconnect"
	"houseledger/internal/services"
	"houseledger/pkg/utils"
)

// FUNC TO SUMMARIZE EXPENSES AND SPLIT THE TOTAL
func GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
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

	filter, err := visibleFilter(ctx, store, userID, handlers.IsSuperuser(r))
	if err != nil {
		utils.Logger.Errorf("failed to resolve visibility: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := applyQueryFilters(r, &filter); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// An unknown bill_id falls back to an unfiltered summary instead of
	// failing the request.
	var bill *models.Bill
	billID, err := handlers.QueryInt(r, "bill_id")
	if err != nil {
		utils.WriteError(w, "invalid query parameter: bill_id", http.StatusBadRequest)
		return
	}
	if billID != nil {
		bill, err = store.GetBill(ctx, *billID)
		if err != nil && err != services.ErrBillNotFound {
			utils.WriteError(w, "failed to fetch bill", http.StatusInternalServerError)
			return
		}
	}

	summary, err := services.Summarize(ctx, store, filter, bill)
	if err != nil {
		utils.Logger.Errorf("failed to build summary: %v", err)
		utils.WriteError(w, "failed to build summary", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   summary,
	}

	utils.WriteJSON(w, response)
}
