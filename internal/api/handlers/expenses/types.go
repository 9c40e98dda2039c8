package expenses

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"houseledger/internal/api/handlers"
	"houseledger/internal/models"
	"houseledger/internal/repositories/sqlconnect"
	"houseledger/pkg/utils"
)

// FUNC TO LIST EXPENSE TYPES
func GetTypesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	types, err := store.ListTypes(ctx)
	if err != nil {
		utils.Logger.Errorf("failed to list expense types: %v", err)
		utils.WriteError(w, "failed to fetch expense types", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   types,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO CREATE AN EXPENSE TYPE
func CreateTypeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !handlers.IsSuperuser(r) {
		utils.WriteError(w, "only administrators can create expense types", http.StatusForbidden)
		return
	}

	type request struct {
		Name    string `json:"name"`
		Default bool   `json:"default"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	expenseType := models.ExpenseType{Name: req.Name, Default: req.Default}
	if err := store.CreateType(ctx, &expenseType); err != nil {
		utils.Logger.Errorf("failed to create expense type: %v", err)
		utils.WriteError(w, "failed to create expense type", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   expenseType,
	}

	utils.WriteJSON(w, response)
}
