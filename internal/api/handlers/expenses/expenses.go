package expenses

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"houseledger/internal/api/handlers"
	"houseledger/internal/models"
	"houseledger/internal/repositories/sqlconnect"
	"houseledger/pkg/utils"
)

// FUNC TO CREATE AN EXPENSE
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.CurrentUserID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Date    string          `json:"date"`
		Amount  decimal.Decimal `json:"amount"`
		TypeID  int             `json:"type_id"`
		GroupID int             `json:"group_id"`
		Comment string          `json:"comment"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Amount.Exponent() < -2 {
		utils.WriteError(w, "amount must have at most 2 decimal places", http.StatusBadRequest)
		return
	}

	expenseDate := time.Now().Format("2006-01-02")
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.WriteError(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expenseDate = parsed.Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)

	typeID := req.TypeID
	if typeID == 0 {
		defaultType, err := store.DefaultType(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.WriteError(w, "no expense types configured", http.StatusBadRequest)
				return
			}
			utils.WriteError(w, "failed to resolve expense type", http.StatusInternalServerError)
			return
		}
		typeID = defaultType.ID
	}

	userGroups, err := store.UserGroups(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch user groups: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(userGroups) == 0 {
		utils.WriteError(w, "you do not belong to any expense group", http.StatusBadRequest)
		return
	}

	groupID := req.GroupID
	if groupID == 0 {
		groupID = userGroups[0].ID
	} else {
		member := false
		for _, g := range userGroups {
			if g.ID == groupID {
				member = true
				break
			}
		}
		if !member {
			utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
			return
		}
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO expenses (date, user_id, amount, type_id, group_id, comment, billed) VALUES (?, ?, ?, ?, ?, ?, FALSE)",
		expenseDate, userID, req.Amount, typeID, groupID, req.Comment)
	if err != nil {
		utils.Logger.Errorf("failed to create expense: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	expenseID, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to read expense id: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}
	expense, err := store.GetExpense(ctx, int(expenseID))
	if err != nil {
		utils.WriteError(w, "failed to load created expense", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   expense,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO LIST EXPENSES VISIBLE TO THE CURRENT USER
func GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseList, err := store.ListExpenses(ctx, filter)
	if err != nil {
		utils.Logger.Errorf("failed to list expenses: %v", err)
		utils.WriteError(w, "failed to fetch expenses", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   expenseList,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET A SINGLE EXPENSE
func GetExpenseByIdHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	expense, err := store.GetExpense(ctx, expenseID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch expense", http.StatusInternalServerError)
		return
	}

	if !handlers.IsSuperuser(r) {
		visible, err := isGroupMember(ctx, db, expense.GroupID, userID)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
		if !visible {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   expense,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO UPDATE AN EXPENSE
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	type request struct {
		Date    string           `json:"date"`
		Amount  *decimal.Decimal `json:"amount"`
		TypeID  int              `json:"type_id"`
		GroupID int              `json:"group_id"`
		Comment *string          `json:"comment"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	expense, err := store.GetExpense(ctx, expenseID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch expense", http.StatusInternalServerError)
		return
	}

	if expense.UserID != userID && !handlers.IsSuperuser(r) {
		utils.WriteError(w, "you can only change your own entries", http.StatusForbidden)
		return
	}
	if expense.Billed {
		utils.WriteError(w, "billed expenses can no longer be edited", http.StatusConflict)
		return
	}

	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
			return
		}
		if req.Amount.Exponent() < -2 {
			utils.WriteError(w, "amount must have at most 2 decimal places", http.StatusBadRequest)
			return
		}
		expense.Amount = *req.Amount
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.WriteError(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expense.Date = parsed
	}
	if req.TypeID != 0 {
		expense.TypeID = req.TypeID
	}
	if req.GroupID != 0 && req.GroupID != expense.GroupID {
		member, err := isGroupMember(ctx, db, req.GroupID, expense.UserID)
		if err != nil {
			utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
			return
		}
		if !member {
			utils.WriteError(w, "the owner is not a member of this group", http.StatusForbidden)
			return
		}
		expense.GroupID = req.GroupID
	}
	if req.Comment != nil {
		expense.Comment = *req.Comment
	}

	_, err = db.ExecContext(ctx,
		"UPDATE expenses SET date = ?, amount = ?, type_id = ?, group_id = ?, comment = ? WHERE id = ?",
		expense.Date.Format("2006-01-02"), expense.Amount, expense.TypeID, expense.GroupID, expense.Comment, expenseID)
	if err != nil {
		utils.Logger.Errorf("failed to update expense: %v", err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	updated, err := store.GetExpense(ctx, expenseID)
	if err != nil {
		utils.WriteError(w, "failed to load updated expense", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   updated,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO DELETE AN EXPENSE
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	expense, err := store.GetExpense(ctx, expenseID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch expense", http.StatusInternalServerError)
		return
	}

	if expense.UserID != userID && !handlers.IsSuperuser(r) {
		utils.WriteError(w, "you can only delete your own entries", http.StatusForbidden)
		return
	}
	if expense.Billed && !handlers.IsSuperuser(r) {
		utils.WriteError(w, "billed expenses can no longer be deleted", http.StatusConflict)
		return
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		utils.Logger.Errorf("failed to delete expense: %v", err)
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"message": "expense deleted",
	}

	utils.WriteJSON(w, response)
}

// visibleFilter builds the base filter for the caller: superusers see every
// group, everyone else only the groups they belong to.
func visibleFilter(ctx context.Context, store *sqlconnect.Store, userID int, superuser bool) (models.ExpenseFilter, error) {
	if superuser {
		return models.ExpenseFilter{}, nil
	}

	groups, err := store.UserGroups(ctx, userID)
	if err != nil {
		return models.ExpenseFilter{}, err
	}

	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return models.ExpenseFilter{VisibleGroupIDs: ids}, nil
}

func applyQueryFilters(r *http.Request, filter *models.ExpenseFilter) error {
	var err error
	if filter.UserID, err = handlers.QueryInt(r, "user_id"); err != nil {
		return errInvalidParam("user_id")
	}
	if filter.TypeID, err = handlers.QueryInt(r, "type_id"); err != nil {
		return errInvalidParam("type_id")
	}
	if filter.GroupID, err = handlers.QueryInt(r, "group_id"); err != nil {
		return errInvalidParam("group_id")
	}
	if filter.From, err = handlers.QueryDate(r, "from"); err != nil {
		return errInvalidParam("from")
	}
	if filter.To, err = handlers.QueryDate(r, "to"); err != nil {
		return errInvalidParam("to")
	}
	filter.Unbilled = r.URL.Query().Get("unbilled") == "true"
	return nil
}

func isGroupMember(ctx context.Context, db *sql.DB, groupID, userID int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)",
		groupID, userID).Scan(&exists)
	return exists, err
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return "invalid query parameter: " + string(e)
}
