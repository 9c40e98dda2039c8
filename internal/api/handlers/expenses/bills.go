package expenses

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"houseledger/internal/api/handlers"
	"houseledger/internal/models"
	"houseledger/internal/repositories/sqlconnect"
	"houseledger/internal/services"
	"houseledger/pkg/utils"
)

// FUNC TO ISSUE A BILL OVER ALL UNBILLED EXPENSES
func IssueBillHandler(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "only administrators can issue bills", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)

	filter := models.ExpenseFilter{}
	if err := applyQueryFilters(r, &filter); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bill, err := services.IssueBill(ctx, store, filter)
	if err != nil {
		if err == services.ErrExpensesClaimed {
			utils.WriteError(w, "expenses were billed concurrently, try again", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to issue bill: %v", err)
		utils.WriteError(w, "failed to issue bill", http.StatusInternalServerError)
		return
	}

	if bill == nil {
		response := map[string]interface{}{
			"status":  "success",
			"message": "no unbilled expenses, nothing to do",
		}
		utils.WriteJSON(w, response)
		return
	}

	summary, err := services.Summarize(ctx, store, models.ExpenseFilter{}, bill)
	if err != nil {
		utils.Logger.Errorf("failed to summarize bill %s: %v", bill.BillNo, err)
		utils.WriteError(w, "bill issued but summary failed", http.StatusInternalServerError)
		return
	}

	go notifyBillIssued(bill, summary)

	response := map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"bill":    bill,
			"summary": summary,
		},
	}

	utils.WriteJSON(w, response)
}

// notifyBillIssued emails every member of the involved groups about the new
// bill. Failures are logged, never surfaced to the issuer.
func notifyBillIssued(bill *models.Bill, summary *models.Summary) {
	total := summary.Expenses.Total.StringFixed(2)

	issuedAt := time.Now()
	if bill.CreatedAt.Valid {
		if parsed, err := time.Parse("2006-01-02 15:04:05", bill.CreatedAt.String); err == nil {
			issuedAt = parsed
		}
	}

	var wg sync.WaitGroup
	for _, group := range summary.Groups {
		for _, member := range group.Members {
			wg.Add(1)
			go func(email, username, groupName string) {
				defer wg.Done()
				if err := utils.SendBillIssuedEmail(email, username, bill.BillNo, groupName, total, issuedAt); err != nil {
					utils.Logger.Errorf("failed to send bill email to %s: %v", email, err)
				}
			}(member.Email, member.Username, group.Name)
		}
	}
	wg.Wait()
}

// FUNC TO LIST ALL BILLS
func ListBillsHandler(w http.ResponseWriter, r *http.Request) {
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

	// Non-superusers only see bills that touch their own groups.
	var bills []models.Bill
	var err error
	if handlers.IsSuperuser(r) {
		bills, err = store.ListBills(ctx)
	} else {
		filter, ferr := visibleFilter(ctx, store, userID, false)
		if ferr != nil {
			utils.Logger.Errorf("failed to resolve visibility: %v", ferr)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		bills, err = store.ListBillsForGroups(ctx, filter.VisibleGroupIDs)
	}
	if err != nil {
		utils.Logger.Errorf("failed to list bills: %v", err)
		utils.WriteError(w, "failed to fetch bills", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   bills,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET A SINGLE BILL
func GetBillHandler(w http.ResponseWriter, r *http.Request) {
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

	billID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid bill ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	bill, err := store.GetBill(ctx, billID)
	if err != nil {
		if err == services.ErrBillNotFound {
			utils.WriteError(w, "bill not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch bill", http.StatusInternalServerError)
		return
	}

	filter, err := visibleFilter(ctx, store, userID, handlers.IsSuperuser(r))
	if err != nil {
		utils.Logger.Errorf("failed to resolve visibility: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	summary, err := services.Summarize(ctx, store, filter, bill)
	if err != nil {
		utils.Logger.Errorf("failed to summarize bill %s: %v", bill.BillNo, err)
		utils.WriteError(w, "failed to summarize bill", http.StatusInternalServerError)
		return
	}

	// A bill with nothing in the caller's groups does not exist for them.
	if !handlers.IsSuperuser(r) && summary.Expenses.Count == 0 {
		utils.WriteError(w, "bill not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   summary,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO CLOSE A BILL
func CloseBillHandler(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "only administrators can close bills", http.StatusForbidden)
		return
	}

	billID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid bill ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	bill, err := services.CloseBill(ctx, store, billID)
	if err != nil {
		switch err {
		case services.ErrBillNotFound:
			utils.WriteError(w, "bill not found", http.StatusNotFound)
		case services.ErrBillClosed:
			utils.WriteError(w, "bill is already closed", http.StatusConflict)
		default:
			utils.Logger.Errorf("failed to close bill: %v", err)
			utils.WriteError(w, "failed to close bill", http.StatusInternalServerError)
		}
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"data":   bill,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO RESET A BILL AND RELEASE ITS EXPENSES
func ResetBillHandler(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "only administrators can reset bills", http.StatusForbidden)
		return
	}

	billID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid bill ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	store := sqlconnect.NewStore(db)
	if err := services.ResetBill(ctx, store, billID); err != nil {
		if err == services.ErrBillNotFound {
			utils.WriteError(w, "bill not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to reset bill: %v", err)
		utils.WriteError(w, "failed to reset bill", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"message": "bill expenses released",
	}

	utils.WriteJSON(w, response)
}
