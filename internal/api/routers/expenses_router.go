package routers

import (
	"net/http"

	"houseledger/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses/", expenses.GetExpensesHandler)

	mux.HandleFunc("/expenses/summary", expenses.GetSummaryHandler)

	mux.HandleFunc("/expenses/{id}", expenses.GetExpenseByIdHandler)

	mux.HandleFunc("/expenses/{id}/update", expenses.UpdateExpenseHandler)

	mux.HandleFunc("/expenses/delete/{id}", expenses.DeleteExpenseHandler)

	return mux
}
