package routers

import (
	"net/http"

	"houseledger/internal/api/handlers/expenses"
)

func billsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/bills/issue", expenses.IssueBillHandler)

	mux.HandleFunc("/bills/", expenses.ListBillsHandler)

	mux.HandleFunc("/bills/{id}", expenses.GetBillHandler)

	mux.HandleFunc("/bills/{id}/close", expenses.CloseBillHandler)

	mux.HandleFunc("/bills/{id}/reset", expenses.ResetBillHandler)

	return mux
}
