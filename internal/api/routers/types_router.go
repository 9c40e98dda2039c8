package routers

import (
	"net/http"

	"houseledger/internal/api/handlers/expenses"
)

func typesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/types/", expenses.GetTypesHandler)

	mux.HandleFunc("/types/create", expenses.CreateTypeHandler)

	return mux
}
