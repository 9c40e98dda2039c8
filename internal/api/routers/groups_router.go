package routers

import (
	"net/http"

	"houseledger/internal/api/handlers/expenses"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/", expenses.GetGroupsHandler)

	return mux
}
