package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	bRouter := billsRouter()
	mux.Handle("/bills/", bRouter)

	tRouter := typesRouter()
	mux.Handle("/types/", tRouter)

	gRouter := groupsRouter()
	mux.Handle("/groups/", gRouter)

	return mux
}
