package handlers

import (
	"net/http"
	"strconv"
	"time"

	"houseledger/pkg/utils"
)

// CurrentUserID reads the authenticated user's id from the request context.
// JWT claims decode numbers as float64.
func CurrentUserID(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

func IsSuperuser(r *http.Request) bool {
	superuser, ok := r.Context().Value(utils.ContextKey("superuser")).(bool)
	return ok && superuser
}

// QueryInt parses an optional integer query parameter. A missing parameter
// yields (nil, nil).
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
