package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewaresExcludePaths(t *testing.T) {
	var applied bool
	mw := Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applied = true
			next.ServeHTTP(w, r)
		})
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := MiddlewaresExcludePaths(mw, "/users/login")(next)

	tests := []struct {
		name        string
		path        string
		wantApplied bool
	}{
		{"excluded path skips middleware", "/users/login", false},
		{"excluded prefix skips middleware", "/users/login/extra", false},
		{"other path runs middleware", "/expenses/", true},
		{"sibling path runs middleware", "/users/logout", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied = false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantApplied, applied)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/expenses/", nil)

	SecurityHeaders(next).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestIDSetsHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/expenses/", nil)

	RequestID(next).ServeHTTP(rec, req)

	assert.Regexp(t, "^req_[0-9a-f]{16}$", rec.Header().Get("X-Request-ID"))
}
