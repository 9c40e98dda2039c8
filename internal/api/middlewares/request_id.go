package middlewares

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"houseledger/pkg/utils"
)

// RequestID tags every request with a short id and logs start/finish with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()

		ctx := context.WithValue(r.Context(), utils.ContextKey("requestId"), requestID)
		w.Header().Set("X-Request-ID", requestID)

		utils.Logger.WithField("request_id", requestID).
			Debugf("%s %s started", r.Method, r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))

		utils.Logger.WithField("request_id", requestID).
			Debugf("%s %s completed in %dms", r.Method, r.URL.Path, time.Since(start).Milliseconds())
	})
}

func newRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "req_fallback"
	}
	return "req_" + hex.EncodeToString(bytes)
}
