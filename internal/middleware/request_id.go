package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

type contextKey string

const ContextKeyRequestID contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation ID, echoing an
// inbound X-Request-ID when the caller supplies one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)

		utils.Logger.WithField("request_id", requestID).
			Debugf("%s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
