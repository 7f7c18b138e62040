package middleware

import (
	"net/http"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

// Recovery converts panics into a generic 500 JSON body. Stack traces
// stay in the server log, never in the response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.Logger.Errorf("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				utils.RespondErrorWithCode(
					w, http.StatusInternalServerError, utils.ErrCodeInternal, "An unexpected error occurred", nil,
				)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
