package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/satbase/admin-be/internal/http/respond"
)

// Recovery converts a handler panic into a generic 500. The panic value and
// stack stay in server logs only.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				respond.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
