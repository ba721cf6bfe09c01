package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/supplyscore/supplyscore/internal/identity"
)

// CORS wraps an http.Handler with CORS headers for cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type ctxKey int

const callerKey ctxKey = 0

// Auth returns middleware that resolves the Authorization bearer token to a
// caller identity and stores it on the request context. Requests without a
// valid token get a 401.
func Auth(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			caller, err := provider.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// caller returns the authenticated identity stored by Auth. Handlers are
// only reachable through Auth, so a missing identity means a wiring bug and
// comes back as the zero Identity, which fails every authorization check.
func caller(r *http.Request) identity.Identity {
	id, _ := r.Context().Value(callerKey).(identity.Identity)
	return id
}
