package auth

import (
	"net/http"
	"strings"
)

// HTTPMiddleware requires a valid bearer token on the mutating /v1 routes.
func HTTPMiddleware(next http.Handler, jwtSecret string) http.Handler {
	secret := []byte(jwtSecret)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := authenticate(r.Header.Get("Authorization"), secret)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="simbiz"`)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// isProtectedRequest reports whether r targets a mutating gateway route.
// Every write under /v1/ maps to one of MutatingMethods.
func isProtectedRequest(r *http.Request) bool {
	if !strings.HasPrefix(r.URL.Path, "/v1/") {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodDelete, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
