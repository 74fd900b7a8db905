package httpapi

import (
	"net/http"
	"strings"

	"tranghoa.org/internal/auth"
	"tranghoa.org/internal/orders"
)

// publicPath lists routes reachable without a bearer token.
func publicPath(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics", "/v1/info", "/v1/auth/login", "/":
		return true
	}
	return false
}

// withAuth validates the bearer token and resolves the caller's identity from
// the account store. The token only carries the subject and selected station;
// role always comes from storage.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPath(r.URL.Path) || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		identity, err := a.auth.ResolveIdentity(r.Context(), claims.Subject, orders.Station(claims.Station))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "unknown account")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireRole guards a handler behind a minimum set of roles.
func requireRole(w http.ResponseWriter, r *http.Request, allowed ...orders.Role) (orders.Identity, bool) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return orders.Identity{}, false
	}
	for _, role := range allowed {
		if identity.Role == role {
			return identity, true
		}
	}
	writeError(w, r, http.StatusForbidden, "insufficient role")
	return orders.Identity{}, false
}
