package httpapi

import (
	"net/http"
	"time"

	"tranghoa.org/internal/audit"
	"tranghoa.org/internal/orders"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Station  string `json:"station"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Station   string `json:"station"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := a.auth.Login(r.Context(), req.Email, req.Password, orders.Station(req.Station))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "login", map[string]any{
		"account_id": session.Identity.AccountID,
		"station":    string(session.Identity.Station),
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		AccountID: session.Identity.AccountID,
		Name:      session.Identity.Name,
		Role:      string(session.Identity.Role),
		Station:   string(session.Identity.Station),
	})
}
