package httpapi

import (
	"net/http"
	"strings"

	"tranghoa.org/internal/audit"
	"tranghoa.org/internal/auth"
)

func (a *API) handleEmployeesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEmployees(w, r)
	case http.MethodPost:
		a.createEmployee(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) handleEmployeeResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodPut:
		a.updateEmployee(w, r, id)
	case http.MethodDelete:
		a.deleteEmployee(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	accounts, err := a.auth.ListEmployees(r.Context(), identity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employees": accounts,
		"count":     len(accounts),
	})
}

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var input auth.NewEmployee
	if !decodeJSON(w, r, &input) {
		return
	}
	account, err := a.auth.CreateEmployee(r.Context(), identity, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "employee_created", map[string]any{
		"account_id": account.ID,
		"role":       string(account.Role),
	})
	writeJSON(w, http.StatusCreated, account)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var change auth.RoleChange
	if !decodeJSON(w, r, &change) {
		return
	}
	account, err := a.auth.UpdateEmployee(r.Context(), identity, id, change)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "employee_updated", map[string]any{
		"account_id": account.ID,
		"role":       string(account.Role),
		"station":    string(account.Station),
	})
	writeJSON(w, http.StatusOK, account)
}

func (a *API) deleteEmployee(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	if err := a.auth.DeleteEmployee(r.Context(), identity, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "employee_deleted", map[string]any{"account_id": id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
