package httpapi

import (
	"net/http"
	"time"

	"tranghoa.org/internal/orders"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	if _, ok := requireRole(w, r, orders.RoleManager, orders.RoleAdmin); !ok {
		return
	}
	stats, err := a.orders.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	day := time.Now()
	if raw := q.Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be yyyy-mm-dd")
			return
		}
		day = parsed
	}

	station := identity.Station
	if raw := q.Get("station"); raw != "" {
		parsed, err := orders.ParseStation(raw)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		station = parsed
	}

	report, err := a.orders.Daily(r.Context(), day, station)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
