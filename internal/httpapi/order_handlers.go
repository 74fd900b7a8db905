package httpapi

import (
	"net/http"
	"strings"
	"time"

	"tranghoa.org/internal/audit"
	"tranghoa.org/internal/obs"
	"tranghoa.org/internal/orders"
)

type orderDetail struct {
	orders.Order
	Editable bool `json:"editable"`
}

type orderList struct {
	Orders []orders.Order `json:"orders"`
	Count  int            `json:"count"`
}

func (a *API) handleOrdersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listOrders(w, r)
	case http.MethodPost:
		a.createOrder(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

// handleOrdersResource dispatches /v1/orders/{id}, /v1/orders/{id}/payment,
// /v1/orders/{id}/delivery and /v1/orders/batches.
func (a *API) handleOrdersResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/orders/")
	if rest == "batches" {
		a.listBatches(w, r)
		return
	}
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			a.getOrder(w, r, id)
		case http.MethodPut:
			a.updateOrder(w, r, id)
		case http.MethodDelete:
			a.deleteOrder(w, r, id)
		default:
			methodNotAllowed(w, r)
		}
	case "payment":
		a.markPaid(w, r, id)
	case "delivery":
		a.markDelivered(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	view, err := orders.ParseView(q.Get("view"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	f := orders.Filter{
		Date:  dateFilterFromQuery(q.Get("date"), q.Get("from"), q.Get("to")),
		Query: q.Get("q"),
	}
	// Unrecognized station/payment values widen to "no filter", same as the
	// date keywords: a typo must never hide the day's freight.
	if station, err := orders.ParseStation(q.Get("station")); err == nil {
		f.Station = station
	}
	if payment, err := orders.ParsePaymentStatus(q.Get("payment")); err == nil {
		f.Payment = payment
	}
	list, err := a.orders.List(r.Context(), identity, view, f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderList{Orders: list, Count: len(list)})
}

func dateFilterFromQuery(date, from, to string) orders.DateFilter {
	if from != "" || to != "" {
		parseDay := func(s string) time.Time {
			t, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				return time.Time{}
			}
			return t
		}
		return orders.DateRangeFilter(parseDay(from), parseDay(to))
	}
	return orders.ParseDateFilter(date)
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var draft orders.Draft
	if !decodeJSON(w, r, &draft) {
		return
	}
	o, err := a.orders.Create(r.Context(), identity, draft)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	obs.OrderCreated()
	audit.LogEvent(r.Context(), "order_created", map[string]any{
		"order_id": o.ID,
		"code":     o.Code,
	})
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	o, err := a.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dec := orders.CanEdit(identity, o, time.Now())
	writeJSON(w, http.StatusOK, orderDetail{Order: o, Editable: dec.Allowed})
}

func (a *API) updateOrder(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	var draft orders.Draft
	if !decodeJSON(w, r, &draft) {
		return
	}
	o, err := a.orders.Update(r.Context(), identity, id, draft)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "order_updated", map[string]any{"order_id": o.ID})
	writeJSON(w, http.StatusOK, o)
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	if err := a.orders.Delete(r.Context(), identity, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "order_deleted", map[string]any{"order_id": id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) markPaid(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	o, err := a.orders.MarkPaid(r.Context(), identity, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	obs.PaymentCollected()
	audit.LogEvent(r.Context(), "payment_collected", map[string]any{
		"order_id": o.ID,
		"cost":     o.Cost,
	})
	writeJSON(w, http.StatusOK, o)
}

func (a *API) markDelivered(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	o, err := a.orders.MarkDelivered(r.Context(), identity, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	audit.LogEvent(r.Context(), "order_delivered", map[string]any{"order_id": o.ID})
	writeJSON(w, http.StatusOK, o)
}

func (a *API) listBatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}
	date := orders.ParseDateFilter(r.URL.Query().Get("date"))
	batches, err := a.orders.Batches(r.Context(), identity, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"batches": batches,
		"count":   len(batches),
	})
}
