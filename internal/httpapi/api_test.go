package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tranghoa.org/internal/auth"
	"tranghoa.org/internal/orders"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestAPI(t *testing.T) (*apiClient, *orders.InMemory, *auth.InMemoryAccountStore) {
	t.Helper()
	t.Setenv("TRANGHOA_AUTH_SECRET", "httpapi-test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	orderStore := orders.NewInMemory()
	accountStore := auth.NewInMemoryAccountStore()
	api := New(Options{
		Version:    "test",
		Orders:     orders.NewService(orderStore, orders.WithCodeGenerator(func() string { return "VD1234" })),
		Auth:       auth.NewService(accountStore),
		RateBurst:  1000,
		RatePerSec: 1000,
	})
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	return &apiClient{t: t, server: server}, orderStore, accountStore
}

func seedTestAccount(t *testing.T, store *auth.InMemoryAccountStore, id, email string, role orders.Role, station orders.Station) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := store.Create(context.Background(), &auth.Account{
		ID:           id,
		Email:        email,
		Name:         "Test " + id,
		Role:         role,
		Station:      station,
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func (c *apiClient) login(email, station string) {
	c.t.Helper()
	resp, raw := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
		"station":  station,
	})
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login: status %d, body %s", resp.StatusCode, raw)
	}
	var session loginResponse
	if err := json.Unmarshal(raw, &session); err != nil {
		c.t.Fatalf("decode login: %v", err)
	}
	c.token = session.Token
}

func decodeBody[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return out
}

var testOrderBody = map[string]any{
	"sender_station":   "HT",
	"receiver_station": "SG",
	"sender_name":      "Nguyễn Văn An",
	"sender_phone":     "0901234567",
	"receiver_name":    "Trần Thị Bích",
	"receiver_phone":   "0907654321",
	"goods_type":       "Hàng khô",
	"quantity":         2,
	"cost":             50000,
}

func TestHealthAndInfoArePublic(t *testing.T) {
	client, _, _ := newTestAPI(t)

	resp, _ := client.do(http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status %d", resp.StatusCode)
	}
	resp, raw := client.do(http.MethodGet, "/v1/info", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/v1/info status %d", resp.StatusCode)
	}
	info := decodeBody[map[string]string](t, raw)
	if info["service"] != "tranghoa-api" {
		t.Fatalf("info = %v", info)
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	client, _, _ := newTestAPI(t)

	resp, _ := client.do(http.MethodGet, "/v1/orders", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}

	client.token = "not-a-real-token"
	resp, _ = client.do(http.MethodGet, "/v1/orders", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", resp.StatusCode)
	}
}

func TestOrderLifecycle(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)
	client.login("staff@tranghoa.vn", "")

	// Create.
	resp, raw := client.do(http.MethodPost, "/v1/orders", testOrderBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", resp.StatusCode, raw)
	}
	created := decodeBody[orders.Order](t, raw)
	if created.Code != "VD1234" || created.PaymentStatus != orders.Unpaid {
		t.Fatalf("created = %+v", created)
	}

	// The creator sees it outbound with the edit affordance set.
	resp, raw = client.do(http.MethodGet, "/v1/orders/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	detail := decodeBody[struct {
		orders.Order
		Editable bool `json:"editable"`
	}](t, raw)
	if !detail.Editable {
		t.Fatal("same-day creator must see editable=true")
	}

	resp, raw = client.do(http.MethodGet, "/v1/orders?view=outbound", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	list := decodeBody[orderList](t, raw)
	if list.Count != 1 {
		t.Fatalf("list count = %d", list.Count)
	}

	// Collect payment: both status flags flip.
	resp, raw = client.do(http.MethodPost, "/v1/orders/"+created.ID+"/payment", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment: status %d, body %s", resp.StatusCode, raw)
	}
	paid := decodeBody[orders.Order](t, raw)
	if paid.PaymentStatus != orders.Paid || paid.DeliveryStatus != orders.Delivered {
		t.Fatalf("after payment = %s/%s", paid.PaymentStatus, paid.DeliveryStatus)
	}

	// Update the receiver details.
	update := map[string]any{}
	for k, v := range testOrderBody {
		update[k] = v
	}
	update["receiver_name"] = "Phạm Văn Dũng"
	resp, raw = client.do(http.MethodPut, "/v1/orders/"+created.ID, update)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d, body %s", resp.StatusCode, raw)
	}
	updated := decodeBody[orders.Order](t, raw)
	if updated.ReceiverName != "Phạm Văn Dũng" {
		t.Fatalf("ReceiverName = %q", updated.ReceiverName)
	}

	// Staff cannot delete.
	resp, _ = client.do(http.MethodDelete, "/v1/orders/"+created.ID, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff delete: status %d, want 403", resp.StatusCode)
	}
}

func TestOrderCreateValidationSurfacesAs400(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)
	client.login("staff@tranghoa.vn", "")

	bad := map[string]any{}
	for k, v := range testOrderBody {
		bad[k] = v
	}
	bad["receiver_station"] = "HT" // same as sender
	resp, _ := client.do(http.MethodPost, "/v1/orders", bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}

	resp, _ = client.do(http.MethodPost, "/v1/orders", map[string]any{"unknown_field": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status %d, want 400", resp.StatusCode)
	}
}

func TestListFilterTyposWidenToNoFilter(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)
	client.login("staff@tranghoa.vn", "")

	for i := 0; i < 2; i++ {
		resp, raw := client.do(http.MethodPost, "/v1/orders", testOrderBody)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: status %d, body %s", resp.StatusCode, raw)
		}
	}

	// Mistyped station and payment values must not hide any orders.
	for _, path := range []string{
		"/v1/orders?station=XX",
		"/v1/orders?payment=WHOOPS",
		"/v1/orders?station=XX&payment=PAYED&date=tomorow",
	} {
		resp, raw := client.do(http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
		list := decodeBody[orderList](t, raw)
		if list.Count != 2 {
			t.Fatalf("%s: count = %d, want 2", path, list.Count)
		}
	}

	// Valid values still narrow.
	resp, raw := client.do(http.MethodGet, "/v1/orders?payment=PAID", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if list := decodeBody[orderList](t, raw); list.Count != 0 {
		t.Fatalf("paid filter count = %d, want 0", list.Count)
	}
}

func TestAllViewRequiresAdmin(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-mgr", "mgr@tranghoa.vn", orders.RoleManager, orders.StationPA)
	seedTestAccount(t, accounts, "acc-adm", "admin@tranghoa.vn", orders.RoleAdmin, orders.StationSG)

	client.login("mgr@tranghoa.vn", "PA")
	resp, _ := client.do(http.MethodGet, "/v1/orders?view=all", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("manager all view: status %d, want 403", resp.StatusCode)
	}

	client.login("admin@tranghoa.vn", "SG")
	resp, _ = client.do(http.MethodGet, "/v1/orders?view=all", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin all view: status %d, want 200", resp.StatusCode)
	}
}

func TestBatchesGroupInboundOrders(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-adm", "admin@tranghoa.vn", orders.RoleAdmin, orders.StationSG)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationSG)
	client.login("admin@tranghoa.vn", "HT")

	// Two orders HT -> SG land in one batch for the SG dock.
	body := map[string]any{}
	for k, v := range testOrderBody {
		body[k] = v
	}
	for i := 0; i < 2; i++ {
		resp, raw := client.do(http.MethodPost, "/v1/orders", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: status %d, body %s", resp.StatusCode, raw)
		}
	}

	client.login("staff@tranghoa.vn", "")
	resp, raw := client.do(http.MethodGet, "/v1/orders/batches", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("batches: status %d, body %s", resp.StatusCode, raw)
	}
	out := decodeBody[struct {
		Batches []orders.Batch `json:"batches"`
		Count   int            `json:"count"`
	}](t, raw)
	if out.Count != 1 {
		t.Fatalf("batch count = %d, want 1", out.Count)
	}
	if out.Batches[0].Count != 2 || out.Batches[0].SenderStation != orders.StationHT {
		t.Fatalf("batch = %+v", out.Batches[0])
	}
}

func TestDashboardRequiresManager(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)
	seedTestAccount(t, accounts, "acc-mgr", "mgr@tranghoa.vn", orders.RoleManager, orders.StationPA)

	client.login("staff@tranghoa.vn", "")
	resp, _ := client.do(http.MethodGet, "/v1/reports/dashboard", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff dashboard: status %d, want 403", resp.StatusCode)
	}

	client.login("mgr@tranghoa.vn", "PA")
	resp, raw := client.do(http.MethodGet, "/v1/reports/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("manager dashboard: status %d, body %s", resp.StatusCode, raw)
	}
	stats := decodeBody[orders.DashboardStats](t, raw)
	if stats.TotalOrders != 0 {
		t.Fatalf("TotalOrders = %d", stats.TotalOrders)
	}
}

func TestDailyReport(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)
	client.login("staff@tranghoa.vn", "")

	resp, raw := client.do(http.MethodPost, "/v1/orders", testOrderBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}

	resp, raw = client.do(http.MethodGet, "/v1/reports/daily", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("daily: status %d, body %s", resp.StatusCode, raw)
	}
	report := decodeBody[orders.DailyReport](t, raw)
	if len(report.Orders) != 1 {
		t.Fatalf("daily orders = %d", len(report.Orders))
	}

	resp, _ = client.do(http.MethodGet, "/v1/reports/daily?date=03-10-2026", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date: status %d, want 400", resp.StatusCode)
	}
}

func TestEmployeeProvisioning(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-adm", "admin@tranghoa.vn", orders.RoleAdmin, orders.StationSG)
	seedTestAccount(t, accounts, "acc-staff", "staff@tranghoa.vn", orders.RoleStaff, orders.StationHT)

	newClerk := map[string]any{
		"email":    "clerk@tranghoa.vn",
		"password": "password123",
		"name":     "Phạm Văn Dũng",
		"role":     "STAFF",
		"station":  "PA",
	}

	client.login("staff@tranghoa.vn", "")
	resp, _ := client.do(http.MethodPost, "/v1/employees", newClerk)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff provisioning: status %d, want 403", resp.StatusCode)
	}

	client.login("admin@tranghoa.vn", "SG")
	resp, raw := client.do(http.MethodPost, "/v1/employees", newClerk)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create employee: status %d, body %s", resp.StatusCode, raw)
	}
	created := decodeBody[auth.Account](t, raw)
	if created.Email != "clerk@tranghoa.vn" {
		t.Fatalf("created = %+v", created)
	}
	if bytes.Contains(raw, []byte("password")) {
		t.Fatalf("response leaks password material: %s", raw)
	}

	resp, raw = client.do(http.MethodGet, "/v1/employees", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list employees: status %d", resp.StatusCode)
	}
	listOut := decodeBody[struct {
		Employees []auth.Account `json:"employees"`
		Count     int            `json:"count"`
	}](t, raw)
	if listOut.Count != 3 {
		t.Fatalf("employee count = %d, want 3", listOut.Count)
	}

	// Reassign the clerk: ADMIN-gated, and the new role is live on the
	// clerk's next request because identity is re-read from storage.
	resp, raw = client.do(http.MethodPut, "/v1/employees/"+created.ID, map[string]any{
		"role":    "MANAGER",
		"station": "SG",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update employee: status %d, body %s", resp.StatusCode, raw)
	}
	reassigned := decodeBody[auth.Account](t, raw)
	if reassigned.Role != orders.RoleManager || reassigned.Station != orders.StationSG {
		t.Fatalf("reassigned = %+v", reassigned)
	}

	adminToken := client.token
	client.login("clerk@tranghoa.vn", "SG")
	resp, _ = client.do(http.MethodPut, "/v1/employees/acc-staff", map[string]any{"role": "MANAGER"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("manager reassigning: status %d, want 403", resp.StatusCode)
	}
	client.token = adminToken

	// Self-delete is refused, deleting the new clerk works.
	resp, _ = client.do(http.MethodDelete, "/v1/employees/acc-adm", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self delete: status %d, want 400", resp.StatusCode)
	}
	resp, _ = client.do(http.MethodDelete, "/v1/employees/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete employee: status %d", resp.StatusCode)
	}
}

func TestDemotionTakesEffectNextRequest(t *testing.T) {
	client, _, accounts := newTestAPI(t)
	seedTestAccount(t, accounts, "acc-adm", "admin@tranghoa.vn", orders.RoleAdmin, orders.StationSG)
	client.login("admin@tranghoa.vn", "SG")

	resp, _ := client.do(http.MethodGet, "/v1/orders?view=all", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin all view: status %d", resp.StatusCode)
	}

	// Demote while the session token is still live: role is re-read from
	// the store on every request, so the next call is already restricted.
	if err := accounts.UpdateRoleStation(context.Background(), "acc-adm", orders.RoleManager, orders.StationSG); err != nil {
		t.Fatalf("UpdateRoleStation: %v", err)
	}
	resp, _ = client.do(http.MethodGet, "/v1/orders?view=all", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("demoted all view: status %d, want 403", resp.StatusCode)
	}
}
