package httpapi

import (
	"database/sql"
	"net/http"

	"tranghoa.org/internal/auth"
	"tranghoa.org/internal/obs"
	"tranghoa.org/internal/orders"
)

// ReadyProbe reports dependency readiness for /readyz.
type ReadyProbe struct {
	DB *sql.DB
}

// API owns the HTTP surface of the service.
type API struct {
	mux     *http.ServeMux
	version string
	ready   ReadyProbe

	orders *orders.Service
	auth   *auth.Service

	rateBurst  int
	ratePerSec float64
}

// Options configures New.
type Options struct {
	Version    string
	Ready      ReadyProbe
	Orders     *orders.Service
	Auth       *auth.Service
	RateBurst  int
	RatePerSec float64
}

// New wires routes onto a fresh mux.
func New(opts Options) *API {
	a := &API{
		mux:        http.NewServeMux(),
		version:    opts.Version,
		ready:      opts.Ready,
		orders:     opts.Orders,
		auth:       opts.Auth,
		rateBurst:  opts.RateBurst,
		ratePerSec: opts.RatePerSec,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 10
	}
	a.routes()
	return a
}

func (a *API) routes() {
	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.HandleFunc("/v1/info", a.handleInfo)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)

	a.mux.HandleFunc("/v1/orders", a.handleOrdersCollection)
	a.mux.HandleFunc("/v1/orders/", a.handleOrdersResource)
	a.mux.HandleFunc("/v1/reports/dashboard", a.handleDashboard)
	a.mux.HandleFunc("/v1/reports/daily", a.handleDailyReport)
	a.mux.HandleFunc("/v1/employees", a.handleEmployeesCollection)
	a.mux.HandleFunc("/v1/employees/", a.handleEmployeeResource)
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}
