package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"orderdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// Orders and their timelines
	r.Get("/api/orders", h.listOrders)
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders/{number}", h.getOrder)
	r.Delete("/api/orders/{number}", h.deleteOrder)
	r.Get("/api/orders/{number}/history", h.orderHistory)
	r.Post("/api/orders/{number}/history", h.saveStatusRecord)
	r.Delete("/api/orders/{number}/history/{id}", h.deleteStatusRecord)
	r.Post("/api/orders/{number}/payment/confirm", h.confirmPayment)
	r.Post("/api/orders/{number}/payment/revert", h.revertPayment)

	// Clients and their ledgers
	r.Get("/api/clients", h.listClients)
	r.Get("/api/clients/{name}/statement", h.clientStatement)
	r.Post("/api/clients/{name}/reconcile", h.reconcileClient)

	// Payments
	r.Post("/api/payments", h.addPayment)
	r.Delete("/api/payments/{row}", h.deletePayment)

	// Reference data and reports
	r.Get("/api/status-options", h.statusOptions)
	r.Get("/api/dashboard", h.dashboard)
	r.Get("/api/receivables", h.receivables)

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// orderNumber extracts the {number} URL parameter.
func orderNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		writeError(w, r, "invalid order number", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return number, true
}

// rowParam extracts the {row} URL parameter. Row 1 is the header and is never
// addressable.
func rowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || row < 2 {
		writeError(w, r, "invalid row", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return row, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
