package web

import (
	"net/http"

	"orderdesk/internal/app"
)

// listClients handles GET /api/clients.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// clientStatement handles GET /api/clients/{name}/statement.
func (h *Handler) clientStatement(w http.ResponseWriter, r *http.Request) {
	name := clientName(r)
	if name == "" {
		writeError(w, r, "client name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	statement, err := h.svc.GetStatement(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, statement)
}

// reconcileClient handles POST /api/clients/{name}/reconcile.
func (h *Handler) reconcileClient(w http.ResponseWriter, r *http.Request) {
	name := clientName(r)
	if name == "" {
		writeError(w, r, "client name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.Reconcile(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addPayment handles POST /api/payments.
func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	var req app.AddPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Client == "" {
		writeError(w, r, "client is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.AddPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// deletePayment handles DELETE /api/payments/{row}.
func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeletePayment(r.Context(), row)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// statusOptions handles GET /api/status-options.
func (h *Handler) statusOptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StatusOptions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// receivables handles GET /api/receivables.
func (h *Handler) receivables(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Receivables(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
