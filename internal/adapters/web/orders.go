package web

import (
	"net/http"
	"strings"

	"orderdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// listOrders handles GET /api/orders.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createOrder handles POST /api/orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Client) == "" {
		writeError(w, r, "client is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// getOrder handles GET /api/orders/{number}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteOrder handles DELETE /api/orders/{number}.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), number); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orderHistory handles GET /api/orders/{number}/history.
func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		History any `json:"history"`
	}{History: result.History})
}

// saveStatusRecord handles POST /api/orders/{number}/history.
func (h *Handler) saveStatusRecord(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	var req app.StatusRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, r, "status is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.SaveStatusRecord(r.Context(), number, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteStatusRecord handles DELETE /api/orders/{number}/history/{id}.
func (h *Handler) deleteStatusRecord(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, r, "record id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteStatusRecord(r.Context(), number, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// confirmPayment handles POST /api/orders/{number}/payment/confirm.
func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	var req struct {
		ReceivedAt string `json:"received_at"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.ConfirmPayment(r.Context(), number, req.ReceivedAt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// revertPayment handles POST /api/orders/{number}/payment/revert.
func (h *Handler) revertPayment(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}
	result, err := h.svc.RevertPayment(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// clientName extracts the {name} URL parameter.
func clientName(r *http.Request) string {
	return chi.URLParam(r, "name")
}
