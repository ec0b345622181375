package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webAdapter "orderdesk/internal/adapters/web"
	"orderdesk/internal/app"
	"orderdesk/internal/core"
	"orderdesk/internal/sheet"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store := sheet.NewMemory()
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
	})
	store.Seed("status_history", [][]string{
		{"record_id", "order_no", "status", "started_at", "deadline_days", "deadline_at", "note", "author", "recorded_at"},
	})
	store.Seed("payments", [][]string{
		{"client", "paid_on", "amount", "note"},
	})
	store.Seed("status_catalog", [][]string{
		{"status", "deadline_required", "display_order", "ledger_terminal"},
		{"Registered", "S", "1", ""},
		{"In Production", "S", "2", ""},
		{"Delivered", "", "3", "S"},
	})

	catalog := core.NewCatalog(store)
	svc := app.NewAppService(
		core.NewOrders(store, nil),
		core.NewTimeline(store, catalog, nil),
		core.NewLedger(store, nil),
		core.NewStatementBuilder(store),
		catalog,
		core.NewReports(store, catalog),
	)
	return webAdapter.NewHandler(svc, "")
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders",
		`{"client":"Maria","amount":"R$ 1.234,56","ordered_at":"01/03/2024 09:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created app.OrderResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Order.Number)
	assert.Equal(t, "Registered", created.Order.Status)

	// The initial status record is created with the order.
	w = doJSON(t, h, http.MethodGet, "/api/orders/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail app.OrderDetailResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.History, 1)
	assert.Equal(t, "Registered", detail.History[0].Status)

	// Move it along the lifecycle.
	w = doJSON(t, h, http.MethodPost, "/api/orders/1/history",
		`{"status":"In Production","started_at":"02/03/2024 10:00","deadline_days":"5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/orders/1", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "In Production", detail.Order.Status)
}

func TestOrderNotFound(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, http.MethodGet, "/api/orders/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadOrderNumberIsBadRequest(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedInitialRecordMapsToConflict(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders",
		`{"client":"Maria","amount":"100,00","ordered_at":"01/03/2024 09:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var detail app.OrderDetailResult
	w = doJSON(t, h, http.MethodGet, "/api/orders/1", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.History, 1)
	require.NotEmpty(t, detail.History[0].ID)

	w = doJSON(t, h, http.MethodDelete, "/api/orders/1/history/"+detail.History[0].ID, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestValidationErrorsMapToUnprocessable(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders",
		`{"client":"Maria","amount":"100,00","ordered_at":"01/03/2024 09:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/orders/1/history",
		`{"status":"In Production","started_at":"not a date"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/orders/1/history",
		`{"status":"In Production","started_at":"02/03/2024 10:00"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "missing required deadline")
}

func TestPaymentsAndStatementOverHTTP(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/orders",
		`{"client":"Maria","amount":"100,00","ordered_at":"01/03/2024 09:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/orders/1/history",
		`{"status":"Delivered","started_at":"05/03/2024 10:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/payments",
		`{"client":"Maria","paid_on":"10/03/2024","amount":"100,00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var payment app.PaymentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))
	assert.Equal(t, 1, payment.Reconcile.OrdersMarked)

	w = doJSON(t, h, http.MethodGet, "/api/clients/Maria/statement", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st core.Statement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.Len(t, st.Orders, 1)
	assert.True(t, st.Orders[0].Paid)
	assert.True(t, st.Summary.BalanceDue.IsZero())
}

func TestInvalidJSONBody(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, http.MethodPost, "/api/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
