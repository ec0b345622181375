package core_test

import (
	"testing"

	"orderdesk/internal/sheet"
)

// newTestStore seeds an empty store with the tab headers and the default
// status catalog.
func newTestStore(t *testing.T) *sheet.Memory {
	t.Helper()
	m := sheet.NewMemory()
	m.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
	})
	m.Seed("status_history", [][]string{
		{"record_id", "order_no", "status", "started_at", "deadline_days", "deadline_at", "note", "author", "recorded_at"},
	})
	m.Seed("payments", [][]string{
		{"client", "paid_on", "amount", "note"},
	})
	m.Seed("status_catalog", [][]string{
		{"status", "deadline_required", "display_order", "ledger_terminal"},
		{"Registered", "S", "1", ""},
		{"In Production", "S", "2", ""},
		{"Ready for Delivery", "", "3", ""},
		{"Delivered", "", "4", "S"},
	})
	return m
}

// orderRow builds an orders-tab row in column order.
func orderRow(status, number, client, due, delivered, amount, paid, paidAt string) []string {
	return []string{status, number, client, "", due, delivered, amount, paid, paidAt, ""}
}

// historyRow builds a status_history-tab row in column order.
func historyRow(id, number, status, startedAt, days, deadlineAt string) []string {
	return []string{id, number, status, startedAt, days, deadlineAt, "", "tester", startedAt}
}
