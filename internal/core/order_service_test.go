package core_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core"
	"orderdesk/internal/sheet"
)

func TestCreateOrderAssignsNextNumber(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "#041", "Joana", "", "01/03/2024", "80,00", "", ""),
		orderRow("Registered", "7", "Maria", "", "", "10,00", "", ""),
	})
	svc := core.NewOrders(store, nil)

	order, err := svc.CreateOrder(context.Background(), core.OrderInput{
		Client: "Maria",
		Amount: decimal.RequireFromString("250.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, order.Number, "next after the highest numeric reference")
	assert.Equal(t, core.StatusRegistered, order.Status)

	rows, err := store.GetAllRows(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "250,50", sheet.Cell(rows[3], 6))
}

func TestCreateOrderWritesInitialStatusRecord(t *testing.T) {
	store := newTestStore(t)
	svc := core.NewOrders(store, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		Client:    "Maria",
		Amount:    decimal.RequireFromString("100"),
		OrderedAt: "01/03/2024 09:00",
	})
	require.NoError(t, err)

	rows, err := store.GetAllRows(ctx, "status_history")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	rec := rows[1]
	assert.NotEmpty(t, rec[0], "record id assigned on creation")
	assert.Equal(t, "1", rec[1])
	assert.Equal(t, core.StatusRegistered, rec[2])
	assert.Equal(t, "01/03/2024 09:00", rec[3])
	assert.Equal(t, "1", rec[4], "initial record carries a one-day deadline")
	assert.Equal(t, "02/03/2024 09:00", rec[5])
	assert.Equal(t, 1, order.Number)
}

func TestCreateOrderValidatesInput(t *testing.T) {
	svc := core.NewOrders(newTestStore(t), nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, core.OrderInput{Client: "  "})
	assert.Error(t, err)

	_, err = svc.CreateOrder(ctx, core.OrderInput{Client: "Maria", DueDate: "someday"})
	assert.ErrorIs(t, err, core.ErrInvalidTimestamp)

	_, err = svc.CreateOrder(ctx, core.OrderInput{Client: "Maria", OrderedAt: "???"})
	assert.ErrorIs(t, err, core.ErrInvalidTimestamp)
}

func TestDeleteOrderCascadesHistory(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Registered", "1", "Maria", "", "", "10,00", "", ""),
		orderRow("Registered", "2", "Joana", "", "", "20,00", "", ""),
	})
	store.Seed("status_history", [][]string{
		{"record_id", "order_no", "status", "started_at", "deadline_days", "deadline_at", "note", "author", "recorded_at"},
		historyRow("rec-1", "1", "Registered", "01/03/2024 09:00", "1", ""),
		historyRow("rec-2", "2", "Registered", "01/03/2024 10:00", "1", ""),
		historyRow("rec-3", "1", "In Production", "02/03/2024 09:00", "5", ""),
	})
	svc := core.NewOrders(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteOrder(ctx, 1))

	_, err := svc.GetOrder(ctx, 1)
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	history, err := store.GetAllRows(ctx, "status_history")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2", history[1][1], "other order's record survives")

	orders, err := store.GetAllRows(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Joana", orders[1][2])
}

func TestDeleteOrderNotFound(t *testing.T) {
	svc := core.NewOrders(newTestStore(t), nil)
	err := svc.DeleteOrder(context.Background(), 9)
	assert.ErrorIs(t, err, core.ErrRecordNotFound)
}

func TestConfirmAndRevertPayment(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "1", "Maria", "", "01/03/2024", "100,00", "", ""),
	})
	svc := core.NewOrders(store, nil)
	ctx := context.Background()

	order, err := svc.ConfirmPayment(ctx, 1, "2024-03-10")
	require.NoError(t, err)
	assert.True(t, order.Paid)
	assert.Equal(t, "10/03/2024", order.PaidAt, "ISO input normalized to day-first")

	rows, err := store.GetAllRows(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "Yes", sheet.Cell(rows[1], 7))
	assert.Equal(t, "10/03/2024", sheet.Cell(rows[1], 8))

	order, err = svc.RevertPayment(ctx, 1)
	require.NoError(t, err)
	assert.False(t, order.Paid)

	rows, err = store.GetAllRows(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "", sheet.Cell(rows[1], 7))
	assert.Equal(t, "", sheet.Cell(rows[1], 8))
}

func TestConfirmPaymentRejectsBadDate(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "1", "Maria", "", "01/03/2024", "100,00", "", ""),
	})
	svc := core.NewOrders(store, nil)

	_, err := svc.ConfirmPayment(context.Background(), 1, "whenever")
	assert.ErrorIs(t, err, core.ErrInvalidTimestamp)
}

func TestClientsDistinctSorted(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Registered", "1", "Maria", "", "", "10,00", "", ""),
		orderRow("Registered", "2", "Ana", "", "", "10,00", "", ""),
		orderRow("Registered", "3", "Maria", "", "", "10,00", "", ""),
	})
	svc := core.NewOrders(store, nil)

	clients, err := svc.Clients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Maria"}, clients)
}

func TestListOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Registered", "1", "Maria", "", "", "10,00", "", ""),
		orderRow("Registered", "3", "Ana", "", "", "10,00", "", ""),
		orderRow("Registered", "2", "Joana", "", "", "10,00", "", ""),
	})
	svc := core.NewOrders(store, nil)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 3, orders[0].Number)
	assert.Equal(t, 2, orders[1].Number)
	assert.Equal(t, 1, orders[2].Number)
}
