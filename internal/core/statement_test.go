package core_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core"
)

func TestBuildStatement(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "1", "Maria", "", "01/03/2024", "100,00", "Yes", "10/03/2024"),
		orderRow("Delivered", "2", "Maria", "", "05/03/2024", "50,00", "", ""),
		orderRow("In Production", "3", "Maria", "", "", "999,00", "", ""),
		orderRow("Delivered", "4", "Joana", "", "02/03/2024", "80,00", "", ""),
	})
	store.Seed("payments", [][]string{
		{"client", "paid_on", "amount", "note"},
		{"Maria", "02/03/2024", "100,00", ""},
		{"Maria", "12/03/2024", "20,00", ""},
		{"Joana", "03/03/2024", "80,00", ""},
	})
	builder := core.NewStatementBuilder(store)

	st, err := builder.BuildStatement(context.Background(), "Maria")
	require.NoError(t, err)

	// Delivered orders only, newest delivery first.
	require.Len(t, st.Orders, 2)
	assert.Equal(t, 2, st.Orders[0].Number)
	assert.Equal(t, 1, st.Orders[1].Number)

	// Payments newest first.
	require.Len(t, st.Payments, 2)
	assert.Equal(t, "12/03/2024", st.Payments[0].PaidOn)
	assert.Equal(t, "02/03/2024", st.Payments[1].PaidOn)

	assert.True(t, st.Summary.TotalOwed.Equal(decimal.RequireFromString("150")))
	assert.True(t, st.Summary.TotalPaid.Equal(decimal.RequireFromString("120")))
	assert.True(t, st.Summary.BalanceDue.Equal(decimal.RequireFromString("30")))
}

func TestBuildStatementUnknownClientIsEmpty(t *testing.T) {
	builder := core.NewStatementBuilder(newTestStore(t))

	st, err := builder.BuildStatement(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Empty(t, st.Orders)
	assert.Empty(t, st.Payments)
	assert.True(t, st.Summary.BalanceDue.IsZero())
}

func TestBuildStatementCreditBalance(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "1", "Maria", "", "01/03/2024", "50,00", "Yes", ""),
	})
	store.Seed("payments", [][]string{
		{"client", "paid_on", "amount", "note"},
		{"Maria", "02/03/2024", "80,00", ""},
	})
	builder := core.NewStatementBuilder(store)

	st, err := builder.BuildStatement(context.Background(), "Maria")
	require.NoError(t, err)
	assert.True(t, st.Summary.BalanceDue.Equal(decimal.RequireFromString("-30")),
		"overpayment shows as negative balance")
}
