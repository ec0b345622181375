package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/core"
)

func TestDashboard(t *testing.T) {
	today := time.Now()
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("02/01/2006")
	}

	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("In Production", "1", "Maria", day(-3), "", "100,00", "", ""),
		orderRow("In Production", "2", "Maria", day(0), "", "50,00", "", ""),
		orderRow("Ready for Delivery", "3", "Joana", day(4), "", "70,00", "", ""),
		orderRow("Registered", "4", "Joana", "", "", "10,00", "", ""),
		orderRow("Delivered", "5", "Maria", day(-10), day(-5), "200,00", "", ""),
		orderRow("Delivered", "6", "Joana", day(-10), day(-5), "90,00", "Yes", day(-1)),
	})
	reports := core.NewReports(store, core.NewCatalog(store))

	dash, err := reports.Dashboard(context.Background())
	require.NoError(t, err)

	// Only delivered and unpaid counts toward receivables.
	assert.Equal(t, 1, dash.Receivables.Orders)
	assert.True(t, dash.Receivables.Amount.Equal(decimal.RequireFromString("200")))

	require.Len(t, dash.Deadlines.Overdue, 1)
	assert.Equal(t, 1, dash.Deadlines.Overdue[0].Number)
	require.Len(t, dash.Deadlines.DueToday, 1)
	assert.Equal(t, 2, dash.Deadlines.DueToday[0].Number)
	require.Len(t, dash.Deadlines.Upcoming, 1)
	assert.Equal(t, 3, dash.Deadlines.Upcoming[0].Number)

	// Catalog labels in display order, every entry present.
	require.Len(t, dash.Statuses, 4)
	assert.Equal(t, "Registered", dash.Statuses[0].Status)
	assert.Equal(t, "In Production", dash.Statuses[1].Status)
	assert.Equal(t, "Ready for Delivery", dash.Statuses[2].Status)
	assert.Equal(t, "Delivered", dash.Statuses[3].Status)
	assert.Equal(t, 2, dash.Statuses[1].Orders)
	assert.True(t, dash.Statuses[1].Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, 2, dash.Statuses[3].Orders)
}

func TestDashboardIncludesLegacyStatusLabels(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Waiting Approval", "1", "Maria", "", "", "30,00", "", ""),
	})
	reports := core.NewReports(store, core.NewCatalog(store))

	dash, err := reports.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, dash.Statuses, 5)
	assert.Equal(t, "Waiting Approval", dash.Statuses[4].Status, "non-catalog label appended after catalog entries")
	assert.Equal(t, 1, dash.Statuses[4].Orders)
}

func TestReceivablesGroupsByClient(t *testing.T) {
	store := newTestStore(t)
	store.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
		orderRow("Delivered", "1", "Maria", "", "01/03/2024", "100,00", "", ""),
		orderRow("Delivered", "2", "Maria", "", "02/03/2024", "50,00", "", ""),
		orderRow("Delivered", "3", "Joana", "", "03/03/2024", "80,00", "", ""),
		orderRow("Delivered", "4", "Joana", "", "03/03/2024", "80,00", "Yes", ""),
		orderRow("In Production", "5", "Ana", "", "", "999,00", "", ""),
	})
	reports := core.NewReports(store, core.NewCatalog(store))

	out, err := reports.Receivables(context.Background())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Maria", out[0].Client)
	assert.Equal(t, 2, out[0].Orders)
	assert.True(t, out[0].Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, "Joana", out[1].Client)
	assert.Equal(t, 1, out[1].Orders)
}
