package core

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// Statement is a client's account: delivered orders, payments, and the
// resulting balance. Orders and payments are listed newest first.
type Statement struct {
	Client   string           `json:"client"`
	Orders   []Order          `json:"orders"`
	Payments []Payment        `json:"payments"`
	Summary  StatementSummary `json:"summary"`
}

// StatementSummary is the owed-minus-paid balance view. The FIFO remainder
// lives in ReconcileResult; the two answer different questions.
type StatementSummary struct {
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

type StatementBuilder struct {
	store sheet.Store
}

func NewStatementBuilder(store sheet.Store) *StatementBuilder {
	return &StatementBuilder{store: store}
}

// BuildStatement assembles the client's statement from the current store
// contents. Only delivered orders enter the ledger; undelivered work is not
// yet owed.
func (b *StatementBuilder) BuildStatement(ctx context.Context, client string) (*Statement, error) {
	orders, err := loadOrders(ctx, b.store)
	if err != nil {
		return nil, err
	}
	payments, err := loadPayments(ctx, b.store)
	if err != nil {
		return nil, err
	}

	st := &Statement{Client: client, Orders: []Order{}, Payments: []Payment{}}
	st.Summary.TotalOwed = decimal.Zero
	st.Summary.TotalPaid = decimal.Zero

	for _, o := range orders {
		if o.Client != client || !strings.EqualFold(o.Status, StatusDelivered) {
			continue
		}
		st.Orders = append(st.Orders, o)
		st.Summary.TotalOwed = st.Summary.TotalOwed.Add(o.Amount)
	}
	sort.SliceStable(st.Orders, func(i, j int) bool {
		di, _ := coerce.Date(st.Orders[i].DeliveredDate)
		dj, _ := coerce.Date(st.Orders[j].DeliveredDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return st.Orders[i].Number > st.Orders[j].Number
	})

	for _, p := range payments {
		if p.Client != client {
			continue
		}
		st.Payments = append(st.Payments, p)
		st.Summary.TotalPaid = st.Summary.TotalPaid.Add(p.Amount)
	}
	sort.SliceStable(st.Payments, func(i, j int) bool {
		di, _ := coerce.Date(st.Payments[i].PaidOn)
		dj, _ := coerce.Date(st.Payments[j].PaidOn)
		return di.After(dj)
	})

	st.Summary.BalanceDue = st.Summary.TotalOwed.Sub(st.Summary.TotalPaid)
	return st, nil
}
