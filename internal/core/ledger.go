package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/audit"
	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// reconcileTolerance absorbs sub-cent drift from parsing amounts that were
// stored as locale-formatted text.
var reconcileTolerance = decimal.New(1, -2)

// LedgerService manages client-level payments and keeps order paid flags
// consistent with the payment balance.
type LedgerService interface {
	// Reconcile recomputes paid flags for the client's delivered orders by
	// allocating total payments to orders first-in, first-out.
	Reconcile(ctx context.Context, client string) (*ReconcileResult, error)

	// AddPayment records a payment and reconciles the client.
	AddPayment(ctx context.Context, client, paidOn string, amount decimal.Decimal, note string) (*Payment, *ReconcileResult, error)

	// DeletePayment removes a payment row and reconciles its client.
	DeletePayment(ctx context.Context, row int) (*ReconcileResult, error)

	// ListPayments returns the client's payments, newest first.
	ListPayments(ctx context.Context, client string) ([]Payment, error)
}

// ReconcileResult summarizes a reconciliation pass.
type ReconcileResult struct {
	Client           string          `json:"client"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	OrdersMarked     int             `json:"orders_marked"`
	OrdersCleared    int             `json:"orders_cleared"`
}

type Ledger struct {
	store sheet.Store
	trail *audit.Trail
	now   func() time.Time
}

func NewLedger(store sheet.Store, trail *audit.Trail) *Ledger {
	return &Ledger{store: store, trail: trail, now: time.Now}
}

func (l *Ledger) Reconcile(ctx context.Context, client string) (*ReconcileResult, error) {
	payments, err := loadPayments(ctx, l.store)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range payments {
		if p.Client == client {
			total = total.Add(p.Amount)
		}
	}

	orders, err := loadOrders(ctx, l.store)
	if err != nil {
		return nil, err
	}
	delivered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Client == client && strings.EqualFold(o.Status, StatusDelivered) {
			delivered = append(delivered, o)
		}
	}
	sortByDelivery(delivered)

	result := &ReconcileResult{Client: client, TotalPaid: total}
	var updates []sheet.CellUpdate
	remaining := total
	short := false
	for _, o := range delivered {
		if !short && remaining.GreaterThanOrEqual(o.Amount.Sub(reconcileTolerance)) {
			remaining = remaining.Sub(o.Amount)
			if !o.Paid {
				updates = append(updates, sheet.CellUpdate{
					Row: o.Row, Col: colOrderPaid + 1, Values: []string{paidCellValue},
				})
				result.OrdersMarked++
			}
			continue
		}
		// Once the balance runs out every later delivery stays unpaid, even a
		// zero-amount one.
		short = true
		remaining = decimal.Zero
		// Clearing the flag also clears the manual paid-at stamp, which only
		// means anything while the flag is set.
		if o.Paid || o.PaidAt != "" {
			updates = append(updates, sheet.CellUpdate{
				Row: o.Row, Col: colOrderPaid + 1, Values: []string{"", ""},
			})
			result.OrdersCleared++
		}
	}
	result.RemainingBalance = remaining

	if len(updates) > 0 {
		if err := l.store.BatchUpdate(ctx, TabOrders, updates); err != nil {
			return nil, fmt.Errorf("%w: update paid flags: %v", ErrStoreUnavailable, err)
		}
	}
	return result, nil
}

func (l *Ledger) AddPayment(ctx context.Context, client, paidOn string, amount decimal.Decimal, note string) (*Payment, *ReconcileResult, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return nil, nil, fmt.Errorf("client name is required")
	}

	date := l.now().Format(dateLayout)
	if trimmed := strings.TrimSpace(paidOn); trimmed != "" {
		parsed, ok := coerce.Date(trimmed)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, paidOn)
		}
		date = parsed.Format(dateLayout)
	}

	row := []string{client, date, coerce.FormatAmount(amount), note}
	if err := l.store.AppendRows(ctx, TabPayments, [][]string{row}); err != nil {
		return nil, nil, fmt.Errorf("%w: append payment: %v", ErrStoreUnavailable, err)
	}

	result, err := l.Reconcile(ctx, client)
	if err != nil {
		return nil, nil, err
	}

	payment := &Payment{Client: client, PaidOn: date, Amount: amount, Note: note}
	l.trail.Record(audit.Event{
		Kind:   "payment.added",
		Client: client,
		Detail: fmt.Sprintf("%s on %s", coerce.FormatAmount(amount), date),
	})
	return payment, result, nil
}

func (l *Ledger) DeletePayment(ctx context.Context, row int) (*ReconcileResult, error) {
	payments, err := loadPayments(ctx, l.store)
	if err != nil {
		return nil, err
	}
	var target *Payment
	for i := range payments {
		if payments[i].Row == row {
			target = &payments[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: payment at row %d", ErrRecordNotFound, row)
	}

	if err := l.store.DeleteRows(ctx, TabPayments, row, row); err != nil {
		return nil, fmt.Errorf("%w: delete payment: %v", ErrStoreUnavailable, err)
	}

	result, err := l.Reconcile(ctx, target.Client)
	if err != nil {
		return nil, err
	}
	l.trail.Record(audit.Event{
		Kind:   "payment.deleted",
		Client: target.Client,
		Detail: fmt.Sprintf("%s on %s", coerce.FormatAmount(target.Amount), target.PaidOn),
	})
	return result, nil
}

func (l *Ledger) ListPayments(ctx context.Context, client string) ([]Payment, error) {
	payments, err := loadPayments(ctx, l.store)
	if err != nil {
		return nil, err
	}
	mine := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if p.Client == client {
			mine = append(mine, p)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		di, _ := coerce.Date(mine[i].PaidOn)
		dj, _ := coerce.Date(mine[j].PaidOn)
		return di.After(dj)
	})
	return mine, nil
}

// sortByDelivery orders delivered orders for FIFO allocation: delivery date
// ascending with unparsable dates first, then order number for stable ties.
func sortByDelivery(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		di, _ := coerce.Date(orders[i].DeliveredDate)
		dj, _ := coerce.Date(orders[j].DeliveredDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return orders[i].Number < orders[j].Number
	})
}
