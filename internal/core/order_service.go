package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderdesk/internal/audit"
	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// OrderService covers the order rows themselves. Status movement beyond
// registration belongs to the timeline, and paid flags normally belong to the
// ledger; ConfirmPayment and RevertPayment are the manual override.
type OrderService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)
	GetOrder(ctx context.Context, number int) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	Clients(ctx context.Context) ([]string, error)

	// DeleteOrder removes the order row and every status record that
	// references it.
	DeleteOrder(ctx context.Context, number int) error

	// ConfirmPayment marks the order paid with a received-at stamp;
	// RevertPayment clears both.
	ConfirmPayment(ctx context.Context, number int, receivedAt string) (*Order, error)
	RevertPayment(ctx context.Context, number int) (*Order, error)
}

// OrderInput carries the fields of a new order. OrderedAt defaults to now
// when empty.
type OrderInput struct {
	Client    string
	Patient   string
	DueDate   string
	Amount    decimal.Decimal
	Notes     string
	OrderedAt string
	Author    string
}

type Orders struct {
	store sheet.Store
	trail *audit.Trail
	now   func() time.Time
}

func NewOrders(store sheet.Store, trail *audit.Trail) *Orders {
	return &Orders{store: store, trail: trail, now: time.Now}
}

func (s *Orders) CreateOrder(ctx context.Context, input OrderInput) (*Order, error) {
	client := strings.TrimSpace(input.Client)
	if client == "" {
		return nil, fmt.Errorf("client name is required")
	}

	orderedAt := s.now()
	if trimmed := strings.TrimSpace(input.OrderedAt); trimmed != "" {
		parsed, ok := coerce.DateTime(trimmed)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, input.OrderedAt)
		}
		orderedAt = parsed
	}
	dueDate := ""
	if trimmed := strings.TrimSpace(input.DueDate); trimmed != "" {
		parsed, ok := coerce.Date(trimmed)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, input.DueDate)
		}
		dueDate = parsed.Format(dateLayout)
	}

	existing, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	number := 1
	for _, o := range existing {
		if o.Number >= number {
			number = o.Number + 1
		}
	}

	order := Order{
		Number:  number,
		Client:  client,
		Patient: strings.TrimSpace(input.Patient),
		Status:  StatusRegistered,
		DueDate: dueDate,
		Amount:  input.Amount,
		Notes:   input.Notes,
	}
	row := []string{
		order.Status,
		strconv.Itoa(order.Number),
		order.Client,
		order.Patient,
		order.DueDate,
		"", // delivered_date
		coerce.FormatAmount(order.Amount),
		"", // paid
		"", // paid_at
		order.Notes,
	}
	if err := s.store.AppendRows(ctx, TabOrders, [][]string{row}); err != nil {
		return nil, fmt.Errorf("%w: append order: %v", ErrStoreUnavailable, err)
	}

	// Every timeline starts with a system-created "Registered" record. The
	// one-day deadline keeps fresh orders visible on the dashboard until
	// someone moves them along.
	initial := StatusRecord{
		ID:          uuid.NewString(),
		OrderNumber: number,
		Status:      StatusRegistered,
		StartedRaw:  orderedAt.Format(dateTimeLayout),
		Note:        "Order registered",
		Author:      strings.TrimSpace(input.Author),
		RecordedAt:  s.now().Format(dateTimeLayout),
	}
	days := 1
	initial.DeadlineDays = &days
	deadline := orderedAt.AddDate(0, 0, days)
	initial.DeadlineAt = &deadline
	if err := s.store.AppendRows(ctx, TabStatusHistory, [][]string{statusRecordCells(initial)}); err != nil {
		return nil, fmt.Errorf("%w: append initial status record: %v", ErrStoreUnavailable, err)
	}

	s.trail.Record(audit.Event{
		Kind:   "order.created",
		Order:  number,
		Client: client,
		Actor:  initial.Author,
		Detail: coerce.FormatAmount(order.Amount),
	})
	return &order, nil
}

func (s *Orders) GetOrder(ctx context.Context, number int) (*Order, error) {
	return findOrder(ctx, s.store, number)
}

func (s *Orders) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Number > orders[j].Number
	})
	return orders, nil
}

// Clients returns the distinct client names across all orders, sorted.
func (s *Orders) Clients(ctx context.Context) ([]string, error) {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var clients []string
	for _, o := range orders {
		if o.Client == "" {
			continue
		}
		if _, ok := seen[o.Client]; ok {
			continue
		}
		seen[o.Client] = struct{}{}
		clients = append(clients, o.Client)
	}
	sort.Strings(clients)
	return clients, nil
}

func (s *Orders) DeleteOrder(ctx context.Context, number int) error {
	order, err := findOrder(ctx, s.store, number)
	if err != nil {
		return err
	}

	history, err := loadHistory(ctx, s.store, number)
	if err != nil {
		return err
	}
	historyRows := make([]int, 0, len(history))
	for _, rec := range history {
		historyRows = append(historyRows, rec.Row)
	}
	// Delete runs from the bottom up so earlier deletions do not shift the
	// rows still pending.
	runs := sheet.ConsecutiveRuns(historyRows)
	for i := len(runs) - 1; i >= 0; i-- {
		if err := s.store.DeleteRows(ctx, TabStatusHistory, runs[i].Start, runs[i].End); err != nil {
			return fmt.Errorf("%w: delete status records: %v", ErrStoreUnavailable, err)
		}
	}

	if err := s.store.DeleteRows(ctx, TabOrders, order.Row, order.Row); err != nil {
		return fmt.Errorf("%w: delete order: %v", ErrStoreUnavailable, err)
	}

	s.trail.Record(audit.Event{
		Kind:   "order.deleted",
		Order:  number,
		Client: order.Client,
		Detail: fmt.Sprintf("removed with %d status records", len(historyRows)),
	})
	return nil
}

func (s *Orders) ConfirmPayment(ctx context.Context, number int, receivedAt string) (*Order, error) {
	order, err := findOrder(ctx, s.store, number)
	if err != nil {
		return nil, err
	}

	stamp := s.now().Format(dateLayout)
	if trimmed := strings.TrimSpace(receivedAt); trimmed != "" {
		parsed, ok := coerce.Date(trimmed)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, receivedAt)
		}
		stamp = parsed.Format(dateLayout)
	}

	update := sheet.CellUpdate{Row: order.Row, Col: colOrderPaid + 1, Values: []string{paidCellValue, stamp}}
	if err := s.store.BatchUpdate(ctx, TabOrders, []sheet.CellUpdate{update}); err != nil {
		return nil, fmt.Errorf("%w: confirm payment: %v", ErrStoreUnavailable, err)
	}
	order.Paid = true
	order.PaidAt = stamp

	s.trail.Record(audit.Event{
		Kind:   "payment.confirmed",
		Order:  number,
		Client: order.Client,
		Detail: stamp,
	})
	return order, nil
}

func (s *Orders) RevertPayment(ctx context.Context, number int) (*Order, error) {
	order, err := findOrder(ctx, s.store, number)
	if err != nil {
		return nil, err
	}

	update := sheet.CellUpdate{Row: order.Row, Col: colOrderPaid + 1, Values: []string{"", ""}}
	if err := s.store.BatchUpdate(ctx, TabOrders, []sheet.CellUpdate{update}); err != nil {
		return nil, fmt.Errorf("%w: revert payment: %v", ErrStoreUnavailable, err)
	}
	order.Paid = false
	order.PaidAt = ""

	s.trail.Record(audit.Event{
		Kind:   "payment.reverted",
		Order:  number,
		Client: order.Client,
	})
	return order, nil
}
