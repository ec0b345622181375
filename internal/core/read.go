package core

import (
	"context"
	"fmt"
	"sort"

	"orderdesk/internal/sheet"
)

// Shared read helpers. Every service rereads its tabs from the store on each
// call; there is no cached state to drift.

func loadOrders(ctx context.Context, store sheet.Store) ([]Order, error) {
	rows, err := store.GetAllRows(ctx, TabOrders)
	if err != nil {
		return nil, fmt.Errorf("%w: read orders: %v", ErrStoreUnavailable, err)
	}
	orders := make([]Order, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		orders = append(orders, decodeOrder(i+2, cells))
	}
	return orders, nil
}

func findOrder(ctx context.Context, store sheet.Store, number int) (*Order, error) {
	orders, err := loadOrders(ctx, store)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Number == number {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: order %d", ErrRecordNotFound, number)
}

// loadHistory returns the order's status records in store-row order.
func loadHistory(ctx context.Context, store sheet.Store, orderNumber int) ([]StatusRecord, error) {
	rows, err := store.GetAllRows(ctx, TabStatusHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: read status history: %v", ErrStoreUnavailable, err)
	}
	var records []StatusRecord
	for i, cells := range rows[1:] {
		rec := decodeStatusRecord(i+2, cells)
		if rec.OrderNumber == orderNumber {
			records = append(records, rec)
		}
	}
	return records, nil
}

func loadPayments(ctx context.Context, store sheet.Store) ([]Payment, error) {
	rows, err := store.GetAllRows(ctx, TabPayments)
	if err != nil {
		return nil, fmt.Errorf("%w: read payments: %v", ErrStoreUnavailable, err)
	}
	payments := make([]Payment, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		payments = append(payments, decodePayment(i+2, cells))
	}
	return payments, nil
}

// sortChronological orders records ascending by start timestamp. Records with
// unparsable timestamps carry the zero time and therefore sort first; the
// sort is stable so equal timestamps keep their store order.
func sortChronological(records []StatusRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
}
