package app

import (
	"context"

	"orderdesk/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CreateOrder registers a new order and its initial status record.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// GetOrder returns a single order with its status timeline.
	GetOrder(ctx context.Context, number int) (*OrderDetailResult, error)

	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) (*OrderListResult, error)

	// DeleteOrder removes an order together with its status records.
	DeleteOrder(ctx context.Context, number int) error

	// ConfirmPayment manually marks an order paid; RevertPayment undoes it.
	ConfirmPayment(ctx context.Context, number int, receivedAt string) (*OrderResult, error)
	RevertPayment(ctx context.Context, number int) (*OrderResult, error)

	// SaveStatusRecord appends or edits a timeline record and refreshes the
	// order's current status.
	SaveStatusRecord(ctx context.Context, number int, req StatusRecordRequest) (*StatusRecordResult, error)

	// DeleteStatusRecord removes a timeline record by its stable id; the
	// initial record is protected.
	DeleteStatusRecord(ctx context.Context, number int, id string) error

	// ListClients returns the distinct client names across all orders.
	ListClients(ctx context.Context) (*ClientListResult, error)

	// GetStatement builds a client's account statement.
	GetStatement(ctx context.Context, client string) (*core.Statement, error)

	// Reconcile reapplies the client's payments to delivered orders in
	// first-in, first-out order.
	Reconcile(ctx context.Context, client string) (*core.ReconcileResult, error)

	// AddPayment records a client payment and reconciles.
	AddPayment(ctx context.Context, req AddPaymentRequest) (*PaymentResult, error)

	// DeletePayment removes a payment row and reconciles its client.
	DeletePayment(ctx context.Context, row int) (*core.ReconcileResult, error)

	// StatusOptions returns the catalog of lifecycle labels.
	StatusOptions(ctx context.Context) (*StatusOptionsResult, error)

	// Dashboard returns the operational summary.
	Dashboard(ctx context.Context) (*core.Dashboard, error)

	// Receivables returns the outstanding balance per client.
	Receivables(ctx context.Context) (*ReceivablesResult, error)
}
