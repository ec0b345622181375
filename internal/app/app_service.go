package app

import (
	"context"

	"orderdesk/internal/coerce"
	"orderdesk/internal/core"
)

type appService struct {
	orders    core.OrderService
	timeline  core.TimelineService
	ledger    core.LedgerService
	statement *core.StatementBuilder
	catalog   *core.Catalog
	reports   core.ReportService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	orders core.OrderService,
	timeline core.TimelineService,
	ledger core.LedgerService,
	statement *core.StatementBuilder,
	catalog *core.Catalog,
	reports core.ReportService,
) ApplicationService {
	return &appService{
		orders:    orders,
		timeline:  timeline,
		ledger:    ledger,
		statement: statement,
		catalog:   catalog,
		reports:   reports,
	}
}

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	order, err := s.orders.CreateOrder(ctx, core.OrderInput{
		Client:    req.Client,
		Patient:   req.Patient,
		DueDate:   req.DueDate,
		Amount:    coerce.Amount(req.Amount),
		Notes:     req.Notes,
		OrderedAt: req.OrderedAt,
		Author:    req.Author,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) GetOrder(ctx context.Context, number int) (*OrderDetailResult, error) {
	order, err := s.orders.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	history, err := s.timeline.ListHistory(ctx, number)
	if err != nil {
		return nil, err
	}
	return &OrderDetailResult{Order: order, History: history}, nil
}

func (s *appService) ListOrders(ctx context.Context) (*OrderListResult, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) DeleteOrder(ctx context.Context, number int) error {
	return s.orders.DeleteOrder(ctx, number)
}

func (s *appService) ConfirmPayment(ctx context.Context, number int, receivedAt string) (*OrderResult, error) {
	order, err := s.orders.ConfirmPayment(ctx, number, receivedAt)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) RevertPayment(ctx context.Context, number int) (*OrderResult, error) {
	order, err := s.orders.RevertPayment(ctx, number)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) SaveStatusRecord(ctx context.Context, number int, req StatusRecordRequest) (*StatusRecordResult, error) {
	record, err := s.timeline.SaveRecord(ctx, number, core.StatusInput{
		Status:       req.Status,
		StartedAt:    req.StartedAt,
		DeadlineDays: req.DeadlineDays,
		Note:         req.Note,
		Author:       req.Author,
		EditID:       req.ID,
	})
	if err != nil {
		return nil, err
	}
	return &StatusRecordResult{Record: record}, nil
}

func (s *appService) DeleteStatusRecord(ctx context.Context, number int, id string) error {
	return s.timeline.DeleteRecord(ctx, number, id)
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.orders.Clients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) GetStatement(ctx context.Context, client string) (*core.Statement, error) {
	return s.statement.BuildStatement(ctx, client)
}

func (s *appService) Reconcile(ctx context.Context, client string) (*core.ReconcileResult, error) {
	return s.ledger.Reconcile(ctx, client)
}

func (s *appService) AddPayment(ctx context.Context, req AddPaymentRequest) (*PaymentResult, error) {
	payment, result, err := s.ledger.AddPayment(ctx, req.Client, req.PaidOn, coerce.Amount(req.Amount), req.Note)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: payment, Reconcile: result}, nil
}

func (s *appService) DeletePayment(ctx context.Context, row int) (*core.ReconcileResult, error) {
	return s.ledger.DeletePayment(ctx, row)
}

func (s *appService) StatusOptions(ctx context.Context) (*StatusOptionsResult, error) {
	options, err := s.catalog.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusOptionsResult{Options: options}, nil
}

func (s *appService) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	return s.reports.Dashboard(ctx)
}

func (s *appService) Receivables(ctx context.Context) (*ReceivablesResult, error) {
	clients, err := s.reports.Receivables(ctx)
	if err != nil {
		return nil, err
	}
	return &ReceivablesResult{Clients: clients}, nil
}
