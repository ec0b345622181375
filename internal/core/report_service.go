package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// ReportService produces the read-only aggregates behind the dashboard.
type ReportService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Receivables(ctx context.Context) ([]ClientReceivable, error)
}

// Dashboard is the operational summary: outstanding money, due-date buckets
// for work in flight, and a per-status breakdown.
type Dashboard struct {
	Receivables ReceivablesSummary `json:"receivables"`
	Deadlines   DeadlineBuckets    `json:"deadlines"`
	Statuses    []StatusSummary    `json:"statuses"`
}

// ReceivablesSummary totals delivered orders that are not yet paid.
type ReceivablesSummary struct {
	Orders int             `json:"orders"`
	Amount decimal.Decimal `json:"amount"`
}

// DeadlineBuckets sorts undelivered orders by due date relative to today.
// Orders without a parsable due date appear in none of the buckets.
type DeadlineBuckets struct {
	Overdue  []Order `json:"overdue"`
	DueToday []Order `json:"due_today"`
	Upcoming []Order `json:"upcoming"`
}

// StatusSummary is the per-status order count and amount, in catalog display
// order.
type StatusSummary struct {
	Status string          `json:"status"`
	Orders int             `json:"orders"`
	Amount decimal.Decimal `json:"amount"`
}

// ClientReceivable is one client's share of the outstanding balance.
type ClientReceivable struct {
	Client string          `json:"client"`
	Orders int             `json:"orders"`
	Amount decimal.Decimal `json:"amount"`
}

type Reports struct {
	store   sheet.Store
	catalog *Catalog
	now     func() time.Time
}

func NewReports(store sheet.Store, catalog *Catalog) *Reports {
	return &Reports{store: store, catalog: catalog, now: time.Now}
}

func (r *Reports) Dashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := loadOrders(ctx, r.store)
	if err != nil {
		return nil, err
	}
	options, err := r.catalog.Options(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Receivables: ReceivablesSummary{Amount: decimal.Zero},
		Deadlines: DeadlineBuckets{
			Overdue:  []Order{},
			DueToday: []Order{},
			Upcoming: []Order{},
		},
	}
	today := truncateToDay(r.now())

	byStatus := make(map[string]*StatusSummary)
	for _, o := range orders {
		delivered := strings.EqualFold(o.Status, StatusDelivered)
		if delivered && !o.Paid {
			dash.Receivables.Orders++
			dash.Receivables.Amount = dash.Receivables.Amount.Add(o.Amount)
		}
		if !delivered {
			if due, ok := coerce.Date(o.DueDate); ok {
				switch day := truncateToDay(due); {
				case day.Before(today):
					dash.Deadlines.Overdue = append(dash.Deadlines.Overdue, o)
				case day.Equal(today):
					dash.Deadlines.DueToday = append(dash.Deadlines.DueToday, o)
				default:
					dash.Deadlines.Upcoming = append(dash.Deadlines.Upcoming, o)
				}
			}
		}

		key := strings.ToLower(o.Status)
		sum, ok := byStatus[key]
		if !ok {
			sum = &StatusSummary{Status: o.Status, Amount: decimal.Zero}
			byStatus[key] = sum
		}
		sum.Orders++
		sum.Amount = sum.Amount.Add(o.Amount)
	}

	sortByDueDate(dash.Deadlines.Overdue)
	sortByDueDate(dash.Deadlines.DueToday)
	sortByDueDate(dash.Deadlines.Upcoming)

	// Catalog entries first, in display order, including empty ones so the
	// dashboard always shows the full vocabulary. Labels that only exist in
	// legacy order rows follow, alphabetically.
	for _, opt := range options {
		key := strings.ToLower(opt.Status)
		if sum, ok := byStatus[key]; ok {
			sum.Status = opt.Status
			dash.Statuses = append(dash.Statuses, *sum)
			delete(byStatus, key)
			continue
		}
		dash.Statuses = append(dash.Statuses, StatusSummary{Status: opt.Status, Amount: decimal.Zero})
	}
	var rest []StatusSummary
	for _, sum := range byStatus {
		rest = append(rest, *sum)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return strings.ToLower(rest[i].Status) < strings.ToLower(rest[j].Status)
	})
	dash.Statuses = append(dash.Statuses, rest...)

	return dash, nil
}

func (r *Reports) Receivables(ctx context.Context) ([]ClientReceivable, error) {
	orders, err := loadOrders(ctx, r.store)
	if err != nil {
		return nil, err
	}
	byClient := make(map[string]*ClientReceivable)
	for _, o := range orders {
		if !strings.EqualFold(o.Status, StatusDelivered) || o.Paid {
			continue
		}
		rec, ok := byClient[o.Client]
		if !ok {
			rec = &ClientReceivable{Client: o.Client, Amount: decimal.Zero}
			byClient[o.Client] = rec
		}
		rec.Orders++
		rec.Amount = rec.Amount.Add(o.Amount)
	}

	out := make([]ClientReceivable, 0, len(byClient))
	for _, rec := range byClient {
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Client < out[j].Client
	})
	return out, nil
}

func sortByDueDate(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		di, _ := coerce.Date(orders[i].DueDate)
		dj, _ := coerce.Date(orders[j].DueDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return orders[i].Number < orders[j].Number
	})
}

// truncateToDay normalizes to UTC midnight so parsed cell dates and the wall
// clock compare by calendar day regardless of location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
