package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"orderdesk/internal/audit"
	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// TimelineService maintains each order's status history: an append-mostly log
// with one protected "Registered" record at the head, totally ordered by
// start timestamp. There is no transition graph; any label may follow any
// other. The only machine-enforced constraints are chronological ordering and
// the catalog's deadline-required rule.
type TimelineService interface {
	// ListHistory returns the order's records sorted ascending by start
	// timestamp; records whose timestamp does not parse sort first.
	ListHistory(ctx context.Context, orderNumber int) ([]StatusRecord, error)

	// SaveRecord appends a new record (input.EditID == "") or overwrites an
	// existing one in place. All validation happens before any write.
	SaveRecord(ctx context.Context, orderNumber int, input StatusInput) (*StatusRecord, error)

	// DeleteRecord removes a record unless it is the protected initial one.
	DeleteRecord(ctx context.Context, orderNumber int, id string) error
}

// StatusInput carries the user-submitted fields of a timeline write. Textual
// fields arrive raw; parsing failures surface as tagged errors, never panics.
type StatusInput struct {
	Status       string
	StartedAt    string
	DeadlineDays string // empty means no deadline
	Note         string
	Author       string
	EditID       string // record being edited; empty appends
}

type Timeline struct {
	store   sheet.Store
	catalog *Catalog
	trail   *audit.Trail
	now     func() time.Time
}

func NewTimeline(store sheet.Store, catalog *Catalog, trail *audit.Trail) *Timeline {
	return &Timeline{store: store, catalog: catalog, trail: trail, now: time.Now}
}

func (t *Timeline) ListHistory(ctx context.Context, orderNumber int) ([]StatusRecord, error) {
	if _, err := findOrder(ctx, t.store, orderNumber); err != nil {
		return nil, err
	}
	records, err := loadHistory(ctx, t.store, orderNumber)
	if err != nil {
		return nil, err
	}
	sortChronological(records)
	return records, nil
}

func (t *Timeline) SaveRecord(ctx context.Context, orderNumber int, input StatusInput) (*StatusRecord, error) {
	order, err := findOrder(ctx, t.store, orderNumber)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(input.Status)
	isInitial := strings.EqualFold(label, StatusRegistered)
	if input.EditID == "" && isInitial {
		return nil, fmt.Errorf("%w: %q is created automatically when the order is registered", ErrDuplicateInitialStatus, StatusRegistered)
	}

	start, ok := coerce.DateTime(input.StartedAt)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, input.StartedAt)
	}

	allRows, err := t.store.GetAllRows(ctx, TabStatusHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: read status history: %v", ErrStoreUnavailable, err)
	}
	var records []StatusRecord
	for i, cells := range allRows[1:] {
		if r := decodeStatusRecord(i+2, cells); r.OrderNumber == orderNumber {
			records = append(records, r)
		}
	}
	sortChronological(records)

	prev, next, target, err := neighbors(records, input.EditID)
	if err != nil {
		return nil, err
	}
	// The initial record defines the lower bound for all others and is itself
	// exempt from it.
	if !isInitial && prev != nil && start.Before(prev.StartedAt) {
		return nil, fmt.Errorf("%w: %s is before the preceding %q record of %s",
			ErrOutOfOrder, start.Format(dateTimeLayout), prev.Status, prev.StartedRaw)
	}
	if next != nil && !next.StartedAt.IsZero() && start.After(next.StartedAt) {
		return nil, fmt.Errorf("%w: %s is after the following %q record of %s",
			ErrOutOfOrder, start.Format(dateTimeLayout), next.Status, next.StartedRaw)
	}

	days, err := t.deadlineDays(ctx, label, input.DeadlineDays)
	if err != nil {
		return nil, err
	}

	rec := StatusRecord{
		ID:           input.EditID,
		OrderNumber:  orderNumber,
		Status:       label,
		StartedAt:    start,
		StartedRaw:   start.Format(dateTimeLayout),
		DeadlineDays: days,
		Note:         input.Note,
		Author:       strings.TrimSpace(input.Author),
		RecordedAt:   t.now().Format(dateTimeLayout),
	}
	if days != nil {
		deadline := start.AddDate(0, 0, *days)
		rec.DeadlineAt = &deadline
	}

	if target != nil {
		rec.Row = target.Row
		err = t.store.UpdateRange(ctx, TabStatusHistory, target.Row, 1, [][]string{statusRecordCells(rec)})
	} else {
		rec.ID = uuid.NewString()
		rec.Row = len(allRows) + 1
		err = t.store.AppendRows(ctx, TabStatusHistory, [][]string{statusRecordCells(rec)})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: write status history: %v", ErrStoreUnavailable, err)
	}

	// Refresh the order's displayed status from the record that is now the
	// chronologically latest.
	updated := replaceOrAppend(records, rec)
	if err := t.syncOrderStatus(ctx, order, updated); err != nil {
		return nil, err
	}

	t.trail.Record(audit.Event{
		Kind:   "status.saved",
		Order:  orderNumber,
		Client: order.Client,
		Actor:  rec.Author,
		Detail: fmt.Sprintf("%s at %s", rec.Status, rec.StartedRaw),
	})
	return &rec, nil
}

func (t *Timeline) DeleteRecord(ctx context.Context, orderNumber int, id string) error {
	order, err := findOrder(ctx, t.store, orderNumber)
	if err != nil {
		return err
	}
	records, err := loadHistory(ctx, t.store, orderNumber)
	if err != nil {
		return err
	}

	var target *StatusRecord
	remaining := make([]StatusRecord, 0, len(records))
	for i := range records {
		if records[i].ID == id {
			target = &records[i]
			continue
		}
		remaining = append(remaining, records[i])
	}
	if target == nil {
		return fmt.Errorf("%w: order %d has no status record %q", ErrRecordNotFound, orderNumber, id)
	}
	if strings.EqualFold(target.Status, StatusRegistered) {
		return fmt.Errorf("%w: %q", ErrProtectedRecord, target.Status)
	}

	if err := t.store.DeleteRows(ctx, TabStatusHistory, target.Row, target.Row); err != nil {
		return fmt.Errorf("%w: delete status record: %v", ErrStoreUnavailable, err)
	}

	if err := t.syncOrderStatus(ctx, order, remaining); err != nil {
		return err
	}

	t.trail.Record(audit.Event{
		Kind:   "status.deleted",
		Order:  orderNumber,
		Client: order.Client,
		Detail: fmt.Sprintf("%s at %s", target.Status, target.StartedRaw),
	})
	return nil
}

// neighbors returns the records chronologically adjacent to the written slot,
// plus the edited record itself when editID is set. For an append that is the
// current last record on the left and nothing on the right; for an edit, the
// records on both sides with the edited record's own prior value removed.
func neighbors(sorted []StatusRecord, editID string) (prev, next, target *StatusRecord, err error) {
	if editID == "" {
		if len(sorted) > 0 {
			return &sorted[len(sorted)-1], nil, nil, nil
		}
		return nil, nil, nil, nil
	}
	for i := range sorted {
		if sorted[i].ID == editID {
			if i > 0 {
				prev = &sorted[i-1]
			}
			if i+1 < len(sorted) {
				next = &sorted[i+1]
			}
			return prev, next, &sorted[i], nil
		}
	}
	return nil, nil, nil, fmt.Errorf("%w: no status record %q", ErrRecordNotFound, editID)
}

// deadlineDays parses the submitted deadline and enforces the catalog's
// deadline-required flag. Non-numeric or negative input counts as absent.
func (t *Timeline) deadlineDays(ctx context.Context, label, raw string) (*int, error) {
	required, err := t.catalog.DeadlineRequired(ctx, label)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if days, convErr := strconv.Atoi(trimmed); convErr == nil && days >= 0 {
			return &days, nil
		}
	}
	if required {
		return nil, fmt.Errorf("%w: status %q", ErrMissingRequiredDeadline, label)
	}
	return nil, nil
}

// syncOrderStatus writes the label of the chronologically latest record into
// the order row when it differs from what is displayed, and keeps the
// delivered_date cell in step: stamped with the delivery record's start date,
// cleared when the order moves away from delivered.
func (t *Timeline) syncOrderStatus(ctx context.Context, order *Order, records []StatusRecord) error {
	if len(records) == 0 {
		return nil
	}
	sortChronological(records)
	latest := records[len(records)-1]

	deliveredDate := ""
	if strings.EqualFold(latest.Status, StatusDelivered) {
		deliveredDate = latest.StartedRaw
		if !latest.StartedAt.IsZero() {
			deliveredDate = latest.StartedAt.Format(dateLayout)
		}
	}

	var updates []sheet.CellUpdate
	if latest.Status != order.Status {
		updates = append(updates, sheet.CellUpdate{
			Row: order.Row, Col: colOrderStatus + 1, Values: []string{latest.Status},
		})
	}
	if deliveredDate != order.DeliveredDate {
		updates = append(updates, sheet.CellUpdate{
			Row: order.Row, Col: colOrderDelivered + 1, Values: []string{deliveredDate},
		})
	}
	if len(updates) == 0 {
		return nil
	}
	if err := t.store.BatchUpdate(ctx, TabOrders, updates); err != nil {
		return fmt.Errorf("%w: update order status: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func replaceOrAppend(records []StatusRecord, rec StatusRecord) []StatusRecord {
	out := make([]StatusRecord, 0, len(records)+1)
	replaced := false
	for _, r := range records {
		if r.ID == rec.ID {
			out = append(out, rec)
			replaced = true
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, rec)
	}
	return out
}

func statusRecordCells(rec StatusRecord) []string {
	days := ""
	if rec.DeadlineDays != nil {
		days = strconv.Itoa(*rec.DeadlineDays)
	}
	deadline := ""
	if rec.DeadlineAt != nil {
		deadline = rec.DeadlineAt.Format(dateTimeLayout)
	}
	return []string{
		rec.ID,
		strconv.Itoa(rec.OrderNumber),
		rec.Status,
		rec.StartedRaw,
		days,
		deadline,
		rec.Note,
		rec.Author,
		rec.RecordedAt,
	}
}
