package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/coerce"
	"orderdesk/internal/sheet"
)

// Status labels with machine meaning. The initial record of every timeline
// carries StatusRegistered; StatusDelivered makes an order eligible for
// payment reconciliation. All label comparisons are case-insensitive.
const (
	StatusRegistered = "Registered"
	StatusDelivered  = "Delivered"
)

// Store tabs. Row 1 of each tab is the header.
const (
	TabOrders        = "orders"
	TabStatusHistory = "status_history"
	TabPayments      = "payments"
	TabStatusCatalog = "status_catalog"
)

// orders tab columns (0-based within a row).
const (
	colOrderStatus = iota
	colOrderNumber
	colOrderClient
	colOrderPatient
	colOrderDueDate
	colOrderDelivered
	colOrderAmount
	colOrderPaid
	colOrderPaidAt
	colOrderNotes
)

// status_history tab columns. record_id is a synthetic stable identifier
// assigned at creation; rows shift on delete, so nothing outside the store
// boundary addresses a record by position.
const (
	colHistID = iota
	colHistOrder
	colHistStatus
	colHistStartedAt
	colHistDeadlineDays
	colHistDeadlineAt
	colHistNote
	colHistAuthor
	colHistRecordedAt
)

// payments tab columns.
const (
	colPayClient = iota
	colPayDate
	colPayAmount
	colPayNote
)

// status_catalog tab columns.
const (
	colCatStatus = iota
	colCatDeadlineRequired
	colCatDisplayOrder
	colCatLedgerTerminal
)

// Timestamps are written back to the store in the day-first convention the
// parsers read.
const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// Order is a production order row. Date fields keep the raw cell text; parse
// on demand with coerce so display paths can echo exactly what is stored.
type Order struct {
	Row           int             `json:"-"` // 1-based store row
	Number        int             `json:"number"`
	Client        string          `json:"client"`
	Patient       string          `json:"patient,omitempty"`
	Status        string          `json:"status"`
	DueDate       string          `json:"due_date,omitempty"`
	DeliveredDate string          `json:"delivered_date,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          bool            `json:"paid"`
	PaidAt        string          `json:"paid_at,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// StatusRecord is one entry of an order's status timeline. ID is the stable
// reference callers use for edits and deletes; Row is the current store
// position and is valid only for the snapshot it was read from. StartedAt is
// the zero time when the stored value does not parse; such records sort first.
type StatusRecord struct {
	ID           string     `json:"id"`
	Row          int        `json:"-"`
	OrderNumber  int        `json:"order_number"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"-"`
	StartedRaw   string     `json:"started_at"`
	DeadlineDays *int       `json:"deadline_days,omitempty"`
	DeadlineAt   *time.Time `json:"deadline_at,omitempty"`
	Note         string     `json:"note,omitempty"`
	Author       string     `json:"author,omitempty"`
	RecordedAt   string     `json:"recorded_at,omitempty"`
}

// Payment is a client-level credit, not tied to a specific order.
type Payment struct {
	Row    int             `json:"row"`
	Client string          `json:"client"`
	PaidOn string          `json:"paid_on"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// StatusOption is one entry of the status catalog.
type StatusOption struct {
	Status           string `json:"status"`
	DeadlineRequired bool   `json:"deadline_required"`
	DisplayOrder     int    `json:"display_order"`
	LedgerTerminal   bool   `json:"ledger_terminal"`
}

// IsPaidValue reports whether a paid cell holds any of the affirmative
// spellings that accumulated in the store over time.
func IsPaidValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "sim", "s", "yes", "y", "true", "1", "pago":
		return true
	}
	return false
}

const paidCellValue = "Yes"

func decodeOrder(row int, cells []string) Order {
	return Order{
		Row:           row,
		Number:        coerce.NumericID(sheet.Cell(cells, colOrderNumber)),
		Client:        strings.TrimSpace(sheet.Cell(cells, colOrderClient)),
		Patient:       strings.TrimSpace(sheet.Cell(cells, colOrderPatient)),
		Status:        strings.TrimSpace(sheet.Cell(cells, colOrderStatus)),
		DueDate:       strings.TrimSpace(sheet.Cell(cells, colOrderDueDate)),
		DeliveredDate: strings.TrimSpace(sheet.Cell(cells, colOrderDelivered)),
		Amount:        coerce.Amount(sheet.Cell(cells, colOrderAmount)),
		Paid:          IsPaidValue(sheet.Cell(cells, colOrderPaid)),
		PaidAt:        strings.TrimSpace(sheet.Cell(cells, colOrderPaidAt)),
		Notes:         sheet.Cell(cells, colOrderNotes),
	}
}

func decodeStatusRecord(row int, cells []string) StatusRecord {
	rec := StatusRecord{
		ID:          strings.TrimSpace(sheet.Cell(cells, colHistID)),
		Row:         row,
		OrderNumber: coerce.NumericID(sheet.Cell(cells, colHistOrder)),
		Status:      strings.TrimSpace(sheet.Cell(cells, colHistStatus)),
		StartedRaw:  strings.TrimSpace(sheet.Cell(cells, colHistStartedAt)),
		Note:        sheet.Cell(cells, colHistNote),
		Author:      strings.TrimSpace(sheet.Cell(cells, colHistAuthor)),
		RecordedAt:  strings.TrimSpace(sheet.Cell(cells, colHistRecordedAt)),
	}
	if t, ok := coerce.DateTime(rec.StartedRaw); ok {
		rec.StartedAt = t
	}
	if raw := strings.TrimSpace(sheet.Cell(cells, colHistDeadlineDays)); raw != "" {
		days := coerce.NumericID(raw)
		rec.DeadlineDays = &days
	}
	if t, ok := coerce.DateTime(sheet.Cell(cells, colHistDeadlineAt)); ok {
		rec.DeadlineAt = &t
	}
	return rec
}

func decodePayment(row int, cells []string) Payment {
	return Payment{
		Row:    row,
		Client: strings.TrimSpace(sheet.Cell(cells, colPayClient)),
		PaidOn: strings.TrimSpace(sheet.Cell(cells, colPayDate)),
		Amount: coerce.Amount(sheet.Cell(cells, colPayAmount)),
		Note:   sheet.Cell(cells, colPayNote),
	}
}

func decodeStatusOption(cells []string) StatusOption {
	return StatusOption{
		Status:           strings.TrimSpace(sheet.Cell(cells, colCatStatus)),
		DeadlineRequired: flagSet(sheet.Cell(cells, colCatDeadlineRequired)),
		DisplayOrder:     coerce.NumericID(sheet.Cell(cells, colCatDisplayOrder)),
		LedgerTerminal:   flagSet(sheet.Cell(cells, colCatLedgerTerminal)),
	}
}

// flagSet reads the catalog's S/N flag cells.
func flagSet(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "s", "sim", "y", "yes", "true", "1":
		return true
	}
	return false
}
