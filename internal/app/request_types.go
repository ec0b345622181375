package app

// CreateOrderRequest carries the fields of a new order. Amount accepts both
// locale-formatted text ("1.234,56") and plain decimal spellings; OrderedAt
// and DueDate accept any of the supported date spellings and default to now
// and empty respectively.
type CreateOrderRequest struct {
	Client    string `json:"client"`
	Patient   string `json:"patient"`
	DueDate   string `json:"due_date"`
	Amount    string `json:"amount"`
	Notes     string `json:"notes"`
	OrderedAt string `json:"ordered_at"`
	Author    string `json:"author"`
}

// StatusRecordRequest carries a timeline write. A non-empty ID edits that
// record in place; an empty ID appends.
type StatusRecordRequest struct {
	Status       string `json:"status"`
	StartedAt    string `json:"started_at"`
	DeadlineDays string `json:"deadline_days"`
	Note         string `json:"note"`
	Author       string `json:"author"`
	ID           string `json:"id"`
}

// AddPaymentRequest records a client payment. PaidOn defaults to today.
type AddPaymentRequest struct {
	Client string `json:"client"`
	PaidOn string `json:"paid_on"`
	Amount string `json:"amount"`
	Note   string `json:"note"`
}
