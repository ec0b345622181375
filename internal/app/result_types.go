package app

import "orderdesk/internal/core"

type OrderResult struct {
	Order *core.Order `json:"order"`
}

type OrderDetailResult struct {
	Order   *core.Order         `json:"order"`
	History []core.StatusRecord `json:"history"`
}

type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

type StatusRecordResult struct {
	Record *core.StatusRecord `json:"record"`
}

type ClientListResult struct {
	Clients []string `json:"clients"`
}

type PaymentResult struct {
	Payment   *core.Payment         `json:"payment"`
	Reconcile *core.ReconcileResult `json:"reconcile"`
}

type StatusOptionsResult struct {
	Options []core.StatusOption `json:"options"`
}

type ReceivablesResult struct {
	Clients []core.ClientReceivable `json:"clients"`
}
