package model

import (
	"fleet/shared/model"
	"time"
)

const (
	TableName  = "revenues"
	EntityName = "revenue"

	FieldID         = "id"
	FieldSource     = "source"
	FieldContractID = "contract_id"
	FieldInvoiceID  = "invoice_id"
	FieldAmount     = "amount"
	FieldEntryDate  = "entry_date"
)

const (
	SourceContract = "CONTRACT"
	SourceInvoice  = "INVOICE"
)

// MonthlyTotal is one row of the per-month revenue aggregation.
type MonthlyTotal struct {
	Month int     `db:"month"`
	Total float64 `db:"total"`
}

type Revenue struct {
	ID         string    `db:"id"`
	Source     string    `db:"source"`
	ContractID *string   `db:"contract_id"`
	InvoiceID  *string   `db:"invoice_id"`
	Amount     float64   `db:"amount"`
	EntryDate  time.Time `db:"entry_date"`
	model.Metadata
}
