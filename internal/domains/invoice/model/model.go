package model

import (
	"time"

	"fleet/shared/model"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldClientID      = "client_id"
	FieldAmount        = "amount"
	FieldIssueDate     = "issue_date"
	FieldDueDate       = "due_date"
	FieldPaymentStatus = "payment_status"
	FieldPaidAt        = "paid_at"
)

type Invoice struct {
	ID            string     `db:"id"`
	ReservationID string     `db:"reservation_id"`
	ClientID      string     `db:"client_id"`
	Amount        float64    `db:"amount"`
	IssueDate     time.Time  `db:"issue_date"`
	DueDate       time.Time  `db:"due_date"`
	PaymentStatus string     `db:"payment_status"`
	PaidAt        *time.Time `db:"paid_at"`
	model.Metadata
}
