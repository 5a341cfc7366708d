package model

import (
	"time"

	"fleet/shared/model"
)

const (
	TableName  = "infractions"
	EntityName = "infraction"

	FieldID         = "id"
	FieldVehicleID  = "vehicle_id"
	FieldClientID   = "client_id"
	FieldDate       = "date"
	FieldType       = "type"
	FieldFineAmount = "fine_amount"
	FieldStatus     = "status"
)

const (
	StatusPending  = "PENDING"
	StatusPaid     = "PAID"
	StatusDisputed = "DISPUTED"
)

type Infraction struct {
	ID         string    `db:"id"`
	VehicleID  string    `db:"vehicle_id"`
	ClientID   string    `db:"client_id"`
	Date       time.Time `db:"date"`
	Type       string    `db:"type"`
	FineAmount float64   `db:"fine_amount"`
	Status     string    `db:"status"`
	model.Metadata
}
