package model

import (
	"fleet/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldVehicleID  = "vehicle_id"
	FieldClientID   = "client_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldStatus     = "status"
	FieldTotalPrice = "total_price"
	FieldCreatedBy  = "created_by"
)

type Reservation struct {
	ID         string    `db:"id"`
	VehicleID  string    `db:"vehicle_id"`
	ClientID   string    `db:"client_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Status     string    `db:"status"`
	TotalPrice float64   `db:"total_price"`
	model.Metadata
}
