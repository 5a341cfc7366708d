package model

import (
	"fleet/shared/model"
	"time"
)

const (
	TableName  = "contracts"
	EntityName = "contract"

	FieldID             = "id"
	FieldReservationID  = "reservation_id"
	FieldVehicleID      = "vehicle_id"
	FieldClientID       = "client_id"
	FieldSecondDriverID = "second_driver_id"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldTotalAmount   = "total_amount"
	FieldDeposit       = "deposit"
	FieldNotes         = "notes"
)

type Contract struct {
	ID             string    `db:"id"`
	ReservationID  string    `db:"reservation_id"`
	VehicleID      string    `db:"vehicle_id"`
	ClientID       string    `db:"client_id"`
	SecondDriverID *string   `db:"second_driver_id"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	TotalAmount    float64   `db:"total_amount"`
	Deposit        float64   `db:"deposit"`
	Notes          string    `db:"notes"`
	model.Metadata
}
