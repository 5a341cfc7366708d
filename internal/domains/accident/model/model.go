package model

import (
	"time"

	"fleet/shared/model"
)

const (
	TableName  = "accidents"
	EntityName = "accident"

	FieldID          = "id"
	FieldVehicleID   = "vehicle_id"
	FieldClientID    = "client_id"
	FieldDate        = "date"
	FieldDescription = "description"
	FieldRepairCost  = "repair_cost"
	FieldStatus      = "status"
)

const (
	StatusReported = "REPORTED"
	StatusInRepair = "IN_REPAIR"
	StatusResolved = "RESOLVED"
)

type Accident struct {
	ID          string    `db:"id"`
	VehicleID   string    `db:"vehicle_id"`
	ClientID    string    `db:"client_id"`
	Date        time.Time `db:"date"`
	Description string    `db:"description"`
	RepairCost  float64   `db:"repair_cost"`
	Status      string    `db:"status"`
	model.Metadata
}
