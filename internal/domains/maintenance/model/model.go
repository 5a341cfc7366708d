package model

import (
	"time"

	"fleet/shared/model"
)

const (
	TableName  = "maintenances"
	EntityName = "maintenance"

	FieldID          = "id"
	FieldVehicleID   = "vehicle_id"
	FieldType        = "type"
	FieldDescription = "description"
	FieldCost        = "cost"
	FieldStatus      = "status"
	FieldStartedAt   = "started_at"
	FieldCompletedAt = "completed_at"
)

const (
	StatusOpen      = "OPEN"
	StatusCompleted = "COMPLETED"
)

type Maintenance struct {
	ID          string     `db:"id"`
	VehicleID   string     `db:"vehicle_id"`
	Type        string     `db:"type"`
	Description string     `db:"description"`
	Cost        float64    `db:"cost"`
	Status      string     `db:"status"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	model.Metadata
}
