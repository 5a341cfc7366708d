package model

import (
	"fleet/shared/model"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID                 = "id"
	FieldRegistrationNumber = "registration_number"
	FieldMake               = "make"
	FieldModel              = "model"
	FieldYear               = "year"
	FieldColor              = "color"
	FieldMileage            = "mileage"
	FieldDailyRate          = "daily_rate"
	FieldStatus             = "status"
	FieldPhotoURL           = "photo_url"
)

type Vehicle struct {
	ID                 string  `db:"id"`
	RegistrationNumber string  `db:"registration_number"`
	Make               string  `db:"make"`
	Model              string  `db:"model"`
	Year               int     `db:"year"`
	Color              string  `db:"color"`
	Mileage            int     `db:"mileage"`
	DailyRate          float64 `db:"daily_rate"`
	Status             string  `db:"status"`
	PhotoURL           string  `db:"photo_url"`
	model.Metadata
}
