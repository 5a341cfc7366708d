package model

import (
	"fleet/shared/model"
)

const (
	TableName  = "clients"
	EntityName = "client"

	FieldID            = "id"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldLicenseNumber = "license_number"
	FieldLicenseURL    = "license_url"
	FieldAddress       = "address"
)

type Client struct {
	ID            string `db:"id"`
	FirstName     string `db:"first_name"`
	LastName      string `db:"last_name"`
	Email         string `db:"email"`
	Phone         string `db:"phone"`
	LicenseNumber string `db:"license_number"`
	LicenseURL    string `db:"license_url"`
	Address       string `db:"address"`
	model.Metadata
}
