package dto

import (
	"fleet/internal/domains/client/model"
	"fleet/shared"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	FirstName     string `json:"first_name"     validate:"required,max=100"`
	LastName      string `json:"last_name"      validate:"required,max=100"`
	Email         string `json:"email"          validate:"required,email,max=100"`
	Phone         string `json:"phone"          validate:"omitempty,max=20"`
	LicenseNumber string `json:"license_number" validate:"required,max=50"`
	Address       string `json:"address"        validate:"omitempty,max=255"`
}

func (c *CreateClientRequest) ToModel(user string) model.Client {
	return model.Client{
		ID:            uuid.NewString(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		LicenseNumber: c.LicenseNumber,
		Address:       c.Address,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateClientRequest struct {
	FirstName     string `db:"first_name"     json:"first_name"     validate:"omitempty,max=100"`
	LastName      string `db:"last_name"      json:"last_name"      validate:"omitempty,max=100"`
	Email         string `db:"email"          json:"email"          validate:"omitempty,email,max=100"`
	Phone         string `db:"phone"          json:"phone"          validate:"omitempty,max=20"`
	LicenseNumber string `db:"license_number" json:"license_number" validate:"omitempty,max=50"`
	Address       string `db:"address"        json:"address"        validate:"omitempty,max=255"`
}

type ClientResponse struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	LicenseURL    string `json:"license_url,omitempty"`
	Address       string `json:"address"`
	gDto.Metadata
}

func (r *ClientResponse) FromModel(model model.Client) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
	r.Phone = model.Phone
	r.LicenseNumber = model.LicenseNumber
	r.LicenseURL = model.LicenseURL
	r.Address = model.Address
	r.Metadata.FromModel(model.Metadata)
}

type GetClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetClientsResponse) FromModels(models []model.Client, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Clients = make([]ClientResponse, len(models))
	for i, mod := range models {
		r.Clients[i].FromModel(mod)
	}
}
