package dto

import (
	"fleet/internal/domains/vehicle/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateVehicleRequest struct {
	RegistrationNumber string  `json:"registration_number" validate:"required,max=20"`
	Make               string  `json:"make"                validate:"required,max=50"`
	Model              string  `json:"model"               validate:"required,max=50"`
	Year               int     `json:"year"                validate:"required,min=1950,max=2100"`
	Color              string  `json:"color"               validate:"omitempty,max=30"`
	Mileage            int     `json:"mileage"             validate:"omitempty,min=0"`
	DailyRate          float64 `json:"daily_rate"          validate:"required,gt=0"`
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	return model.Vehicle{
		ID:                 uuid.NewString(),
		RegistrationNumber: c.RegistrationNumber,
		Make:               c.Make,
		Model:              c.Model,
		Year:               c.Year,
		Color:              c.Color,
		Mileage:            c.Mileage,
		DailyRate:          c.DailyRate,
		Status:             constant.VehicleStatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVehicleRequest struct {
	RegistrationNumber string  `db:"registration_number" json:"registration_number" validate:"omitempty,max=20"`
	Make               string  `db:"make"                json:"make"                validate:"omitempty,max=50"`
	Model              string  `db:"model"               json:"model"               validate:"omitempty,max=50"`
	Year               int     `db:"year"                json:"year"                validate:"omitempty,min=1950,max=2100"`
	Color              string  `db:"color"               json:"color"               validate:"omitempty,max=30"`
	Mileage            int     `db:"mileage"             json:"mileage"             validate:"omitempty,min=0"`
	DailyRate          float64 `db:"daily_rate"          json:"daily_rate"          validate:"omitempty,gt=0"`
}

type UpdateVehicleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RENTED MAINTENANCE"`
}

type CheckAvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
}

type AvailabilityResponse struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type VehicleResponse struct {
	ID                 string  `json:"id"`
	RegistrationNumber string  `json:"registration_number"`
	Make               string  `json:"make"`
	Model              string  `json:"model"`
	Year               int     `json:"year"`
	Color              string  `json:"color"`
	Mileage            int     `json:"mileage"`
	DailyRate          float64 `json:"daily_rate"`
	Status             string  `json:"status"`
	PhotoURL           string  `json:"photo_url,omitempty"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.RegistrationNumber = model.RegistrationNumber
	r.Make = model.Make
	r.Model = model.Model
	r.Year = model.Year
	r.Color = model.Color
	r.Mileage = model.Mileage
	r.DailyRate = model.DailyRate
	r.Status = model.Status
	r.PhotoURL = model.PhotoURL
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
