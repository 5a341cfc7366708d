package dto

import (
	"fleet/internal/domains/contract/model"
	reservationModel "fleet/internal/domains/reservation/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateContractRequest struct {
	ReservationID  string  `json:"reservation_id"   validate:"required,uuid"`
	SecondDriverID string  `json:"second_driver_id" validate:"omitempty,uuid"`
	Deposit        float64 `json:"deposit"          validate:"omitempty,gte=0"`
	Notes          string  `json:"notes"            validate:"omitempty,max=1000"`
}

func (c *CreateContractRequest) ToModel(user string, reservation reservationModel.Reservation) model.Contract {
	var secondDriver *string
	if c.SecondDriverID != "" {
		secondDriver = &c.SecondDriverID
	}

	return model.Contract{
		ID:             uuid.NewString(),
		ReservationID:  reservation.ID,
		VehicleID:      reservation.VehicleID,
		ClientID:       reservation.ClientID,
		SecondDriverID: secondDriver,
		StartDate:      reservation.StartDate,
		EndDate:        reservation.EndDate,
		TotalAmount:    reservation.TotalPrice,
		Deposit:        c.Deposit,
		Notes:          c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateContractRequest struct {
	VehicleID string  `db:"vehicle_id" json:"vehicle_id" validate:"omitempty,uuid"`
	Deposit   float64 `db:"deposit"    json:"deposit"    validate:"omitempty,gte=0"`
	Notes     string  `db:"notes"      json:"notes"      validate:"omitempty,max=1000"`
}

type ContractResponse struct {
	ID             string  `json:"id"`
	ReservationID  string  `json:"reservation_id"`
	VehicleID      string  `json:"vehicle_id"`
	ClientID       string  `json:"client_id"`
	SecondDriverID string  `json:"second_driver_id,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalAmount    float64 `json:"total_amount"`
	Deposit        float64 `json:"deposit"`
	Notes          string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *ContractResponse) FromModel(model model.Contract) {
	r.ID = model.ID
	r.ReservationID = model.ReservationID
	r.VehicleID = model.VehicleID
	r.ClientID = model.ClientID

	if model.SecondDriverID != nil {
		r.SecondDriverID = *model.SecondDriverID
	}

	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.TotalAmount = model.TotalAmount
	r.Deposit = model.Deposit
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetContractsResponse struct {
	Contracts []ContractResponse `json:"contracts"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetContractsResponse) FromModels(models []model.Contract, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Contracts = make([]ContractResponse, len(models))
	for i, mod := range models {
		r.Contracts[i].FromModel(mod)
	}
}
