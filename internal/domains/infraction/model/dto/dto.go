package dto

import (
	"time"

	"fleet/internal/domains/infraction/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateInfractionRequest struct {
	VehicleID  string  `json:"vehicle_id"  validate:"required,uuid"`
	ClientID   string  `json:"client_id"   validate:"required,uuid"`
	Date       string  `json:"date"        validate:"required,datetime=2006-01-02"`
	Type       string  `json:"type"        validate:"required,max=100"`
	FineAmount float64 `json:"fine_amount" validate:"required,gt=0"`
}

func (c *CreateInfractionRequest) Occurred() (time.Time, error) {
	date, err := time.ParseInLocation(constant.DateOnlyFormat, c.Date, timezone.GetLocation())
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid infraction date") // nolint:wrapcheck
	}

	return date, nil
}

func (c *CreateInfractionRequest) ToModel(user string, date time.Time) model.Infraction {
	return model.Infraction{
		ID:         uuid.NewString(),
		VehicleID:  c.VehicleID,
		ClientID:   c.ClientID,
		Date:       date,
		Type:       c.Type,
		FineAmount: c.FineAmount,
		Status:     model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateInfractionRequest struct {
	Type       string  `db:"type"        json:"type"        validate:"omitempty,max=100"`
	FineAmount float64 `db:"fine_amount" json:"fine_amount" validate:"omitempty,gt=0"`
	Status     string  `db:"status"      json:"status"      validate:"omitempty,oneof=PENDING PAID DISPUTED"`
}

type InfractionResponse struct {
	ID         string  `json:"id"`
	VehicleID  string  `json:"vehicle_id"`
	ClientID   string  `json:"client_id"`
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	FineAmount float64 `json:"fine_amount"`
	Status     string  `json:"status"`
	gDto.Metadata
}

func (r *InfractionResponse) FromModel(model model.Infraction) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.ClientID = model.ClientID
	r.Date = model.Date.Format(constant.DateOnlyFormat)
	r.Type = model.Type
	r.FineAmount = model.FineAmount
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetInfractionsResponse struct {
	Infractions []InfractionResponse `json:"infractions"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetInfractionsResponse) FromModels(models []model.Infraction, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Infractions = make([]InfractionResponse, len(models))
	for i, mod := range models {
		r.Infractions[i].FromModel(mod)
	}
}
