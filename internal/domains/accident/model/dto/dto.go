package dto

import (
	"time"

	"fleet/internal/domains/accident/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateAccidentRequest struct {
	VehicleID   string  `json:"vehicle_id"  validate:"required,uuid"`
	ClientID    string  `json:"client_id"   validate:"required,uuid"`
	Date        string  `json:"date"        validate:"required,datetime=2006-01-02"`
	Description string  `json:"description" validate:"required,max=2000"`
	RepairCost  float64 `json:"repair_cost" validate:"omitempty,gte=0"`
}

func (c *CreateAccidentRequest) Occurred() (time.Time, error) {
	date, err := time.ParseInLocation(constant.DateOnlyFormat, c.Date, timezone.GetLocation())
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid accident date") // nolint:wrapcheck
	}

	return date, nil
}

func (c *CreateAccidentRequest) ToModel(user string, date time.Time) model.Accident {
	return model.Accident{
		ID:          uuid.NewString(),
		VehicleID:   c.VehicleID,
		ClientID:    c.ClientID,
		Date:        date,
		Description: c.Description,
		RepairCost:  c.RepairCost,
		Status:      model.StatusReported,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateAccidentRequest struct {
	Description string  `db:"description" json:"description" validate:"omitempty,max=2000"`
	RepairCost  float64 `db:"repair_cost" json:"repair_cost" validate:"omitempty,gte=0"`
	Status      string  `db:"status"      json:"status"      validate:"omitempty,oneof=REPORTED IN_REPAIR RESOLVED"`
}

type AccidentResponse struct {
	ID          string  `json:"id"`
	VehicleID   string  `json:"vehicle_id"`
	ClientID    string  `json:"client_id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	RepairCost  float64 `json:"repair_cost"`
	Status      string  `json:"status"`
	gDto.Metadata
}

func (r *AccidentResponse) FromModel(model model.Accident) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.ClientID = model.ClientID
	r.Date = model.Date.Format(constant.DateOnlyFormat)
	r.Description = model.Description
	r.RepairCost = model.RepairCost
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetAccidentsResponse struct {
	Accidents []AccidentResponse `json:"accidents"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAccidentsResponse) FromModels(models []model.Accident, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Accidents = make([]AccidentResponse, len(models))
	for i, mod := range models {
		r.Accidents[i].FromModel(mod)
	}
}
