package dto

import (
	"fleet/internal/domains/reservation/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,uuid"`
	ClientID  string `json:"client_id"  validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
	Status    string `json:"status"     validate:"omitempty,oneof=PENDING CONFIRMED"`
}

func (c *CreateReservationRequest) Interval() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(constant.DateOnlyFormat, c.StartDate, timezone.GetLocation())
	if err != nil {
		return start, end, err
	}

	end, err = time.ParseInLocation(constant.DateOnlyFormat, c.EndDate, timezone.GetLocation())

	return start, end, err
}

func (c *CreateReservationRequest) ToModel(user string, dailyRate float64) (model.Reservation, error) {
	start, end, err := c.Interval()
	if err != nil {
		return model.Reservation{}, err
	}

	status := constant.ReservationStatusPending
	if c.Status != constant.Empty {
		status = c.Status
	}

	// Rental days are counted inclusively on both ends.
	days := int(end.Sub(start).Hours()/24) + 1

	return model.Reservation{
		ID:         uuid.NewString(),
		VehicleID:  c.VehicleID,
		ClientID:   c.ClientID,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
		TotalPrice: float64(days) * dailyRate,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateReservationRequest struct {
	StartDate string `json:"start_date" validate:"omitempty"`
	EndDate   string `json:"end_date"   validate:"omitempty"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELED COMPLETED"`
}

type ReservationResponse struct {
	ID         string  `json:"id"`
	VehicleID  string  `json:"vehicle_id"`
	ClientID   string  `json:"client_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.ClientID = model.ClientID
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
