package dto

import (
	"time"

	"fleet/internal/domains/invoice/model"
	reservationModel "fleet/internal/domains/reservation/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateInvoiceRequest struct {
	ReservationID string  `json:"reservation_id" validate:"required,uuid"`
	Amount        float64 `json:"amount"         validate:"omitempty,gt=0"`
	DueDate       string  `json:"due_date"       validate:"required,datetime=2006-01-02"`
}

// Due parses the due date in the service timezone.
func (c *CreateInvoiceRequest) Due() (time.Time, error) {
	due, err := time.ParseInLocation(constant.DateOnlyFormat, c.DueDate, timezone.GetLocation())
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid due date") // nolint:wrapcheck
	}

	return due, nil
}

// ToModel builds the invoice from its reservation. A zero amount falls
// back to the reservation's total price.
func (c *CreateInvoiceRequest) ToModel(user string, reservation reservationModel.Reservation, due time.Time) model.Invoice {
	amount := c.Amount
	if amount == 0 {
		amount = reservation.TotalPrice
	}

	return model.Invoice{
		ID:            uuid.NewString(),
		ReservationID: reservation.ID,
		ClientID:      reservation.ClientID,
		Amount:        amount,
		IssueDate:     timezone.Now(),
		DueDate:       due,
		PaymentStatus: constant.PaymentStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateInvoiceRequest struct {
	Amount  float64 `db:"amount"   json:"amount"   validate:"omitempty,gt=0"`
	DueDate string  `db:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateInvoicePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=PENDING PAID FAILED"`
}

type InvoiceResponse struct {
	ID            string  `json:"id"`
	ReservationID string  `json:"reservation_id"`
	ClientID      string  `json:"client_id"`
	Amount        float64 `json:"amount"`
	IssueDate     string  `json:"issue_date"`
	DueDate       string  `json:"due_date"`
	PaymentStatus string  `json:"payment_status"`
	PaidAt        string  `json:"paid_at,omitempty"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(model model.Invoice) {
	r.ID = model.ID
	r.ReservationID = model.ReservationID
	r.ClientID = model.ClientID
	r.Amount = model.Amount
	r.IssueDate = model.IssueDate.Format(constant.DateOnlyFormat)
	r.DueDate = model.DueDate.Format(constant.DateOnlyFormat)
	r.PaymentStatus = model.PaymentStatus

	if model.PaidAt != nil {
		r.PaidAt = model.PaidAt.Format(time.RFC3339)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetInvoicesResponse) FromModels(models []model.Invoice, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invoices = make([]InvoiceResponse, len(models))
	for i, mod := range models {
		r.Invoices[i].FromModel(mod)
	}
}
