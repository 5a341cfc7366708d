package dto

import (
	"time"

	"fleet/internal/domains/maintenance/model"
	"fleet/shared"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"

	"github.com/google/uuid"
)

type CreateMaintenanceRequest struct {
	VehicleID   string  `json:"vehicle_id"  validate:"required,uuid"`
	Type        string  `json:"type"        validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Cost        float64 `json:"cost"        validate:"omitempty,gte=0"`
}

func (c *CreateMaintenanceRequest) ToModel(user string) model.Maintenance {
	return model.Maintenance{
		ID:          uuid.NewString(),
		VehicleID:   c.VehicleID,
		Type:        c.Type,
		Description: c.Description,
		Cost:        c.Cost,
		Status:      model.StatusOpen,
		StartedAt:   timezone.Now(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMaintenanceRequest struct {
	Type        string  `db:"type"        json:"type"        validate:"omitempty,max=100"`
	Description string  `db:"description" json:"description" validate:"omitempty,max=2000"`
	Cost        float64 `db:"cost"        json:"cost"        validate:"omitempty,gte=0"`
}

type MaintenanceResponse struct {
	ID          string  `json:"id"`
	VehicleID   string  `json:"vehicle_id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Cost        float64 `json:"cost"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(model model.Maintenance) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.Type = model.Type
	r.Description = model.Description
	r.Cost = model.Cost
	r.Status = model.Status
	r.StartedAt = model.StartedAt.Format(time.RFC3339)

	if model.CompletedAt != nil {
		r.CompletedAt = model.CompletedAt.Format(time.RFC3339)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetMaintenancesResponse struct {
	Maintenances []MaintenanceResponse `json:"maintenances"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetMaintenancesResponse) FromModels(models []model.Maintenance, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Maintenances = make([]MaintenanceResponse, len(models))
	for i, mod := range models {
		r.Maintenances[i].FromModel(mod)
	}
}
