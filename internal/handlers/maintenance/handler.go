package maintenance

import (
	"net/http"

	"fleet/infras/otel"
	"fleet/internal/domains/maintenance/model"
	"fleet/internal/domains/maintenance/model/dto"
	"fleet/internal/domains/maintenance/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/validator"
	"fleet/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Maintenance
	otel    otel.Otel
}

func New(service service.Maintenance, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/maintenances", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMaintenance)
		routerGroup.Get("/", handler.GetMaintenances)
		routerGroup.Get("/{id}", handler.GetMaintenanceByID)
		routerGroup.Patch("/{id}", handler.UpdateMaintenance)
		routerGroup.Patch("/{id}/complete", handler.CompleteMaintenance)
		routerGroup.Delete("/{id}", handler.DeleteMaintenance)
	})
}

// CreateMaintenance opens a maintenance record and parks the vehicle.
// @Summary Open a maintenance record
// @Description Open a maintenance record. The vehicle is set to MAINTENANCE until the record is completed.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Create Maintenance Request"
// @Success 201 {object} response.Data[dto.MaintenanceResponse] "Maintenance record opened"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/maintenances [post]
// @Security BearerAuth
func (handler *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMaintenance")
	defer scope.End()

	req := dto.CreateMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to open maintenance record")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance record opened successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMaintenances retrieves all maintenance records based on query parameters.
// @Summary Get all maintenance records
// @Tags Maintenance
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param vehicle_id query string false "Filter by vehicle ID"
// @Param status query string false "Filter by status (OPEN, COMPLETED)"
// @Success 200 {object} response.Data[dto.GetMaintenancesResponse] "List of maintenance records"
// @Router /v1/maintenances [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenances(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenances")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	vehicleID := r.URL.Query().Get(model.FieldVehicleID)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if vehicleID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldVehicleID,
			Operator: gDto.FilterOperatorEq,
			Value:    vehicleID,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	maintenances, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance records")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance records retrieved successfully")

	response.WithJSON(w, http.StatusOK, maintenances)
}

// GetMaintenanceByID retrieves a maintenance record by its ID.
// @Summary Get a maintenance record by ID
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse] "Maintenance record details"
// @Failure 404 {object} response.Error
// @Router /v1/maintenances/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	maintenance, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance record by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance record retrieved successfully")

	response.WithJSON(w, http.StatusOK, maintenance)
}

// UpdateMaintenance updates a maintenance record.
// @Summary Update a maintenance record by ID
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance ID"
// @Param request body dto.UpdateMaintenanceRequest true "Update Maintenance Request"
// @Success 200 {object} response.Message "Maintenance record updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/maintenances/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateMaintenanceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update maintenance record")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance record updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Maintenance record updated successfully")
}

// CompleteMaintenance closes a maintenance record and re-derives the
// vehicle's status.
// @Summary Complete a maintenance record
// @Description Close a maintenance record. When the vehicle has no other open record its status is re-derived.
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance ID"
// @Success 200 {object} response.Message "Maintenance record completed successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/maintenances/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Complete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete maintenance record")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance record completed successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Maintenance record completed successfully")
}

// DeleteMaintenance deletes a completed maintenance record.
// @Summary Delete a maintenance record by ID
// @Description Remove a completed maintenance record. Open records must be completed first.
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance ID"
// @Success 200 {object} response.Message "Maintenance record deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/maintenances/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete maintenance record")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Maintenance record deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Maintenance record deleted successfully")
}
