package infraction

import (
	"net/http"

	"fleet/infras/otel"
	"fleet/internal/domains/infraction/model"
	"fleet/internal/domains/infraction/model/dto"
	"fleet/internal/domains/infraction/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/validator"
	"fleet/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Infraction
	otel    otel.Otel
}

func New(service service.Infraction, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/infractions", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInfraction)
		routerGroup.Get("/", handler.GetInfractions)
		routerGroup.Get("/{id}", handler.GetInfractionByID)
		routerGroup.Patch("/{id}", handler.UpdateInfraction)
		routerGroup.Delete("/{id}", handler.DeleteInfraction)
	})
}

// CreateInfraction records a traffic infraction.
// @Summary Record a traffic infraction
// @Description Record a traffic infraction attributed to a vehicle and a client.
// @Tags Infraction
// @Accept json
// @Produce json
// @Param request body dto.CreateInfractionRequest true "Create Infraction Request"
// @Success 201 {object} response.Data[dto.InfractionResponse] "Infraction recorded"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/infractions [post]
// @Security BearerAuth
func (handler *Handler) CreateInfraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInfraction")
	defer scope.End()

	req := dto.CreateInfractionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create infraction")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Infraction recorded successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetInfractions retrieves all infractions based on query parameters.
// @Summary Get all infractions
// @Tags Infraction
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param vehicle_id query string false "Filter by vehicle ID"
// @Param client_id query string false "Filter by client ID"
// @Param status query string false "Filter by status (PENDING, PAID, DISPUTED)"
// @Success 200 {object} response.Data[dto.GetInfractionsResponse] "List of infractions"
// @Router /v1/infractions [get]
// @Security BearerAuth
func (handler *Handler) GetInfractions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInfractions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	vehicleID := r.URL.Query().Get(model.FieldVehicleID)
	clientID := r.URL.Query().Get(model.FieldClientID)
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

	if clientID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldClientID,
			Operator: gDto.FilterOperatorEq,
			Value:    clientID,
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

	infractions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get infractions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Infractions retrieved successfully")

	response.WithJSON(w, http.StatusOK, infractions)
}

// GetInfractionByID retrieves an infraction by its ID.
// @Summary Get an infraction by ID
// @Tags Infraction
// @Produce json
// @Param id path string true "Infraction ID"
// @Success 200 {object} response.Data[dto.InfractionResponse] "Infraction details"
// @Failure 404 {object} response.Error
// @Router /v1/infractions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInfractionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInfractionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	infraction, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get infraction by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Infraction retrieved successfully")

	response.WithJSON(w, http.StatusOK, infraction)
}

// UpdateInfraction updates an infraction record.
// @Summary Update an infraction by ID
// @Tags Infraction
// @Accept json
// @Produce json
// @Param id path string true "Infraction ID"
// @Param request body dto.UpdateInfractionRequest true "Update Infraction Request"
// @Success 200 {object} response.Message "Infraction updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/infractions/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInfraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInfraction")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateInfractionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update infraction")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Infraction updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Infraction updated successfully")
}

// DeleteInfraction deletes an infraction by its ID.
// @Summary Delete an infraction by ID
// @Tags Infraction
// @Produce json
// @Param id path string true "Infraction ID"
// @Success 200 {object} response.Message "Infraction deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/infractions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInfraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInfraction")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete infraction")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Infraction deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Infraction deleted successfully")
}
