package accident

import (
	"net/http"

	"fleet/infras/otel"
	"fleet/internal/domains/accident/model"
	"fleet/internal/domains/accident/model/dto"
	"fleet/internal/domains/accident/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/validator"
	"fleet/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Accident
	otel    otel.Otel
}

func New(service service.Accident, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/accidents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAccident)
		routerGroup.Get("/", handler.GetAccidents)
		routerGroup.Get("/{id}", handler.GetAccidentByID)
		routerGroup.Patch("/{id}", handler.UpdateAccident)
		routerGroup.Delete("/{id}", handler.DeleteAccident)
	})
}

// CreateAccident records an accident involving a vehicle and a client.
// @Summary Report an accident
// @Description Record an accident involving a vehicle and a client.
// @Tags Accident
// @Accept json
// @Produce json
// @Param request body dto.CreateAccidentRequest true "Create Accident Request"
// @Success 201 {object} response.Data[dto.AccidentResponse] "Accident recorded"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/accidents [post]
// @Security BearerAuth
func (handler *Handler) CreateAccident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAccident")
	defer scope.End()

	req := dto.CreateAccidentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create accident")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Accident recorded successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAccidents retrieves all accidents based on query parameters.
// @Summary Get all accidents
// @Description Retrieve all accident records with optional filtering and pagination.
// @Tags Accident
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param vehicle_id query string false "Filter by vehicle ID"
// @Param client_id query string false "Filter by client ID"
// @Param status query string false "Filter by status (REPORTED, IN_REPAIR, RESOLVED)"
// @Success 200 {object} response.Data[dto.GetAccidentsResponse] "List of accidents"
// @Router /v1/accidents [get]
// @Security BearerAuth
func (handler *Handler) GetAccidents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccidents")
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

	accidents, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get accidents")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Accidents retrieved successfully")

	response.WithJSON(w, http.StatusOK, accidents)
}

// GetAccidentByID retrieves an accident by its ID.
// @Summary Get an accident by ID
// @Tags Accident
// @Produce json
// @Param id path string true "Accident ID"
// @Success 200 {object} response.Data[dto.AccidentResponse] "Accident details"
// @Failure 404 {object} response.Error
// @Router /v1/accidents/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAccidentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccidentByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	accident, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get accident by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Accident retrieved successfully")

	response.WithJSON(w, http.StatusOK, accident)
}

// UpdateAccident updates an accident record.
// @Summary Update an accident by ID
// @Tags Accident
// @Accept json
// @Produce json
// @Param id path string true "Accident ID"
// @Param request body dto.UpdateAccidentRequest true "Update Accident Request"
// @Success 200 {object} response.Message "Accident updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/accidents/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAccident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAccident")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAccidentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update accident")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Accident updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Accident updated successfully")
}

// DeleteAccident deletes an accident by its ID.
// @Summary Delete an accident by ID
// @Tags Accident
// @Produce json
// @Param id path string true "Accident ID"
// @Success 200 {object} response.Message "Accident deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/accidents/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAccident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAccident")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete accident")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Accident deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Accident deleted successfully")
}
