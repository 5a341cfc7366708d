package contract

import (
	"net/http"

	"fleet/infras/otel"
	"fleet/internal/domains/contract/model"
	"fleet/internal/domains/contract/model/dto"
	"fleet/internal/domains/contract/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/validator"
	"fleet/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Contract
	otel    otel.Otel
}

func New(service service.Contract, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/contracts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateContract)
		routerGroup.Get("/", handler.GetContracts)
		routerGroup.Get("/{id}", handler.GetContractByID)
		routerGroup.Patch("/{id}", handler.UpdateContract)
		routerGroup.Delete("/{id}", handler.DeleteContract)
	})
}

// CreateContract signs a contract against a reservation.
// @Summary Create a new contract
// @Description Sign a rental contract against a reservation. A pending reservation is confirmed in the process.
// @Tags Contract
// @Accept json
// @Produce json
// @Param request body dto.CreateContractRequest true "Create Contract Request"
// @Success 201 {object} response.Data[dto.ContractResponse] "Contract created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/contracts [post]
// @Security BearerAuth
func (handler *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateContract")
	defer scope.End()

	req := dto.CreateContractRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create contract")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Contract created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetContracts retrieves all contracts based on query parameters.
// @Summary Get all contracts
// @Description Retrieve all contracts with optional filtering and pagination.
// @Tags Contract
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param vehicle_id query string false "Filter by vehicle ID"
// @Param client_id query string false "Filter by client ID"
// @Success 200 {object} response.Data[dto.GetContractsResponse] "List of contracts"
// @Router /v1/contracts [get]
// @Security BearerAuth
func (handler *Handler) GetContracts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContracts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	vehicleID := r.URL.Query().Get(model.FieldVehicleID)
	clientID := r.URL.Query().Get(model.FieldClientID)

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

	contracts, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get contracts")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Contracts retrieved successfully")

	response.WithJSON(w, http.StatusOK, contracts)
}

// GetContractByID retrieves a contract by its ID.
// @Summary Get a contract by ID
// @Description Retrieve a contract by its unique identifier.
// @Tags Contract
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Data[dto.ContractResponse] "Contract details"
// @Failure 404 {object} response.Error
// @Router /v1/contracts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetContractByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContractByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	contract, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get contract by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Contract retrieved successfully")

	response.WithJSON(w, http.StatusOK, contract)
}

// UpdateContract updates deposit or notes on an existing contract.
// @Summary Update a contract by ID
// @Description Update the deposit or notes of an existing contract.
// @Tags Contract
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.UpdateContractRequest true "Update Contract Request"
// @Success 200 {object} response.Message "Contract updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/contracts/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateContract")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateContractRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update contract")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Contract updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Contract updated successfully")
}

// DeleteContract voids a contract by its ID.
// @Summary Delete a contract by ID
// @Description Void a contract. Its revenue entry is removed and the vehicle status re-derived.
// @Tags Contract
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Message "Contract deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/contracts/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteContract")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete contract")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Contract deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Contract deleted successfully")
}
