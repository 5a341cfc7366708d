package revenue

import (
	"net/http"

	"fleet/infras/otel"
	"fleet/internal/domains/revenue/model"
	"fleet/internal/domains/revenue/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Revenue
	otel    otel.Otel
}

func New(service service.Revenue, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/revenues", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRevenues)
		routerGroup.Get("/summary", handler.GetRevenueSummary)
		routerGroup.Get("/monthly", handler.GetMonthlyRevenue)
		routerGroup.Get("/{id}", handler.GetRevenueByID)
	})
}

// GetRevenues retrieves all revenue entries based on query parameters.
// @Summary Get all revenue entries
// @Description Retrieve all revenue entries with optional filtering and pagination.
// @Tags Revenue
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param source query string false "Filter by source (CONTRACT, INVOICE)"
// @Success 200 {object} response.Data[dto.GetRevenuesResponse] "List of revenue entries"
// @Router /v1/revenues [get]
// @Security BearerAuth
func (handler *Handler) GetRevenues(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenues")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	source := r.URL.Query().Get(model.FieldSource)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if source != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldSource,
			Operator: gDto.FilterOperatorEq,
			Value:    source,
			Table:    model.TableName,
		})
	}

	revenues, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Revenue entries retrieved successfully")

	response.WithJSON(w, http.StatusOK, revenues)
}

// GetRevenueSummary aggregates revenue over a date range.
// @Summary Get revenue summary
// @Description Aggregate revenue totals over an optional date range, split by source.
// @Tags Revenue
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.RevenueSummaryResponse] "Revenue summary"
// @Failure 400 {object} response.Error
// @Router /v1/revenues/summary [get]
// @Security BearerAuth
func (handler *Handler) GetRevenueSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenueSummary")
	defer scope.End()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	summary, err := handler.service.Summary(ctx, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Revenue summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}

// GetMonthlyRevenue aggregates revenue per month for one year.
// @Summary Get monthly revenue totals
// @Description Per-month revenue sums for the given calendar year.
// @Tags Revenue
// @Produce json
// @Param year query string true "Calendar year (YYYY)"
// @Success 200 {object} response.Data[dto.MonthlyRevenueResponse] "Monthly revenue totals"
// @Failure 400 {object} response.Error
// @Router /v1/revenues/monthly [get]
// @Security BearerAuth
func (handler *Handler) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMonthlyRevenue")
	defer scope.End()

	year := r.URL.Query().Get("year")

	monthly, err := handler.service.Monthly(ctx, year)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get monthly revenue")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Monthly revenue retrieved successfully")

	response.WithJSON(w, http.StatusOK, monthly)
}

// GetRevenueByID retrieves a revenue entry by its ID.
// @Summary Get a revenue entry by ID
// @Tags Revenue
// @Produce json
// @Param id path string true "Revenue ID"
// @Success 200 {object} response.Data[dto.RevenueResponse] "Revenue entry details"
// @Failure 404 {object} response.Error
// @Router /v1/revenues/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRevenueByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenueByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	revenue, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue entry by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Revenue entry retrieved successfully")

	response.WithJSON(w, http.StatusOK, revenue)
}
