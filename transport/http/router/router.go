package router

import (
	"fleet/internal/handlers/accident"
	"fleet/internal/handlers/auth"
	"fleet/internal/handlers/client"
	"fleet/internal/handlers/contract"
	"fleet/internal/handlers/infraction"
	"fleet/internal/handlers/invoice"
	"fleet/internal/handlers/maintenance"
	"fleet/internal/handlers/reservation"
	"fleet/internal/handlers/revenue"
	"fleet/internal/handlers/user"
	"fleet/internal/handlers/vehicle"
	"fleet/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Vehicle     vehicle.Handler
	Client      client.Handler
	Reservation reservation.Handler
	Contract    contract.Handler
	Invoice     invoice.Handler
	Accident    accident.Handler
	Infraction  infraction.Handler
	Maintenance maintenance.Handler
	Revenue     revenue.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	authRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.authRole.APIKey)
		routerGroup.Use(r.authRole.Auth)
		routerGroup.Use(r.authRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Vehicle.Router(routerGroup)
		r.DomainHandlers.Client.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Contract.Router(routerGroup)
		r.DomainHandlers.Invoice.Router(routerGroup)
		r.DomainHandlers.Accident.Router(routerGroup)
		r.DomainHandlers.Infraction.Router(routerGroup)
		r.DomainHandlers.Maintenance.Router(routerGroup)
		r.DomainHandlers.Revenue.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		authRole:       authRole,
	}
}
