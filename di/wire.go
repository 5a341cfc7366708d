//go:build wireinject
// +build wireinject

package di

import (
	"fleet/config"
	"fleet/infras/jwt"
	"fleet/infras/kafka"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/infras/redis"
	"fleet/infras/s3"
	"fleet/internal/availability"
	"fleet/internal/jobs"
	"fleet/permissions"
	"fleet/shared/cache"
	"fleet/transport/http"
	"fleet/transport/http/middleware"
	"fleet/transport/http/router"

	accidentRepository "fleet/internal/domains/accident/repository"
	accidentService "fleet/internal/domains/accident/service"
	authService "fleet/internal/domains/auth/service"
	clientRepository "fleet/internal/domains/client/repository"
	clientService "fleet/internal/domains/client/service"
	contractRepository "fleet/internal/domains/contract/repository"
	contractService "fleet/internal/domains/contract/service"
	infractionRepository "fleet/internal/domains/infraction/repository"
	infractionService "fleet/internal/domains/infraction/service"
	invoiceRepository "fleet/internal/domains/invoice/repository"
	invoiceService "fleet/internal/domains/invoice/service"
	maintenanceRepository "fleet/internal/domains/maintenance/repository"
	maintenanceService "fleet/internal/domains/maintenance/service"
	reservationRepository "fleet/internal/domains/reservation/repository"
	reservationService "fleet/internal/domains/reservation/service"
	revenueRepository "fleet/internal/domains/revenue/repository"
	revenueService "fleet/internal/domains/revenue/service"
	userRepository "fleet/internal/domains/user/repository"
	userService "fleet/internal/domains/user/service"
	vehicleRepository "fleet/internal/domains/vehicle/repository"
	vehicleService "fleet/internal/domains/vehicle/service"

	accidentHandler "fleet/internal/handlers/accident"
	authHandler "fleet/internal/handlers/auth"
	clientHandler "fleet/internal/handlers/client"
	contractHandler "fleet/internal/handlers/contract"
	infractionHandler "fleet/internal/handlers/infraction"
	invoiceHandler "fleet/internal/handlers/invoice"
	maintenanceHandler "fleet/internal/handlers/maintenance"
	reservationHandler "fleet/internal/handlers/reservation"
	revenueHandler "fleet/internal/handlers/revenue"
	userHandler "fleet/internal/handlers/user"
	vehicleHandler "fleet/internal/handlers/vehicle"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	permissions.Get,
)

var availabilityEngine = wire.NewSet(
	wire.Bind(new(availability.TxRunner), new(*postgres.Connection)),
	availability.New,
	jobs.NewSweeper,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var clientDomain = wire.NewSet(
	clientRepository.New,
	clientService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var contractDomain = wire.NewSet(
	contractRepository.New,
	contractService.New,
)

var invoiceDomain = wire.NewSet(
	invoiceRepository.New,
	invoiceService.New,
)

var accidentDomain = wire.NewSet(
	accidentRepository.New,
	accidentService.New,
)

var infractionDomain = wire.NewSet(
	infractionRepository.New,
	infractionService.New,
)

var maintenanceDomain = wire.NewSet(
	maintenanceRepository.New,
	maintenanceService.New,
)

var revenueDomain = wire.NewSet(
	revenueRepository.New,
	revenueService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	vehicleDomain,
	clientDomain,
	reservationDomain,
	contractDomain,
	invoiceDomain,
	accidentDomain,
	infractionDomain,
	maintenanceDomain,
	revenueDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	vehicleHandler.New,
	clientHandler.New,
	reservationHandler.New,
	contractHandler.New,
	invoiceHandler.New,
	accidentHandler.New,
	infractionHandler.New,
	maintenanceHandler.New,
	revenueHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		availabilityEngine,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
