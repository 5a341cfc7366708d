package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/availability"
	clientModel "fleet/internal/domains/client/model"
	clientRepo "fleet/internal/domains/client/repository"
	"fleet/internal/domains/contract/model"
	"fleet/internal/domains/contract/model/dto"
	"fleet/internal/domains/contract/repository"
	reservationModel "fleet/internal/domains/reservation/model"
	reservationRepo "fleet/internal/domains/reservation/repository"
	revenueModel "fleet/internal/domains/revenue/model"
	revenueRepo "fleet/internal/domains/revenue/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetContract    = "contract:get"
	cacheGetAllContract = "contract:gets"
	cacheCountContract  = "contract:count"
)

type Contract interface {
	Create(ctx context.Context, req dto.CreateContractRequest) (dto.ContractResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetContractsResponse, error)
	Get(ctx context.Context, id string) (dto.ContractResponse, error)
	Update(ctx context.Context, req dto.UpdateContractRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo            repository.Contract
	reservationRepo reservationRepo.Reservation
	clientRepo      clientRepo.Client
	revenueRepo     revenueRepo.Revenue
	engine          availability.Engine
	db              *postgres.Connection
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Contract,
	reservations reservationRepo.Reservation,
	clients clientRepo.Client,
	revenues revenueRepo.Revenue,
	engine availability.Engine,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Contract {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservations,
		clientRepo:      clients,
		revenueRepo:     revenues,
		engine:          engine,
		db:              db,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

// Create signs a rental contract against a reservation. Everything
// happens in one transaction: the reservation is confirmed if it was
// still pending, the vehicle status is re-derived, and a revenue entry
// for the contract amount is recorded.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateContractRequest) (res dto.ContractResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var contract model.Contract

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		reservation, err := s.reservationRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.ReservationID, reservationModel.FieldID, reservationModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if reservation.Status == constant.ReservationStatusCanceled || reservation.Status == constant.ReservationStatusCompleted {
			return failure.Conflictf("cannot sign a contract on a %s reservation", reservation.Status) // nolint:wrapcheck
		}

		signed, err := s.repo.Exist(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldReservationID,
					Operator: gDto.FilterOperatorEq,
					Value:    req.ReservationID,
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to check existing contract: %w", err)
		}

		if signed {
			return failure.Conflict("reservation already has a contract") // nolint:wrapcheck
		}

		if req.SecondDriverID != constant.Empty {
			if req.SecondDriverID == reservation.ClientID {
				return failure.BadRequestFromString("second driver must differ from the primary client") // nolint:wrapcheck
			}

			driverExists, err := s.clientRepo.Exist(ctx, shared.FilterByID(req.SecondDriverID, clientModel.FieldID, clientModel.TableName))
			if err != nil {
				return fmt.Errorf("failed to check second driver: %w", err)
			}

			if !driverExists {
				return failure.NotFound("second driver not found") // nolint:wrapcheck
			}
		}

		if reservation.Status == constant.ReservationStatusPending {
			if err := s.engine.CheckAvailability(ctx, tx, reservation.VehicleID, reservation.StartDate, reservation.EndDate, reservation.ID); err != nil {
				return err
			}

			fields := map[string]any{
				reservationModel.FieldStatus: constant.ReservationStatusConfirmed,
				constant.FieldModifiedAt:     timezone.Now(),
				constant.FieldModifiedBy:     user,
			}

			if err := s.reservationRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(reservation.ID, reservationModel.FieldID, reservationModel.TableName)); err != nil {
				return fmt.Errorf("failed to confirm reservation: %w", err)
			}

			reservation.Status = constant.ReservationStatusConfirmed
		}

		contract = req.ToModel(user, reservation)

		if err := s.repo.InsertTx(ctx, tx, contract); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		contractID := contract.ID
		revenue := revenueModel.Revenue{
			ID:         uuid.NewString(),
			Source:     revenueModel.SourceContract,
			ContractID: &contractID,
			Amount:     contract.TotalAmount,
			EntryDate:  timezone.Now(),
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}

		if err := s.revenueRepo.InsertTx(ctx, tx, revenue); err != nil {
			return fmt.Errorf("failed to record contract revenue: %w", err)
		}

		if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, reservation.VehicleID, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to create contract")

		return res, err
	}

	s.engine.Publish(ctx, availability.Event{
		Type:          availability.EventReservationConfirmed,
		VehicleID:     contract.VehicleID,
		ReservationID: contract.ReservationID,
		Status:        constant.ReservationStatusConfirmed,
		OccurredAt:    timezone.Now(),
	})

	s.invalidate(ctx, contract.ID)

	res.FromModel(contract)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetContractsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllContract, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for contracts")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count contracts")

		return res, fmt.Errorf("failed to count contracts: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get contracts")

		return res, fmt.Errorf("failed to get contracts: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save contracts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ContractResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetContract, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	contract, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get contract")

		return res, fmt.Errorf("failed to get contract: %w", err)
	}

	if contract.ID == constant.Empty {
		return res, failure.NotFound("contract not found") // nolint:wrapcheck
	}

	res.FromModel(contract)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save contract to cache")
		}
	}()

	return res, nil
}

// Update changes contract terms. Reassigning the vehicle re-checks the
// interval against the new vehicle, moves the reservation with the
// contract, and re-derives both vehicle statuses in the same
// transaction.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateContractRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateContractRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		contract, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}

		if contract.ID == constant.Empty {
			return failure.NotFound("contract not found") // nolint:wrapcheck
		}

		reassigned := req.VehicleID != constant.Empty && req.VehicleID != contract.VehicleID

		if reassigned {
			if err := s.engine.CheckAvailability(ctx, tx, req.VehicleID, contract.StartDate, contract.EndDate, contract.ReservationID); err != nil {
				return err
			}

			fields := map[string]any{
				reservationModel.FieldVehicleID: req.VehicleID,
				constant.FieldModifiedAt:        timezone.Now(),
				constant.FieldModifiedBy:        user,
			}

			if err := s.reservationRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(contract.ReservationID, reservationModel.FieldID, reservationModel.TableName)); err != nil {
				return fmt.Errorf("failed to move reservation: %w", err)
			}
		}

		updatedFields := shared.TransformFields(req, user)
		if err := s.repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		if reassigned {
			if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, contract.VehicleID, user); err != nil {
				return err
			}

			if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, req.VehicleID, user); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to update contract")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete voids a contract. The linked revenue entry is removed and the
// vehicle status re-derived, since voiding the contract may free the
// vehicle.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		contract, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}

		if contract.ID == constant.Empty {
			return failure.NotFound("contract not found") // nolint:wrapcheck
		}

		if err := s.revenueRepo.DeleteTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    revenueModel.FieldContractID,
					Operator: gDto.FilterOperatorEq,
					Value:    contract.ID,
					Table:    revenueModel.TableName,
				},
			},
		}); err != nil {
			return fmt.Errorf("failed to remove contract revenue: %w", err)
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete contract: %w", err)
		}

		if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, contract.VehicleID, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to delete contract")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetContract, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete contract from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllContract)
		shared.InvalidateCaches(c, s.cache, cacheCountContract)
	}()
}
