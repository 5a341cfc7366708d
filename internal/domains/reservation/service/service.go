package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/availability"
	"fleet/internal/domains/reservation/model"
	"fleet/internal/domains/reservation/model/dto"
	"fleet/internal/domains/reservation/repository"
	clientModel "fleet/internal/domains/client/model"
	clientRepo "fleet/internal/domains/client/repository"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepo "fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateReservationStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Reservation
	vehicleRepo vehicleRepo.Vehicle
	clientRepo  clientRepo.Client
	engine      availability.Engine
	db          *postgres.Connection
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Reservation,
	vehicles vehicleRepo.Vehicle,
	clients clientRepo.Client,
	engine availability.Engine,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicles,
		clientRepo:  clients,
		engine:      engine,
		db:          db,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	clientExists, err := s.clientRepo.Exist(ctx, shared.FilterByID(req.ClientID, clientModel.FieldID, clientModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if client exists")

		return res, fmt.Errorf("failed to check if client exists: %w", err)
	}

	if !clientExists {
		return res, failure.BadRequestFromString("client does not exist") // nolint:wrapcheck
	}

	start, end, err := req.Interval()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	var reservation model.Reservation

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// The engine locks the vehicle row, so no competing request can
		// pass the same check until this transaction commits.
		if err := s.engine.CheckAvailability(ctx, tx, req.VehicleID, start, end, constant.Empty); err != nil {
			return err
		}

		vehicle, err := s.vehicleRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get vehicle: %w", err)
		}

		reservation, err = req.ToModel(user, vehicle.DailyRate)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		if reservation.Status == constant.ReservationStatusConfirmed {
			if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, req.VehicleID, user); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, err
	}

	s.engine.Publish(ctx, availability.Event{
		Type:          availability.EventReservationCreated,
		VehicleID:     reservation.VehicleID,
		ReservationID: reservation.ID,
		Status:        reservation.Status,
		OccurredAt:    timezone.Now(),
	})

	s.invalidate(ctx, reservation.ID)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.sweep(ctx)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.sweep(ctx)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Update reschedules a reservation. The new interval goes through the
// same locked availability check as creation, with the reservation
// itself excluded from the overlap scan.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateReservationRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		reservation, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if reservation.Status == constant.ReservationStatusCanceled || reservation.Status == constant.ReservationStatusCompleted {
			return failure.Conflictf("reservation is already %s", reservation.Status) // nolint:wrapcheck
		}

		start, end := reservation.StartDate, reservation.EndDate

		if req.StartDate != constant.Empty {
			start, err = time.ParseInLocation(constant.DateOnlyFormat, req.StartDate, timezone.GetLocation())
			if err != nil {
				return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
			}
		}

		if req.EndDate != constant.Empty {
			end, err = time.ParseInLocation(constant.DateOnlyFormat, req.EndDate, timezone.GetLocation())
			if err != nil {
				return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
			}
		}

		if err := s.engine.CheckAvailability(ctx, tx, reservation.VehicleID, start, end, reservation.ID); err != nil {
			return err
		}

		vehicle, err := s.vehicleRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(reservation.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get vehicle: %w", err)
		}

		days := int(end.Sub(start).Hours()/24) + 1

		fields := map[string]any{
			model.FieldStartDate:     start,
			model.FieldEndDate:       end,
			model.FieldTotalPrice:    float64(days) * vehicle.DailyRate,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, reservation.VehicleID, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateReservationStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.engine.ApplyStatusTransition(ctx, id, req.Status, user); err != nil {
		log.Error().Err(err).Msg("failed to transition reservation status")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		reservation, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}

		// Removing an occupying reservation can free the vehicle.
		if _, err := s.engine.RecomputeVehicleStatus(ctx, tx, reservation.VehicleID, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// sweep closes out expired reservations before a read so listings never
// show a stale CONFIRMED past its end date. Failures are logged only;
// the scheduled job will retry shortly.
func (s *serviceImpl) sweep(ctx context.Context) {
	swept, err := s.engine.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("read-path sweep failed")

		return
	}

	if swept > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
			shared.InvalidateCaches(c, s.cache, cacheCountReservation)
			shared.InvalidateCaches(c, s.cache, cacheGetReservation)
		}()
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
