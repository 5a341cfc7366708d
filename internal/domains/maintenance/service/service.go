package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/availability"
	"fleet/internal/domains/maintenance/model"
	"fleet/internal/domains/maintenance/model/dto"
	"fleet/internal/domains/maintenance/repository"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepo "fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetMaintenance    = "maintenance:get"
	cacheGetAllMaintenance = "maintenance:gets"
	cacheCountMaintenance  = "maintenance:count"
)

type Maintenance interface {
	Create(ctx context.Context, req dto.CreateMaintenanceRequest) (dto.MaintenanceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMaintenancesResponse, error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) error
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Maintenance
	vehicleRepo vehicleRepo.Vehicle
	engine      availability.Engine
	db          *postgres.Connection
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Maintenance,
	vehicles vehicleRepo.Vehicle,
	engine availability.Engine,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Maintenance {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicles,
		engine:      engine,
		db:          db,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create opens a maintenance record and takes the vehicle out of
// circulation. The status write and the record insert share one
// transaction so the override can never exist without its record.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMaintenanceRequest) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var maintenance model.Maintenance

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		vehicle, err := s.vehicleRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get vehicle: %w", err)
		}

		if vehicle.ID == constant.Empty {
			return failure.NotFound("vehicle not found") // nolint:wrapcheck
		}

		maintenance = req.ToModel(user)

		if err := s.repo.InsertTx(ctx, tx, maintenance); err != nil {
			return fmt.Errorf("failed to create maintenance record: %w", err)
		}

		if vehicle.Status != constant.VehicleStatusMaintenance {
			fields := map[string]any{
				vehicleModel.FieldStatus: constant.VehicleStatusMaintenance,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: user,
			}

			if err := s.vehicleRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(vehicle.ID, vehicleModel.FieldID, vehicleModel.TableName)); err != nil {
				return fmt.Errorf("failed to set vehicle maintenance status: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to open maintenance record")

		return res, err
	}

	s.engine.Publish(ctx, availability.Event{
		Type:       availability.EventVehicleStatusChanged,
		VehicleID:  req.VehicleID,
		Status:     constant.VehicleStatusMaintenance,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, maintenance.ID)

	res.FromModel(maintenance)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMaintenancesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance records")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance records")

		return res, fmt.Errorf("failed to count maintenance records: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance records")

		return res, fmt.Errorf("failed to get maintenance records: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance records to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	maintenance, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance record")

		return res, fmt.Errorf("failed to get maintenance record: %w", err)
	}

	if maintenance.ID == constant.Empty {
		return res, failure.NotFound("maintenance record not found") // nolint:wrapcheck
	}

	res.FromModel(maintenance)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance record to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateMaintenanceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if maintenance record exists")

		return fmt.Errorf("failed to check if maintenance record exists: %w", err)
	}

	if !exist {
		return failure.NotFound("maintenance record not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update maintenance record")

		return fmt.Errorf("failed to update maintenance record: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Complete closes a maintenance record. Once the vehicle has no other
// open record the manual override is lifted and the status re-derived
// from the reservation set.
func (s *serviceImpl) Complete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var (
		vehicleID string
		status    string
	)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		maintenance, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get maintenance record: %w", err)
		}

		if maintenance.ID == constant.Empty {
			return failure.NotFound("maintenance record not found") // nolint:wrapcheck
		}

		if maintenance.Status == model.StatusCompleted {
			return failure.Conflict("maintenance record is already completed") // nolint:wrapcheck
		}

		vehicleID = maintenance.VehicleID

		fields := map[string]any{
			model.FieldStatus:        model.StatusCompleted,
			model.FieldCompletedAt:   timezone.Now(),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to complete maintenance record: %w", err)
		}

		stillOpen, err := s.repo.GetAllTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldVehicleID,
					Operator: gDto.FilterOperatorEq,
					Value:    maintenance.VehicleID,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldStatus,
					Operator: gDto.FilterOperatorEq,
					Value:    model.StatusOpen,
					ArgName:  "open_status",
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldID,
					Operator: gDto.FilterOperatorNotEq,
					Value:    maintenance.ID,
					ArgName:  "exclude_id",
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to check open maintenance records: %w", err)
		}

		if len(stillOpen) > 0 {
			status = constant.VehicleStatusMaintenance

			return nil
		}

		vehicleFilter := shared.FilterByID(maintenance.VehicleID, vehicleModel.FieldID, vehicleModel.TableName)
		vehicleFields := map[string]any{
			vehicleModel.FieldStatus: constant.VehicleStatusAvailable,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.vehicleRepo.UpdateTx(ctx, tx, vehicleFields, vehicleFilter); err != nil {
			return fmt.Errorf("failed to lift vehicle maintenance status: %w", err)
		}

		status, err = s.engine.RecomputeVehicleStatus(ctx, tx, maintenance.VehicleID, user)
		if err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to complete maintenance record")

		return err
	}

	s.engine.Publish(ctx, availability.Event{
		Type:       availability.EventVehicleStatusChanged,
		VehicleID:  vehicleID,
		Status:     status,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	maintenance, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance record")

		return fmt.Errorf("failed to get maintenance record: %w", err)
	}

	if maintenance.ID == constant.Empty {
		return failure.NotFound("maintenance record not found") // nolint:wrapcheck
	}

	if maintenance.Status == model.StatusOpen {
		return failure.Conflict("cannot delete an open maintenance record, complete it first") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete maintenance record")

		return fmt.Errorf("failed to delete maintenance record: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete maintenance record from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)

		shared.InvalidateCaches(c, s.cache, "vehicle:get")
		shared.InvalidateCaches(c, s.cache, "vehicle:gets")
	}()
}
