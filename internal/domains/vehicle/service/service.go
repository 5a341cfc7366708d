package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/infras/s3"
	"fleet/internal/availability"
	"fleet/internal/domains/vehicle/model"
	"fleet/internal/domains/vehicle/model/dto"
	"fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVehicle    = "vehicle:get"
	cacheGetAllVehicle = "vehicle:gets"
	cacheCountVehicle  = "vehicle:count"

	photoDirectory = "vehicles"
)

type Vehicle interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VehicleResponse, error)
	CheckAvailability(ctx context.Context, id string, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateVehicleStatusRequest, id string) error
	UploadPhoto(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Vehicle
	engine  availability.Engine
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage s3.S3
}

func New(repo repository.Vehicle, engine availability.Engine, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage s3.S3) Vehicle {
	return &serviceImpl{
		repo:    repo,
		engine:  engine,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateVehicleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	registered, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRegistrationNumber,
				Operator: gDto.FilterOperatorEq,
				Value:    req.RegistrationNumber,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check registration number")

		return fmt.Errorf("failed to check registration number: %w", err)
	}

	if registered {
		return failure.Conflict("a vehicle with this registration number already exists") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create vehicle")

		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
		shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVehiclesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.sweep(ctx)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicles")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicles")

		return res, fmt.Errorf("failed to get vehicles: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.sweep(ctx)

	cacheKey := shared.BuildCacheKey(cacheGetVehicle, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle")

		return res, nil
	}

	vehicle, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return res, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	res.FromModel(vehicle)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle to cache")
		}
	}()

	return res, nil
}

// CheckAvailability answers whether the vehicle can be reserved for the
// given inclusive interval. This is a read-only preview; the binding
// check happens again under lock when a reservation is created.
func (s *serviceImpl) CheckAvailability(ctx context.Context, id string, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := time.ParseInLocation(constant.DateOnlyFormat, req.StartDate, timezone.GetLocation())
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	end, err := time.ParseInLocation(constant.DateOnlyFormat, req.EndDate, timezone.GetLocation())
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if end.Before(start) {
		return res, failure.BadRequestFromString("end date must not be before start date") // nolint:wrapcheck
	}

	res = dto.AvailabilityResponse{
		VehicleID: id,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Available: true,
	}

	err = s.engine.CheckAvailability(ctx, nil, id, start, end, constant.Empty)
	if err == nil {
		return res, nil
	}

	// Conflicts and an out-of-circulation vehicle are part of the answer,
	// not an error. The window itself was validated above, so a 400 from
	// the engine can only be the vehicle status gate.
	if failure.Is(err, http.StatusConflict) || failure.Is(err, http.StatusBadRequest) {
		res.Available = false
		res.Reason = err.Error()

		return res, nil
	}

	return res, err
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateVehicleRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update vehicle")

		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// UpdateStatus is the manual override path. Setting MAINTENANCE takes
// the vehicle out of circulation; setting AVAILABLE or RENTED by hand
// is immediately reconciled against the reservation set so the stored
// status can never contradict it.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateVehicleStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	vehicle, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update vehicle status")

		return fmt.Errorf("failed to update vehicle status: %w", err)
	}

	status := req.Status

	if req.Status != constant.VehicleStatusMaintenance {
		status, err = s.engine.RecomputeVehicleStatus(ctx, nil, id, user)
		if err != nil {
			log.Error().Err(err).Msg("failed to reconcile vehicle status")

			return err
		}
	}

	s.engine.Publish(ctx, availability.Event{
		Type:       availability.EventVehicleStatusChanged,
		VehicleID:  id,
		Status:     status,
		OccurredAt: timezone.Now(),
	})

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadPhoto(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadPhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return constant.Empty, fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return constant.Empty, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	url, err = s.storage.UploadFile(ctx, constant.Empty, photoDirectory, file, fileHeader, id+"_"+fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload vehicle photo")

		return constant.Empty, fmt.Errorf("failed to upload vehicle photo: %w", err)
	}

	fields := map[string]any{
		model.FieldPhotoURL:      url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to link photo to vehicle")

		return constant.Empty, fmt.Errorf("failed to link photo to vehicle: %w", err)
	}

	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete vehicle")

		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) sweep(ctx context.Context) {
	swept, err := s.engine.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("read-path sweep failed")

		return
	}

	if swept > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
			shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
			shared.InvalidateCaches(c, s.cache, cacheGetVehicle)
		}()
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVehicle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
		shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
	}()
}
