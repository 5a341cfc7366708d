package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/internal/domains/accident/model"
	"fleet/internal/domains/accident/model/dto"
	"fleet/internal/domains/accident/repository"
	clientModel "fleet/internal/domains/client/model"
	clientRepo "fleet/internal/domains/client/repository"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepo "fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAccident    = "accident:get"
	cacheGetAllAccident = "accident:gets"
	cacheCountAccident  = "accident:count"
)

type Accident interface {
	Create(ctx context.Context, req dto.CreateAccidentRequest) (dto.AccidentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAccidentsResponse, error)
	Get(ctx context.Context, id string) (dto.AccidentResponse, error)
	Update(ctx context.Context, req dto.UpdateAccidentRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Accident
	vehicleRepo vehicleRepo.Vehicle
	clientRepo  clientRepo.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Accident,
	vehicles vehicleRepo.Vehicle,
	clients clientRepo.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Accident {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicles,
		clientRepo:  clients,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAccidentRequest) (res dto.AccidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	date, err := req.Occurred()
	if err != nil {
		return res, err
	}

	vehicleExist, err := s.vehicleRepo.Exist(ctx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return res, fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !vehicleExist {
		return res, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	clientExist, err := s.clientRepo.Exist(ctx, shared.FilterByID(req.ClientID, clientModel.FieldID, clientModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if client exists")

		return res, fmt.Errorf("failed to check if client exists: %w", err)
	}

	if !clientExist {
		return res, failure.NotFound("client not found") // nolint:wrapcheck
	}

	accident := req.ToModel(user, date)

	if err = s.repo.Insert(ctx, accident); err != nil {
		log.Error().Err(err).Msg("failed to create accident")

		return res, fmt.Errorf("failed to create accident: %w", err)
	}

	s.invalidate(ctx, accident.ID)

	res.FromModel(accident)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAccidentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAccident, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for accidents")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count accidents")

		return res, fmt.Errorf("failed to count accidents: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get accidents")

		return res, fmt.Errorf("failed to get accidents: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save accidents to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AccidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAccident, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	accident, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get accident")

		return res, fmt.Errorf("failed to get accident: %w", err)
	}

	if accident.ID == constant.Empty {
		return res, failure.NotFound("accident not found") // nolint:wrapcheck
	}

	res.FromModel(accident)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save accident to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAccidentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateAccidentRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if accident exists")

		return fmt.Errorf("failed to check if accident exists: %w", err)
	}

	if !exist {
		return failure.NotFound("accident not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update accident")

		return fmt.Errorf("failed to update accident: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if accident exists")

		return fmt.Errorf("failed to check if accident exists: %w", err)
	}

	if !exist {
		return failure.NotFound("accident not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete accident")

		return fmt.Errorf("failed to delete accident: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAccident, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete accident from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllAccident)
		shared.InvalidateCaches(c, s.cache, cacheCountAccident)
	}()
}
