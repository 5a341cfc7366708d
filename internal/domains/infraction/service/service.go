package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	clientModel "fleet/internal/domains/client/model"
	clientRepo "fleet/internal/domains/client/repository"
	"fleet/internal/domains/infraction/model"
	"fleet/internal/domains/infraction/model/dto"
	"fleet/internal/domains/infraction/repository"
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
	cacheGetInfraction    = "infraction:get"
	cacheGetAllInfraction = "infraction:gets"
	cacheCountInfraction  = "infraction:count"
)

type Infraction interface {
	Create(ctx context.Context, req dto.CreateInfractionRequest) (dto.InfractionResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInfractionsResponse, error)
	Get(ctx context.Context, id string) (dto.InfractionResponse, error)
	Update(ctx context.Context, req dto.UpdateInfractionRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Infraction
	vehicleRepo vehicleRepo.Vehicle
	clientRepo  clientRepo.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Infraction,
	vehicles vehicleRepo.Vehicle,
	clients clientRepo.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Infraction {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicles,
		clientRepo:  clients,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInfractionRequest) (res dto.InfractionResponse, err error) {
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

	infraction := req.ToModel(user, date)

	if err = s.repo.Insert(ctx, infraction); err != nil {
		log.Error().Err(err).Msg("failed to create infraction")

		return res, fmt.Errorf("failed to create infraction: %w", err)
	}

	s.invalidate(ctx, infraction.ID)

	res.FromModel(infraction)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInfractionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInfraction, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for infractions")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count infractions")

		return res, fmt.Errorf("failed to count infractions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get infractions")

		return res, fmt.Errorf("failed to get infractions: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save infractions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InfractionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetInfraction, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	infraction, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get infraction")

		return res, fmt.Errorf("failed to get infraction: %w", err)
	}

	if infraction.ID == constant.Empty {
		return res, failure.NotFound("infraction not found") // nolint:wrapcheck
	}

	res.FromModel(infraction)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save infraction to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInfractionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateInfractionRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if infraction exists")

		return fmt.Errorf("failed to check if infraction exists: %w", err)
	}

	if !exist {
		return failure.NotFound("infraction not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update infraction")

		return fmt.Errorf("failed to update infraction: %w", err)
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
		log.Error().Err(err).Msg("failed to check if infraction exists")

		return fmt.Errorf("failed to check if infraction exists: %w", err)
	}

	if !exist {
		return failure.NotFound("infraction not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete infraction")

		return fmt.Errorf("failed to delete infraction: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInfraction, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete infraction from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInfraction)
		shared.InvalidateCaches(c, s.cache, cacheCountInfraction)
	}()
}
