package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/internal/domains/revenue/model"
	"fleet/internal/domains/revenue/model/dto"
	"fleet/internal/domains/revenue/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRevenue     = "revenue:get"
	cacheGetAllRevenue  = "revenue:gets"
	cacheCountRevenue   = "revenue:count"
	cacheSummaryRevenue = "revenue:summary"
	cacheMonthlyRevenue = "revenue:monthly"
)

type Revenue interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRevenuesResponse, error)
	Get(ctx context.Context, id string) (dto.RevenueResponse, error)
	Summary(ctx context.Context, from, to string) (dto.RevenueSummaryResponse, error)
	Monthly(ctx context.Context, year string) (dto.MonthlyRevenueResponse, error)
}

type serviceImpl struct {
	repo  repository.Revenue
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Revenue, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Revenue {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRevenuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRevenue, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for revenues")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count revenues")

		return res, fmt.Errorf("failed to count revenues: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get revenues")

		return res, fmt.Errorf("failed to get revenues: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenues to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RevenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRevenue, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	revenue, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get revenue")

		return res, fmt.Errorf("failed to get revenue: %w", err)
	}

	if revenue.ID == constant.Empty {
		return res, failure.NotFound("revenue entry not found") // nolint:wrapcheck
	}

	res.FromModel(revenue)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenue to cache")
		}
	}()

	return res, nil
}

// Summary totals revenue over an optional date range, broken down by
// source.
func (s *serviceImpl) Summary(ctx context.Context, from, to string) (res dto.RevenueSummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSummaryRevenue, from, to)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	rangeFilter, err := s.rangeFilter(from, to)
	if err != nil {
		return res, err
	}

	res.From = from
	res.To = to

	for _, source := range []string{model.SourceContract, model.SourceInvoice} {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: append([]any{
				gDto.Filter{
					Field:    model.FieldSource,
					Operator: gDto.FilterOperatorEq,
					Value:    source,
					Table:    model.TableName,
				},
			}, rangeFilter...),
		}

		total, err := s.repo.SumAmount(ctx, filter)
		if err != nil {
			log.Error().Err(err).Str("source", source).Msg("failed to sum revenue")

			return res, fmt.Errorf("failed to sum revenue: %w", err)
		}

		switch source {
		case model.SourceContract:
			res.Contract = total
		case model.SourceInvoice:
			res.Invoice = total
		}
	}

	res.Total = res.Contract + res.Invoice

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenue summary to cache")
		}
	}()

	return res, nil
}

// Monthly returns per-month revenue totals for one calendar year.
func (s *serviceImpl) Monthly(ctx context.Context, year string) (res dto.MonthlyRevenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Monthly")
	defer scope.End()
	defer scope.TraceIfError(err)

	y, err := strconv.Atoi(year)
	if err != nil || y < 1970 || y > 9999 {
		return res, failure.BadRequestFromString("invalid year") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheMonthlyRevenue, year)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	totals, err := s.repo.MonthlyTotals(ctx, y)
	if err != nil {
		log.Error().Err(err).Int("year", y).Msg("failed to aggregate monthly revenue")

		return res, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}

	res.FromTotals(y, totals)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save monthly revenue to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) rangeFilter(from, to string) ([]any, error) {
	filters := []any{}

	if from != constant.Empty {
		fromDate, err := time.ParseInLocation(constant.DateOnlyFormat, from, timezone.GetLocation())
		if err != nil {
			return nil, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{
			ArgName:  "entry_from",
			Field:    model.FieldEntryDate,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    fromDate,
			Table:    model.TableName,
		})
	}

	if to != constant.Empty {
		toDate, err := time.ParseInLocation(constant.DateOnlyFormat, to, timezone.GetLocation())
		if err != nil {
			return nil, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{
			ArgName:  "entry_to",
			Field:    model.FieldEntryDate,
			Operator: gDto.FilterOperatorLessEq,
			Value:    toDate,
			Table:    model.TableName,
		})
	}

	return filters, nil
}
