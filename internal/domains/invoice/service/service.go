package service

import (
	"context"
	"fleet/config"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/invoice/model"
	"fleet/internal/domains/invoice/model/dto"
	"fleet/internal/domains/invoice/repository"
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
	cacheGetInvoice    = "invoice:get"
	cacheGetAllInvoice = "invoice:gets"
	cacheCountInvoice  = "invoice:count"
)

type Invoice interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (dto.InvoiceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInvoicesResponse, error)
	Get(ctx context.Context, id string) (dto.InvoiceResponse, error)
	Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) error
	UpdatePayment(ctx context.Context, req dto.UpdateInvoicePaymentRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo            repository.Invoice
	reservationRepo reservationRepo.Reservation
	revenueRepo     revenueRepo.Revenue
	db              *postgres.Connection
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Invoice,
	reservations reservationRepo.Reservation,
	revenues revenueRepo.Revenue,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Invoice {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservations,
		revenueRepo:     revenues,
		db:              db,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	due, err := req.Due()
	if err != nil {
		return res, err
	}

	reservation, err := s.reservationRepo.Get(ctx, shared.FilterByID(req.ReservationID, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status == constant.ReservationStatusCanceled {
		return res, failure.Conflict("cannot invoice a canceled reservation") // nolint:wrapcheck
	}

	invoice := req.ToModel(user, reservation, due)

	if err = s.repo.Insert(ctx, invoice); err != nil {
		log.Error().Err(err).Msg("failed to create invoice")

		return res, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.invalidate(ctx, invoice.ID)

	res.FromModel(invoice)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInvoice, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoices")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoices to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetInvoice, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	invoice, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return res, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return res, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	res.FromModel(invoice)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateInvoiceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	invoice, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	if invoice.PaymentStatus == constant.PaymentStatusPaid {
		return failure.Conflict("cannot modify a paid invoice") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update invoice")

		return fmt.Errorf("failed to update invoice: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// UpdatePayment moves an invoice between payment states. Marking it
// PAID records a revenue entry in the same transaction, so the books
// and the invoice can never disagree.
func (s *serviceImpl) UpdatePayment(ctx context.Context, req dto.UpdateInvoicePaymentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		invoice, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		if invoice.ID == constant.Empty {
			return failure.NotFound("invoice not found") // nolint:wrapcheck
		}

		if invoice.PaymentStatus == req.PaymentStatus {
			return nil
		}

		if invoice.PaymentStatus == constant.PaymentStatusPaid {
			return failure.Conflict("invoice is already paid") // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldPaymentStatus: req.PaymentStatus,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if req.PaymentStatus == constant.PaymentStatusPaid {
			fields[model.FieldPaidAt] = timezone.Now()
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update invoice payment: %w", err)
		}

		if req.PaymentStatus == constant.PaymentStatusPaid {
			invoiceID := invoice.ID
			revenue := revenueModel.Revenue{
				ID:        uuid.NewString(),
				Source:    revenueModel.SourceInvoice,
				InvoiceID: &invoiceID,
				Amount:    invoice.Amount,
				EntryDate: timezone.Now(),
				Metadata: gModel.Metadata{
					CreatedAt:  timezone.Now(),
					ModifiedAt: timezone.Now(),
					CreatedBy:  user,
					ModifiedBy: user,
				},
			}

			if err := s.revenueRepo.InsertTx(ctx, tx, revenue); err != nil {
				return fmt.Errorf("failed to record invoice revenue: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to update invoice payment")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes an invoice along with any revenue entry it produced.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		invoice, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		if invoice.ID == constant.Empty {
			return failure.NotFound("invoice not found") // nolint:wrapcheck
		}

		if err := s.revenueRepo.DeleteTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    revenueModel.FieldInvoiceID,
					Operator: gDto.FilterOperatorEq,
					Value:    invoice.ID,
					Table:    revenueModel.TableName,
				},
			},
		}); err != nil {
			return fmt.Errorf("failed to remove invoice revenue: %w", err)
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("failed to delete invoice")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInvoice, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete invoice from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice)
		shared.InvalidateCaches(c, s.cache, cacheCountInvoice)
	}()
}
