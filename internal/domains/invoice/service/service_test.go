package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fleet/config"
	otelMocks "fleet/infras/otel/mocks"
	invoiceMocks "fleet/internal/domains/invoice/mocks"
	"fleet/internal/domains/invoice/model"
	"fleet/internal/domains/invoice/model/dto"
	"fleet/internal/domains/invoice/service"
	reservationMocks "fleet/internal/domains/reservation/mocks"
	reservationModel "fleet/internal/domains/reservation/model"
	revenueMocks "fleet/internal/domains/revenue/mocks"
	cacheMocks "fleet/shared/cache/mocks"
	"fleet/shared/constant"
)

func TestInvoiceService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockRevenues := revenueMocks.NewMockRevenue(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockReservations, mockRevenues, nil, cfg, mockCache, mockOtel)

	confirmedReservation := reservationModel.Reservation{
		ID:         "reservation-id",
		VehicleID:  "vehicle-id",
		ClientID:   "client-id",
		Status:     constant.ReservationStatusConfirmed,
		TotalPrice: 275,
	}

	req := dto.CreateInvoiceRequest{
		ReservationID: "reservation-id",
		DueDate:       "2025-07-01",
	}

	tests := []struct {
		name       string
		req        dto.CreateInvoiceRequest
		setupMock  func()
		wantErr    bool
		wantAmount float64
	}{
		{
			name: "amount defaults to the reservation total",
			req:  req,
			setupMock: func() {
				mockReservations.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedReservation, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantAmount: 275,
		},
		{
			name: "explicit amount wins over the reservation total",
			req: dto.CreateInvoiceRequest{
				ReservationID: "reservation-id",
				Amount:        120,
				DueDate:       "2025-07-01",
			},
			setupMock: func() {
				mockReservations.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedReservation, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantAmount: 120,
		},
		{
			name: "reservation not found",
			req:  req,
			setupMock: func() {
				mockReservations.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{}, nil)
			},
			wantErr: true,
		},
		{
			name: "canceled reservation cannot be invoiced",
			req:  req,
			setupMock: func() {
				canceled := confirmedReservation
				canceled.Status = constant.ReservationStatusCanceled

				mockReservations.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(canceled, nil)
			},
			wantErr: true,
		},
		{
			name: "invalid due date",
			req: dto.CreateInvoiceRequest{
				ReservationID: "reservation-id",
				DueDate:       "07/01/2025",
			},
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAmount, res.Amount)
			assert.Equal(t, constant.PaymentStatusPending, res.PaymentStatus)

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestInvoiceService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockRevenues := revenueMocks.NewMockRevenue(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockReservations, mockRevenues, nil, cfg, mockCache, mockOtel)

	pendingInvoice := model.Invoice{
		ID:            "invoice-id",
		ReservationID: "reservation-id",
		PaymentStatus: constant.PaymentStatusPending,
	}

	req := dto.UpdateInvoiceRequest{Amount: 99}

	tests := []struct {
		name      string
		req       dto.UpdateInvoiceRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update",
			req:  req,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingInvoice, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name:      "empty update request",
			req:       dto.UpdateInvoiceRequest{},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "invoice not found",
			req:  req,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Invoice{}, nil)
			},
			wantErr: true,
		},
		{
			name: "paid invoice cannot be modified",
			req:  req,
			setupMock: func() {
				paid := pendingInvoice
				paid.PaymentStatus = constant.PaymentStatusPaid

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(paid, nil)
			},
			wantErr: true,
		},
		{
			name: "update error",
			req:  req,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingInvoice, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Update(ctx, tt.req, "invoice-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestInvoiceService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockRevenues := revenueMocks.NewMockRevenue(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockReservations, mockRevenues, nil, cfg, mockCache, mockOtel)

	invoice := model.Invoice{
		ID:            "invoice-id",
		ReservationID: "reservation-id",
		ClientID:      "client-id",
		Amount:        275,
		PaymentStatus: constant.PaymentStatusPending,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache miss, successful get from db",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(invoice, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantID: "invoice-id",
		},
		{
			name: "invoice not found",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Invoice{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "invoice-id")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, res.ID)

			time.Sleep(10 * time.Millisecond)
		})
	}
}
