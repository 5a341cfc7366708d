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
	s3Mocks "fleet/infras/s3/mocks"
	availabilityMocks "fleet/internal/availability/mocks"
	vehicleMocks "fleet/internal/domains/vehicle/mocks"
	"fleet/internal/domains/vehicle/model"
	"fleet/internal/domains/vehicle/model/dto"
	"fleet/internal/domains/vehicle/service"
	cacheMocks "fleet/shared/cache/mocks"
	"fleet/shared/constant"
	"fleet/shared/failure"
)

func TestVehicleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockEngine := availabilityMocks.NewMockEngine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockEngine, cfg, mockCache, mockOtel, mockStorage)

	req := dto.CreateVehicleRequest{
		RegistrationNumber: "AB-123-CD",
		Make:               "Toyota",
		Model:              "Corolla",
		Year:               2022,
		DailyRate:          55,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "duplicate registration number",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "insert error",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestVehicleService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockEngine := availabilityMocks.NewMockEngine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockEngine, cfg, mockCache, mockOtel, mockStorage)

	req := dto.CheckAvailabilityRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-05",
	}

	tests := []struct {
		name          string
		req           dto.CheckAvailabilityRequest
		setupMock     func()
		wantErr       bool
		wantAvailable bool
		wantReason    bool
	}{
		{
			name: "vehicle available",
			req:  req,
			setupMock: func() {
				mockEngine.EXPECT().
					CheckAvailability(gomock.Any(), nil, "vehicle-id", gomock.Any(), gomock.Any(), constant.Empty).
					Return(nil)
			},
			wantAvailable: true,
		},
		{
			name: "conflict reported as unavailable, not as error",
			req:  req,
			setupMock: func() {
				mockEngine.EXPECT().
					CheckAvailability(gomock.Any(), nil, "vehicle-id", gomock.Any(), gomock.Any(), constant.Empty).
					Return(failure.Conflict("vehicle is already reserved by reservation existing-id between 2025-06-01 and 2025-06-05"))
			},
			wantAvailable: false,
			wantReason:    true,
		},
		{
			name: "rented vehicle reported as unavailable, not as error",
			req:  req,
			setupMock: func() {
				mockEngine.EXPECT().
					CheckAvailability(gomock.Any(), nil, "vehicle-id", gomock.Any(), gomock.Any(), constant.Empty).
					Return(failure.BadRequestFromString("vehicle is not available (status: RENTED)"))
			},
			wantAvailable: false,
			wantReason:    true,
		},
		{
			name: "missing vehicle is an error",
			req:  req,
			setupMock: func() {
				mockEngine.EXPECT().
					CheckAvailability(gomock.Any(), nil, "vehicle-id", gomock.Any(), gomock.Any(), constant.Empty).
					Return(failure.NotFound("vehicle not found"))
			},
			wantErr: true,
		},
		{
			name: "invalid date format",
			req: dto.CheckAvailabilityRequest{
				StartDate: "06/01/2025",
				EndDate:   "2025-06-05",
			},
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.CheckAvailability(context.Background(), "vehicle-id", tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, res.Available)

			if tt.wantReason {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestVehicleService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockEngine := availabilityMocks.NewMockEngine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockEngine, cfg, mockCache, mockOtel, mockStorage)

	vehicle := model.Vehicle{
		ID:                 "vehicle-id",
		RegistrationNumber: "AB-123-CD",
		Make:               "Toyota",
		Model:              "Corolla",
		Status:             constant.VehicleStatusAvailable,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			setupMock: func() {
				mockEngine.EXPECT().
					SweepExpired(gomock.Any()).
					Return(0, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss, successful get from db",
			setupMock: func() {
				mockEngine.EXPECT().
					SweepExpired(gomock.Any()).
					Return(0, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicle, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "vehicle-id",
		},
		{
			name: "vehicle not found",
			setupMock: func() {
				mockEngine.EXPECT().
					SweepExpired(gomock.Any()).
					Return(0, nil)

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Vehicle{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "vehicle-id")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)

			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, res.ID)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestVehicleService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockEngine := availabilityMocks.NewMockEngine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockEngine, cfg, mockCache, mockOtel, mockStorage)

	vehicle := model.Vehicle{
		ID:     "vehicle-id",
		Status: constant.VehicleStatusAvailable,
	}

	tests := []struct {
		name      string
		req       dto.UpdateVehicleStatusRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "maintenance override is stored as-is",
			req:  dto.UpdateVehicleStatusRequest{Status: constant.VehicleStatusMaintenance},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicle, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockEngine.EXPECT().
					Publish(gomock.Any(), gomock.Any())

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
			name: "manual available is reconciled against reservations",
			req:  dto.UpdateVehicleStatusRequest{Status: constant.VehicleStatusAvailable},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicle, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockEngine.EXPECT().
					RecomputeVehicleStatus(gomock.Any(), nil, "vehicle-id", gomock.Any()).
					Return(constant.VehicleStatusRented, nil)

				mockEngine.EXPECT().
					Publish(gomock.Any(), gomock.Any())

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
			name: "vehicle not found",
			req:  dto.UpdateVehicleStatusRequest{Status: constant.VehicleStatusAvailable},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Vehicle{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdateStatus(ctx, tt.req, "vehicle-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}
