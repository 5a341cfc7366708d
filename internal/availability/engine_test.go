package availability_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fleet/config"
	otelMocks "fleet/infras/otel/mocks"
	"fleet/internal/availability"
	reservationMocks "fleet/internal/domains/reservation/mocks"
	reservationModel "fleet/internal/domains/reservation/model"
	vehicleMocks "fleet/internal/domains/vehicle/mocks"
	vehicleModel "fleet/internal/domains/vehicle/model"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"

	"github.com/jmoiron/sqlx"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

// txPassthrough satisfies availability.TxRunner without a database. The
// callback gets a zero transaction handle that the mocked repositories
// never dereference.
type txPassthrough struct{}

func (txPassthrough) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(&sqlx.Tx{})
}

func TestEngine_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicles := vehicleMocks.NewMockVehicle(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}

	engine := availability.New(nil, mockVehicles, mockReservations, nil, cfg, mockOtel)

	availableVehicle := vehicleModel.Vehicle{
		ID:     "vehicle-id",
		Status: constant.VehicleStatusAvailable,
	}

	tests := []struct {
		name         string
		start, end   time.Time
		exclude      string
		setupMock    func()
		wantErr      bool
		wantStatus   int
		wantContains string
	}{
		{
			name:  "vehicle free for the window",
			start: day(1),
			end:   day(5),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr: false,
		},
		{
			name:      "end before start",
			start:     day(5),
			end:       day(1),
			setupMock: func() {},
			wantErr:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "vehicle not found",
			start: day(1),
			end:   day(5),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "vehicle under maintenance",
			start: day(1),
			end:   day(5),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusMaintenance,
					}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "rented vehicle rejected before the interval scan",
			start: day(10),
			end:   day(12),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusRented,
					}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "overlapping reservation blocks the window",
			start: day(4),
			end:   day(8),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableVehicle, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]reservationModel.Reservation{
						{
							ID:        "existing-id",
							VehicleID: "vehicle-id",
							StartDate: day(1),
							EndDate:   day(5),
							Status:    constant.ReservationStatusConfirmed,
						},
					}, nil)
			},
			wantErr:      true,
			wantStatus:   http.StatusConflict,
			wantContains: "existing-id",
		},
		{
			name:  "repository error",
			start: day(1),
			end:   day(5),
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := engine.CheckAvailability(context.Background(), nil, "vehicle-id", tt.start, tt.end, tt.exclude)

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantStatus != 0 {
				assert.True(t, failure.Is(err, tt.wantStatus))
			}

			if tt.wantContains != constant.Empty {
				assert.Contains(t, err.Error(), tt.wantContains)
			}
		})
	}
}

func TestEngine_ApplyStatusTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicles := vehicleMocks.NewMockVehicle(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}

	engine := availability.New(txPassthrough{}, mockVehicles, mockReservations, nil, cfg, mockOtel)

	pending := reservationModel.Reservation{
		ID:        "reservation-id",
		VehicleID: "vehicle-id",
		StartDate: time.Now().AddDate(0, 0, -1),
		EndDate:   time.Now().AddDate(0, 0, 3),
		Status:    constant.ReservationStatusPending,
	}

	availableVehicle := vehicleModel.Vehicle{
		ID:     "vehicle-id",
		Status: constant.VehicleStatusAvailable,
	}

	tests := []struct {
		name       string
		newStatus  string
		setupMock  func()
		wantErr    bool
		wantStatus int
	}{
		{
			name:      "confirming a pending reservation rents the vehicle",
			newStatus: constant.ReservationStatusConfirmed,
			setupMock: func() {
				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockVehicles.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availableVehicle, nil).
					Times(2)

				mockReservations.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil).
					Times(2)

				mockReservations.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.ReservationStatusConfirmed, fields[reservationModel.FieldStatus])

						return nil
					})

				mockVehicles.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.VehicleStatusRented, fields[vehicleModel.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "canceling a pending reservation keeps the vehicle available",
			newStatus: constant.ReservationStatusCanceled,
			setupMock: func() {
				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockReservations.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockVehicles.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availableVehicle, nil)

				mockReservations.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
		},
		{
			name:      "confirmation rejected when the vehicle is not available",
			newStatus: constant.ReservationStatusConfirmed,
			setupMock: func() {
				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockVehicles.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusMaintenance,
					}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:      "terminal reservation cannot transition",
			newStatus: constant.ReservationStatusConfirmed,
			setupMock: func() {
				completed := pending
				completed.Status = constant.ReservationStatusCompleted

				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(completed, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusConflict,
		},
		{
			name:      "same status is a no-op",
			newStatus: constant.ReservationStatusPending,
			setupMock: func() {
				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
		},
		{
			name:      "reservation not found",
			newStatus: constant.ReservationStatusConfirmed,
			setupMock: func() {
				mockReservations.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(reservationModel.Reservation{}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := engine.ApplyStatusTransition(context.Background(), "reservation-id", tt.newStatus, "test-user")

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantStatus != 0 {
				assert.True(t, failure.Is(err, tt.wantStatus))
			}
		})
	}
}

func TestEngine_RecomputeVehicleStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicles := vehicleMocks.NewMockVehicle(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}

	engine := availability.New(nil, mockVehicles, mockReservations, nil, cfg, mockOtel)

	confirmed := []reservationModel.Reservation{
		{
			ID:        "reservation-id",
			VehicleID: "vehicle-id",
			StartDate: time.Now().AddDate(0, 0, -1),
			EndDate:   time.Now().AddDate(0, 0, 3),
			Status:    constant.ReservationStatusConfirmed,
		},
	}

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantStatus string
	}{
		{
			name: "available vehicle with confirmed reservation becomes rented",
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusAvailable,
					}, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(confirmed, nil)

				mockVehicles.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.VehicleStatusRented,
		},
		{
			name: "rented vehicle with no confirmed reservations becomes available",
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusRented,
					}, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockVehicles.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: constant.VehicleStatusAvailable,
		},
		{
			name: "maintenance override is never clobbered",
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusMaintenance,
					}, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(confirmed, nil)
			},
			wantStatus: constant.VehicleStatusMaintenance,
		},
		{
			name: "status unchanged skips the write",
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{
						ID:     "vehicle-id",
						Status: constant.VehicleStatusRented,
					}, nil)

				mockReservations.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(confirmed, nil)
			},
			wantStatus: constant.VehicleStatusRented,
		},
		{
			name: "vehicle not found",
			setupMock: func() {
				mockVehicles.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			status, err := engine.RecomputeVehicleStatus(context.Background(), nil, "vehicle-id", "test-user")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
