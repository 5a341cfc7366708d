package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
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
)

func TestEngine_SweepExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicles := vehicleMocks.NewMockVehicle(ctrl)
	mockReservations := reservationMocks.NewMockReservation(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}

	engine := availability.New(txPassthrough{}, mockVehicles, mockReservations, nil, cfg, mockOtel)

	expired := []reservationModel.Reservation{
		{
			ID:        "confirmed-id",
			VehicleID: "vehicle-id",
			StartDate: time.Now().AddDate(0, 0, -5),
			EndDate:   time.Now().AddDate(0, 0, -1),
			Status:    constant.ReservationStatusConfirmed,
		},
		{
			ID:        "pending-id",
			VehicleID: "vehicle-id",
			StartDate: time.Now().AddDate(0, 0, -4),
			EndDate:   time.Now().AddDate(0, 0, -2),
			Status:    constant.ReservationStatusPending,
		},
	}

	// First pass: the confirmed reservation completes, the stale pending
	// one is canceled, and the vehicle is released.
	mockReservations.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(expired, nil)

	mockReservations.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.ReservationStatusCompleted, fields[reservationModel.FieldStatus])
			assert.Equal(t, constant.SweepActor, fields[constant.FieldModifiedBy])

			return nil
		})

	mockReservations.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.ReservationStatusCanceled, fields[reservationModel.FieldStatus])

			return nil
		})

	mockVehicles.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(vehicleModel.Vehicle{
			ID:     "vehicle-id",
			Status: constant.VehicleStatusRented,
		}, nil)

	mockReservations.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	mockVehicles.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.VehicleStatusAvailable, fields[vehicleModel.FieldStatus])

			return nil
		})

	swept, err := engine.SweepExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, swept)

	// Second pass: the previous run already closed everything, so the
	// sweep finds nothing and writes nothing.
	mockReservations.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	swept, err = engine.SweepExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, swept)
}
