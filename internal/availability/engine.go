package availability

//go:generate go run go.uber.org/mock/mockgen -source=./engine.go -destination=./mocks/engine_mock.go -package=mocks

import (
	"context"
	"fleet/config"
	"fleet/infras/kafka"
	"fleet/infras/otel"
	reservationModel "fleet/internal/domains/reservation/model"
	reservationRepo "fleet/internal/domains/reservation/repository"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepo "fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Engine owns every vehicle status decision. All writes that affect a
// vehicle's availability go through here so that the status column and
// the reservation set can never disagree.
type Engine interface {
	CheckAvailability(ctx context.Context, tx *sqlx.Tx, vehicleID string, start, end time.Time, excludeReservationID string) error
	ApplyStatusTransition(ctx context.Context, reservationID, newStatus, actor string) error
	RecomputeVehicleStatus(ctx context.Context, tx *sqlx.Tx, vehicleID, actor string) (string, error)
	SweepExpired(ctx context.Context) (int, error)
	Publish(ctx context.Context, event Event)
}

// TxRunner opens a database transaction and runs fn inside it.
// *postgres.Connection is the production implementation.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type engineImpl struct {
	db              TxRunner
	vehicleRepo     vehicleRepo.Vehicle
	reservationRepo reservationRepo.Reservation
	producer        kafka.Client
	cfg             *config.Config
	otel            otel.Otel
}

func New(
	db TxRunner,
	vehicles vehicleRepo.Vehicle,
	reservations reservationRepo.Reservation,
	producer kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Engine {
	return &engineImpl{
		db:              db,
		vehicleRepo:     vehicles,
		reservationRepo: reservations,
		producer:        producer,
		cfg:             cfg,
		otel:            otel,
	}
}

// occupyingStatuses are the reservation states that block a vehicle's
// calendar. CANCELED and COMPLETED never conflict.
var occupyingStatuses = []string{
	constant.ReservationStatusPending,
	constant.ReservationStatusConfirmed,
}

// CheckAvailability verifies that the vehicle exists, is AVAILABLE, and
// has no occupying reservation overlapping the given inclusive interval.
// Any other vehicle status (RENTED, MAINTENANCE) fails before interval
// logic runs. When tx is non-nil the vehicle row is locked for the
// duration of the transaction, closing the race between the check and
// the subsequent insert.
func (e *engineImpl) CheckAvailability(ctx context.Context, tx *sqlx.Tx, vehicleID string, start, end time.Time, excludeReservationID string) (err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if end.Before(start) {
		return failure.BadRequestFromString("end date must not be before start date") // nolint:wrapcheck
	}

	vehicle, err := e.getVehicle(ctx, tx, vehicleID)
	if err != nil {
		return err
	}

	if vehicle.ID == constant.Empty {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if vehicle.Status != constant.VehicleStatusAvailable {
		return failure.BadRequestFromString(fmt.Sprintf("vehicle is not available (status: %s)", vehicle.Status)) // nolint:wrapcheck
	}

	conflicts, err := e.overlapping(ctx, tx, vehicleID, start, end, excludeReservationID)
	if err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return failure.Conflictf( // nolint:wrapcheck
			"vehicle is already reserved by reservation %s between %s and %s",
			conflicts[0].ID,
			conflicts[0].StartDate.Format(constant.DateOnlyFormat),
			conflicts[0].EndDate.Format(constant.DateOnlyFormat),
		)
	}

	return nil
}

// ApplyStatusTransition moves a reservation to a new status inside a
// single transaction and keeps the vehicle status in sync. Terminal
// reservations (CANCELED, COMPLETED) cannot be transitioned again.
func (e *engineImpl) ApplyStatusTransition(ctx context.Context, reservationID, newStatus, actor string) (err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".ApplyStatusTransition")
	defer scope.End()
	defer scope.TraceIfError(err)

	var event Event

	err = e.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		reservation, err := e.reservationRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(reservationID, reservationModel.FieldID, reservationModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if reservation.Status == newStatus {
			return nil
		}

		if isTerminal(reservation.Status) {
			return failure.Conflictf("reservation is already %s", reservation.Status) // nolint:wrapcheck
		}

		if newStatus == constant.ReservationStatusConfirmed {
			if err := e.CheckAvailability(ctx, tx, reservation.VehicleID, reservation.StartDate, reservation.EndDate, reservation.ID); err != nil {
				return err
			}
		}

		fields := map[string]any{
			reservationModel.FieldStatus: newStatus,
			constant.FieldModifiedAt:     timezone.Now(),
			constant.FieldModifiedBy:     actor,
		}

		if err := e.reservationRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(reservationID, reservationModel.FieldID, reservationModel.TableName)); err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}

		reservation.Status = newStatus

		vehicleStatus, err := e.recomputeLocked(ctx, tx, reservation.VehicleID, actor, &reservation)
		if err != nil {
			return err
		}

		event = Event{
			Type:          transitionEventType(newStatus),
			VehicleID:     reservation.VehicleID,
			ReservationID: reservation.ID,
			Status:        vehicleStatus,
			OccurredAt:    timezone.Now(),
		}

		return nil
	})

	if err != nil {
		return err
	}

	if event.Type != constant.Empty {
		e.Publish(ctx, event)
	}

	return nil
}

// RecomputeVehicleStatus re-derives a vehicle's status from its current
// reservation set and persists it when it changed. Returns the status
// the vehicle ends up with.
func (e *engineImpl) RecomputeVehicleStatus(ctx context.Context, tx *sqlx.Tx, vehicleID, actor string) (status string, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".RecomputeVehicleStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	return e.recomputeLocked(ctx, tx, vehicleID, actor, nil)
}

func (e *engineImpl) recomputeLocked(ctx context.Context, tx *sqlx.Tx, vehicleID, actor string, updated *reservationModel.Reservation) (string, error) {
	vehicle, err := e.getVehicle(ctx, tx, vehicleID)
	if err != nil {
		return constant.Empty, err
	}

	if vehicle.ID == constant.Empty {
		return constant.Empty, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	active, err := e.hasActiveConfirmed(ctx, tx, vehicleID, updated)
	if err != nil {
		return constant.Empty, err
	}

	derived := DeriveStatus(vehicle.Status, active)
	if derived == vehicle.Status {
		return derived, nil
	}

	fields := map[string]any{
		vehicleModel.FieldStatus: derived,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	filter := shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName)

	if tx != nil {
		err = e.vehicleRepo.UpdateTx(ctx, tx, fields, filter)
	} else {
		err = e.vehicleRepo.Update(ctx, fields, filter)
	}

	if err != nil {
		return constant.Empty, fmt.Errorf("failed to update vehicle status: %w", err)
	}

	return derived, nil
}

// hasActiveConfirmed reports whether the vehicle has a CONFIRMED
// reservation whose end date is still in the future. The row that was
// just modified in the surrounding transaction is passed in so the scan
// reflects the pending write regardless of isolation level.
func (e *engineImpl) hasActiveConfirmed(ctx context.Context, tx *sqlx.Tx, vehicleID string, updated *reservationModel.Reservation) (bool, error) {
	now := timezone.Now()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    reservationModel.FieldVehicleID,
				Operator: gDto.FilterOperatorEq,
				Value:    vehicleID,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				Field:    reservationModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.ReservationStatusConfirmed,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				ArgName:  "active_end",
				Field:    reservationModel.FieldEndDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    now,
				Table:    reservationModel.TableName,
			},
		},
	}

	var (
		reservations []reservationModel.Reservation
		err          error
	)

	if tx != nil {
		reservations, err = e.reservationRepo.GetAllTx(ctx, tx, filter)
	} else {
		reservations, err = e.reservationRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	}

	if err != nil {
		return false, fmt.Errorf("failed to scan confirmed reservations: %w", err)
	}

	for _, reservation := range reservations {
		if updated != nil && reservation.ID == updated.ID {
			continue
		}

		return true, nil
	}

	if updated != nil &&
		updated.Status == constant.ReservationStatusConfirmed &&
		updated.EndDate.After(now) {
		return true, nil
	}

	return false, nil
}

func (e *engineImpl) overlapping(ctx context.Context, tx *sqlx.Tx, vehicleID string, start, end time.Time, excludeReservationID string) ([]reservationModel.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    reservationModel.FieldVehicleID,
				Operator: gDto.FilterOperatorEq,
				Value:    vehicleID,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				Field:    reservationModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    occupyingStatuses,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				ArgName:  "window_end",
				Field:    reservationModel.FieldStartDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    end,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				ArgName:  "window_start",
				Field:    reservationModel.FieldEndDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    start,
				Table:    reservationModel.TableName,
			},
		},
	}

	if excludeReservationID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    reservationModel.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeReservationID,
			Table:    reservationModel.TableName,
		})
	}

	var (
		reservations []reservationModel.Reservation
		err          error
	)

	if tx != nil {
		reservations, err = e.reservationRepo.GetAllTx(ctx, tx, filter)
	} else {
		reservations, err = e.reservationRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan overlapping reservations: %w", err)
	}

	// The scanned rows are re-checked with Overlaps, which defines the
	// inclusive boundary semantics the SQL window filters must agree with.
	conflicts := make([]reservationModel.Reservation, 0, len(reservations))

	for _, reservation := range reservations {
		if Overlaps(reservation.StartDate, reservation.EndDate, start, end) {
			conflicts = append(conflicts, reservation)
		}
	}

	return conflicts, nil
}

func (e *engineImpl) getVehicle(ctx context.Context, tx *sqlx.Tx, vehicleID string) (vehicleModel.Vehicle, error) {
	filter := shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName)

	var (
		vehicle vehicleModel.Vehicle
		err     error
	)

	if tx != nil {
		vehicle, err = e.vehicleRepo.GetForUpdateTx(ctx, tx, filter)
	} else {
		vehicle, err = e.vehicleRepo.Get(ctx, filter)
	}

	if err != nil {
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("failed to get vehicle")

		return vehicle, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return vehicle, nil
}

func isTerminal(status string) bool {
	return status == constant.ReservationStatusCanceled || status == constant.ReservationStatusCompleted
}

func transitionEventType(status string) string {
	switch status {
	case constant.ReservationStatusConfirmed:
		return EventReservationConfirmed
	case constant.ReservationStatusCanceled:
		return EventReservationCanceled
	case constant.ReservationStatusCompleted:
		return EventReservationCompleted
	default:
		return EventVehicleStatusChanged
	}
}
