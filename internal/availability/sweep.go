package availability

import (
	"context"
	"fleet/internal/domains/reservation/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/timezone"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// SweepExpired closes out reservations whose end date has passed:
// CONFIRMED ones become COMPLETED, PENDING ones are CANCELED so they
// stop blocking the vehicle's calendar. Every touched vehicle gets its
// status re-derived inside the same transaction. Returns the number of
// reservations swept.
func (e *engineImpl) SweepExpired(ctx context.Context) (swept int, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".SweepExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	events := []Event{}

	err = e.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		expired, err := e.reservationRepo.GetAllTx(ctx, tx, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldStatus,
					Operator: gDto.FilterOperatorIn,
					Value:    occupyingStatuses,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "expired_before",
					Field:    model.FieldEndDate,
					Operator: gDto.FilterOperatorLess,
					Value:    now,
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to scan expired reservations: %w", err)
		}

		vehicleIDs := map[string]struct{}{}

		for _, reservation := range expired {
			newStatus := constant.ReservationStatusCanceled
			if reservation.Status == constant.ReservationStatusConfirmed {
				newStatus = constant.ReservationStatusCompleted
			}

			fields := map[string]any{
				model.FieldStatus:        newStatus,
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: constant.SweepActor,
			}

			if err := e.reservationRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
				return fmt.Errorf("failed to close expired reservation: %w", err)
			}

			vehicleIDs[reservation.VehicleID] = struct{}{}

			events = append(events, Event{
				Type:          transitionEventType(newStatus),
				VehicleID:     reservation.VehicleID,
				ReservationID: reservation.ID,
				Status:        newStatus,
				OccurredAt:    now,
			})
		}

		for vehicleID := range vehicleIDs {
			if _, err := e.recomputeLocked(ctx, tx, vehicleID, constant.SweepActor, nil); err != nil {
				return err
			}
		}

		swept = len(expired)

		return nil
	})

	if err != nil {
		return 0, err
	}

	if swept > 0 {
		log.Info().Int("swept", swept).Msg("expired reservations closed out")
	}

	for _, event := range events {
		e.Publish(ctx, event)
	}

	return swept, nil
}
