package availability

import (
	"context"
	"fleet/infras/kafka"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCanceled  = "reservation.canceled"
	EventReservationCompleted = "reservation.completed"
	EventVehicleStatusChanged = "vehicle.status_changed"
)

// Event is published on the availability topic whenever a reservation
// or vehicle changes state.
type Event struct {
	Type          string    `json:"type"`
	VehicleID     string    `json:"vehicle_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publish sends an availability event. Delivery is best effort: the
// surrounding state change has already committed, so broker errors are
// logged and swallowed.
func (e *engineImpl) Publish(ctx context.Context, event Event) {
	if !e.cfg.Kafka.Enable {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		msg := kafka.Message{
			Key:   event.VehicleID,
			Value: event,
		}

		if err := e.producer.SendMessages(c, e.cfg.Kafka.Topic.Availability, msg); err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("failed to publish availability event")
		}
	}()
}
