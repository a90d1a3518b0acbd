// Package queue carries booking events over RabbitMQ: the payload type, a
// publisher used by the HTTP layer, and the consumer that appends each
// event to the booking log.
package queue

import (
	"time"

	"github.com/iliyamo/hall-seating/internal/model"
)

// BookingQueueName is the durable queue booking events go to.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published when a table booking is confirmed.
// It carries enough for downstream consumers to log or notify without
// reading the hall.
type BookingConfirmedEvent struct {
	TableID     string `json:"table_id"`
	TableName   string `json:"table_name"`
	Chair       int    `json:"chair"`
	GuestName   string `json:"guest_name"`
	GuestCount  int    `json:"guest_count"`
	Date        string `json:"date"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	EventType   string `json:"event_type"`
	Note        string `json:"note,omitempty"`
	ConfirmedAt string `json:"confirmed_at"`
}

// NewBookingConfirmedEvent describes the booked occupant o seated at chair.
func NewBookingConfirmedEvent(tableID model.ID, tableName string, chair int, o *model.Occupant) BookingConfirmedEvent {
	ev := BookingConfirmedEvent{
		TableID:    string(tableID),
		TableName:  tableName,
		Chair:      chair,
		GuestName:  o.Name,
		GuestCount: o.GuestCount,
	}
	if b := o.Booking; b != nil {
		ev.Date, ev.StartsAt, ev.EndsAt = b.Date, b.Time, b.EndTime
		ev.EventType = string(b.Type)
		ev.Note = b.Note
		ev.ConfirmedAt = b.Timestamp.UTC().Format(time.RFC3339)
	}
	return ev
}
