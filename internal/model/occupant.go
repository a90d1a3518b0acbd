package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hall-seating/internal/timeslot"
)

// DateLayout is the calendar date format used by bookings.
const DateLayout = "2006-01-02"

// EventType tags a booking for display.  It carries no business rules.
type EventType string

const (
	EventBirthday EventType = "birthday"
	EventBusiness EventType = "business"
	EventParty    EventType = "party"
	EventRomantic EventType = "romantic"
	EventFamily   EventType = "family"
	EventOther    EventType = "other"
)

// ParseEventType validates an event tag.  The empty string means EventOther.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return EventOther, nil
	case EventBirthday, EventBusiness, EventParty, EventRomantic, EventFamily, EventOther:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidFormat, s)
}

// Booking is the reservation attached to a seated occupant in the public
// booking flow.  EndTime earlier than Time means the booking runs past
// midnight.
type Booking struct {
	Date      string    `json:"date"`    // YYYY-MM-DD
	Time      string    `json:"time"`    // start, HH:MM on the 15 minute grid
	EndTime   string    `json:"endTime"` // end (exclusive), HH:MM on the 15 minute grid
	Note      string    `json:"note,omitempty"`
	Type      EventType `json:"type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Range returns the booking's start and end as minutes since midnight.
func (b *Booking) Range() (start, end int, err error) {
	if start, err = timeslot.ParseSlot(b.Time); err != nil {
		return 0, 0, err
	}
	if end, err = timeslot.ParseSlot(b.EndTime); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Validate checks the date and that the time range is grid aligned and non empty.
func (b *Booking) Validate() error {
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return fmt.Errorf("%w: booking date %q is not YYYY-MM-DD", ErrInvalidFormat, b.Date)
	}
	start, end, err := b.Range()
	if err != nil {
		return err
	}
	if start == end {
		return fmt.Errorf("%w: booking %s-%s is empty", ErrInvalidFormat, b.Time, b.EndTime)
	}
	return nil
}

// Occupant is what sits in a chair.  GroupID is empty for a walk-in.
type Occupant struct {
	Name        string   `json:"name"`
	GroupID     string   `json:"groupId,omitempty"`     // empty for a walk-in
	IsMainGuest bool     `json:"isMainGuest,omitempty"` // set by a public booking
	Booking     *Booking `json:"booking,omitempty"`
	GuestCount  int      `json:"guestCount,omitempty"` // party size of the booking
	Phone       string   `json:"phone,omitempty"`      // contact for the booking
}

// Grouped reports whether the occupant belongs to a group.
func (o *Occupant) Grouped() bool { return o.GroupID != "" }

// Clone returns a deep copy of the occupant.
func (o *Occupant) Clone() *Occupant {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Booking != nil {
		b := *o.Booking
		cp.Booking = &b
	}
	return &cp
}
