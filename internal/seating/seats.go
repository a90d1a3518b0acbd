package seating

import (
	"fmt"
	"strings"

	"github.com/iliyamo/hall-seating/internal/model"
	"github.com/iliyamo/hall-seating/internal/reservation"
	"github.com/iliyamo/hall-seating/internal/roster"
)

// AssignPerson puts name in a chair, replacing whoever sat there.  The
// previous occupant, if it was someone else, goes back to its group or to
// the available people.  A booking is only written when its range is free
// on the table, not counting the booking of the chair being replaced;
// otherwise the error is model.ErrSlotConflict.
//
// With a groupID the new occupant is linked to that group and moved like
// SeatGroup moves people: the name leaves the group's member list, and if
// the same person already sits in another chair that chair is cleared.
// Without a groupID the name is taken out of the available people if it
// was there.
func (p *Planner) AssignPerson(tableID model.ID, chair int, name, groupID string, booking *model.Booking) (*model.Table, error) {
	name = strings.TrimSpace(name)
	groupID = strings.TrimSpace(groupID)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", model.ErrInvalidFormat)
	}
	if booking != nil {
		b := *booking
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if b.Type == "" {
			b.Type = model.EventOther
		}
		booking = &b
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.table(tableID)
	if err != nil {
		return nil, err
	}
	if _, err := t.Seat(chair); err != nil {
		return nil, err
	}
	if booking != nil {
		if booking.Timestamp.IsZero() {
			booking.Timestamp = p.now().UTC()
		}
		free, err := reservation.IsRangeFreeFor(t, chair, booking.Date, booking.Time, booking.EndTime)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, fmt.Errorf("%w: %s is booked on %s during %s-%s", model.ErrSlotConflict, t.DisplayName(), booking.Date, booking.Time, booking.EndTime)
		}
	}
	var g *model.Group
	if groupID != "" {
		if g, err = p.group(groupID); err != nil {
			return nil, err
		}
	}
	what := p.assign(t, chair, &model.Occupant{Name: name, GroupID: groupID, Booking: booking}, g, true)
	p.persist(what)
	return t.Clone(), nil
}

// assign seats o in a validated chair.  g is o's group, nil for a walk-in.
// With fromPool a walk-in of the same name leaves the available people.
func (p *Planner) assign(t *model.Table, chair int, o *model.Occupant, g *model.Group, fromPool bool) dirty {
	what := dirtyHall
	if old := p.clearSeat(t, chair); old != nil && (old.Name != o.Name || old.GroupID != o.GroupID) {
		what |= p.sendHome(old)
	}
	if g != nil {
		if at, ok := p.index[personKey{g.ID, o.Name}]; ok && at.seated {
			if other := p.doc.Table(at.table); other != nil {
				p.clearSeat(other, at.chair)
			}
		}
		if p.takeFromRoster(g, o.Name) {
			what |= dirtyRoster
		}
	} else if fromPool && p.takeFromPool(o.Name) {
		what |= dirtyPool
	}
	p.seat(t, chair, o)
	return what
}

// VacateChair empties a chair.  A grouped occupant goes back to its group's
// member list and a walk-in to the available people.  Vacating an empty
// chair succeeds and changes nothing.
func (p *Planner) VacateChair(tableID model.ID, chair int) (*model.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.table(tableID)
	if err != nil {
		return nil, err
	}
	if _, err := t.Seat(chair); err != nil {
		return nil, err
	}
	if o := p.clearSeat(t, chair); o != nil {
		p.persist(dirtyHall | p.sendHome(o))
	}
	return t.Clone(), nil
}

// BookingRequest is a public "book a table" request.
type BookingRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	GuestCount int    `json:"guestCount"`
	Date       string `json:"date"`
	Start      string `json:"time"`
	End        string `json:"endTime"`
	Note       string `json:"note"`
	EventType  string `json:"type"`
}

// Confirmation is where a confirmed booking was seated.
type Confirmation struct {
	TableID   model.ID        `json:"tableId"`
	TableName string          `json:"tableName"`
	Chair     int             `json:"chair"`
	Occupant  *model.Occupant `json:"occupant"`
}

// ConfirmBooking books a table for a time range.  It fails with
// model.ErrSlotConflict when the range overlaps a booking already on the
// table that day, and otherwise seats the main guest in the lowest free
// chair.  A table with no free chair fails with *model.InsufficientSeatsError.
func (p *Planner) ConfirmBooking(tableID model.ID, req BookingRequest) (*Confirmation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", model.ErrInvalidFormat)
	}
	if req.GuestCount < 0 {
		return nil, fmt.Errorf("%w: guest count %d", model.ErrInvalidFormat, req.GuestCount)
	}
	eventType, err := model.ParseEventType(req.EventType)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	booking := &model.Booking{
		Date:      req.Date,
		Time:      req.Start,
		EndTime:   req.End,
		Note:      strings.TrimSpace(req.Note),
		Type:      eventType,
		Timestamp: p.now().UTC(),
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}
	t, err := p.table(tableID)
	if err != nil {
		return nil, err
	}
	free, err := reservation.IsRangeFree(t, booking.Date, booking.Time, booking.EndTime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("%w: %s is booked on %s during %s-%s", model.ErrSlotConflict, t.DisplayName(), booking.Date, booking.Time, booking.EndTime)
	}
	chairs := roster.AvailableSeats(t)
	if len(chairs) == 0 {
		return nil, &model.InsufficientSeatsError{Needed: 1, Available: 0}
	}
	o := &model.Occupant{
		Name:        name,
		IsMainGuest: true,
		Booking:     booking,
		GuestCount:  max(req.GuestCount, 1),
		Phone:       strings.TrimSpace(req.Phone),
	}
	what := p.assign(t, chairs[0], o, nil, false)
	p.log.Infof("planner: booked %s chair %d for %q on %s %s-%s", t.DisplayName(), chairs[0], name, booking.Date, booking.Time, booking.EndTime)
	p.persist(what)
	return &Confirmation{TableID: t.ID, TableName: t.DisplayName(), Chair: chairs[0], Occupant: o.Clone()}, nil
}
