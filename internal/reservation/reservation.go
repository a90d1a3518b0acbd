// Package reservation answers availability questions for one table on one
// date.  Every function is a pure read of the table's seat array.
package reservation

import (
	"cmp"
	"slices"

	"github.com/iliyamo/hall-seating/internal/model"
	"github.com/iliyamo/hall-seating/internal/timeslot"
)

// Entry is one booking as shown in a table's day list.
type Entry struct {
	Chair        int             `json:"chair"`
	Start        string          `json:"start"`
	End          string          `json:"end"`
	OccupantName string          `json:"occupantName"`
	GuestCount   int             `json:"guestCount"`
	EventType    model.EventType `json:"eventType"`
}

// Range is a merged busy interval for display.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r Range) String() string { return r.Start + "-" + r.End }

// bookingsOn yields (chair, occupant, start, end) for every well-formed
// booking on date.
func bookingsOn(t *model.Table, date string, fn func(chair int, o *model.Occupant, start, end int)) {
	for chair, o := range t.People {
		if o == nil || o.Booking == nil || o.Booking.Date != date {
			continue
		}
		start, end, err := o.Booking.Range()
		if err != nil {
			continue
		}
		fn(chair, o, start, end)
	}
}

// OccupiedSlots returns every 15-minute slot taken on date by any occupant's
// booking.  Each booking covers [Time, EndTime), wrapping past midnight when
// EndTime < Time.
func OccupiedSlots(t *model.Table, date string) timeslot.Set {
	return occupiedExcept(t, date, -1)
}

func occupiedExcept(t *model.Table, date string, skip int) timeslot.Set {
	set := timeslot.Set{}
	bookingsOn(t, date, func(chair int, _ *model.Occupant, start, end int) {
		if chair != skip {
			set.Add(timeslot.Enumerate(start, end))
		}
	})
	return set
}

// IsRangeFree reports whether no slot of [start, end) is occupied on date.
// It is the only check that decides whether a new booking may be written.
// Malformed or off-grid times fail with model.ErrInvalidFormat.
func IsRangeFree(t *model.Table, date, start, end string) (bool, error) {
	return IsRangeFreeFor(t, -1, date, start, end)
}

// IsRangeFreeFor is IsRangeFree ignoring the booking held in chair, whose
// occupant is about to be replaced.
func IsRangeFreeFor(t *model.Table, chair int, date, start, end string) (bool, error) {
	s, err := timeslot.ParseSlot(start)
	if err != nil {
		return false, err
	}
	e, err := timeslot.ParseSlot(end)
	if err != nil {
		return false, err
	}
	return !occupiedExcept(t, date, chair).Overlaps(timeslot.Enumerate(s, e)), nil
}

// BookingsForDate lists the bookings on date ordered by start time, then
// chair.  Several occupants of one table may each hold a booking.
func BookingsForDate(t *model.Table, date string) []Entry {
	type keyed struct {
		Entry
		start int
	}
	var rows []keyed
	bookingsOn(t, date, func(chair int, o *model.Occupant, start, _ int) {
		count := o.GuestCount
		if count < 1 {
			count = 1
		}
		rows = append(rows, keyed{
			Entry: Entry{
				Chair:        chair,
				Start:        o.Booking.Time,
				End:          o.Booking.EndTime,
				OccupantName: o.Name,
				GuestCount:   count,
				EventType:    o.Booking.Type,
			},
			start: start,
		})
	})
	slices.SortStableFunc(rows, func(a, b keyed) int { return cmp.Compare(a.start, b.start) })
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}

// MergeAdjacentRanges folds touching or overlapping bookings into display
// ranges.  It compares plain minute values and does not understand the
// midnight wrap, so a booking such as 23:00-01:00 may be summarised loosely.
// Use IsRangeFree, not this, to decide availability.
func MergeAdjacentRanges(entries []Entry) []Range {
	type span struct{ start, end int }
	spans := make([]span, 0, len(entries))
	for _, e := range entries {
		s, errS := timeslot.Parse(e.Start)
		en, errE := timeslot.Parse(e.End)
		if errS != nil || errE != nil {
			continue
		}
		spans = append(spans, span{s, en})
	}
	if len(spans) == 0 {
		return []Range{}
	}
	slices.SortStableFunc(spans, func(a, b span) int { return cmp.Compare(a.start, b.start) })

	var out []Range
	cur := spans[0]
	for _, next := range spans[1:] {
		if next.start <= cur.end {
			cur.end = max(cur.end, next.end)
			continue
		}
		out = append(out, Range{timeslot.Format(cur.start), timeslot.Format(cur.end)})
		cur = next
	}
	return append(out, Range{timeslot.Format(cur.start), timeslot.Format(cur.end)})
}
