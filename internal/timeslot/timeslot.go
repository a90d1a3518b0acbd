// Package timeslot converts "HH:MM" clock strings to minute-of-day values and
// walks the 15-minute grid that table bookings are placed on.  A range whose
// end is numerically earlier than its start continues past midnight; every
// caller that expands a booking goes through Enumerate so the wraparound rule
// lives in one place.
package timeslot

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

const (
	MinutesPerDay = 24 * 60 // minutes in one calendar day
	SlotMinutes   = 15      // width of one bookable slot
	FallbackSlot  = "12:00" // returned by NextAvailable when the whole day is taken
)

// ErrInvalidFormat is returned when a clock string is not a valid "HH:MM".
var ErrInvalidFormat = errors.New("invalid format")

// Parse converts a zero-padded 24-hour "HH:MM" string into minutes since
// midnight (0..1439).  Anything else, including "9:00" or "24:00", fails
// with ErrInvalidFormat.
func Parse(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidFormat, hhmm)
	}
	h, okH := twoDigits(hhmm[0], hhmm[1])
	m, okM := twoDigits(hhmm[3], hhmm[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: time %q is out of range", ErrInvalidFormat, hhmm)
	}
	return h*60 + m, nil
}

// ParseSlot is Parse plus a check that the time sits on the 15-minute grid.
func ParseSlot(hhmm string) (int, error) {
	m, err := Parse(hhmm)
	if err != nil {
		return 0, err
	}
	if !OnGrid(m) {
		return 0, fmt.Errorf("%w: time %q is not on the %d-minute grid", ErrInvalidFormat, hhmm, SlotMinutes)
	}
	return m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Format renders minutes since midnight as "HH:MM".  Values outside a single
// day are folded back into it, so 1440 formats as "00:00".
func Format(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// OnGrid reports whether minutes is a multiple of SlotMinutes.
func OnGrid(minutes int) bool { return minutes%SlotMinutes == 0 }

// Compare orders two clock strings by their minute value.  Strings that do
// not parse sort after every valid time and compare lexically among
// themselves.
func Compare(a, b string) int {
	ma, errA := Parse(a)
	mb, errB := Parse(b)
	switch {
	case errA != nil && errB != nil:
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return ma - mb
}

// Enumerate yields every slot start in [start, end) stepping by SlotMinutes.
// When end < start the range wraps: the sequence is [start, 1440) followed
// by [0, end).  start == end is an empty range.  The returned sequence holds
// no state between runs and can be ranged over any number of times.
func Enumerate(start, end int) iter.Seq[string] {
	type span struct{ from, to int }
	spans := []span{{start, end}}
	if end < start {
		spans = []span{{start, MinutesPerDay}, {0, end}}
	}
	return func(yield func(string) bool) {
		for _, s := range spans {
			for m := s.from; m < s.to; m += SlotMinutes {
				if !yield(Format(m)) {
					return
				}
			}
		}
	}
}

// Slots collects Enumerate(start, end) into a slice.
func Slots(start, end int) []string {
	return slices.Collect(Enumerate(start, end))
}

// SpanMinutes returns the length of [start, end) in minutes, honouring the
// midnight wrap.
func SpanMinutes(start, end int) int {
	if end < start {
		return MinutesPerDay - start + end
	}
	return end - start
}

// NextAvailable scans forward from fromHour:00 to 23:45, then from 00:00 up
// to fromHour:00, and returns the first slot that is not occupied.  When the
// whole day is occupied it returns FallbackSlot.
func NextAvailable(occupied Set, fromHour int) string {
	if fromHour < 0 {
		fromHour = 0
	}
	if fromHour > 23 {
		fromHour = 23
	}
	from := fromHour * 60
	for _, seq := range []iter.Seq[string]{Enumerate(from, MinutesPerDay), Enumerate(0, from)} {
		for slot := range seq {
			if !occupied.Has(slot) {
				return slot
			}
		}
	}
	return FallbackSlot
}
