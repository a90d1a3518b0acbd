package model

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hall-seating/internal/timeslot"
)

// Error kinds shared by every seating operation.  Callers compare with
// errors.Is; the HTTP layer turns them into status codes.
var (
	// ErrInvalidFormat marks a malformed time string, date or imported document.
	ErrInvalidFormat = timeslot.ErrInvalidFormat
	// ErrInvalidChair is returned for a chair index outside [0, chairCount).
	ErrInvalidChair = errors.New("invalid chair")
	// ErrEmptyGroup is returned when seating a group with nobody left to seat.
	ErrEmptyGroup = errors.New("group has no members to seat")
	// ErrInsufficientSeats is the kind carried by *InsufficientSeatsError.
	ErrInsufficientSeats = errors.New("insufficient seats")
	// ErrSlotConflict means the requested booking overlaps an existing one.
	ErrSlotConflict = errors.New("time slot conflict")

	ErrTableNotFound  = errors.New("table not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrDuplicateTable = errors.New("table id already in use")
	ErrDuplicateGroup = errors.New("group id already in use")
	// ErrNotMember is returned when a name is not in the group's member list.
	ErrNotMember = errors.New("not a member of the group")
	// ErrMemberConflict is returned when the group already holds the name, listed or seated.
	ErrMemberConflict = errors.New("name already in the group")
)

// InsufficientSeatsError reports how many chairs a seating request needed
// and how many were free.  It matches ErrInsufficientSeats under errors.Is.
type InsufficientSeatsError struct {
	Needed    int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("insufficient seats: needed %d, available %d", e.Needed, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientSeats) succeed.
func (e *InsufficientSeatsError) Is(target error) bool { return target == ErrInsufficientSeats }
