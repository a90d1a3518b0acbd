// Package roster derives group seating state from a hall document and plans
// where a group's members go on a table.  Nothing here mutates its inputs;
// package seating applies the plans.
package roster

import (
	"fmt"

	"github.com/iliyamo/hall-seating/internal/model"
)

// Status summarises how far a group has been seated.
//
// IsFullySeated and IsReadyToSeat never hold together; IsPartiallySeated
// implies IsReadyToSeat.
type Status struct {
	AvailableMembers  int  `json:"availableMembers"`
	SeatedMembers     int  `json:"seatedMembers"`
	TotalMembers      int  `json:"totalMembers"`
	IsFullySeated     bool `json:"isFullySeated"`
	IsPartiallySeated bool `json:"isPartiallySeated"`
	IsReadyToSeat     bool `json:"isReadyToSeat"`
}

// SeatLocation is one seated member of a group.
type SeatLocation struct {
	TableID model.ID `json:"tableId"`
	Chair   int      `json:"chair"`
	Name    string   `json:"name"`
}

// Seated lists every chair in the hall whose occupant belongs to the group,
// in table then chair order.
func Seated(g *model.Group, d *model.Document) []SeatLocation {
	var out []SeatLocation
	for _, t := range d.Tables {
		for chair, o := range t.People {
			if o != nil && o.GroupID == g.ID {
				out = append(out, SeatLocation{TableID: t.ID, Chair: chair, Name: o.Name})
			}
		}
	}
	return out
}

// SeatedCount counts the occupants across all tables that belong to the group.
func SeatedCount(g *model.Group, d *model.Document) int {
	n := 0
	for _, t := range d.Tables {
		for _, o := range t.People {
			if o != nil && o.GroupID == g.ID {
				n++
			}
		}
	}
	return n
}

// GroupStatus computes the seating flags for a group.
func GroupStatus(g *model.Group, d *model.Document) Status {
	available := len(g.Members)
	seated := SeatedCount(g, d)
	return Status{
		AvailableMembers:  available,
		SeatedMembers:     seated,
		TotalMembers:      available + seated,
		IsFullySeated:     available == 0 && seated > 0,
		IsPartiallySeated: available > 0 && seated > 0,
		IsReadyToSeat:     available > 0,
	}
}

// AvailableSeats returns the empty chair indices of t, lowest first.  Seat
// filling uses this order as its tie-break.
func AvailableSeats(t *model.Table) []int {
	free := make([]int, 0, t.ChairCount)
	for chair, o := range t.People {
		if o == nil {
			free = append(free, chair)
		}
	}
	return free
}

// Placement puts one member in one chair.
type Placement struct {
	Chair int    `json:"chair"`
	Name  string `json:"name"`
}

// PlanSeating decides where the group's members sit on t.  subset == nil
// means the whole member list; otherwise subset must name distinct current
// members.  The i-th name goes to the i-th free chair.
//
// When there are fewer free chairs than names it returns
// *model.InsufficientSeatsError so the caller can ask the user to pick a
// smaller subset and try again.
func PlanSeating(g *model.Group, t *model.Table, subset []string) ([]Placement, error) {
	toSeat := g.Members
	if subset != nil {
		toSeat = subset
	}
	if len(toSeat) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrEmptyGroup, g.Name)
	}
	if subset != nil {
		seen := make(map[string]struct{}, len(subset))
		for _, name := range subset {
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q selected twice", model.ErrNotMember, name)
			}
			seen[name] = struct{}{}
			if !g.HasMember(name) {
				return nil, fmt.Errorf("%w: %q is not waiting in %s", model.ErrNotMember, name, g.Name)
			}
		}
	}
	free := AvailableSeats(t)
	if len(free) < len(toSeat) {
		return nil, &model.InsufficientSeatsError{Needed: len(toSeat), Available: len(free)}
	}
	plan := make([]Placement, len(toSeat))
	for i, name := range toSeat {
		plan[i] = Placement{Chair: free[i], Name: name}
	}
	return plan, nil
}
