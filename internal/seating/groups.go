package seating

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-seating/internal/model"
	"github.com/iliyamo/hall-seating/internal/roster"
)

// Groups returns a copy of the roster in creation order.
func (p *Planner) Groups() []*model.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*model.Group, len(p.groups))
	for i, g := range p.groups {
		out[i] = g.Clone()
	}
	return out
}

// Group returns a copy of one group.
func (p *Planner) Group(id string) (*model.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// GroupReport is a group together with where its seated members are.
type GroupReport struct {
	Group  *model.Group          `json:"group"`
	Status roster.Status         `json:"status"`
	Seated []roster.SeatLocation `json:"seated"`
}

// GroupStatus reports how far a group has been seated.
func (p *Planner) GroupStatus(id string) (*GroupReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(id)
	if err != nil {
		return nil, err
	}
	seated := roster.Seated(g, p.doc)
	if seated == nil {
		seated = []roster.SeatLocation{}
	}
	return &GroupReport{Group: g.Clone(), Status: roster.GroupStatus(g, p.doc), Seated: seated}, nil
}

// AvailablePeople returns the walk-ins waiting for a chair.
func (p *Planner) AvailablePeople() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.pool)
}

// CreateGroup adds a group to the roster.  An empty id gets a random one.
func (p *Planner) CreateGroup(id, name, color string, members []string) (*model.Group, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is empty", model.ErrInvalidFormat)
	}
	g := &model.Group{ID: id, Name: name, Color: strings.TrimSpace(color), Members: make([]string, 0, len(members))}
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("%w: empty member name", model.ErrInvalidFormat)
		}
		if g.HasMember(m) {
			return nil, fmt.Errorf("%w: %q given twice", model.ErrMemberConflict, m)
		}
		g.Members = append(g.Members, m)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.group(id); err == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateGroup, id)
	}
	p.groups = append(p.groups, g)
	for _, m := range g.Members {
		p.index[personKey{g.ID, m}] = place{}
	}
	p.persist(dirtyRoster)
	return g.Clone(), nil
}

// AddMember appends a name to a group's member list.  A name the group
// already holds, listed or seated, is model.ErrMemberConflict.
func (p *Planner) AddMember(groupID, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty member name", model.ErrInvalidFormat)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(groupID)
	if err != nil {
		return nil, err
	}
	if at, ok := p.index[personKey{g.ID, name}]; ok {
		if at.seated {
			return nil, fmt.Errorf("%w: %q is seated at %s chair %d", model.ErrMemberConflict, name, at.table, at.chair)
		}
		return nil, fmt.Errorf("%w: %q is already listed in %s", model.ErrMemberConflict, name, g.Name)
	}
	p.returnToRoster(g, name)
	p.persist(dirtyRoster)
	return g.Clone(), nil
}

// RemoveMember drops a waiting name from a group.  Seated members are
// removed by vacating their chair first.
func (p *Planner) RemoveMember(groupID, name string) (*model.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(groupID)
	if err != nil {
		return nil, err
	}
	if !p.takeFromRoster(g, strings.TrimSpace(name)) {
		return nil, fmt.Errorf("%w: %q is not waiting in %s", model.ErrNotMember, name, g.Name)
	}
	p.persist(dirtyRoster)
	return g.Clone(), nil
}

// SeatGroup seats the group's waiting members, or the given subset of
// them, in the lowest free chairs of a table.  Either everyone is placed
// or nothing changes: when the table is short of chairs the error is a
// *model.InsufficientSeatsError and the caller may retry with a subset no
// larger than its Available count.
func (p *Planner) SeatGroup(groupID string, tableID model.ID, subset []string) (*model.Table, *model.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(groupID)
	if err != nil {
		return nil, nil, err
	}
	t, err := p.table(tableID)
	if err != nil {
		return nil, nil, err
	}
	if subset != nil {
		trimmed := make([]string, len(subset))
		for i, name := range subset {
			trimmed[i] = strings.TrimSpace(name)
		}
		subset = trimmed
	}
	plan, err := roster.PlanSeating(g, t, subset)
	if err != nil {
		return nil, nil, err
	}
	for _, pl := range plan {
		p.takeFromRoster(g, pl.Name)
		p.seat(t, pl.Chair, &model.Occupant{Name: pl.Name, GroupID: g.ID})
	}
	p.persist(dirtyHall | dirtyRoster)
	return t.Clone(), g.Clone(), nil
}

// ReleaseGroup vacates every chair held by the group across the hall and
// puts those names back on its member list, skipping names already there.
func (p *Planner) ReleaseGroup(groupID string) (*model.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(groupID)
	if err != nil {
		return nil, err
	}
	released := 0
	for _, t := range p.doc.Tables {
		for chair, o := range t.People {
			if o != nil && o.GroupID == g.ID {
				p.clearSeat(t, chair)
				p.returnToRoster(g, o.Name)
				released++
			}
		}
	}
	if released > 0 {
		p.persist(dirtyHall | dirtyRoster)
	}
	return g.Clone(), nil
}

// DeleteGroup removes a group and empties every chair it held.  The seated
// names are discarded, not returned anywhere.  This cannot be undone.
func (p *Planner) DeleteGroup(groupID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, err := p.group(groupID)
	if err != nil {
		return err
	}
	for _, t := range p.doc.Tables {
		for chair, o := range t.People {
			if o != nil && o.GroupID == g.ID {
				p.clearSeat(t, chair)
			}
		}
	}
	for _, name := range g.Members {
		delete(p.index, personKey{g.ID, name})
	}
	p.groups = slices.DeleteFunc(p.groups, func(x *model.Group) bool { return x == g })
	p.log.Infof("planner: deleted group %s (%s)", g.ID, g.Name)
	p.persist(dirtyHall | dirtyRoster)
	return nil
}
