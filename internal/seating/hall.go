package seating

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iliyamo/hall-seating/internal/model"
)

// Document returns a copy of the current hall.
func (p *Planner) Document() *model.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Clone()
}

// Table returns a copy of one table.
func (p *Planner) Table(id model.ID) (*model.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.table(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// ExportDocument encodes the hall in the same format ImportDocument reads.
func (p *Planner) ExportDocument() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.MarshalIndent(p.doc, "", "  ")
}

// ImportDocument replaces the hall with the one encoded in data.  Malformed
// input returns model.ErrInvalidFormat and leaves the planner untouched.
//
// Grouped people seated in the old hall go back to their groups before the
// new hall is reconciled against the roster; walk-ins of the old hall are
// dropped with it.
func (p *Planner) ImportDocument(data []byte) (*model.Document, error) {
	doc, err := model.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	groups := make([]*model.Group, len(p.groups))
	byID := make(map[string]*model.Group, len(p.groups))
	for i, g := range p.groups {
		groups[i] = g.Clone()
		byID[g.ID] = groups[i]
	}
	for _, t := range p.doc.Tables {
		for _, o := range t.People {
			if o == nil || !o.Grouped() {
				continue
			}
			if g := byID[o.GroupID]; g != nil && !g.HasMember(o.Name) {
				g.Members = append(g.Members, o.Name)
			}
		}
	}
	p.doc, p.groups = doc, groups
	p.index = reconcile(p.doc, p.groups, p.log)
	p.log.Infof("planner: imported hall %q with %d tables", doc.Name, len(doc.Tables))
	p.persist(dirtyHall | dirtyRoster)
	return p.doc.Clone(), nil
}

// AddTable adds an empty table.  An empty id picks the next free integer id.
func (p *Planner) AddTable(id model.ID, name string, shape model.TableShape, chairs int, geo model.Geometry) (*model.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id = model.ID(strings.TrimSpace(string(id)))
	if id == "" {
		id = p.nextTableID()
	}
	if p.doc.Table(id) != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateTable, id)
	}
	t, err := model.NewTable(id, strings.TrimSpace(name), shape, chairs, geo)
	if err != nil {
		return nil, err
	}
	p.doc.Tables = append(p.doc.Tables, t)
	p.persist(dirtyHall)
	return t.Clone(), nil
}

func (p *Planner) nextTableID() model.ID {
	next := 1
	for _, t := range p.doc.Tables {
		if n, err := strconv.Atoi(string(t.ID)); err == nil && n >= next {
			next = n + 1
		}
	}
	return model.ID(strconv.Itoa(next))
}

// RemoveTable deletes a table.  Its grouped occupants return to their
// groups and walk-ins to the available people.
func (p *Planner) RemoveTable(id model.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.table(id)
	if err != nil {
		return err
	}
	what := dirtyHall
	for chair := range t.People {
		if o := p.clearSeat(t, chair); o != nil {
			what |= p.sendHome(o)
		}
	}
	p.doc.Tables = slices.DeleteFunc(p.doc.Tables, func(x *model.Table) bool { return x == t })
	p.persist(what)
	return nil
}
