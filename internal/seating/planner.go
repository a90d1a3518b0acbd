// Package seating holds the live hall and group roster and applies every
// seat-changing operation to them.  A Planner is the only writer: it keeps
// an index from each grouped person to where that person currently is, and
// every move goes through a handful of primitives that update the index,
// the group member list and the table seats together.
//
// After a mutation succeeds the Planner hands the new state to its
// Persister.  Save failures are logged and never undo the in-memory change;
// a failed operation mutates nothing and saves nothing.
package seating

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hall-seating/internal/model"
)

// Logger is the part of gommon's *log.Logger the planner writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Persister loads and saves the planner state.  Load methods return nil
// with no error when nothing has been stored yet.  storage.Bridge is the
// production implementation.
type Persister interface {
	LoadDocument(ctx context.Context) (*model.Document, error)
	SaveDocument(ctx context.Context, doc *model.Document) error
	LoadRoster(ctx context.Context) ([]*model.Group, error)
	SaveRoster(ctx context.Context, groups []*model.Group) error
	LoadAvailablePeople(ctx context.Context) ([]string, error)
	SaveAvailablePeople(ctx context.Context, names []string) error
}

// DefaultSaveTimeout bounds one round of saves after a mutation.
const DefaultSaveTimeout = 5 * time.Second

// personKey identifies a grouped person.  Walk-ins have no key: two
// ungrouped "Guest" occupants are unrelated.
type personKey struct {
	group string
	name  string
}

// place is where a grouped person is: waiting in the roster, or in a chair.
type place struct {
	seated bool
	table  model.ID
	chair  int
}

type dirty uint8

const (
	dirtyHall dirty = 1 << iota
	dirtyRoster
	dirtyPool
)

// Planner serializes all seating operations behind one mutex.
type Planner struct {
	mu     sync.Mutex
	doc    *model.Document
	groups []*model.Group
	// pool holds walk-ins that lost their chair, most recent last.
	pool  []string
	index map[personKey]place

	store       Persister
	log         Logger
	saveTimeout time.Duration
	now         func() time.Time
}

// New returns a planner with an empty hall and roster.  store may be nil
// to keep everything in memory; logger nil uses a gommon logger.
func New(store Persister, logger Logger, saveTimeout time.Duration) *Planner {
	if logger == nil {
		logger = log.New("seating")
	}
	if saveTimeout <= 0 {
		saveTimeout = DefaultSaveTimeout
	}
	return &Planner{
		doc:         model.NewDocument(""),
		groups:      []*model.Group{},
		pool:        []string{},
		index:       map[personKey]place{},
		store:       store,
		log:         logger,
		saveTimeout: saveTimeout,
		now:         time.Now,
	}
}

// Load replaces the planner state with what the store holds.  Missing keys
// fall back to an empty hall, roster or pool.  Stored data that contradicts
// itself is repaired with a warning: a grouped name that is both listed and
// seated stays seated, and an occupant pointing at an unknown group is
// unlinked from it.
func (p *Planner) Load(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	doc, err := p.store.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("load hall: %w", err)
	}
	groups, err := p.store.LoadRoster(ctx)
	if err != nil {
		return fmt.Errorf("load groups: %w", err)
	}
	pool, err := p.store.LoadAvailablePeople(ctx)
	if err != nil {
		return fmt.Errorf("load available people: %w", err)
	}
	if doc == nil {
		doc = model.NewDocument("")
	}
	if groups == nil {
		groups = []*model.Group{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc, p.groups = doc, groups
	p.pool = cleanPool(pool)
	p.index = reconcile(p.doc, p.groups, p.log)
	p.log.Infof("planner: loaded %d tables, %d groups, %d available people", len(p.doc.Tables), len(p.groups), len(p.pool))
	return nil
}

// reconcile builds the person index for doc and groups, repairing both in
// place where they disagree.
func reconcile(doc *model.Document, groups []*model.Group, logger Logger) map[personKey]place {
	known := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		known[g.ID] = struct{}{}
	}
	index := make(map[personKey]place)
	for _, t := range doc.Tables {
		for chair, o := range t.People {
			if o == nil || !o.Grouped() {
				continue
			}
			if _, ok := known[o.GroupID]; !ok {
				logger.Warnf("planner: %s chair %d: group %q does not exist, unlinking %q", t.DisplayName(), chair, o.GroupID, o.Name)
				o.GroupID = ""
				continue
			}
			key := personKey{o.GroupID, o.Name}
			if prev, dup := index[key]; dup {
				logger.Warnf("planner: %q of group %s is seated at %s chair %d and %s chair %d, unlinking the second", o.Name, o.GroupID, prev.table, prev.chair, t.ID, chair)
				o.GroupID = ""
				continue
			}
			index[key] = place{seated: true, table: t.ID, chair: chair}
		}
	}
	for _, g := range groups {
		g.Members = slices.DeleteFunc(g.Members, func(name string) bool {
			key := personKey{g.ID, name}
			if at, ok := index[key]; ok && at.seated {
				logger.Warnf("planner: %q of group %s is listed and seated at %s chair %d, keeping the seat", name, g.ID, at.table, at.chair)
				return true
			}
			if _, ok := index[key]; ok {
				return true
			}
			index[key] = place{}
			return false
		})
	}
	return index
}

func cleanPool(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func (p *Planner) table(id model.ID) (*model.Table, error) {
	if t := p.doc.Table(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrTableNotFound, id)
}

func (p *Planner) group(id string) (*model.Group, error) {
	for _, g := range p.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", model.ErrGroupNotFound, id)
}

// seat puts o in an empty chair.
func (p *Planner) seat(t *model.Table, chair int, o *model.Occupant) {
	t.People[chair] = o
	if o.Grouped() {
		p.index[personKey{o.GroupID, o.Name}] = place{seated: true, table: t.ID, chair: chair}
	}
}

// clearSeat empties a chair and returns whoever sat there.  The occupant
// is dropped from the index; the caller decides where it goes next.
func (p *Planner) clearSeat(t *model.Table, chair int) *model.Occupant {
	o := t.People[chair]
	if o == nil {
		return nil
	}
	t.People[chair] = nil
	if o.Grouped() {
		delete(p.index, personKey{o.GroupID, o.Name})
	}
	return o
}

// takeFromRoster removes name from g's member list.
func (p *Planner) takeFromRoster(g *model.Group, name string) bool {
	i := slices.Index(g.Members, name)
	if i < 0 {
		return false
	}
	g.Members = slices.Delete(g.Members, i, i+1)
	delete(p.index, personKey{g.ID, name})
	return true
}

// returnToRoster appends name to g's member list unless it is already there.
func (p *Planner) returnToRoster(g *model.Group, name string) {
	if !g.HasMember(name) {
		g.Members = append(g.Members, name)
	}
	p.index[personKey{g.ID, name}] = place{}
}

func (p *Planner) addToPool(name string) {
	if !slices.Contains(p.pool, name) {
		p.pool = append(p.pool, name)
	}
}

func (p *Planner) takeFromPool(name string) bool {
	i := slices.Index(p.pool, name)
	if i < 0 {
		return false
	}
	p.pool = slices.Delete(p.pool, i, i+1)
	return true
}

// sendHome returns a displaced occupant to its group, or to the pool of
// available people when it has none.
func (p *Planner) sendHome(o *model.Occupant) dirty {
	if o.Grouped() {
		if g, err := p.group(o.GroupID); err == nil {
			p.returnToRoster(g, o.Name)
			return dirtyRoster
		}
	}
	p.addToPool(o.Name)
	return dirtyPool
}

// persist saves the parts named by what.  It runs under p.mu so saves land
// in mutation order.
func (p *Planner) persist(what dirty) {
	if p.store == nil || what == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.saveTimeout)
	defer cancel()
	if what&dirtyHall != 0 {
		if err := p.store.SaveDocument(ctx, p.doc); err != nil {
			p.log.Errorf("planner: save hall: %v", err)
		}
	}
	if what&dirtyRoster != 0 {
		if err := p.store.SaveRoster(ctx, p.groups); err != nil {
			p.log.Errorf("planner: save groups: %v", err)
		}
	}
	if what&dirtyPool != 0 {
		if err := p.store.SaveAvailablePeople(ctx, p.pool); err != nil {
			p.log.Errorf("planner: save available people: %v", err)
		}
	}
}

// CheckConsistency verifies that every grouped person is in exactly one
// place: listed once in its group, or seated in exactly one chair, and that
// the index agrees with both views.
func (p *Planner) CheckConsistency() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	known := make(map[string]struct{}, len(p.groups))
	seen := make(map[personKey]place)
	for _, g := range p.groups {
		known[g.ID] = struct{}{}
		for _, name := range g.Members {
			key := personKey{g.ID, name}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%q listed twice in group %s", name, g.ID)
			}
			seen[key] = place{}
		}
	}
	for _, t := range p.doc.Tables {
		if len(t.People) != t.ChairCount {
			return fmt.Errorf("%s has %d seats for %d chairs", t.DisplayName(), len(t.People), t.ChairCount)
		}
		for chair, o := range t.People {
			if o == nil || !o.Grouped() {
				continue
			}
			if _, ok := known[o.GroupID]; !ok {
				return fmt.Errorf("%s chair %d points at missing group %s", t.DisplayName(), chair, o.GroupID)
			}
			key := personKey{o.GroupID, o.Name}
			if prev, dup := seen[key]; dup {
				if prev.seated {
					return fmt.Errorf("%q of group %s is seated twice", o.Name, o.GroupID)
				}
				return fmt.Errorf("%q of group %s is both listed and seated", o.Name, o.GroupID)
			}
			seen[key] = place{seated: true, table: t.ID, chair: chair}
		}
	}
	if len(seen) != len(p.index) {
		return fmt.Errorf("index tracks %d people, hall and roster hold %d", len(p.index), len(seen))
	}
	for key, want := range seen {
		if got, ok := p.index[key]; !ok || got != want {
			return fmt.Errorf("index has %+v for %q of group %s, want %+v", got, key.name, key.group, want)
		}
	}
	return nil
}
