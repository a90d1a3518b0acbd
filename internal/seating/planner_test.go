package seating

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hall-seating/internal/model"
)

// recorder is an in-memory Persister that counts saves.
type recorder struct {
	doc    *model.Document
	groups []*model.Group
	pool   []string
	saves  int
	fail   error
}

func (r *recorder) LoadDocument(context.Context) (*model.Document, error) {
	if r.doc == nil {
		return nil, nil
	}
	return r.doc.Clone(), nil
}

func (r *recorder) SaveDocument(_ context.Context, d *model.Document) error {
	r.saves++
	if r.fail != nil {
		return r.fail
	}
	r.doc = d.Clone()
	return nil
}

func (r *recorder) LoadRoster(context.Context) ([]*model.Group, error) {
	if r.groups == nil {
		return nil, nil
	}
	out := make([]*model.Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.Clone()
	}
	return out, nil
}

func (r *recorder) SaveRoster(_ context.Context, groups []*model.Group) error {
	r.saves++
	if r.fail != nil {
		return r.fail
	}
	r.groups = make([]*model.Group, len(groups))
	for i, g := range groups {
		r.groups[i] = g.Clone()
	}
	return nil
}

func (r *recorder) LoadAvailablePeople(context.Context) ([]string, error) {
	return slices.Clone(r.pool), nil
}

func (r *recorder) SaveAvailablePeople(_ context.Context, names []string) error {
	r.saves++
	if r.fail != nil {
		return r.fail
	}
	r.pool = slices.Clone(names)
	return nil
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newPlanner(t *testing.T) (*Planner, *recorder) {
	t.Helper()
	rec := &recorder{}
	p := New(rec, quietLogger(), time.Second)
	p.now = func() time.Time { return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC) }
	return p, rec
}

func mustTable(t *testing.T, p *Planner, id model.ID, chairs int) {
	t.Helper()
	if _, err := p.AddTable(id, "", model.ShapeRound, chairs, model.Geometry{}); err != nil {
		t.Fatalf("AddTable(%s): %v", id, err)
	}
}

func mustGroup(t *testing.T, p *Planner, id string, members ...string) {
	t.Helper()
	if _, err := p.CreateGroup(id, id, "#ff0000", members); err != nil {
		t.Fatalf("CreateGroup(%s): %v", id, err)
	}
}

func checkConsistent(t *testing.T, p *Planner) {
	t.Helper()
	if err := p.CheckConsistency(); err != nil {
		t.Fatalf("inconsistent state: %v", err)
	}
}

func booking(start, end string) BookingRequest {
	return BookingRequest{Name: "Ivan", Phone: "+37400000000", GuestCount: 4, Date: "2025-06-01", Start: start, End: end, EventType: "birthday"}
}

func TestConfirmBookingScenario(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 12)

	conf, err := p.ConfirmBooking("T1", booking("19:00", "21:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if conf.Chair != 0 {
		t.Errorf("first booking chair = %d, want 0", conf.Chair)
	}
	tbl, _ := p.Table("T1")
	o := tbl.People[0]
	if o == nil || o.Name != "Ivan" || !o.IsMainGuest || o.GuestCount != 4 || o.Phone != "+37400000000" {
		t.Fatalf("chair 0 = %+v", o)
	}
	if o.Booking.Time != "19:00" || o.Booking.EndTime != "21:00" || o.Booking.Type != model.EventBirthday || o.Booking.Timestamp.IsZero() {
		t.Errorf("booking = %+v", o.Booking)
	}

	if _, err := p.ConfirmBooking("T1", booking("20:00", "22:00")); !errors.Is(err, model.ErrSlotConflict) {
		t.Fatalf("overlapping booking error = %v, want ErrSlotConflict", err)
	}
	conf, err = p.ConfirmBooking("T1", booking("21:00", "23:00"))
	if err != nil {
		t.Fatalf("touching booking: %v", err)
	}
	if conf.Chair != 1 {
		t.Errorf("touching booking chair = %d, want 1", conf.Chair)
	}
	checkConsistent(t, p)
}

func TestConfirmBookingRejects(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T1", 1)
	if _, err := p.ConfirmBooking("T1", booking("10:00", "11:00")); err != nil {
		t.Fatal(err)
	}
	saves := rec.saves

	tests := []struct {
		name  string
		table model.ID
		req   BookingRequest
		want  error
	}{
		{"No free chair", "T1", booking("12:00", "13:00"), model.ErrInsufficientSeats},
		{"Unknown table", "T9", booking("12:00", "13:00"), model.ErrTableNotFound},
		{"Off grid", "T1", booking("12:05", "13:00"), model.ErrInvalidFormat},
		{"Empty range", "T1", booking("12:00", "12:00"), model.ErrInvalidFormat},
		{"Unknown event", "T1", BookingRequest{Name: "x", Date: "2025-06-01", Start: "12:00", End: "13:00", EventType: "wedding"}, model.ErrInvalidFormat},
		{"No name", "T1", BookingRequest{Date: "2025-06-01", Start: "12:00", End: "13:00"}, model.ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ConfirmBooking(tt.table, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	var ise *model.InsufficientSeatsError
	if _, err := p.ConfirmBooking("T1", booking("12:00", "13:00")); !errors.As(err, &ise) || ise.Needed != 1 || ise.Available != 0 {
		t.Errorf("full table error = %v", err)
	}
	if rec.saves != saves {
		t.Errorf("failed bookings saved %d times", rec.saves-saves)
	}
}

func TestSeatGroupScenario(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T2", 3)
	if _, err := p.AssignPerson("T2", 0, "x", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AssignPerson("T2", 1, "y", "", nil); err != nil {
		t.Fatal(err)
	}
	mustGroup(t, p, "Family", "Anna", "Misha")
	saves := rec.saves

	_, _, err := p.SeatGroup("Family", "T2", nil)
	var ise *model.InsufficientSeatsError
	if !errors.As(err, &ise) || ise.Needed != 2 || ise.Available != 1 {
		t.Fatalf("SeatGroup error = %v, want InsufficientSeats{2,1}", err)
	}
	g, _ := p.Group("Family")
	if !slices.Equal(g.Members, []string{"Anna", "Misha"}) {
		t.Fatalf("members after failure = %v", g.Members)
	}
	if tbl, _ := p.Table("T2"); tbl.People[2] != nil {
		t.Fatal("failed SeatGroup wrote a seat")
	}
	if rec.saves != saves {
		t.Fatal("failed SeatGroup saved")
	}

	tbl, g, err := p.SeatGroup("Family", "T2", []string{"Anna"})
	if err != nil {
		t.Fatalf("SeatGroup subset: %v", err)
	}
	if o := tbl.People[2]; o == nil || o.Name != "Anna" || o.GroupID != "Family" {
		t.Fatalf("chair 2 = %+v", o)
	}
	if !slices.Equal(g.Members, []string{"Misha"}) {
		t.Errorf("members = %v, want [Misha]", g.Members)
	}
	if rec.saves == saves {
		t.Error("successful SeatGroup did not save")
	}
	checkConsistent(t, p)
}

func TestSeatGroupErrors(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 4)
	mustGroup(t, p, "Empty")
	mustGroup(t, p, "Family", "Anna")

	if _, _, err := p.SeatGroup("Empty", "T1", nil); !errors.Is(err, model.ErrEmptyGroup) {
		t.Errorf("empty group error = %v", err)
	}
	if _, _, err := p.SeatGroup("Family", "T1", []string{"Olga"}); !errors.Is(err, model.ErrNotMember) {
		t.Errorf("stranger error = %v", err)
	}
	if _, _, err := p.SeatGroup("Nope", "T1", nil); !errors.Is(err, model.ErrGroupNotFound) {
		t.Errorf("missing group error = %v", err)
	}
	if _, _, err := p.SeatGroup("Family", "T9", nil); !errors.Is(err, model.ErrTableNotFound) {
		t.Errorf("missing table error = %v", err)
	}
}

func TestSeatThenReleaseRestoresRoster(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 6)
	members := []string{"Anna", "Misha", "Olga", "Petr"}
	mustGroup(t, p, "fam", members...)

	if _, _, err := p.SeatGroup("fam", "T1", nil); err != nil {
		t.Fatal(err)
	}
	// A manual edit can put a seated name back on the list before release.
	if _, err := p.VacateChair("T1", 1); err != nil {
		t.Fatal(err)
	}
	g, err := p.ReleaseGroup("fam")
	if err != nil {
		t.Fatal(err)
	}
	got := slices.Clone(g.Members)
	slices.Sort(got)
	if !slices.Equal(got, members) {
		t.Fatalf("members after release = %v, want %v", g.Members, members)
	}
	tbl, _ := p.Table("T1")
	for chair, o := range tbl.People {
		if o != nil {
			t.Errorf("chair %d still holds %+v", chair, o)
		}
	}
	checkConsistent(t, p)
}

func TestDeleteGroupDiscardsSeatedNames(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 4)
	mustTable(t, p, "T2", 4)
	mustGroup(t, p, "fam", "Anna", "Misha", "Olga")
	mustGroup(t, p, "work", "Petr")

	if _, _, err := p.SeatGroup("fam", "T1", []string{"Anna", "Misha"}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AssignPerson("T2", 3, "Olga", "fam", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AssignPerson("T2", 0, "Walk-in", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := p.DeleteGroup("fam"); err != nil {
		t.Fatal(err)
	}
	doc := p.Document()
	for _, tbl := range doc.Tables {
		for chair, o := range tbl.People {
			if o != nil && o.GroupID == "fam" {
				t.Errorf("%s chair %d still references the deleted group", tbl.ID, chair)
			}
		}
	}
	if doc.Table("T2").People[0] == nil {
		t.Error("walk-in was removed with the group")
	}
	if _, err := p.Group("fam"); !errors.Is(err, model.ErrGroupNotFound) {
		t.Errorf("deleted group lookup error = %v", err)
	}
	for _, g := range p.Groups() {
		for _, name := range []string{"Anna", "Misha", "Olga"} {
			if g.HasMember(name) {
				t.Errorf("%q leaked into group %s", name, g.ID)
			}
		}
	}
	if len(p.AvailablePeople()) != 0 {
		t.Errorf("discarded names went to the pool: %v", p.AvailablePeople())
	}
	checkConsistent(t, p)
}

func TestAssignPersonMovesGroupedPeople(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 3)
	mustTable(t, p, "T2", 3)
	mustGroup(t, p, "fam", "Anna", "Misha")

	if _, err := p.AssignPerson("T1", 0, "Anna", "fam", nil); err != nil {
		t.Fatal(err)
	}
	g, _ := p.Group("fam")
	if !slices.Equal(g.Members, []string{"Misha"}) {
		t.Fatalf("Anna not taken off the list: %v", g.Members)
	}

	// Moving Anna clears her old chair.
	if _, err := p.AssignPerson("T2", 1, "Anna", "fam", nil); err != nil {
		t.Fatal(err)
	}
	if tbl, _ := p.Table("T1"); tbl.People[0] != nil {
		t.Errorf("old chair still holds %+v", tbl.People[0])
	}

	// Overwriting Anna with a walk-in sends her back to the group.
	if _, err := p.AssignPerson("T2", 1, "Guest", "", nil); err != nil {
		t.Fatal(err)
	}
	g, _ = p.Group("fam")
	if !slices.Equal(g.Members, []string{"Misha", "Anna"}) {
		t.Errorf("members = %v, want [Misha Anna]", g.Members)
	}

	// Overwriting the walk-in puts it in the pool, seating it again takes it out.
	if _, err := p.AssignPerson("T2", 1, "Misha", "fam", nil); err != nil {
		t.Fatal(err)
	}
	if got := p.AvailablePeople(); !slices.Equal(got, []string{"Guest"}) {
		t.Errorf("pool = %v", got)
	}
	if _, err := p.AssignPerson("T1", 2, "Guest", "", nil); err != nil {
		t.Fatal(err)
	}
	if got := p.AvailablePeople(); len(got) != 0 {
		t.Errorf("pool after reseating = %v", got)
	}
	checkConsistent(t, p)
}

func TestAssignPersonErrors(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T1", 2)
	saves := rec.saves

	tests := []struct {
		name    string
		chair   int
		who     string
		group   string
		booking *model.Booking
		want    error
	}{
		{"Negative chair", -1, "a", "", nil, model.ErrInvalidChair},
		{"Chair past the end", 2, "a", "", nil, model.ErrInvalidChair},
		{"Blank name", 0, "  ", "", nil, model.ErrInvalidFormat},
		{"Unknown group", 0, "a", "nope", nil, model.ErrGroupNotFound},
		{"Bad booking", 0, "a", "", &model.Booking{Date: "2025-06-01", Time: "10:00", EndTime: "10:00"}, model.ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.AssignPerson("T1", tt.chair, tt.who, tt.group, tt.booking); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	if rec.saves != saves {
		t.Error("failed assignments saved")
	}
}

func TestAssignPersonChecksBookedSlots(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T1", 3)
	if _, err := p.ConfirmBooking("T1", booking("19:00", "21:00")); err != nil {
		t.Fatal(err)
	}
	at := func(start, end string) *model.Booking {
		return &model.Booking{Date: "2025-06-01", Time: start, EndTime: end}
	}

	saves := rec.saves
	if _, err := p.AssignPerson("T1", 2, "Other", "", at("20:00", "22:00")); !errors.Is(err, model.ErrSlotConflict) {
		t.Fatalf("overlapping booking error = %v", err)
	}
	if tbl, _ := p.Table("T1"); tbl.People[2] != nil {
		t.Fatalf("rejected booking was seated: %+v", tbl.People[2])
	}
	if rec.saves != saves {
		t.Error("rejected booking saved")
	}

	tbl, err := p.AssignPerson("T1", 2, "Other", "", at("21:00", "23:00"))
	if err != nil {
		t.Fatalf("touching booking: %v", err)
	}
	if got := tbl.People[2].Booking; got.Type != model.EventOther || !got.Timestamp.Equal(p.now()) {
		t.Errorf("stored booking = %+v", got)
	}

	// Replacing chair 0 drops its old booking before the range is checked.
	if _, err := p.AssignPerson("T1", 0, "Ivan", "", at("18:00", "20:00")); err != nil {
		t.Fatalf("same chair replacement: %v", err)
	}
	tbl, _ = p.Table("T1")
	if b := tbl.People[0].Booking; b.Time != "18:00" || b.EndTime != "20:00" {
		t.Errorf("chair 0 booking = %s-%s", b.Time, b.EndTime)
	}
	free, err := p.AssignPerson("T1", 1, "Late", "", at("20:00", "21:00"))
	if err != nil {
		t.Fatalf("slot freed by the replacement: %v", err)
	}
	if free.People[1].Name != "Late" {
		t.Errorf("chair 1 = %+v", free.People[1])
	}
	checkConsistent(t, p)
}

func TestConfirmBookingKeepsNamesakeWalkIn(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 3)
	if _, err := p.AssignPerson("T1", 1, "Ivan", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.VacateChair("T1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ConfirmBooking("T1", booking("19:00", "21:00")); err != nil {
		t.Fatal(err)
	}
	if got := p.AvailablePeople(); !slices.Equal(got, []string{"Ivan"}) {
		t.Errorf("pool = %v, want the waiting walk-in kept", got)
	}
}

func TestVacateChair(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T1", 3)
	mustGroup(t, p, "fam", "Anna")
	if _, _, err := p.SeatGroup("fam", "T1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AssignPerson("T1", 1, "Walk-in", "", nil); err != nil {
		t.Fatal(err)
	}

	saves := rec.saves
	if _, err := p.VacateChair("T1", 2); err != nil {
		t.Fatalf("vacating an empty chair: %v", err)
	}
	if rec.saves != saves {
		t.Error("no-op vacate saved")
	}
	if _, err := p.VacateChair("T1", 3); !errors.Is(err, model.ErrInvalidChair) {
		t.Errorf("out of range error = %v", err)
	}

	if _, err := p.VacateChair("T1", 0); err != nil {
		t.Fatal(err)
	}
	if g, _ := p.Group("fam"); !slices.Equal(g.Members, []string{"Anna"}) {
		t.Errorf("members = %v", g.Members)
	}
	if _, err := p.VacateChair("T1", 1); err != nil {
		t.Fatal(err)
	}
	if got := p.AvailablePeople(); !slices.Equal(got, []string{"Walk-in"}) {
		t.Errorf("pool = %v", got)
	}
	if !slices.Equal(rec.pool, []string{"Walk-in"}) || len(rec.groups[0].Members) != 1 {
		t.Errorf("saved state pool=%v groups=%+v", rec.pool, rec.groups)
	}
	checkConsistent(t, p)
}

func TestSaveFailuresKeepChanges(t *testing.T) {
	p, rec := newPlanner(t)
	rec.fail = errors.New("disk full")
	mustTable(t, p, "T1", 2)
	if _, err := p.AssignPerson("T1", 0, "Anna", "", nil); err != nil {
		t.Fatalf("AssignPerson with a failing store: %v", err)
	}
	if tbl, _ := p.Table("T1"); tbl.People[0] == nil {
		t.Error("in-memory change was rolled back")
	}
}

func TestMembersEditing(t *testing.T) {
	p, _ := newPlanner(t)
	mustTable(t, p, "T1", 2)

	g, err := p.CreateGroup("", " Work ", "", []string{" Petr "})
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == "" || g.Name != "Work" || !slices.Equal(g.Members, []string{"Petr"}) {
		t.Fatalf("created group = %+v", g)
	}
	if _, err := p.CreateGroup(g.ID, "Again", "", nil); !errors.Is(err, model.ErrDuplicateGroup) {
		t.Errorf("duplicate id error = %v", err)
	}
	if _, err := p.CreateGroup("x", "X", "", []string{"a", "a"}); !errors.Is(err, model.ErrMemberConflict) {
		t.Errorf("repeated member error = %v", err)
	}
	mustGroup(t, p, "fam", "Petr")

	if _, err := p.AddMember(g.ID, "Petr"); !errors.Is(err, model.ErrMemberConflict) {
		t.Errorf("listed twice error = %v", err)
	}
	if _, _, err := p.SeatGroup(g.ID, "T1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddMember(g.ID, "Petr"); !errors.Is(err, model.ErrMemberConflict) {
		t.Errorf("seated member error = %v", err)
	}
	if g, err = p.AddMember(g.ID, "Oleg"); err != nil || !slices.Equal(g.Members, []string{"Oleg"}) {
		t.Fatalf("AddMember = %+v, %v", g, err)
	}
	if _, err := p.RemoveMember(g.ID, "Petr"); !errors.Is(err, model.ErrNotMember) {
		t.Errorf("removing a seated member error = %v", err)
	}
	if g, err = p.RemoveMember(g.ID, "Oleg"); err != nil || len(g.Members) != 0 {
		t.Fatalf("RemoveMember = %+v, %v", g, err)
	}

	report, err := p.GroupStatus(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Status.IsFullySeated || len(report.Seated) != 1 || report.Seated[0].Name != "Petr" {
		t.Errorf("report = %+v", report)
	}
	checkConsistent(t, p)
}

func TestTables(t *testing.T) {
	p, _ := newPlanner(t)
	tbl, err := p.AddTable("", "Window", model.ShapeRectangular, 2, model.Geometry{X: 10})
	if err != nil || tbl.ID != "1" {
		t.Fatalf("AddTable = %+v, %v", tbl, err)
	}
	mustTable(t, p, "7", 2)
	if tbl, _ = p.AddTable("", "", model.ShapeRound, 1, model.Geometry{}); tbl.ID != "8" {
		t.Errorf("next id = %s, want 8", tbl.ID)
	}
	if _, err := p.AddTable("7", "", model.ShapeRound, 1, model.Geometry{}); !errors.Is(err, model.ErrDuplicateTable) {
		t.Errorf("duplicate table error = %v", err)
	}
	if _, err := p.AddTable("9", "", model.ShapeRound, 0, model.Geometry{}); !errors.Is(err, model.ErrInvalidFormat) {
		t.Errorf("zero chairs error = %v", err)
	}

	mustGroup(t, p, "fam", "Anna")
	if _, _, err := p.SeatGroup("fam", "7", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AssignPerson("7", 1, "Walk-in", "", nil); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveTable("7"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Table("7"); !errors.Is(err, model.ErrTableNotFound) {
		t.Errorf("removed table lookup error = %v", err)
	}
	if g, _ := p.Group("fam"); !slices.Equal(g.Members, []string{"Anna"}) {
		t.Errorf("members = %v", g.Members)
	}
	if !slices.Equal(p.AvailablePeople(), []string{"Walk-in"}) {
		t.Errorf("pool = %v", p.AvailablePeople())
	}
	checkConsistent(t, p)
}

func TestImportDocument(t *testing.T) {
	p, rec := newPlanner(t)
	mustTable(t, p, "T1", 2)
	mustGroup(t, p, "fam", "Anna", "Misha")
	if _, _, err := p.SeatGroup("fam", "T1", []string{"Anna"}); err != nil {
		t.Fatal(err)
	}

	saves := rec.saves
	if _, err := p.ImportDocument([]byte(`{"tables": [`)); !errors.Is(err, model.ErrInvalidFormat) {
		t.Fatalf("malformed import error = %v", err)
	}
	if rec.saves != saves || p.Document().Table("T1").People[0] == nil {
		t.Fatal("malformed import changed state")
	}

	doc, err := p.ImportDocument([]byte(`{"name": "New", "tables": [
		{"id": 5, "chairCount": 2, "people": [{"name": "Misha", "groupId": "fam"}, {"name": "Ghost", "groupId": "gone"}]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Table("5").People[1].GroupID != "" {
		t.Error("occupant of an unknown group kept its link")
	}
	g, _ := p.Group("fam")
	if !slices.Equal(g.Members, []string{"Anna"}) {
		t.Errorf("members after import = %v, want [Anna]", g.Members)
	}
	out, err := p.ExportDocument()
	if err != nil {
		t.Fatal(err)
	}
	if back, err := model.ParseDocument(out); err != nil || back.Name != "New" {
		t.Errorf("export does not re-import: %v", err)
	}
	checkConsistent(t, p)
}

func TestLoadReconciles(t *testing.T) {
	doc, err := model.ParseDocument([]byte(`{"tables": [
		{"id": 1, "chairCount": 2, "people": [{"name": "Anna", "groupId": "fam"}, {"name": "Anna", "groupId": "fam"}]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{
		doc:    doc,
		groups: []*model.Group{{ID: "fam", Name: "Family", Members: []string{"Anna", "Misha"}}},
		pool:   []string{" Guest ", "Guest", ""},
	}
	p := New(rec, quietLogger(), 0)
	if err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	g, _ := p.Group("fam")
	if !slices.Equal(g.Members, []string{"Misha"}) {
		t.Errorf("members = %v, want [Misha]", g.Members)
	}
	if tbl, _ := p.Table("1"); tbl.People[1].GroupID != "" {
		t.Error("second seat of the same person kept its group")
	}
	if !slices.Equal(p.AvailablePeople(), []string{"Guest"}) {
		t.Errorf("pool = %v", p.AvailablePeople())
	}
	checkConsistent(t, p)

	empty := New(&recorder{}, quietLogger(), 0)
	if err := empty.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d := empty.Document(); len(d.Tables) != 0 || d.CanvasData.Zoom != 1 {
		t.Errorf("empty store gave %+v", d)
	}
}
