package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TableShape is the outline a table is drawn with.
type TableShape string

const (
	ShapeRound       TableShape = "round"
	ShapeRectangular TableShape = "rectangular"
)

// MarshalJSON writes the hall-file spelling: "rectangle" or "round".
func (s TableShape) MarshalJSON() ([]byte, error) {
	if s == ShapeRectangular {
		return json.Marshal("rectangle")
	}
	return json.Marshal(string(ShapeRound))
}

// UnmarshalJSON maps "rectangle" (or "rectangular") to ShapeRectangular and
// every other value to ShapeRound.
func (s *TableShape) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = ShapeRound
		return nil
	}
	switch strings.ToLower(raw) {
	case "rectangle", "rectangular":
		*s = ShapeRectangular
	default:
		*s = ShapeRound
	}
	return nil
}

// Geometry is opaque placement data for the renderer.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale,omitempty"` // 0 means unscaled
}

// Table is one table of the hall with a fixed number of chairs.  People
// always has exactly ChairCount entries; a nil entry is an empty chair and
// chair indices never change for the lifetime of the table.
type Table struct {
	ID         ID          `json:"id"`             // number or string in the hall file
	Name       string      `json:"name,omitempty"` // optional display name
	Shape      TableShape  `json:"shape"`          // round or rectangular
	ChairCount int         `json:"chairCount"`     // at least one
	People     []*Occupant `json:"people"`         // one entry per chair, nil when empty
	Geometry
	RenderingOptions json.RawMessage `json:"renderingOptions,omitempty"` // kept verbatim for the renderer
}

// NewTable builds an empty table.  chairCount must be at least one.
func NewTable(id ID, name string, shape TableShape, chairCount int, geo Geometry) (*Table, error) {
	t := &Table{ID: id, Name: name, Shape: shape, ChairCount: chairCount, Geometry: geo}
	if err := t.normalize(); err != nil {
		return nil, err
	}
	return t, nil
}

// DisplayName returns the table name, or "Table {id}" when it has none.
func (t *Table) DisplayName() string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	return "Table " + string(t.ID)
}

// ValidChair reports whether chair is an index of this table.
func (t *Table) ValidChair(chair int) bool { return chair >= 0 && chair < t.ChairCount }

// Seat returns the occupant of a chair, nil when the chair is empty.
func (t *Table) Seat(chair int) (*Occupant, error) {
	if !t.ValidChair(chair) {
		return nil, fmt.Errorf("%w: chair %d on %s (has %d)", ErrInvalidChair, chair, t.DisplayName(), t.ChairCount)
	}
	return t.People[chair], nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := *t
	cp.People = make([]*Occupant, len(t.People))
	for i, o := range t.People {
		cp.People[i] = o.Clone()
	}
	if t.RenderingOptions != nil {
		cp.RenderingOptions = append(json.RawMessage(nil), t.RenderingOptions...)
	}
	return &cp
}

// normalize enforces len(People) == ChairCount and trims occupant names.
// A seat array longer than the chair count is rejected rather than cut,
// since cutting would drop people.
func (t *Table) normalize() error {
	if strings.TrimSpace(string(t.ID)) == "" {
		return fmt.Errorf("%w: table without id", ErrInvalidFormat)
	}
	if t.ChairCount < 1 {
		return fmt.Errorf("%w: table %s has chairCount %d", ErrInvalidFormat, t.ID, t.ChairCount)
	}
	if len(t.People) > t.ChairCount {
		return fmt.Errorf("%w: table %s lists %d people for %d chairs", ErrInvalidFormat, t.ID, len(t.People), t.ChairCount)
	}
	for len(t.People) < t.ChairCount {
		t.People = append(t.People, nil)
	}
	if t.Shape == "" {
		t.Shape = ShapeRound
	}
	for i, o := range t.People {
		if o == nil {
			continue
		}
		o.Name = strings.TrimSpace(o.Name)
		o.GroupID = strings.TrimSpace(o.GroupID)
		if o.Name == "" {
			return fmt.Errorf("%w: table %s chair %d has an occupant without a name", ErrInvalidFormat, t.ID, i)
		}
		if o.Booking != nil {
			if err := o.Booking.Validate(); err != nil {
				return fmt.Errorf("table %s chair %d: %w", t.ID, i, err)
			}
			if o.Booking.Type == "" {
				o.Booking.Type = EventOther
			}
		}
	}
	return nil
}
