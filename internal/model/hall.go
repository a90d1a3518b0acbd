package model

import (
	"encoding/json"
	"fmt"
)

// HallElement is a named icon placed on the hall (bar, stage, entrance...).
type HallElement struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Icon     string  `json:"icon"` // icon key understood by the renderer
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"` // 0..1, 1 when absent
}

// UnmarshalJSON decodes an element, defaulting a missing opacity to 1.
func (e *HallElement) UnmarshalJSON(b []byte) error {
	type plain HallElement
	v := plain{Opacity: 1}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = HallElement(v)
	return nil
}

// CanvasData holds the viewport state saved with the hall.
type CanvasData struct {
	Zoom float64 `json:"zoom"` // viewport zoom factor
}

// Document is a whole hall: its tables plus the purely visual layers.
type Document struct {
	Name         string        `json:"name"`
	Tables       []*Table      `json:"tables"`       // the only layer with seats
	Shapes       Shapes        `json:"shapes"`       // decorative shapes
	HallElements []HallElement `json:"hallElements"` // bar, stage, entrance icons
	CanvasData   CanvasData    `json:"canvasData"`
}

// NewDocument returns an empty hall.
func NewDocument(name string) *Document {
	d := &Document{Name: name}
	d.fillDefaults()
	return d
}

// ParseDocument decodes and validates a hall file.  Every problem is
// reported as ErrInvalidFormat; the returned document satisfies
// len(People) == ChairCount for every table.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: hall document: %v", ErrInvalidFormat, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate normalizes the document in place and checks table ids and seat
// arrays.
func (d *Document) Validate() error {
	d.fillDefaults()
	seen := make(map[ID]struct{}, len(d.Tables))
	for i, t := range d.Tables {
		if t == nil {
			return fmt.Errorf("%w: table %d is null", ErrInvalidFormat, i)
		}
		if err := t.normalize(); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate table id %s", ErrInvalidFormat, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func (d *Document) fillDefaults() {
	if d.Tables == nil {
		d.Tables = []*Table{}
	}
	if d.Shapes == nil {
		d.Shapes = Shapes{}
	}
	if d.HallElements == nil {
		d.HallElements = []HallElement{}
	}
	if d.CanvasData.Zoom <= 0 {
		d.CanvasData.Zoom = 1
	}
}

// Table returns the table with the given id, or nil.
func (d *Document) Table(id ID) *Table {
	for _, t := range d.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := &Document{
		Name:         d.Name,
		Tables:       make([]*Table, len(d.Tables)),
		Shapes:       make(Shapes, len(d.Shapes)),
		HallElements: append([]HallElement{}, d.HallElements...),
		CanvasData:   d.CanvasData,
	}
	for i, t := range d.Tables {
		cp.Tables[i] = t.Clone()
	}
	for i, sh := range d.Shapes {
		cp.Shapes[i] = cloneShape(sh)
	}
	return cp
}
