package model

import (
	"encoding/json"
	"fmt"
)

// ShapeKind is the "type" tag of a decorative shape.
type ShapeKind string

const (
	ShapeKindRect   ShapeKind = "rect"
	ShapeKindCircle ShapeKind = "circle"
	ShapeKindText   ShapeKind = "text"
	ShapeKindLine   ShapeKind = "line"
)

// Shape is a decorative annotation drawn on the hall.  It has no effect on
// seating; the concrete types only exist so the renderer gets every field
// with a sensible value.
type Shape interface {
	ShapeID() ID
	Kind() ShapeKind
}

// RectShape is a filled rectangle.
type RectShape struct {
	ID          ID      `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Rotation    float64 `json:"rotation"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// CircleShape is a filled circle centred on X, Y.
type CircleShape struct {
	ID          ID      `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// TextShape is a free text label.
type TextShape struct {
	ID       ID      `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation"`
}

// LineShape is a straight segment from (X1, Y1) to (X2, Y2).
type LineShape struct {
	ID          ID      `json:"id"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

func (s *RectShape) ShapeID() ID     { return s.ID }
func (s *RectShape) Kind() ShapeKind { return ShapeKindRect }

func (s *CircleShape) ShapeID() ID     { return s.ID }
func (s *CircleShape) Kind() ShapeKind { return ShapeKindCircle }

func (s *TextShape) ShapeID() ID     { return s.ID }
func (s *TextShape) Kind() ShapeKind { return ShapeKindText }

func (s *LineShape) ShapeID() ID     { return s.ID }
func (s *LineShape) Kind() ShapeKind { return ShapeKindLine }

// NewShape returns a shape of the given kind filled with the default values.
// Decoding starts from these defaults, so a field missing from the hall file
// keeps its default instead of being zero.
func NewShape(kind ShapeKind, id ID) (Shape, error) {
	switch kind {
	case ShapeKindRect:
		return &RectShape{ID: id, Width: 100, Height: 60, Fill: "#e0e0e0", Stroke: "#333333", StrokeWidth: 1}, nil
	case ShapeKindCircle:
		return &CircleShape{ID: id, Radius: 40, Fill: "#e0e0e0", Stroke: "#333333", StrokeWidth: 1}, nil
	case ShapeKindText:
		return &TextShape{ID: id, Text: "Text", FontSize: 16, Color: "#333333"}, nil
	case ShapeKindLine:
		return &LineShape{ID: id, X2: 100, Stroke: "#333333", StrokeWidth: 2}, nil
	}
	return nil, fmt.Errorf("%w: unknown shape type %q", ErrInvalidFormat, kind)
}

// Shapes is the decorative layer of a hall.  It encodes each element with
// its "type" tag and decodes by dispatching on that tag.
type Shapes []Shape

// MarshalJSON writes every shape with its "type" field.
func (s Shapes) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(s))
	for _, sh := range s {
		b, err := encodeShape(sh)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list of tagged shapes.
func (s *Shapes) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(Shapes, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			ID   ID        `json:"id"`
			Type ShapeKind `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		sh, err := NewShape(head.Type, head.ID)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, sh); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, sh)
	}
	*s = out
	return nil
}

func encodeShape(sh Shape) ([]byte, error) {
	switch v := sh.(type) {
	case *RectShape:
		return json.Marshal(struct {
			Type ShapeKind `json:"type"`
			*RectShape
		}{ShapeKindRect, v})
	case *CircleShape:
		return json.Marshal(struct {
			Type ShapeKind `json:"type"`
			*CircleShape
		}{ShapeKindCircle, v})
	case *TextShape:
		return json.Marshal(struct {
			Type ShapeKind `json:"type"`
			*TextShape
		}{ShapeKindText, v})
	case *LineShape:
		return json.Marshal(struct {
			Type ShapeKind `json:"type"`
			*LineShape
		}{ShapeKindLine, v})
	}
	return nil, fmt.Errorf("unsupported shape %T", sh)
}

func cloneShape(sh Shape) Shape {
	switch v := sh.(type) {
	case *RectShape:
		cp := *v
		return &cp
	case *CircleShape:
		cp := *v
		return &cp
	case *TextShape:
		cp := *v
		return &cp
	case *LineShape:
		cp := *v
		return &cp
	}
	return sh
}
