package handler // hall layout and chair endpoints

import (
	"io"       // bounded body reads
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/model"   // hall model and sentinel errors
	"github.com/iliyamo/hall-seating/internal/roster"  // free chair query
	"github.com/iliyamo/hall-seating/internal/seating" // planner operations
)

// maxHallBytes caps an imported hall file.
const maxHallBytes = 8 << 20

// HallHandler edits the hall layout and individual chairs.
type HallHandler struct {
	Planner *seating.Planner
}

// NewHallHandler constructs a HallHandler.  The planner must be non-nil.
func NewHallHandler(p *seating.Planner) *HallHandler {
	if p == nil {
		panic("nil planner passed to NewHallHandler") // programming error
	}
	return &HallHandler{Planner: p}
}

// GetHall handles GET /v1/hall and returns the whole hall document.
func (h *HallHandler) GetHall(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Planner.Document())
}

// ImportHall handles PUT /v1/hall.  The body is a hall file; a malformed
// one is rejected with 400 and the current hall is kept.
func (h *HallHandler) ImportHall(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxHallBytes+1)) // read one byte past the cap to detect oversize files
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	if len(body) > maxHallBytes { // reject oversize hall files
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "hall file too large"})
	}
	doc, err := h.Planner.ImportDocument(body) // atomic replace; malformed input keeps the old hall
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, doc)
}

type addTableRequest struct {
	ID         model.ID         `json:"id"`
	Name       string           `json:"name"`
	Shape      model.TableShape `json:"shape"`
	ChairCount int              `json:"chairCount"`
	model.Geometry
}

// AddTable handles POST /v1/tables.  Without an id the next integer id is
// used.  Returns 201 with the new table.
func (h *HallHandler) AddTable(c echo.Context) error {
	var body addTableRequest
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	t, err := h.Planner.AddTable(body.ID, body.Name, body.Shape, body.ChairCount, body.Geometry) // empty id picks the next integer
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusCreated, t) // respond with the new table
}

// RemoveTable handles DELETE /v1/tables/:id.  Seated group members go back
// to their groups.
func (h *HallHandler) RemoveTable(c echo.Context) error {
	if err := h.Planner.RemoveTable(tableID(c)); err != nil { // occupants go back to groups or the pool
		return writeError(c, err)                         // map planner error to a status
	}
	return c.NoContent(http.StatusNoContent) // nothing to return
}

// AvailableSeats handles GET /v1/tables/:id/seats and lists the empty
// chairs, lowest first.
func (h *HallHandler) AvailableSeats(c echo.Context) error {
	t, err := h.Planner.Table(tableID(c)) // copy of the table, 404 when unknown
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tableId":    t.ID,
		"chairCount": t.ChairCount,
		"available":  roster.AvailableSeats(t),
	})
}

type assignRequest struct {
	Name    string         `json:"name"`
	GroupID string         `json:"groupId"`
	Booking *model.Booking `json:"booking"`
}

// AssignChair handles PUT /v1/tables/:id/chairs/:chair.  Whoever sat in the
// chair is replaced.
func (h *HallHandler) AssignChair(c echo.Context) error {
	chair, ok := chairParam(c) // parse :chair
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chair"}) // non-numeric chair
	}
	var body assignRequest
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	t, err := h.Planner.AssignPerson(tableID(c), chair, body.Name, body.GroupID, body.Booking) // replaces the current occupant
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, t)
}

// VacateChair handles DELETE /v1/tables/:id/chairs/:chair.
func (h *HallHandler) VacateChair(c echo.Context) error {
	chair, ok := chairParam(c) // parse :chair
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chair"}) // non-numeric chair
	}
	t, err := h.Planner.VacateChair(tableID(c), chair) // vacating an empty chair is a no-op
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, t)
}

// AvailablePeople handles GET /v1/people and lists walk-ins that lost their
// chair.
func (h *HallHandler) AvailablePeople(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"available": h.Planner.AvailablePeople()})
}
