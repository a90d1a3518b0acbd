package handler // group roster endpoints

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/model"   // hall model and sentinel errors
	"github.com/iliyamo/hall-seating/internal/seating" // planner operations
)

// GroupHandler manages the group roster and seats whole groups.
type GroupHandler struct {
	Planner *seating.Planner
}

// NewGroupHandler constructs a GroupHandler.  The planner must be non-nil.
func NewGroupHandler(p *seating.Planner) *GroupHandler {
	if p == nil {
		panic("nil planner passed to NewGroupHandler") // programming error
	}
	return &GroupHandler{Planner: p}
}

// List handles GET /v1/groups.
func (h *GroupHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Planner.Groups()) // groups in creation order
}

type createGroupRequest struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Members []string `json:"members"`
}

// Create handles POST /v1/groups and returns 201 with the group.
func (h *GroupHandler) Create(c echo.Context) error {
	var body createGroupRequest
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	g, err := h.Planner.CreateGroup(body.ID, body.Name, body.Color, body.Members) // empty id gets a uuid
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusCreated, g) // respond with the new group
}

// Status handles GET /v1/groups/:id/status.
func (h *GroupHandler) Status(c echo.Context) error {
	report, err := h.Planner.GroupStatus(c.Param("id")) // status flags plus seat locations
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, report)
}

// AddMember handles POST /v1/groups/:id/members with {"name": "..."}.
func (h *GroupHandler) AddMember(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	g, err := h.Planner.AddMember(c.Param("id"), body.Name) // 409 when the group already holds the name
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, g)
}

// RemoveMember handles DELETE /v1/groups/:id/members/:name.
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	g, err := h.Planner.RemoveMember(c.Param("id"), c.Param("name")) // only waiting members can be removed
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, g)
}

type seatGroupRequest struct {
	TableID model.ID `json:"tableId"`
	// Members picks a subset of the waiting members.  Omitted means all of
	// them; an empty list seats nobody and is rejected.
	Members []string `json:"members"`
}

// Seat handles POST /v1/groups/:id/seat.  When the table is short of
// chairs the 409 body carries "needed" and "available" so the client can
// retry with a smaller member subset.
func (h *GroupHandler) Seat(c echo.Context) error {
	var body seatGroupRequest
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	t, g, err := h.Planner.SeatGroup(c.Param("id"), body.TableID, body.Members) // all or nothing
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, echo.Map{"table": t, "group": g})
}

// Release handles POST /v1/groups/:id/release.
func (h *GroupHandler) Release(c echo.Context) error {
	g, err := h.Planner.ReleaseGroup(c.Param("id")) // seated members return to the list
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /v1/groups/:id.  Seated members are discarded along
// with the group; clients should confirm with the user before calling it.
func (h *GroupHandler) Delete(c echo.Context) error {
	if err := h.Planner.DeleteGroup(c.Param("id")); err != nil { // irreversible
		return writeError(c, err)                            // map planner error to a status
	}
	return c.NoContent(http.StatusNoContent) // nothing to return
}
