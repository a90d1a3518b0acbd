package handler // public booking endpoints

import (
	"context"  // context for publisher and store calls
	"net/http" // HTTP status codes
	"strconv"  // parse numeric path and query params

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/queue"       // booking.confirmed event
	"github.com/iliyamo/hall-seating/internal/reservation" // slot and booking queries
	"github.com/iliyamo/hall-seating/internal/seating"     // planner operations
	"github.com/iliyamo/hall-seating/internal/timeslot"    // next available slot
)

// BookingPublisher announces confirmed bookings; queue.Publisher is the
// RabbitMQ implementation.
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingHandler serves the public booking flow: free slots, the day's
// bookings of a table, and confirming a booking.
type BookingHandler struct {
	Planner *seating.Planner
	Events  BookingPublisher // nil disables booking events
}

// NewBookingHandler constructs a BookingHandler.  events may be nil.
func NewBookingHandler(p *seating.Planner, events BookingPublisher) *BookingHandler {
	if p == nil {
		panic("nil planner passed to NewBookingHandler") // programming error
	}
	return &BookingHandler{Planner: p, Events: events}
}

// Slots handles GET /v1/tables/:id/slots?date=YYYY-MM-DD&from=HH.  It
// returns the occupied 15 minute slots of that date and the first free slot
// at or after hour "from" (default 12), wrapping past midnight.
func (h *BookingHandler) Slots(c echo.Context) error {
	date, ok := dateParam(c) // require ?date=YYYY-MM-DD
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"}) // missing or malformed date
	}
	from := 12                              // default search start is noon
	if s := c.QueryParam("from"); s != "" { // optional start hour
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 23 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be an hour between 0 and 23"})
		}
		from = n
	}
	t, err := h.Planner.Table(tableID(c)) // copy of the table, 404 when unknown
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	occupied := reservation.OccupiedSlots(t, date) // slots taken by any booking that day
	return c.JSON(http.StatusOK, echo.Map{
		"tableId":       t.ID,
		"date":          date,
		"occupied":      occupied.Sorted(),
		"nextAvailable": timeslot.NextAvailable(occupied, from),
	})
}

// Bookings handles GET /v1/tables/:id/bookings?date=YYYY-MM-DD.  "busy"
// merges touching bookings for display only.
func (h *BookingHandler) Bookings(c echo.Context) error {
	date, ok := dateParam(c) // require ?date=YYYY-MM-DD
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"}) // missing or malformed date
	}
	t, err := h.Planner.Table(tableID(c)) // copy of the table, 404 when unknown
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	entries := reservation.BookingsForDate(t, date) // bookings ordered by start, then chair
	busy := make([]string, 0, len(entries))
	for _, r := range reservation.MergeAdjacentRanges(entries) { // display ranges only
		busy = append(busy, r.String())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tableId":  t.ID,
		"date":     date,
		"bookings": entries,
		"busy":     busy,
	})
}

// Availability handles GET /v1/tables/:id/availability?date=&start=&end=
// and reports whether the range is free.
func (h *BookingHandler) Availability(c echo.Context) error {
	date, ok := dateParam(c) // require ?date=YYYY-MM-DD
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"}) // missing or malformed date
	}
	t, err := h.Planner.Table(tableID(c)) // copy of the table, 404 when unknown
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	start, end := c.QueryParam("start"), c.QueryParam("end")  // HH:MM on the 15 minute grid
	free, err := reservation.IsRangeFree(t, date, start, end) // the booking authority
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, echo.Map{"tableId": t.ID, "date": date, "start": start, "end": end, "free": free})
}

// Confirm handles POST /v1/tables/:id/bookings.  The guest takes the lowest
// free chair; an overlapping booking is 409.  On success a
// booking.confirmed event is published when events are enabled; a publish
// failure is logged and does not fail the request.
func (h *BookingHandler) Confirm(c echo.Context) error {
	var body seating.BookingRequest                                                         // public booking form
	if err := c.Bind(&body); err != nil {                                                   // decode JSON body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	conf, err := h.Planner.ConfirmBooking(tableID(c), body) // lowest free chair, 409 on overlap
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	if h.Events != nil {                                                                                  // events are optional
		ev := queue.NewBookingConfirmedEvent(conf.TableID, conf.TableName, conf.Chair, conf.Occupant) // build the event payload
		if err := h.Events.PublishBookingConfirmed(c.Request().Context(), ev); err != nil {
			c.Logger().Warnf("booking event for %s chair %d not published: %v", conf.TableID, conf.Chair, err)
		}
	}
	return c.JSON(http.StatusCreated, conf) // respond with where the guest sits
}
