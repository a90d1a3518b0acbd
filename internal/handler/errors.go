package handler // error mapping and request parameter helpers

import (
	"errors"   // errors.Is / errors.As on planner errors
	"net/http" // HTTP status codes
	"strconv"  // parse numeric path and query params
	"time"     // date validation

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/model" // hall model and sentinel errors
)

// writeError turns a planner error into a JSON response.  Unknown errors
// are logged and reported as 500 without their text.
func writeError(c echo.Context, err error) error {
	var ise *model.InsufficientSeatsError // typed error carrying needed/available
	if errors.As(err, &ise) {             // short of chairs
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     err.Error(),
			"needed":    ise.Needed,
			"available": ise.Available,
		})
	}
	switch {
	case errors.Is(err, model.ErrInvalidFormat),
		errors.Is(err, model.ErrInvalidChair),
		errors.Is(err, model.ErrNotMember):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrTableNotFound),
		errors.Is(err, model.ErrGroupNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSlotConflict),
		errors.Is(err, model.ErrDuplicateTable),
		errors.Is(err, model.ErrDuplicateGroup),
		errors.Is(err, model.ErrMemberConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrEmptyGroup):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)                  // log what the client does not see
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"}) // hide internal details
}

// tableID reads the :id path parameter.
func tableID(c echo.Context) model.ID { return model.ID(c.Param("id")) }

// chairParam reads the :chair path parameter.
func chairParam(c echo.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("chair")) // chair index
	return n, err == nil
}

// dateParam reads a required YYYY-MM-DD query parameter.
func dateParam(c echo.Context) (string, bool) {
	d := c.QueryParam("date")                                  // raw date
	if _, err := time.Parse(model.DateLayout, d); err != nil { // must be a real calendar date
		return "", false
	}
	return d, true
}
