package handler // UI preference endpoints

import (
	"context"  // context for publisher and store calls
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/storage" // UI preferences
)

// PrefsStore loads and saves UI preferences; storage.Bridge implements it.
type PrefsStore interface {
	LoadPrefs(ctx context.Context) (storage.Prefs, error)
	SavePrefs(ctx context.Context, p storage.Prefs) error
}

// PrefsHandler serves the saved UI language and zoom.
type PrefsHandler struct {
	Store PrefsStore
}

// NewPrefsHandler constructs a PrefsHandler.
func NewPrefsHandler(s PrefsStore) *PrefsHandler {
	if s == nil {
		panic("nil store passed to NewPrefsHandler") // programming error
	}
	return &PrefsHandler{Store: s}
}

// Get handles GET /v1/prefs.  Unsaved keys come back with their defaults.
func (h *PrefsHandler) Get(c echo.Context) error {
	p, err := h.Store.LoadPrefs(c.Request().Context()) // unsaved keys come back as defaults
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	return c.JSON(http.StatusOK, p)
}

// Put handles PUT /v1/prefs.  Fields left out of the body keep their
// current values.
func (h *PrefsHandler) Put(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Store.LoadPrefs(ctx) // start from the stored values
	if err != nil {
		return writeError(c, err) // map planner error to a status
	}
	if err := c.Bind(&p); err != nil {                                                      // overlay the body on the current values
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // malformed JSON
	}
	if err := h.Store.SavePrefs(ctx, p); err != nil { // validates language and zoom
		return writeError(c, err)                 // map planner error to a status
	}
	return c.JSON(http.StatusOK, p)
}
