package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hall-seating/internal/handler" // HTTP handlers
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Hall    *handler.HallHandler
	Booking *handler.BookingHandler
	Groups  *handler.GroupHandler
	Prefs   *handler.PrefsHandler
}

// Middleware holds the optional Redis-backed middlewares.  Nil entries are
// skipped.
type Middleware struct {
	Cache       echo.MiddlewareFunc // response cache for the /v1 API
	BookingRate echo.MiddlewareFunc // token bucket on POST /v1/tables/:id/bookings
}

// RegisterRoutes registers routes that need no state, currently only the
// health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the seating API under /v1.
func RegisterAPI(e *echo.Echo, h Handlers, mw Middleware) {
	g := e.Group("/v1")
	if mw.Cache != nil {
		g.Use(mw.Cache)
	}

	// ---- Hall ----
	g.GET("/hall", h.Hall.GetHall)
	g.PUT("/hall", h.Hall.ImportHall)
	g.GET("/people", h.Hall.AvailablePeople)

	// ---- Tables and chairs ----
	g.POST("/tables", h.Hall.AddTable)
	g.DELETE("/tables/:id", h.Hall.RemoveTable)
	g.GET("/tables/:id/seats", h.Hall.AvailableSeats)
	g.PUT("/tables/:id/chairs/:chair", h.Hall.AssignChair)
	g.DELETE("/tables/:id/chairs/:chair", h.Hall.VacateChair)

	// ---- Bookings ----
	g.GET("/tables/:id/slots", h.Booking.Slots)
	g.GET("/tables/:id/bookings", h.Booking.Bookings)
	g.GET("/tables/:id/availability", h.Booking.Availability)
	if mw.BookingRate != nil {
		g.POST("/tables/:id/bookings", h.Booking.Confirm, mw.BookingRate)
	} else {
		g.POST("/tables/:id/bookings", h.Booking.Confirm)
	}

	// ---- Groups ----
	g.GET("/groups", h.Groups.List)
	g.POST("/groups", h.Groups.Create)
	g.GET("/groups/:id/status", h.Groups.Status)
	g.POST("/groups/:id/members", h.Groups.AddMember)
	g.DELETE("/groups/:id/members/:name", h.Groups.RemoveMember)
	g.POST("/groups/:id/seat", h.Groups.Seat)
	g.POST("/groups/:id/release", h.Groups.Release)
	g.DELETE("/groups/:id", h.Groups.Delete)

	// ---- Preferences ----
	g.GET("/prefs", h.Prefs.Get)
	g.PUT("/prefs", h.Prefs.Put)
}
