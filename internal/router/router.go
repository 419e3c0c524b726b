// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/studynest/cabin-booking/internal/handler"
    "github.com/studynest/cabin-booking/internal/middleware"
)

// RegisterRoutes registers operational endpoints: the health check used
// by load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers authentication routes under /v1/auth.  None of
// them require an existing session; logout and refresh authenticate by
// the refresh token in the body.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// availability route runs the optional JWT middleware so that logged-in
// callers get their own holds and bookings flagged while guests still
// see the same slot grid.  The response cache applies only to the cabin
// list: availability must always reflect live holds.
func RegisterPublic(e *echo.Echo, h *handler.CabinHandler, jwtSecret string, cache echo.MiddlewareFunc) {
    e.GET("/v1/cabins", h.ListCabins, cache)
    e.GET("/v1/cabins/:id/availability", h.GetAvailability, middleware.OptionalJWTAuth(jwtSecret))
}

// RegisterReservation registers the authenticated hold and booking flow
// under /v1.  All routes require a valid JWT; both roles may reserve.
func RegisterReservation(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("STUDENT", "ADMIN"),
    )
    g.POST("/cabins/:id/hold", h.CreateHold)
    g.GET("/cabins/:id/monthly-conflicts", h.MonthlyConflicts)
    g.GET("/holds/:group_id", h.HoldStatus)
    g.DELETE("/holds/:group_id", h.ReleaseHold)
    g.POST("/holds/:group_id/confirm", h.Confirm)
    g.GET("/bookings", h.MyBookings)
    g.DELETE("/bookings/:group_id", h.CancelBooking)
}
