// Package handler exposes the HTTP surface: auth, public cabin browsing
// and the authenticated reservation flow.  Handlers translate between
// JSON and the service layer and map sentinel errors to status codes;
// all scheduling decisions live below them.
package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/studynest/cabin-booking/internal/repository"
    "github.com/studynest/cabin-booking/internal/service"
)

// CabinHandler serves the public browsing endpoints.  Availability is
// readable without authentication; when a valid token is present the
// response additionally flags the caller's own holds and bookings.
type CabinHandler struct {
    Cabins *repository.CabinRepo
    Svc    *service.BookingService
}

func NewCabinHandler(cabins *repository.CabinRepo, svc *service.BookingService) *CabinHandler {
    if cabins == nil || svc == nil {
        panic("nil dependency passed to NewCabinHandler")
    }
    return &CabinHandler{Cabins: cabins, Svc: svc}
}

// cabinItem is the sanitized cabin representation for list responses.
type cabinItem struct {
    ID          uint64 `json:"id"`
    CabinNumber string `json:"cabin_number"`
    Status      string `json:"status"`
}

// ListCabins handles GET /v1/cabins.  The status field is the cached
// coarse state; per-batch truth comes from the availability endpoint.
func (h *CabinHandler) ListCabins(c echo.Context) error {
    cabins, err := h.Cabins.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]cabinItem, 0, len(cabins))
    for _, cb := range cabins {
        out = append(out, cabinItem{ID: cb.ID, CabinNumber: cb.CabinNumber, Status: string(cb.Status)})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability handles GET /v1/cabins/:id/availability?date=YYYY-MM-DD.
// The date defaults to today (UTC).
func (h *CabinHandler) GetAvailability(c echo.Context) error {
    cabinID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || cabinID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        date = time.Now().UTC().Format("2006-01-02")
    }
    callerID, _ := getUserID(c) // zero for anonymous callers

    day, err := h.Svc.GetAvailability(c.Request().Context(), cabinID, date, callerID)
    if err != nil {
        switch err {
        case service.ErrInvalidRequest:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        case repository.ErrCabinNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, day)
}
