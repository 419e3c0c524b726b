package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/studynest/cabin-booking/internal/model"
    "github.com/studynest/cabin-booking/internal/repository"
    "github.com/studynest/cabin-booking/internal/service"
)

// ReservationHandler serves the authenticated hold and booking flow.
// All methods assume JWT authentication has already run; they return 401
// when the user ID cannot be extracted from the context.  Atomicity of
// the hold and confirm operations is guaranteed below the service layer,
// so handlers only translate errors.
type ReservationHandler struct {
    Svc      *service.BookingService
    Bookings *repository.BookingRepo
    Store    *repository.Store
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(svc *service.BookingService, bookings *repository.BookingRepo, store *repository.Store) *ReservationHandler {
    if svc == nil || bookings == nil || store == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Svc: svc, Bookings: bookings, Store: store}
}

// CreateHold handles POST /v1/cabins/:id/hold.  The body carries the
// target date and the batch selection; on success the response carries
// the group id the client uses for countdown, release and confirmation.
func (h *ReservationHandler) CreateHold(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    cabinID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || cabinID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
    }
    var body struct {
        Date    string   `json:"date"`
        Batches []string `json:"batches"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    group, err := h.Svc.CreateHold(c.Request().Context(), cabinID, userID, body.Date, body.Batches)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidRequest):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or batch selection"})
        case errors.Is(err, repository.ErrCabinNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
        case errors.Is(err, repository.ErrSlotUnavailable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "one or more batches are unavailable"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hold"})
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "group_id":   group.GroupID,
        "cabin_id":   group.CabinID,
        "batches":    group.Batches,
        "held_until": group.HeldUntil.Format(time.RFC3339),
    })
}

// ReleaseHold handles DELETE /v1/holds/:group_id.  Releasing a group
// that already lapsed or never existed still returns 200; the client is
// cleaning up either way.
func (h *ReservationHandler) ReleaseHold(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    groupID := c.Param("group_id")
    if groupID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
    }
    if err := h.Svc.ReleaseHold(c.Request().Context(), groupID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release hold"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "hold released"})
}

// HoldStatus handles GET /v1/holds/:group_id.  It reports the live
// countdown recomputed from the wall clock, so a page refresh never
// resets or desyncs the timer.
func (h *ReservationHandler) HoldStatus(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    groupID := c.Param("group_id")
    if groupID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
    }
    remaining, err := h.Svc.RemainingSeconds(c.Request().Context(), groupID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "group_id":          groupID,
        "remaining_seconds": remaining,
        "active":            remaining > 0,
    })
}

// MonthlyConflicts handles GET /v1/cabins/:id/monthly-conflicts.  Query
// params: start_date=YYYY-MM-DD and batches=morning,evening (repeatable).
// Clients call this before confirming a monthly booking; a response with
// conflicts lists the blocked dates so the user can pick another cabin.
func (h *ReservationHandler) MonthlyConflicts(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    cabinID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || cabinID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
    }
    startDate := c.QueryParam("start_date")
    batches := c.QueryParams()["batches"]

    report, err := h.Svc.CheckMonthlyConflicts(c.Request().Context(), cabinID, startDate, batches)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidRequest):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date or batch selection"})
        case errors.Is(err, repository.ErrCabinNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    return c.JSON(http.StatusOK, report)
}

// Confirm handles POST /v1/holds/:group_id/confirm.  The body selects
// daily or monthly mode and the locker add-on.  410 Gone signals the
// hold lapsed before payment; 409 signals a conflict raced in between
// hold and confirm.
func (h *ReservationHandler) Confirm(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    groupID := c.Param("group_id")
    if groupID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
    }
    var body struct {
        BookingType string `json:"booking_type"` // daily | monthly
        Locker      bool   `json:"locker"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    conf, err := h.Svc.ConfirmHold(c.Request().Context(), groupID, userID, model.BookingMode(body.BookingType), body.Locker)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidRequest):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_type must be daily or monthly"})
        case errors.Is(err, repository.ErrHoldNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
        case errors.Is(err, repository.ErrHoldExpired):
            return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
        case errors.Is(err, repository.ErrConflictOnConfirm):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slot was taken before confirmation"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
        }
    }
    return c.JSON(http.StatusCreated, conf)
}

// bookingItem is the booking representation in list responses.
type bookingItem struct {
    ID          uint64 `json:"id"`
    GroupID     string `json:"group_id"`
    CabinID     uint64 `json:"cabin_id"`
    BatchType   string `json:"batch_type"`
    BookingType string `json:"booking_type"`
    SlotType    string `json:"slot_type"`
    Status      string `json:"status"`
    Amount      uint32 `json:"amount"`
    HasLocker   bool   `json:"has_locker"`
    StartTime   string `json:"start_time"`
    EndTime     string `json:"end_time"`
    BookingDate string `json:"booking_date"`
}

// MyBookings handles GET /v1/bookings and lists the caller's bookings,
// newest first.  Bookings whose interval has fully passed render as
// "completed"; the stored status never changes for those.
func (h *ReservationHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    now := time.Now().UTC()
    out := make([]bookingItem, 0, len(bookings))
    for _, b := range bookings {
        status := string(b.Status)
        if b.Completed(now) {
            status = "completed"
        }
        out = append(out, bookingItem{
            ID:          b.ID,
            GroupID:     b.GroupID,
            CabinID:     b.CabinID,
            BatchType:   string(b.BatchType),
            BookingType: string(b.BookingType),
            SlotType:    string(b.SlotType),
            Status:      status,
            Amount:      b.Amount,
            HasLocker:   b.HasLocker,
            StartTime:   b.StartTimestamp.Format(time.RFC3339),
            EndTime:     b.EndTimestamp.Format(time.RFC3339),
            BookingDate: b.BookingDate.Format("2006-01-02"),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CancelBooking handles DELETE /v1/bookings/:group_id.  A booking group
// cancels as a unit and only by its owner; cancelled rows stop blocking
// the cabin immediately.
func (h *ReservationHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    groupID := c.Param("group_id")
    if groupID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
    }
    cancelled, err := h.Store.CancelBookingGroup(c.Request().Context(), groupID, userID, time.Now().UTC())
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "cancelled": cancelled})
}
