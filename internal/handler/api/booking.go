package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rental-booking/internal/handler/dto/request"
	"rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
	logger   *slog.Logger
}

func NewBookingHandler(
	cmds commands.BookingCommands,
	qrys queries.BookingQueries,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		commands: cmds,
		queries:  qrys,
		logger:   logger,
	}
}

// CreateBooking places a hold on the property for the requested dates. The
// booking starts in AWAITING_PAYMENT; payment completion arrives later
// through ConfirmBooking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	tenantID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Internal(c)
		return
	}

	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	start, end, err := req.Dates()
	if err != nil {
		httperr.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	snap, err := h.commands.Create(c.Request.Context(), tenantID, commands.CreateBookingInput{
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.FromSnapshot(snap))
}

// ConfirmBooking is the payment-completion callback; the router restricts it
// to service-role callers.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "Invalid booking id")
		return
	}

	snap, err := h.commands.Confirm(c.Request.Context(), bookingID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.FromSnapshot(snap))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	tenantID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Internal(c)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "Invalid booking id")
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}
	if view.TenantID != tenantID {
		// Hide other tenants' bookings rather than reveal their existence.
		httperr.NotFound(c, "Booking not found")
		return
	}

	snap, err := h.commands.Cancel(c.Request.Context(), bookingID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.FromSnapshot(snap))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	tenantID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Internal(c)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "Invalid booking id")
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}
	if view.TenantID != tenantID {
		httperr.NotFound(c, "Booking not found")
		return
	}

	c.JSON(http.StatusOK, response.FromView(view))
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	tenantID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Internal(c)
		return
	}

	views, err := h.queries.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": response.FromViews(views)})
}

// PropertyBookingCounts answers the catalog service's availability overview:
// for each requested property id, the number of future blocking bookings.
func (h *BookingHandler) PropertyBookingCounts(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		httperr.BadRequest(c, "Query parameter 'ids' is required")
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			httperr.BadRequest(c, "Query parameter 'ids' must be comma-separated UUIDs")
			return
		}
		ids = append(ids, id)
	}

	counts, err := h.queries.CountFutureByProperty(c.Request.Context(), ids)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": response.FromPropertyCounts(counts)})
}

func (h *BookingHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidRequest):
		httperr.BadRequest(c, "Invalid booking request")
	case errors.Is(err, commands.ErrBookingNotFound):
		httperr.NotFound(c, "Booking not found")
	case errors.Is(err, commands.ErrPropertyNotFound):
		httperr.NotFound(c, "Property not found")
	case errors.Is(err, commands.ErrPropertyNotAvailable):
		httperr.Conflict(c, "Property is already booked for the selected dates")
	case errors.Is(err, commands.ErrAlreadyCancelled):
		httperr.Conflict(c, "Booking is already cancelled")
	case errors.Is(err, commands.ErrAlreadyExpired):
		httperr.Conflict(c, "Booking has expired")
	case errors.Is(err, commands.ErrInvalidTransition):
		httperr.Conflict(c, "Booking is not in a state that allows this operation")
	case errors.Is(err, commands.ErrWalletNotConnected):
		httperr.PreconditionFailed(c, "Connect a wallet before booking")
	case errors.Is(err, commands.ErrInvalidPrice):
		httperr.UnprocessableEntity(c, "Property does not have a valid price")
	case errors.Is(err, commands.ErrDependencyUnavailable):
		httperr.ServiceUnavailable(c, "A dependent service is unavailable, retry later")
	default:
		h.logger.Error("booking command failed", "error", err.Error())
		httperr.Internal(c)
	}
}

func (h *BookingHandler) respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, queries.ErrBookingNotFound) {
		httperr.NotFound(c, "Booking not found")
		return
	}
	h.logger.Error("booking query failed", "error", err.Error())
	httperr.Internal(c)
}
