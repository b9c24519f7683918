package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfest/eventhub-api/internal/api/handler/v1/request"
	"github.com/campusfest/eventhub-api/internal/api/handler/v1/response"
	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/service"
)

var errAlreadyRegistered = errors.New("This USN is already registered for this event")

type BookingService interface {
	Register(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	ListParticipants(ctx context.Context, eventID uint) (domain.EventParticipants, error)
}

type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{
		svc: svc,
	}
}

// HandleRegisterEvent godoc
// @Summary      Register a student for an event
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterEventRequest true "request body"
// @Success      201      {object}   response.BookingResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/register-event [post]
func (h *BookingHandler) HandleRegisterEvent(ctx *gin.Context) {
	var req request.RegisterEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.Register(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("Event"))
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.RenderErr(ctx, response.ErrBadRequest(errAlreadyRegistered))
		default:
			err = fmt.Errorf("v1.HandleRegisterEvent -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError("Server error", err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.BookingResponse{
		Message: "Successfully registered for event",
		Booking: booking,
	})
}

// HandleEventParticipants godoc
// @Summary      List the participants of an event
// @Tags         admin
// @Produce      json
// @Param        eventId  path      int  true  "Event ID"
// @Success      200      {object}   domain.EventParticipants
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/event-participants/{eventId} [get]
// @Security     BearerAuth
func (h *BookingHandler) HandleEventParticipants(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventId")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participants, err := h.svc.ListParticipants(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("Event"))
			return
		}

		err = fmt.Errorf("v1.HandleEventParticipants -> h.svc.ListParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error fetching participants", err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}
