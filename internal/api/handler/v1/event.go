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

var errOnlyImages = errors.New("Only image files are allowed")

type EventService interface {
	ListEvents(ctx context.Context) ([]domain.EventWithCount, error)
	GetEvent(ctx context.Context, id uint) (domain.EventWithCount, error)
	CreateEvent(ctx context.Context, event domain.Event, image *domain.ImageUpload) (domain.Event, error)
	UpdateEvent(ctx context.Context, id uint, event domain.Event, image *domain.ImageUpload) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) (domain.Event, int64, error)
}

type EventHandler struct {
	svc            EventService
	maxUploadBytes int64
}

func NewEventHandler(svc EventService, maxUploadBytes int64) *EventHandler {
	return &EventHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  All events, newest first, each with its participant count
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.EventWithCount
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error fetching events", err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  domain.EventWithCount
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("Event"))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error fetching event", err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true   "Title"
// @Param        department   formData  string  true   "Department"
// @Param        description  formData  string  true   "Description"
// @Param        date         formData  string  true   "Date (YYYY-MM-DD)"
// @Param        time         formData  string  true   "Time"
// @Param        location     formData  string  true   "Location"
// @Param        category     formData  string  true   "Category"
// @Param        firstPrice   formData  number  true   "First prize"
// @Param        secondPrice  formData  number  true   "Second prize"
// @Param        thirdPrice   formData  number  true   "Third prize"
// @Param        eligibility  formData  []int   true   "Eligible years"
// @Param        image        formData  file    false  "Poster"
// @Success      201  {object}  response.EventResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/create [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, respErr := bindEventForm(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	event.CreatedBy = &user.ID

	image, closeImage, respErr := h.openImage(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	defer closeImage()

	created, err := h.svc.CreateEvent(ctx.Request.Context(), event, image)
	if err != nil {
		if respErr = eventWriteErr(err); respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error creating event", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.EventResponse{
		Message: "Event created successfully",
		Event:   created,
	})
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Replaces every field; the stored image is kept unless a new one is sent
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "Event ID"
// @Param        title        formData  string  true   "Title"
// @Param        department   formData  string  true   "Department"
// @Param        description  formData  string  true   "Description"
// @Param        date         formData  string  true   "Date (YYYY-MM-DD)"
// @Param        time         formData  string  true   "Time"
// @Param        location     formData  string  true   "Location"
// @Param        category     formData  string  true   "Category"
// @Param        firstPrice   formData  number  true   "First prize"
// @Param        secondPrice  formData  number  true   "Second prize"
// @Param        thirdPrice   formData  number  true   "Third prize"
// @Param        eligibility  formData  []int   true   "Eligible years"
// @Param        image        formData  file    false  "Poster"
// @Success      200  {object}  response.EventResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, respErr := bindEventForm(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	image, closeImage, respErr := h.openImage(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	defer closeImage()

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), id, event, image)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("Event"))
			return
		}
		if respErr = eventWriteErr(err); respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error updating event", err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{
		Message: "Event updated successfully",
		Event:   updated,
	})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and its bookings
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.DeleteEventResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{id} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	deleted, removed, err := h.svc.DeleteEvent(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("Event"))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError("Error deleting event", err))
		return
	}

	ctx.JSON(http.StatusOK, response.DeleteEventResponse{
		Message:         "Event and associated bookings deleted successfully",
		DeletedEvent:    deleted,
		DeletedBookings: removed,
	})
}

func bindEventForm(ctx *gin.Context) (domain.Event, *response.Err) {
	var form request.EventForm
	if err := ctx.ShouldBind(&form); err != nil {
		return domain.Event{}, response.ErrBadRequest(err)
	}

	if err := form.Validate(); err != nil {
		return domain.Event{}, response.ErrBadRequest(err)
	}

	event, err := form.ToDomain()
	if err != nil {
		return domain.Event{}, response.ErrBadRequest(err)
	}

	return event, nil
}

// openImage returns a nil upload when the form carries no image part. The
// returned close func is always safe to call.
func (h *EventHandler) openImage(ctx *gin.Context) (*domain.ImageUpload, func(), *response.Err) {
	noop := func() {}

	header, err := ctx.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, response.ErrBadRequest(err)
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, noop, response.ErrBadRequest(fmt.Errorf("Image must be smaller than %d bytes", h.maxUploadBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, response.ErrBadRequest(err)
	}

	return &domain.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, func() { _ = file.Close() }, nil
}

func eventWriteErr(err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrInvalidImage):
		return response.ErrBadRequest(errOnlyImages)
	case errors.Is(err, service.ErrUpload):
		return response.ErrInternalServerError("Error uploading image", err)
	default:
		return nil
	}
}
