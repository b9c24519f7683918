package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusfest/eventhub-api/internal/api/handler/v1/response"
	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/service"
)

func bookingRouter(svc BookingService) *gin.Engine {
	r := newTestRouter()
	h := NewBookingHandler(svc)
	r.POST("/api/admin/register-event", h.HandleRegisterEvent)
	r.GET("/api/admin/event-participants/:eventId", asAdmin, h.HandleEventParticipants)
	return r
}

func TestHandleRegisterEvent(t *testing.T) {
	body := gin.H{"eventId": "3", "usn": "1ms20cs001", "name": "Asha", "year": "3", "branch": "CSE", "semester": "5"}
	want := domain.Booking{EventID: 3, USN: "1ms20cs001", Name: "Asha", Year: "3", Branch: "CSE", Semester: "5"}

	tests := []struct {
		name        string
		body        gin.H
		setup       func(m *mockBookingService)
		wantStatus  int
		wantMessage string
	}{
		{
			name: "registered",
			body: body,
			setup: func(m *mockBookingService) {
				created := want
				created.ID, created.USN = 10, "1MS20CS001"
				m.On("Register", mock.Anything, want).Return(created, nil)
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Successfully registered for event",
		},
		{
			name: "duplicate",
			body: body,
			setup: func(m *mockBookingService) {
				m.On("Register", mock.Anything, want).Return(domain.Booking{}, fmt.Errorf("s.repo.Create -> %w", service.ErrDuplicateRegistration))
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "This USN is already registered for this event",
		},
		{
			name: "unknown event",
			body: body,
			setup: func(m *mockBookingService) {
				m.On("Register", mock.Anything, want).Return(domain.Booking{}, service.ErrEventNotFound)
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "Event not found",
		},
		{
			name:        "missing branch",
			body:        gin.H{"eventId": 3, "usn": "X", "name": "A", "year": 1},
			setup:       func(*mockBookingService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required",
		},
		{
			name: "store failure",
			body: body,
			setup: func(m *mockBookingService) {
				m.On("Register", mock.Anything, want).Return(domain.Booking{}, errors.New("db down"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{}
			tt.setup(svc)

			w := doJSON(t, bookingRouter(svc), http.MethodPost, "/api/admin/register-event", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decode[response.Err](t, w).Message)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleRegisterEvent_ReturnsBooking(t *testing.T) {
	svc := &mockBookingService{}
	svc.On("Register", mock.Anything, mock.Anything).Return(domain.Booking{ID: 10, EventID: 3, USN: "1MS20CS001"}, nil)

	w := doJSON(t, bookingRouter(svc), http.MethodPost, "/api/admin/register-event",
		gin.H{"eventId": 3, "usn": "1ms20cs001", "name": "Asha", "year": 3, "branch": "CSE"})

	got := decode[response.BookingResponse](t, w)
	assert.Equal(t, uint(10), got.Booking.ID)
	assert.Equal(t, "1MS20CS001", got.Booking.USN)
}

func TestHandleEventParticipants(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	svc := &mockBookingService{}
	svc.On("ListParticipants", mock.Anything, uint(3)).Return(domain.EventParticipants{
		Event:        domain.EventSummary{ID: 3, Title: "Hackathon", Date: date, TotalParticipants: 1},
		Participants: []domain.Booking{{ID: 10, EventID: 3, USN: "1MS20CS001"}},
	}, nil)
	svc.On("ListParticipants", mock.Anything, uint(4)).Return(domain.EventParticipants{}, service.ErrEventNotFound)
	r := bookingRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/admin/event-participants/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.EventParticipants](t, w)
	assert.Equal(t, 1, got.Event.TotalParticipants)
	assert.Len(t, got.Participants, 1)

	w = doJSON(t, r, http.MethodGet, "/api/admin/event-participants/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/event-participants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
