package response

import "github.com/campusfest/eventhub-api/internal/domain"

type Message struct {
	Message string `json:"message"`
}

type Admin struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

type BookingResponse struct {
	Message string         `json:"message"`
	Booking domain.Booking `json:"booking"`
}

type EventResponse struct {
	Message string       `json:"message"`
	Event   domain.Event `json:"event"`
}

type DeleteEventResponse struct {
	Message         string       `json:"message"`
	DeletedEvent    domain.Event `json:"deletedEvent"`
	DeletedBookings int64        `json:"deletedBookings"`
}
