package domain

import (
	"strings"
	"time"
)

type Booking struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event"`
	USN       string    `json:"usn"`
	Name      string    `json:"name"`
	Year      string    `json:"year"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeUSN is applied before a USN is compared or stored, so that
// "1ms20cs001" and "1MS20CS001" are the same registrant.
func NormalizeUSN(usn string) string {
	return strings.ToUpper(strings.TrimSpace(usn))
}

// EventParticipants is the admin view of who registered for an event.
type EventParticipants struct {
	Event        EventSummary `json:"event"`
	Participants []Booking    `json:"participants"`
}

type EventSummary struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Date              time.Time `json:"date"`
	TotalParticipants int       `json:"totalParticipants"`
}

// BookingCreated is the notification emitted after a successful registration.
type BookingCreated struct {
	BookingID  uint      `json:"bookingId"`
	EventID    uint      `json:"eventId"`
	EventTitle string    `json:"eventTitle"`
	USN        string    `json:"usn"`
	Name       string    `json:"name"`
	Year       string    `json:"year"`
	Branch     string    `json:"branch"`
	CreatedAt  time.Time `json:"createdAt"`
}
