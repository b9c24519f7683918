package domain

import (
	"io"
	"time"
)

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	FirstPrice  float64   `json:"firstPrice"`
	SecondPrice float64   `json:"secondPrice"`
	ThirdPrice  float64   `json:"thirdPrice"`
	Eligibility []int     `json:"eligibility"`
	CreatedBy   *uint     `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventWithCount is an event annotated with the number of bookings it has.
type EventWithCount struct {
	Event
	ParticipantCount int64 `json:"participantCount"`
}

// ImageUpload is a poster file received with an event form.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
