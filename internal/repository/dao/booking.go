package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const bookingEventUSNIndex = "idx_bookings_event_usn"

var (
	ErrDuplicateRegistration = errors.New("this USN is already registered for this event")
	ErrBookingNotFound       = errors.New("booking not found")
)

// Booking is unique per (event_id, usn). A student may register for any
// number of different events.
type Booking struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_bookings_event_usn,priority:1"`
	Event     *Event    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	USN       string    `gorm:"not null;uniqueIndex:idx_bookings_event_usn,priority:2"`
	Name      string    `gorm:"not null"`
	Year      string    `gorm:"not null"`
	Branch    string    `gorm:"not null"`
	Semester  string
	CreatedAt time.Time `gorm:"index"`
}

// EventCount is one row of the grouped booking count.
type EventCount struct {
	EventID uint
	Count   int64
}

type BookingDAO struct {
	db *gorm.DB
}

func NewBookingDAO(db *gorm.DB) *BookingDAO {
	return &BookingDAO{
		db: db,
	}
}

func (d *BookingDAO) Insert(ctx context.Context, booking Booking) (Booking, error) {
	result := d.db.WithContext(ctx).Omit("Event").Create(&booking)
	if result.Error != nil {
		if isUniqueViolation(result.Error, bookingEventUSNIndex) {
			return Booking{}, ErrDuplicateRegistration
		}

		return Booking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindByEventAndUSN(ctx context.Context, eventID uint, usn string) (Booking, error) {
	var booking Booking

	result := d.db.WithContext(ctx).Where("event_id = ? AND usn = ?", eventID, usn).First(&booking)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Booking{}, ErrBookingNotFound
		}

		return Booking{}, result.Error
	}

	return booking, nil
}

// FindByEventID returns the bookings of an event, newest first.
func (d *BookingDAO) FindByEventID(ctx context.Context, eventID uint) ([]Booking, error) {
	var bookings []Booking

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Booking{}).Where("event_id = ?", eventID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// CountGroupedByEvent counts bookings per event in one aggregate query.
// Events without bookings are absent from the result.
func (d *BookingDAO) CountGroupedByEvent(ctx context.Context) ([]EventCount, error) {
	var counts []EventCount

	result := d.db.WithContext(ctx).
		Model(&Booking{}).
		Select("event_id, COUNT(*) AS count").
		Group("event_id").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}
