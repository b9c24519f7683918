package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Department  string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Date        time.Time `gorm:"not null"`
	Time        string    `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Category    string    `gorm:"not null"`
	Image       string
	FirstPrice  float64                  `gorm:"not null"`
	SecondPrice float64                  `gorm:"not null"`
	ThirdPrice  float64                  `gorm:"not null"`
	Eligibility datatypes.JSONSlice[int] `gorm:"not null"`
	CreatedBy   *uint                    `gorm:"index"`
	CreatedAt   time.Time                `gorm:"index"`
	UpdatedAt   time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindAll returns every event, newest first.
func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{ID: event.ID}).Select("*").Omit("id", "created_at", "created_by").Updates(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

// DeleteWithBookings removes the event and all of its bookings in a single
// transaction. It returns the deleted event and how many bookings went with it.
func (d *EventDAO) DeleteWithBookings(ctx context.Context, id uint) (Event, int64, error) {
	var (
		event   Event
		removed int64
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		result := tx.Where("event_id = ?", id).Delete(&Booking{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		return tx.Delete(&Event{}, id).Error
	})
	if err != nil {
		return Event{}, 0, err
	}

	return event, removed, nil
}
