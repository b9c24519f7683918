package dao

import (
	"fmt"

	"gorm.io/gorm"
)

// legacyUSNConstraints are the single column unique constraints an older
// schema put on bookings.usn. They stop a student from registering for more
// than one event.
var legacyUSNConstraints = []string{"uni_bookings_usn", "idx_bookings_usn", "bookings_usn_key"}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Booking{},
	)
}

// Migrate creates or updates every table and then repairs the bookings
// indexes. It returns the legacy index names it dropped.
func Migrate(db *gorm.DB) ([]string, error) {
	if err := InitTables(db); err != nil {
		return nil, fmt.Errorf("InitTables -> %w", err)
	}

	dropped, err := MigrateBookingIndexes(db)
	if err != nil {
		return dropped, fmt.Errorf("MigrateBookingIndexes -> %w", err)
	}

	return dropped, nil
}

// MigrateBookingIndexes drops any legacy unique constraint on bookings.usn
// and makes sure the compound (event_id, usn) index exists. It is safe to run
// more than once. The names of the dropped objects are returned.
func MigrateBookingIndexes(db *gorm.DB) ([]string, error) {
	m := db.Migrator()
	var dropped []string

	for _, name := range legacyUSNConstraints {
		if m.HasConstraint(&Booking{}, name) {
			if err := m.DropConstraint(&Booking{}, name); err != nil {
				return dropped, fmt.Errorf("m.DropConstraint(%s) -> %w", name, err)
			}
			dropped = append(dropped, name)

			continue
		}
		if m.HasIndex(&Booking{}, name) {
			if err := m.DropIndex(&Booking{}, name); err != nil {
				return dropped, fmt.Errorf("m.DropIndex(%s) -> %w", name, err)
			}
			dropped = append(dropped, name)
		}
	}

	if !m.HasIndex(&Booking{}, bookingEventUSNIndex) {
		if err := m.CreateIndex(&Booking{}, bookingEventUSNIndex); err != nil {
			return dropped, fmt.Errorf("m.CreateIndex -> %w", err)
		}
	}

	return dropped, nil
}
