package dao

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingDAO_CompoundUniqueness(t *testing.T) {
	db := setupDB(t)
	events := NewEventDAO(db)
	bookings := NewBookingDAO(db)
	ctx := context.Background()

	first, err := events.Insert(ctx, newTestEvent("Hackathon"))
	require.NoError(t, err)
	second, err := events.Insert(ctx, newTestEvent("Quiz"))
	require.NoError(t, err)

	b := Booking{EventID: first.ID, USN: "1MS20CS001", Name: "Asha", Year: "3", Branch: "CSE"}
	_, err = bookings.Insert(ctx, b)
	require.NoError(t, err)

	_, err = bookings.Insert(ctx, b)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	b.EventID = second.ID
	_, err = bookings.Insert(ctx, b)
	assert.NoError(t, err, "same usn on a different event is allowed")
}

func TestBookingDAO_ConcurrentInsertsOneWins(t *testing.T) {
	db := setupDB(t)
	events := NewEventDAO(db)
	bookings := NewBookingDAO(db)
	ctx := context.Background()

	event, err := events.Insert(ctx, newTestEvent("Robotics"))
	require.NoError(t, err)

	var (
		wg         sync.WaitGroup
		ok, dupes  int32
		unexpected int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.Insert(ctx, Booking{EventID: event.ID, USN: "1MS20CS002", Name: "Ravi", Year: "2", Branch: "ECE"})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case err == ErrDuplicateRegistration:
				atomic.AddInt32(&dupes, 1)
			default:
				atomic.AddInt32(&unexpected, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok)
	assert.EqualValues(t, 9, dupes)
	assert.Zero(t, unexpected)
}

func TestBookingDAO_Counts(t *testing.T) {
	db := setupDB(t)
	events := NewEventDAO(db)
	bookings := NewBookingDAO(db)
	ctx := context.Background()

	busy, err := events.Insert(ctx, newTestEvent("Busy"))
	require.NoError(t, err)
	empty, err := events.Insert(ctx, newTestEvent("Empty"))
	require.NoError(t, err)

	for _, usn := range []string{"A1", "A2", "A3"} {
		_, err = bookings.Insert(ctx, Booking{EventID: busy.ID, USN: usn, Name: "n", Year: "1", Branch: "CSE"})
		require.NoError(t, err)
	}

	count, err := bookings.CountByEventID(ctx, busy.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = bookings.CountByEventID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	grouped, err := bookings.CountGroupedByEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []EventCount{{EventID: busy.ID, Count: 3}}, grouped)

	list, err := bookings.FindByEventID(ctx, busy.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A3", list[0].USN, "newest first")

	found, err := bookings.FindByEventAndUSN(ctx, busy.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A2", found.USN)

	_, err = bookings.FindByEventAndUSN(ctx, empty.ID, "A2")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMigrateBookingIndexes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_bookings_usn ON bookings (usn)").Error)

	dropped, err := MigrateBookingIndexes(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"idx_bookings_usn"}, dropped)
	assert.True(t, db.Migrator().HasIndex(&Booking{}, bookingEventUSNIndex))

	dropped, err = MigrateBookingIndexes(db)
	require.NoError(t, err)
	assert.Empty(t, dropped, "second run is a no-op")

	events := NewEventDAO(db)
	bookings := NewBookingDAO(db)
	a, err := events.Insert(ctx, newTestEvent("A"))
	require.NoError(t, err)
	b, err := events.Insert(ctx, newTestEvent("B"))
	require.NoError(t, err)
	_, err = bookings.Insert(ctx, Booking{EventID: a.ID, USN: "X1", Name: "n", Year: "1", Branch: "ME"})
	require.NoError(t, err)
	_, err = bookings.Insert(ctx, Booking{EventID: b.ID, USN: "X1", Name: "n", Year: "1", Branch: "ME"})
	assert.NoError(t, err)
}

func TestMigrate_DropsLegacyConstraint(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	t.Cleanup(func() {
		db.Exec("ALTER TABLE bookings DROP CONSTRAINT IF EXISTS uni_bookings_usn")
	})

	require.NoError(t, db.Exec("ALTER TABLE bookings ADD CONSTRAINT uni_bookings_usn UNIQUE (usn)").Error)

	dropped, err := Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"uni_bookings_usn"}, dropped)
	assert.False(t, db.Migrator().HasConstraint(&Booking{}, "uni_bookings_usn"))

	events := NewEventDAO(db)
	bookings := NewBookingDAO(db)
	a, err := events.Insert(ctx, newTestEvent("A"))
	require.NoError(t, err)
	b, err := events.Insert(ctx, newTestEvent("B"))
	require.NoError(t, err)
	_, err = bookings.Insert(ctx, Booking{EventID: a.ID, USN: "Y7", Name: "n", Year: "2", Branch: "EC"})
	require.NoError(t, err)
	_, err = bookings.Insert(ctx, Booking{EventID: b.ID, USN: "Y7", Name: "n", Year: "2", Branch: "EC"})
	assert.NoError(t, err, "same student may join a second event")
}
