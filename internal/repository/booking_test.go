package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/repository/dao"
)

type stubBookingDAO struct {
	inserted dao.Booking
	insertFn func(b dao.Booking) (dao.Booking, error)
	grouped  []dao.EventCount
	err      error
}

func (s *stubBookingDAO) Insert(_ context.Context, b dao.Booking) (dao.Booking, error) {
	s.inserted = b
	return s.insertFn(b)
}

func (s *stubBookingDAO) FindByEventAndUSN(_ context.Context, _ uint, _ string) (dao.Booking, error) {
	return dao.Booking{}, s.err
}

func (s *stubBookingDAO) FindByEventID(_ context.Context, _ uint) ([]dao.Booking, error) {
	return nil, s.err
}

func (s *stubBookingDAO) CountByEventID(_ context.Context, _ uint) (int64, error) {
	return 0, s.err
}

func (s *stubBookingDAO) CountGroupedByEvent(_ context.Context) ([]dao.EventCount, error) {
	return s.grouped, s.err
}

func TestBookingRepository_Create(t *testing.T) {
	now := time.Now()
	stub := &stubBookingDAO{insertFn: func(b dao.Booking) (dao.Booking, error) {
		b.ID = 11
		b.CreatedAt = now
		return b, nil
	}}
	repo := NewBookingRepository(stub)

	created, err := repo.Create(context.Background(), domain.Booking{
		EventID: 3, USN: "1MS20CS001", Name: "Asha", Year: "3", Branch: "CSE", Semester: "5",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Booking{
		ID: 11, EventID: 3, USN: "1MS20CS001", Name: "Asha", Year: "3", Branch: "CSE", Semester: "5", CreatedAt: now,
	}, created)
	assert.Equal(t, "5", stub.inserted.Semester)
}

func TestBookingRepository_CreateDuplicate(t *testing.T) {
	stub := &stubBookingDAO{insertFn: func(dao.Booking) (dao.Booking, error) {
		return dao.Booking{}, dao.ErrDuplicateRegistration
	}}

	_, err := NewBookingRepository(stub).Create(context.Background(), domain.Booking{EventID: 1, USN: "X"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestBookingRepository_CountByEvent(t *testing.T) {
	stub := &stubBookingDAO{grouped: []dao.EventCount{{EventID: 1, Count: 4}, {EventID: 9, Count: 1}}}

	counts, err := NewBookingRepository(stub).CountByEvent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 4, 9: 1}, counts)
	assert.Zero(t, counts[2], "events without bookings are absent")
}

func TestBookingRepository_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewBookingRepository(&stubBookingDAO{err: boom})

	_, err := repo.CountByEvent(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "r.dao.CountGroupedByEvent")

	_, err = repo.FindByEventID(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}
