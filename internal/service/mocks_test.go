package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campusfest/eventhub-api/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventRepo) FindAll(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventRepo) DeleteWithBookings(ctx context.Context, id uint) (domain.Event, int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Get(1).(int64), args.Error(2)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	args := m.Called(ctx, booking)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByEventAndUSN(ctx context.Context, eventID uint, usn string) (domain.Booking, error) {
	args := m.Called(ctx, eventID, usn)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByEventID(ctx context.Context, eventID uint) ([]domain.Booking, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) CountByEvent(ctx context.Context) (map[uint]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Upload(ctx context.Context, image domain.ImageUpload) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type mockEventCache struct {
	mock.Mock
}

func (m *mockEventCache) GetEvents(ctx context.Context) ([]domain.EventWithCount, uint64, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EventWithCount), args.Get(1).(uint64), args.Bool(2), args.Error(3)
}

func (m *mockEventCache) SetEvents(ctx context.Context, generation uint64, events []domain.EventWithCount) error {
	args := m.Called(ctx, generation, events)
	return args.Error(0)
}

func (m *mockEventCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, msg domain.BookingCreated) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
