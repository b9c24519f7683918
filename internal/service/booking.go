package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/repository"
)

var ErrDuplicateRegistration = repository.ErrDuplicateRegistration

type BookingRepository interface {
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	FindByEventAndUSN(ctx context.Context, eventID uint, usn string) (domain.Booking, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Booking, error)
}

type EventFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RegistrationPublisher is told about every booking that was stored.
type RegistrationPublisher interface {
	PublishBookingCreated(ctx context.Context, msg domain.BookingCreated) error
}

type BookingService struct {
	repo      BookingRepository
	events    EventFinder
	cache     CacheInvalidator
	publisher RegistrationPublisher
}

func NewBookingService(repo BookingRepository, events EventFinder, cache CacheInvalidator, publisher RegistrationPublisher) *BookingService {
	return &BookingService{
		repo:      repo,
		events:    events,
		cache:     cache,
		publisher: publisher,
	}
}

// Register books a student onto an event. The pre-check gives a clean error
// in the common case; the unique index on (event_id, usn) decides races.
func (s *BookingService) Register(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	booking.USN = domain.NormalizeUSN(booking.USN)

	event, err := s.events.FindByID(ctx, booking.EventID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	_, err = s.repo.FindByEventAndUSN(ctx, booking.EventID, booking.USN)
	if err == nil {
		return domain.Booking{}, ErrDuplicateRegistration
	}
	if !errors.Is(err, repository.ErrBookingNotFound) {
		return domain.Booking{}, fmt.Errorf("s.repo.FindByEventAndUSN -> %w", err)
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err = s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("event cache invalidation failed", zap.Error(err))
	}

	msg := domain.BookingCreated{
		BookingID:  created.ID,
		EventID:    event.ID,
		EventTitle: event.Title,
		USN:        created.USN,
		Name:       created.Name,
		Year:       created.Year,
		Branch:     created.Branch,
		CreatedAt:  created.CreatedAt,
	}
	if err = s.publisher.PublishBookingCreated(ctx, msg); err != nil {
		zap.L().Warn("publishing booking failed",
			zap.Uint("booking_id", created.ID),
			zap.Error(err),
		)
	}

	return created, nil
}

func (s *BookingService) ListParticipants(ctx context.Context, eventID uint) (domain.EventParticipants, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.EventParticipants{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	bookings, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return domain.EventParticipants{}, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return domain.EventParticipants{
		Event: domain.EventSummary{
			ID:                event.ID,
			Title:             event.Title,
			Date:              event.Date,
			TotalParticipants: len(bookings),
		},
		Participants: bookings,
	}, nil
}
