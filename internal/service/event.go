package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/media"
	"github.com/campusfest/eventhub-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
	ErrInvalidImage  = media.ErrNotAnImage
	ErrUpload        = errors.New("error uploading image")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteWithBookings(ctx context.Context, id uint) (domain.Event, int64, error)
}

type BookingCounter interface {
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	CountByEvent(ctx context.Context) (map[uint]int64, error)
}

// ImageStore uploads a poster and returns the URL it is served from.
type ImageStore interface {
	Upload(ctx context.Context, image domain.ImageUpload) (string, error)
	Remove(ctx context.Context, url string) error
}

// EventCache holds the event listing. GetEvents reports the cache generation
// it read; SetEvents stores under that generation so a listing computed
// before an Invalidate is never served.
type EventCache interface {
	GetEvents(ctx context.Context) ([]domain.EventWithCount, uint64, bool, error)
	SetEvents(ctx context.Context, generation uint64, events []domain.EventWithCount) error
	Invalidate(ctx context.Context) error
}

type EventService struct {
	repo     EventRepository
	bookings BookingCounter
	images   ImageStore
	cache    EventCache
}

func NewEventService(repo EventRepository, bookings BookingCounter, images ImageStore, cache EventCache) *EventService {
	return &EventService{
		repo:     repo,
		bookings: bookings,
		images:   images,
		cache:    cache,
	}
}

// ListEvents returns all events newest first, each with its participant
// count. Events and counts are fetched with two concurrent queries and merged
// here.
func (s *EventService) ListEvents(ctx context.Context) ([]domain.EventWithCount, error) {
	cached, generation, ok, cacheErr := s.cache.GetEvents(ctx)
	if cacheErr != nil {
		zap.L().Warn("event cache read failed", zap.Error(cacheErr))
	} else if ok {
		return cached, nil
	}

	var (
		events []domain.Event
		counts map[uint]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if events, err = s.repo.FindAll(gctx); err != nil {
			return fmt.Errorf("s.repo.FindAll -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if counts, err = s.bookings.CountByEvent(gctx); err != nil {
			return fmt.Errorf("s.bookings.CountByEvent -> %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.EventWithCount, 0, len(events))
	for _, e := range events {
		result = append(result, domain.EventWithCount{
			Event:            e,
			ParticipantCount: counts[e.ID],
		})
	}

	if cacheErr == nil {
		if err := s.cache.SetEvents(ctx, generation, result); err != nil {
			zap.L().Warn("event cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.EventWithCount, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.EventWithCount{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	count, err := s.bookings.CountByEventID(ctx, id)
	if err != nil {
		return domain.EventWithCount{}, fmt.Errorf("s.bookings.CountByEventID -> %w", err)
	}

	return domain.EventWithCount{Event: event, ParticipantCount: count}, nil
}

// CreateEvent uploads the optional image first; the event is only stored
// once the upload succeeded. If storing fails the upload is removed again.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, image *domain.ImageUpload) (domain.Event, error) {
	if image != nil {
		url, err := s.upload(ctx, *image)
		if err != nil {
			return domain.Event{}, err
		}
		event.Image = url
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		if image != nil {
			s.discardImage(ctx, event.Image)
		}
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	s.invalidate(ctx)

	return created, nil
}

// UpdateEvent replaces every field of the event. Without a new image the
// stored URL is kept.
func (s *EventService) UpdateEvent(ctx context.Context, id uint, event domain.Event, image *domain.ImageUpload) (domain.Event, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	event.ID = existing.ID
	event.Image = existing.Image
	if image != nil {
		url, err := s.upload(ctx, *image)
		if err != nil {
			return domain.Event{}, err
		}
		event.Image = url
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		if image != nil {
			s.discardImage(ctx, event.Image)
		}
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}
	s.invalidate(ctx)

	return updated, nil
}

// DeleteEvent removes the event together with all of its bookings and
// reports how many bookings were removed.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) (domain.Event, int64, error) {
	deleted, removed, err := s.repo.DeleteWithBookings(ctx, id)
	if err != nil {
		return domain.Event{}, 0, fmt.Errorf("s.repo.DeleteWithBookings -> %w", err)
	}
	s.invalidate(ctx)

	return deleted, removed, nil
}

func (s *EventService) upload(ctx context.Context, image domain.ImageUpload) (string, error) {
	url, err := s.images.Upload(ctx, image)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return url, nil
}

// discardImage removes an upload whose event was never stored. Failures are
// logged with the URL.
func (s *EventService) discardImage(ctx context.Context, url string) {
	if err := s.images.Remove(context.WithoutCancel(ctx), url); err != nil {
		zap.L().Warn("orphaned event image", zap.String("url", url), zap.Error(err))
	}
}

func (s *EventService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("event cache invalidation failed", zap.Error(err))
	}
}
