package notify

import (
	"context"
	"errors"

	"github.com/campusfest/eventhub-api/internal/domain"
)

type Publisher interface {
	PublishBookingCreated(ctx context.Context, msg domain.BookingCreated) error
}

// Fanout delivers to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) PublishBookingCreated(ctx context.Context, msg domain.BookingCreated) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishBookingCreated(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
