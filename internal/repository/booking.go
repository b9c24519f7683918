package repository

import (
	"context"
	"fmt"

	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/repository/dao"
)

var (
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
	ErrBookingNotFound       = dao.ErrBookingNotFound
)

type BookingDAO interface {
	Insert(ctx context.Context, booking dao.Booking) (dao.Booking, error)
	FindByEventAndUSN(ctx context.Context, eventID uint, usn string) (dao.Booking, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Booking, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	CountGroupedByEvent(ctx context.Context) ([]dao.EventCount, error)
}

type BookingRepository struct {
	dao BookingDAO
}

func NewBookingRepository(dao BookingDAO) *BookingRepository {
	return &BookingRepository{
		dao: dao,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	created, err := r.dao.Insert(ctx, dao.Booking{
		EventID:  booking.EventID,
		USN:      booking.USN,
		Name:     booking.Name,
		Year:     booking.Year,
		Branch:   booking.Branch,
		Semester: booking.Semester,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BookingRepository) FindByEventAndUSN(ctx context.Context, eventID uint, usn string) (domain.Booking, error) {
	found, err := r.dao.FindByEventAndUSN(ctx, eventID, usn)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.FindByEventAndUSN -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BookingRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Booking, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	bookings := make([]domain.Booking, 0, len(found))
	for _, b := range found {
		bookings = append(bookings, r.daoToDomain(b))
	}

	return bookings, nil
}

func (r *BookingRepository) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	count, err := r.dao.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEventID -> %w", err)
	}

	return count, nil
}

// CountByEvent maps event ids to their booking count. Events without
// bookings are not in the map.
func (r *BookingRepository) CountByEvent(ctx context.Context) (map[uint]int64, error) {
	rows, err := r.dao.CountGroupedByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountGroupedByEvent -> %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}

	return counts, nil
}

func (r *BookingRepository) daoToDomain(b dao.Booking) domain.Booking {
	return domain.Booking{
		ID:        b.ID,
		EventID:   b.EventID,
		USN:       b.USN,
		Name:      b.Name,
		Year:      b.Year,
		Branch:    b.Branch,
		Semester:  b.Semester,
		CreatedAt: b.CreatedAt,
	}
}
