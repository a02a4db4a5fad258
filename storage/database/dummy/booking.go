package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/booking"
)

type bookingRepository struct {
	db *bookingTable
}

var _ booking.Repository = (*bookingRepository)(nil) // interface compliance check

func NewBookingRepository(db *DB) booking.Repository {
	return &bookingRepository{db: db.booking}
}

// slotClash mirrors the database's partial unique index over active bookings.
func (repo *bookingRepository) slotClash(bk booking.Booking) bool {
	if !booking.IsBlockingStatus(bk.Status) {
		return false
	}
	for _, other := range repo.db.table {
		if other.ID == bk.ID {
			continue
		}
		if other.RoomID == bk.RoomID && other.Date.Equal(bk.Date) && other.Slot == bk.Slot &&
			booking.IsBlockingStatus(other.Status) {
			return true
		}
	}
	return false
}

func (repo *bookingRepository) CreateBooking(ctx context.Context, bk booking.Booking, exec ...core.DBExecutor) (booking.Booking, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.slotClash(bk) {
		return booking.Booking{}, booking.ErrSlotConflict
	}
	bk.ID = uuid.New().String()
	repo.db.table[bk.ID] = &bk
	return bk, nil
}

func (repo *bookingRepository) GetBookingByID(ctx context.Context, id string, exec ...core.DBExecutor) (booking.Booking, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if bk, ok := repo.db.table[id]; ok {
		return *bk, nil
	}
	return booking.Booking{}, booking.ErrNotFound
}

func (repo *bookingRepository) QueryBookings(ctx context.Context, filter booking.QueryFilter, exec ...core.DBExecutor) ([]booking.Booking, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	bookings := make([]booking.Booking, 0, len(repo.db.table))
	for _, bk := range repo.db.table {
		if filter.TeacherID != "" && bk.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && bk.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !bk.Date.Equal(*filter.Date) {
			continue
		}
		bookings = append(bookings, *bk)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Date.Equal(bookings[j].Date) {
			return bookings[i].Date.After(bookings[j].Date)
		}
		return bookings[i].Slot < bookings[j].Slot
	})
	return bookings, nil
}

func (repo *bookingRepository) UpdateBooking(ctx context.Context, bk booking.Booking, exec ...core.DBExecutor) (booking.Booking, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[bk.ID]; !ok {
		return booking.Booking{}, booking.ErrNotFound
	}
	if repo.slotClash(bk) {
		return booking.Booking{}, booking.ErrSlotConflict
	}
	repo.db.table[bk.ID] = &bk
	return bk, nil
}

func (repo *bookingRepository) SlotTaken(ctx context.Context, roomID string, date time.Time, slot string, exec ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, bk := range repo.db.table {
		if bk.RoomID == roomID && bk.Date.Equal(date) && bk.Slot == slot && booking.IsBlockingStatus(bk.Status) {
			return true, nil
		}
	}
	return false, nil
}
