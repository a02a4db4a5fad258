package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/booking"
)

// activeSlotIdx is the partial unique index guarding the slot-uniqueness
// invariant; see migrations 00003_bookings.sql.
const activeSlotIdx = "booking_active_slot_idx"

const bookingColumns = `
	b.id, b.room_id, b.teacher_id, b.date, b.slot, b.status, b.remarks, b.created_at, b.updated_at,
	r.id AS "room.id", r.building AS "room.building", r.room_no AS "room.room_no",
	r.capacity AS "room.capacity", r.type AS "room.type", r.is_active AS "room.is_active",
	r.remarks AS "room.remarks", r.created_at AS "room.created_at", r.updated_at AS "room.updated_at",
	t.id AS "teacher.id", t.name AS "teacher.name", t.email AS "teacher.email", t.role AS "teacher.role"`

const bookingFrom = `
	FROM booking b
	JOIN room r ON r.id = b.room_id
	JOIN users t ON t.id = b.teacher_id`

type BookingRepository struct {
	db *sqlx.DB
}

var _ booking.Repository = (*BookingRepository)(nil) // interface compliance check

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (repo BookingRepository) CreateBooking(ctx context.Context, bk booking.Booking, exec ...core.DBExecutor) (booking.Booking, error) {
	bk.ID = uuid.New().String()
	q := `
		INSERT INTO booking (id, room_id, teacher_id, date, slot, status, remarks, created_at, updated_at)
		VALUES (:id, :room_id, :teacher_id, :date, :slot, :status, :remarks, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, bk); err != nil {
		if isUniqueViolation(err, activeSlotIdx) {
			return booking.Booking{}, booking.ErrSlotConflict
		}
		return booking.Booking{}, errors.Wrap(err, "inserting booking")
	}
	return bk, nil
}

func (repo BookingRepository) GetBookingByID(ctx context.Context, id string, exec ...core.DBExecutor) (booking.Booking, error) {
	var bk booking.Booking
	q := `SELECT` + bookingColumns + bookingFrom + ` WHERE b.id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &bk, q, id); err != nil {
		if err == sql.ErrNoRows {
			return booking.Booking{}, booking.ErrNotFound
		}
		return booking.Booking{}, errors.Wrap(err, "getting booking by id")
	}
	return bk, nil
}

func (repo BookingRepository) QueryBookings(ctx context.Context, filter booking.QueryFilter, exec ...core.DBExecutor) ([]booking.Booking, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conds = append(conds, fmt.Sprintf("b.teacher_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("b.date = $%d::date", len(args)))
	}

	q := `SELECT` + bookingColumns + bookingFrom
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY b.date DESC, b.slot ASC`

	bookings := make([]booking.Booking, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &bookings, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying bookings")
	}
	return bookings, nil
}

func (repo BookingRepository) UpdateBooking(ctx context.Context, bk booking.Booking, exec ...core.DBExecutor) (booking.Booking, error) {
	q := `UPDATE booking SET status = :status, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, bk)
	if err != nil {
		// re-approving into an already re-booked slot trips the same index
		if isUniqueViolation(err, activeSlotIdx) {
			return booking.Booking{}, booking.ErrSlotConflict
		}
		return booking.Booking{}, errors.Wrap(err, "updating booking")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return booking.Booking{}, booking.ErrNotFound
	}
	return bk, nil
}

func (repo BookingRepository) SlotTaken(ctx context.Context, roomID string, date time.Time, slot string, exec ...core.DBExecutor) (bool, error) {
	q := `
		SELECT EXISTS (
			SELECT 1 FROM booking
			WHERE room_id = $1 AND date = $2::date AND slot = $3 AND status IN ('PENDING', 'APPROVED')
		)`
	var taken bool
	if err := getExec(repo.db, exec).QueryRowxContext(ctx, q, roomID, date, slot).Scan(&taken); err != nil {
		return false, errors.Wrap(err, "checking slot")
	}
	return taken, nil
}
