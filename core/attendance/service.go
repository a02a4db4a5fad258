package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/booking"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("attendance record not found")
	ErrAlreadyRecorded    = errors.New("attendance already marked for this booking")
	ErrBookingNotApproved = errors.New("attendance can only be marked for approved bookings")
)

type (
	Repository interface {
		// CreateAttendance inserts the record; the storage layer maps a
		// booking-uniqueness violation to ErrAlreadyRecorded.
		CreateAttendance(ctx context.Context, att Attendance, exec ...core.DBExecutor) (Attendance, error)
		GetAttendanceByBookingID(ctx context.Context, bookingID string, exec ...core.DBExecutor) (Attendance, error)
		// QueryAttendance returns records ordered by date descending then slot ascending.
		QueryAttendance(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Attendance, error)
	}

	ServiceInterface interface {
		Record(ctx context.Context, actor user.User, na NewAttendance) (Attendance, error)
		Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Attendance, error)
	}

	Service struct {
		db          core.DB
		repo        Repository
		bookingRepo booking.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(db core.DB, repo Repository, bookingRepo booking.Repository) *Service {
	return &Service{db: db, repo: repo, bookingRepo: bookingRepo}
}

// Record files the attendance record and completes the booking in a
// single transaction. A partial write (record without COMPLETED booking,
// or the reverse) must never be observable.
func (svc *Service) Record(ctx context.Context, actor user.User, na NewAttendance) (Attendance, error) {
	if !actor.IsTeacher() {
		return Attendance{}, core.ErrPermissionDenied
	}

	bk, err := svc.bookingRepo.GetBookingByID(ctx, na.BookingID)
	if err != nil {
		if errors.Cause(err) == booking.ErrNotFound {
			return Attendance{}, booking.ErrNotFound
		}
		return Attendance{}, errors.Wrap(err, "getting booking")
	}
	if bk.TeacherID != actor.ID {
		return Attendance{}, core.ErrPermissionDenied
	}
	if bk.Status != booking.StatusApproved {
		return Attendance{}, ErrBookingNotApproved
	}

	now := time.Now().UTC()
	att := Attendance{
		BookingID: bk.ID,
		TeacherID: bk.TeacherID,
		RoomID:    bk.RoomID,
		Date:      bk.Date,
		Slot:      bk.Slot,
		Total:     na.Total,
		Present:   na.Present,
		Remarks:   na.Remarks,
		CreatedAt: now,
		Room:      bk.Room,
		Teacher:   bk.Teacher,
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return Attendance{}, errors.Wrap(err, "beginning transaction")
	}

	att, err = svc.repo.CreateAttendance(ctx, att, tx)
	if err != nil {
		_ = tx.Rollback()
		return Attendance{}, err
	}

	bk.Status = booking.StatusCompleted
	bk.UpdatedAt = now
	if _, err = svc.bookingRepo.UpdateBooking(ctx, bk, tx); err != nil {
		_ = tx.Rollback()
		return Attendance{}, errors.Wrap(err, "completing booking")
	}

	if err = tx.Commit(); err != nil {
		return Attendance{}, errors.Wrap(err, "committing attendance")
	}
	return att, nil
}

// Query lists attendance records with the same visibility rule as bookings.
func (svc *Service) Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Attendance, error) {
	if !actor.IsStaff() {
		filter.TeacherID = actor.ID
	}
	return svc.repo.QueryAttendance(ctx, filter)
}
