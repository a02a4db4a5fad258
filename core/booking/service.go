package booking

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound          = errors.New("booking not found")
	ErrRoomUnavailable   = errors.New("room is not available")
	ErrSlotConflict      = errors.New("room is already booked for this time slot")
	ErrInvalidTransition = errors.New("booking cannot change to this status")
)

type (
	Repository interface {
		// CreateBooking inserts the booking in a single statement; the
		// storage layer maps a slot-uniqueness violation to ErrSlotConflict.
		CreateBooking(ctx context.Context, bk Booking, exec ...core.DBExecutor) (Booking, error)
		GetBookingByID(ctx context.Context, id string, exec ...core.DBExecutor) (Booking, error)
		// QueryBookings returns bookings ordered by date descending then slot ascending.
		QueryBookings(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Booking, error)
		// UpdateBooking persists status/remarks changes; a slot-uniqueness
		// violation (re-approval of a freed slot) maps to ErrSlotConflict.
		UpdateBooking(ctx context.Context, bk Booking, exec ...core.DBExecutor) (Booking, error)
		// SlotTaken reports whether a PENDING or APPROVED booking claims
		// (roomID, date, slot).
		SlotTaken(ctx context.Context, roomID string, date time.Time, slot string, exec ...core.DBExecutor) (bool, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, actor user.User, nb NewBooking) (Booking, error)
		CheckSlot(ctx context.Context, roomID string, date time.Time, slot string) (bool, error)
		Transition(ctx context.Context, actor user.User, id string, tb TransitionBooking) (Booking, error)
		Cancel(ctx context.Context, actor user.User, id string) (Booking, error)
		Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Booking, error)
		GetByID(ctx context.Context, actor user.User, id string) (Booking, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		roomRepo room.Repository
		mailSvc  core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(db core.DB, repo Repository, roomRepo room.Repository, mailSvc core.EmailService) *Service {
	return &Service{db: db, repo: repo, roomRepo: roomRepo, mailSvc: mailSvc}
}

// Create requests a new PENDING booking for the acting teacher.
// The slot-uniqueness invariant is enforced by the storage layer in the
// same statement as the insert, so two concurrent requests for the same
// (room, date, slot) cannot both succeed.
func (svc *Service) Create(ctx context.Context, actor user.User, nb NewBooking) (Booking, error) {
	if !actor.IsTeacher() {
		return Booking{}, core.ErrPermissionDenied
	}

	rm, err := svc.roomRepo.GetRoomByID(ctx, nb.RoomID)
	if err != nil {
		if errors.Cause(err) == room.ErrNotFound {
			return Booking{}, ErrRoomUnavailable
		}
		return Booking{}, errors.Wrap(err, "getting room")
	}
	if !rm.IsActive {
		return Booking{}, ErrRoomUnavailable
	}

	now := time.Now().UTC()
	bk := Booking{
		RoomID:    rm.ID,
		TeacherID: actor.ID,
		Date:      nb.CalDate(),
		Slot:      nb.Slot,
		Status:    StatusPending,
		Remarks:   nb.Remarks,
		CreatedAt: now,
		UpdatedAt: now,
		Room:      rm,
		Teacher:   actor.Summary(),
	}
	return svc.repo.CreateBooking(ctx, bk)
}

// CheckSlot is the advisory pre-submission conflict preview. It runs the
// same lookup as creation but without any exclusivity; the authoritative
// check remains the creation-time insert.
func (svc *Service) CheckSlot(ctx context.Context, roomID string, date time.Time, slot string) (bool, error) {
	return svc.repo.SlotTaken(ctx, roomID, date, slot)
}

// Transition applies a SPOC/Admin decision to a booking.
func (svc *Service) Transition(ctx context.Context, actor user.User, id string, tb TransitionBooking) (Booking, error) {
	if !actor.IsStaff() {
		return Booking{}, core.ErrPermissionDenied
	}

	bk, err := svc.repo.GetBookingByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !CanTransition(bk.Status, tb.Status) {
		return Booking{}, ErrInvalidTransition
	}

	bk.Status = tb.Status
	if tb.Remarks != nil {
		bk.Remarks = *tb.Remarks
	}
	bk.UpdatedAt = time.Now().UTC()

	bk, err = svc.repo.UpdateBooking(ctx, bk)
	if err != nil {
		return Booking{}, err
	}

	svc.sendDecisionMail(bk)
	return bk, nil
}

// Cancel lets the owning teacher withdraw a still-pending request.
func (svc *Service) Cancel(ctx context.Context, actor user.User, id string) (Booking, error) {
	bk, err := svc.repo.GetBookingByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if bk.TeacherID != actor.ID {
		return Booking{}, core.ErrPermissionDenied
	}
	if !CanTransition(bk.Status, StatusCancelled) {
		return Booking{}, ErrInvalidTransition
	}

	bk.Status = StatusCancelled
	bk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateBooking(ctx, bk)
}

// Query lists bookings. Teachers (and students) only see their own;
// SPOC/Admin see all.
func (svc *Service) Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Booking, error) {
	filter.Clean()
	if !actor.IsStaff() {
		filter.TeacherID = actor.ID
	}
	return svc.repo.QueryBookings(ctx, filter)
}

// GetByID fetches one booking. A non-owner teacher gets ErrNotFound so
// foreign booking ids are indistinguishable from absent ones.
func (svc *Service) GetByID(ctx context.Context, actor user.User, id string) (Booking, error) {
	bk, err := svc.repo.GetBookingByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !actor.IsStaff() && bk.TeacherID != actor.ID {
		return Booking{}, ErrNotFound
	}
	return bk, nil
}

func (svc *Service) sendDecisionMail(bk Booking) {
	if svc.mailSvc == nil || bk.Teacher.Email == "" {
		return
	}
	var subject string
	switch bk.Status {
	case StatusApproved:
		subject = "Booking approved"
	case StatusRejected:
		subject = "Booking rejected"
	default:
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: bk.Teacher.Name, Address: bk.Teacher.Email}},
		Subject: subject,
		BodyStr: fmt.Sprintf(
			"Your booking for %s-%s on %s (%s) is now %s.",
			bk.Room.Building, bk.Room.RoomNo, core.FormatCalDate(bk.Date), bk.Slot, bk.Status,
		),
	})
}
