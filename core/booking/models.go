package booking

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
)

// Statuses
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// AllStatuses lists every booking lifecycle state.
var AllStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}

// Slots is the closed set of bookable time-range labels.
var Slots = []string{
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
	"17:00-18:00",
}

// IsBlockingStatus reports whether a booking in this status claims its
// (room, date, slot) exclusively. REJECTED, COMPLETED and CANCELLED
// bookings free the slot for new requests.
func IsBlockingStatus(status string) bool {
	return status == StatusPending || status == StatusApproved
}

// CanTransition reports whether a booking may move from one status to
// another. Transitions are one-directional except for rejection retries:
// a REJECTED booking may still be approved afterwards.
func CanTransition(from, to string) bool {
	switch to {
	case StatusApproved:
		return from == StatusPending || from == StatusRejected
	case StatusRejected:
		return from == StatusPending
	case StatusCancelled:
		return from == StatusPending
	case StatusCompleted:
		return from == StatusApproved
	}
	return false
}

type Booking struct {
	ID        string    `json:"id" db:"id"`
	RoomID    string    `json:"room_id" db:"room_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Date      time.Time `json:"date" db:"date"` // calendar day, midnight UTC
	Slot      string    `json:"slot" db:"slot"`
	Status    string    `json:"status" db:"status"`
	Remarks   string    `json:"remarks,omitempty" db:"remarks"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC

	Room    room.Room    `json:"room" db:"room"`
	Teacher user.Summary `json:"teacher" db:"teacher"`
}

// NewBooking contains information needed to request a new Booking.
type NewBooking struct {
	RoomID  string `json:"room_id" validate:"required,uuid4"`
	Date    string `json:"date" validate:"required,caldate"`
	Slot    string `json:"slot" validate:"required,slot"`
	Remarks string `json:"remarks"`

	date time.Time
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	nb.Slot = core.CleanString(nb.Slot)
	nb.Remarks = core.CleanString(nb.Remarks)

	if err := validate.Struct(nb); err != nil {
		return err
	}
	nb.date, _ = core.ParseCalDate(nb.Date)
	return nil
}

// CalDate returns the validated booking date as midnight UTC.
func (nb NewBooking) CalDate() time.Time { return nb.date }

// TransitionBooking is the SPOC/Admin decision on a pending request.
type TransitionBooking struct {
	Status  string  `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Remarks *string `json:"remarks"`
}

func (tb *TransitionBooking) Validate(validate *validator.Validate) error {
	if tb.Remarks != nil {
		cleaned := core.CleanString(*tb.Remarks)
		tb.Remarks = &cleaned
	}
	return validate.Struct(tb)
}

type QueryFilter struct {
	Status    string     `query:"status"`
	Date      *time.Time `query:"-"`
	TeacherID string     `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
}
