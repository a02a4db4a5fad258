package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
)

// Attendance is the permanent record filed against a completed booking.
// It is written exactly once and never updated or deleted.
type Attendance struct {
	ID        string    `json:"id" db:"id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	RoomID    string    `json:"room_id" db:"room_id"`
	Date      time.Time `json:"date" db:"date"` // calendar day, midnight UTC
	Slot      string    `json:"slot" db:"slot"`
	Total     int       `json:"total" db:"total"`
	Present   int       `json:"present" db:"present"`
	Remarks   string    `json:"remarks,omitempty" db:"remarks"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC

	Room    room.Room    `json:"room" db:"room"`
	Teacher user.Summary `json:"teacher" db:"teacher"`
}

// NewAttendance contains information needed to file an attendance record.
type NewAttendance struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Total     int    `json:"total" validate:"required,gt=0"`
	Present   int    `json:"present" validate:"gte=0,ltefield=Total"`
	Remarks   string `json:"remarks"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Remarks = core.CleanString(na.Remarks)
	return validate.Struct(na)
}

type QueryFilter struct {
	Date      *time.Time `query:"-"`
	TeacherID string     `query:"-"`
}
