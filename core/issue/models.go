package issue

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
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
)

var AllStatuses = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

type Issue struct {
	ID        string    `json:"id" db:"id"`
	RoomID    string    `json:"room_id" db:"room_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	Response  string    `json:"response,omitempty" db:"response"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC

	Room    room.Room    `json:"room" db:"room"`
	Teacher user.Summary `json:"teacher" db:"teacher"`
}

// NewIssue contains information needed to report a room problem.
type NewIssue struct {
	RoomID  string `json:"room_id" validate:"required,uuid4"`
	Message string `json:"message" validate:"required,min=10"`
}

func (ni *NewIssue) Validate(validate *validator.Validate) error {
	ni.Message = core.CleanString(ni.Message)
	return validate.Struct(ni)
}

// UpdateIssue is the SPOC/Admin resolution update. Unlike bookings,
// issue statuses have no transition guard beyond the enumerated values.
type UpdateIssue struct {
	Status   string  `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Response *string `json:"response"`
}

func (ui *UpdateIssue) Validate(validate *validator.Validate) error {
	if ui.Response != nil {
		cleaned := core.CleanString(*ui.Response)
		ui.Response = &cleaned
	}
	return validate.Struct(ui)
}

type QueryFilter struct {
	Status    string `query:"status"`
	TeacherID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
}
