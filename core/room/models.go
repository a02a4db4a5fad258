package room

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Room types
const (
	TypeLectureHall = "LECTURE_HALL"
	TypeLab         = "LAB"
	TypeSeminarRoom = "SEMINAR_ROOM"
	TypeFacultyRoom = "FACULTY_ROOM"
)

type Room struct {
	ID        string    `json:"id" db:"id"`
	Building  string    `json:"building" db:"building"`
	RoomNo    string    `json:"room_no" db:"room_no"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Type      string    `json:"type" db:"type"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Remarks   string    `json:"remarks,omitempty" db:"remarks"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewRoom contains information needed to register a new Room.
type NewRoom struct {
	Building string `json:"building" validate:"required"`
	RoomNo   string `json:"room_no" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required,oneof=LECTURE_HALL LAB SEMINAR_ROOM FACULTY_ROOM"`
	Remarks  string `json:"remarks"`
}

func (nr *NewRoom) Validate(validate *validator.Validate) error {
	nr.Building = core.CleanString(nr.Building)
	nr.RoomNo = core.CleanString(nr.RoomNo)
	nr.Remarks = core.CleanString(nr.Remarks)
	return validate.Struct(nr)
}

// UpdateRoom defines what information may be provided to modify an existing Room.
// Nil fields are left untouched.
type UpdateRoom struct {
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
	Type     *string `json:"type" validate:"omitempty,oneof=LECTURE_HALL LAB SEMINAR_ROOM FACULTY_ROOM"`
	IsActive *bool   `json:"is_active"`
	Remarks  *string `json:"remarks"`
}

func (ur *UpdateRoom) Validate(validate *validator.Validate) error {
	if ur.Remarks != nil {
		cleaned := core.CleanString(*ur.Remarks)
		ur.Remarks = &cleaned
	}
	return validate.Struct(ur)
}

type QueryFilter struct {
	Building string `query:"building"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Building = core.CleanString(qf.Building)
}
