package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
)

const attendanceColumns = `
	a.id, a.booking_id, a.teacher_id, a.room_id, a.date, a.slot, a.total, a.present, a.remarks, a.created_at,
	r.id AS "room.id", r.building AS "room.building", r.room_no AS "room.room_no",
	r.capacity AS "room.capacity", r.type AS "room.type", r.is_active AS "room.is_active",
	r.remarks AS "room.remarks", r.created_at AS "room.created_at", r.updated_at AS "room.updated_at",
	t.id AS "teacher.id", t.name AS "teacher.name", t.email AS "teacher.email", t.role AS "teacher.role"`

const attendanceFrom = `
	FROM attendance a
	JOIN room r ON r.id = a.room_id
	JOIN users t ON t.id = a.teacher_id`

type AttendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*AttendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (repo AttendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance, exec ...core.DBExecutor) (attendance.Attendance, error) {
	att.ID = uuid.New().String()
	q := `
		INSERT INTO attendance (id, booking_id, teacher_id, room_id, date, slot, total, present, remarks, created_at)
		VALUES (:id, :booking_id, :teacher_id, :room_id, :date, :slot, :total, :present, :remarks, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, att); err != nil {
		if isUniqueViolation(err, "attendance_booking_id_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
		return attendance.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo AttendanceRepository) GetAttendanceByBookingID(ctx context.Context, bookingID string, exec ...core.DBExecutor) (attendance.Attendance, error) {
	var att attendance.Attendance
	q := `SELECT` + attendanceColumns + attendanceFrom + ` WHERE a.booking_id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &att, q, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance by booking id")
	}
	return att, nil
}

func (repo AttendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Attendance, error) {
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conds = append(conds, fmt.Sprintf("a.teacher_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("a.date = $%d::date", len(args)))
	}

	q := `SELECT` + attendanceColumns + attendanceFrom
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY a.date DESC, a.slot ASC`

	records := make([]attendance.Attendance, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &records, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return records, nil
}
