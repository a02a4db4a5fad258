package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
)

type RoomRepository struct {
	db *sqlx.DB
}

var _ room.Repository = (*RoomRepository)(nil) // interface compliance check

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (repo RoomRepository) CreateRoom(ctx context.Context, rm room.Room, exec ...core.DBExecutor) (room.Room, error) {
	rm.ID = uuid.New().String()
	q := `
		INSERT INTO room (id, building, room_no, capacity, type, is_active, remarks, created_at, updated_at)
		VALUES (:id, :building, :room_no, :capacity, :type, :is_active, :remarks, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, rm); err != nil {
		if isUniqueViolation(err, "room_building_room_no_key") {
			return room.Room{}, room.ErrRoomExists
		}
		return room.Room{}, errors.Wrap(err, "inserting room")
	}
	return rm, nil
}

func (repo RoomRepository) QueryRooms(ctx context.Context, filter room.QueryFilter, exec ...core.DBExecutor) ([]room.Room, error) {
	q := `SELECT * FROM room`
	where := ""
	args := make([]interface{}, 0, 2)
	if filter.Building != "" {
		args = append(args, filter.Building)
		where = fmt.Sprintf(" WHERE building = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		if where == "" {
			where = fmt.Sprintf(" WHERE is_active = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND is_active = $%d", len(args))
		}
	}
	q += where + ` ORDER BY building ASC, room_no ASC`

	rooms := make([]room.Room, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rooms, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	return rooms, nil
}

func (repo RoomRepository) GetRoomByID(ctx context.Context, id string, exec ...core.DBExecutor) (room.Room, error) {
	var rm room.Room
	q := `SELECT * FROM room WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &rm, q, id); err != nil {
		if err == sql.ErrNoRows {
			return room.Room{}, room.ErrNotFound
		}
		return room.Room{}, errors.Wrap(err, "getting room by id")
	}
	return rm, nil
}

func (repo RoomRepository) UpdateRoom(ctx context.Context, rm room.Room, isActive *bool, exec ...core.DBExecutor) (room.Room, error) {
	if isActive != nil {
		rm.IsActive = *isActive
	}
	q := `
		UPDATE room
		SET capacity = :capacity, type = :type, is_active = :is_active, remarks = :remarks, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, rm)
	if err != nil {
		return room.Room{}, errors.Wrap(err, "updating room")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return room.Room{}, room.ErrNotFound
	}
	return rm, nil
}
