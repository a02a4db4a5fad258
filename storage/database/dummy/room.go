package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
)

type roomRepository struct {
	db *roomTable
}

var _ room.Repository = (*roomRepository)(nil) // interface compliance check

func NewRoomRepository(db *DB) room.Repository {
	return &roomRepository{db: db.room}
}

func (repo *roomRepository) CreateRoom(ctx context.Context, rm room.Room, exec ...core.DBExecutor) (room.Room, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, r := range repo.db.table {
		if r.Building == rm.Building && r.RoomNo == rm.RoomNo {
			return room.Room{}, room.ErrRoomExists
		}
	}
	rm.ID = uuid.New().String()
	repo.db.table[rm.ID] = &rm
	return rm, nil
}

func (repo *roomRepository) QueryRooms(ctx context.Context, filter room.QueryFilter, exec ...core.DBExecutor) ([]room.Room, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rooms := make([]room.Room, 0, len(repo.db.table))
	for _, rm := range repo.db.table {
		if filter.Building != "" && rm.Building != filter.Building {
			continue
		}
		if filter.IsActive != nil && rm.IsActive != *filter.IsActive {
			continue
		}
		rooms = append(rooms, *rm)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Building != rooms[j].Building {
			return rooms[i].Building < rooms[j].Building
		}
		return rooms[i].RoomNo < rooms[j].RoomNo
	})
	return rooms, nil
}

func (repo *roomRepository) GetRoomByID(ctx context.Context, id string, exec ...core.DBExecutor) (room.Room, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rm, ok := repo.db.table[id]; ok {
		return *rm, nil
	}
	return room.Room{}, room.ErrNotFound
}

func (repo *roomRepository) UpdateRoom(ctx context.Context, rm room.Room, isActive *bool, exec ...core.DBExecutor) (room.Room, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[rm.ID]; !ok {
		return room.Room{}, room.ErrNotFound
	}
	if isActive != nil {
		rm.IsActive = *isActive
	}
	repo.db.table[rm.ID] = &rm
	return rm, nil
}
