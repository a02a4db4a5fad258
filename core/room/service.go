package room

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound   = errors.New("room not found")
	ErrRoomExists = errors.New("a room with this building and number already exists")
)

type (
	Repository interface {
		CreateRoom(ctx context.Context, rm Room, exec ...core.DBExecutor) (Room, error)
		// QueryRooms returns rooms ordered by building then room number, both ascending.
		QueryRooms(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Room, error)
		GetRoomByID(ctx context.Context, id string, exec ...core.DBExecutor) (Room, error)
		UpdateRoom(ctx context.Context, rm Room, isActive *bool, exec ...core.DBExecutor) (Room, error)
	}

	ServiceInterface interface {
		Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Room, error)
		Create(ctx context.Context, actor user.User, nr NewRoom) (Room, error)
		Update(ctx context.Context, actor user.User, id string, ur UpdateRoom) (Room, error)
		GetByID(ctx context.Context, actor user.User, id string) (Room, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Room, error) {
	filter.Clean()
	return svc.repo.QueryRooms(ctx, filter)
}

func (svc *Service) Create(ctx context.Context, actor user.User, nr NewRoom) (Room, error) {
	if !actor.IsStaff() {
		return Room{}, core.ErrPermissionDenied
	}

	now := time.Now().UTC()
	rm := Room{
		Building:  nr.Building,
		RoomNo:    nr.RoomNo,
		Capacity:  nr.Capacity,
		Type:      nr.Type,
		IsActive:  true,
		Remarks:   nr.Remarks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateRoom(ctx, rm)
}

func (svc *Service) Update(ctx context.Context, actor user.User, id string, ur UpdateRoom) (Room, error) {
	if !actor.IsStaff() {
		return Room{}, core.ErrPermissionDenied
	}

	rm, err := svc.repo.GetRoomByID(ctx, id)
	if err != nil {
		return Room{}, err
	}
	if ur.Capacity != nil {
		rm.Capacity = *ur.Capacity
	}
	if ur.Type != nil {
		rm.Type = *ur.Type
	}
	if ur.Remarks != nil {
		rm.Remarks = *ur.Remarks
	}
	rm.UpdatedAt = time.Now().UTC()

	// deactivating a room does not cancel its existing bookings;
	// they stay queryable and may still be completed.
	return svc.repo.UpdateRoom(ctx, rm, ur.IsActive)
}

func (svc *Service) GetByID(ctx context.Context, actor user.User, id string) (Room, error) {
	return svc.repo.GetRoomByID(ctx, id)
}
