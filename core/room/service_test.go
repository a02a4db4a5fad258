package room_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
)

func setup(t *testing.T) *room.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	return room.NewService(db, dummydb.NewRoomRepository(db))
}

var (
	admin   = user.User{ID: uuid.New().String(), Role: user.RoleAdmin, IsActive: true}
	teacher = user.User{ID: uuid.New().String(), Role: user.RoleTeacher, IsActive: true}
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	nr := room.NewRoom{Building: "A", RoomNo: "101", Capacity: 40, Type: room.TypeLectureHall}

	// only staff may register rooms
	if _, err := svc.Create(ctx, teacher, nr); err != core.ErrPermissionDenied {
		t.Errorf("Create() error = %v, wantErr %v", err, core.ErrPermissionDenied)
	}

	rm, err := svc.Create(ctx, admin, nr)
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if !rm.IsActive {
		t.Error("Create() new room should be active")
	}

	// (building, room_no) must be unique
	if _, err = svc.Create(ctx, admin, nr); err != room.ErrRoomExists {
		t.Errorf("Create() error = %v, wantErr %v", err, room.ErrRoomExists)
	}
	// same number in another building is fine
	if _, err = svc.Create(ctx, admin, room.NewRoom{Building: "B", RoomNo: "101", Capacity: 20, Type: room.TypeLab}); err != nil {
		t.Errorf("Create(): %v", err)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	rm, err := svc.Create(ctx, admin, room.NewRoom{Building: "A", RoomNo: "102", Capacity: 40, Type: room.TypeLectureHall})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	if _, err = svc.Update(ctx, teacher, rm.ID, room.UpdateRoom{}); err != core.ErrPermissionDenied {
		t.Errorf("Update() error = %v, wantErr %v", err, core.ErrPermissionDenied)
	}

	// only provided fields change
	capacity := 60
	inactive := false
	rm, err = svc.Update(ctx, admin, rm.ID, room.UpdateRoom{Capacity: &capacity, IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if rm.Capacity != 60 || rm.IsActive || rm.Type != room.TypeLectureHall || rm.Building != "A" {
		t.Errorf("Update() = %+v", rm)
	}

	if _, err = svc.Update(ctx, admin, uuid.New().String(), room.UpdateRoom{}); err != room.ErrNotFound {
		t.Errorf("Update() error = %v, wantErr %v", err, room.ErrNotFound)
	}
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	if _, err := svc.Create(ctx, admin, room.NewRoom{Building: "A", RoomNo: "101", Capacity: 40, Type: room.TypeLectureHall}); err != nil {
		t.Fatalf("Create(): %v", err)
	}
	rm, err := svc.Create(ctx, admin, room.NewRoom{Building: "B", RoomNo: "201", Capacity: 20, Type: room.TypeLab})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	inactive := false
	if _, err = svc.Update(ctx, admin, rm.ID, room.UpdateRoom{IsActive: &inactive}); err != nil {
		t.Fatalf("Update(): %v", err)
	}

	// teachers may browse the room list
	rooms, err := svc.Query(ctx, teacher, room.QueryFilter{})
	if err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("Query() = %d rooms, want 2", len(rooms))
	}

	active := true
	if rooms, err = svc.Query(ctx, teacher, room.QueryFilter{IsActive: &active}); err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(rooms) != 1 || rooms[0].Building != "A" {
		t.Errorf("Query() active = %d rooms, want 1", len(rooms))
	}

	if rooms, err = svc.Query(ctx, teacher, room.QueryFilter{Building: "B"}); err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomNo != "201" {
		t.Errorf("Query() building B = %d rooms, want 1", len(rooms))
	}
}
