package issue_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/issue"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
)

var (
	spoc    = user.User{ID: uuid.New().String(), Name: "Spoc", Role: user.RoleSPOC, IsActive: true}
	jane    = user.User{ID: uuid.New().String(), Name: "Jane", Role: user.RoleTeacher, IsActive: true}
	john    = user.User{ID: uuid.New().String(), Name: "John", Role: user.RoleTeacher, IsActive: true}
	student = user.User{ID: uuid.New().String(), Name: "Stu", Role: user.RoleStudent, IsActive: true}
)

func setup(t *testing.T) (*issue.Service, room.Room) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	roomRepo := dummydb.NewRoomRepository(db)
	rm, err := roomRepo.CreateRoom(context.Background(), room.Room{
		Building: "A", RoomNo: "101", Capacity: 40, Type: room.TypeLectureHall, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateRoom(): %v", err)
	}
	return issue.NewService(db, dummydb.NewIssueRepository(db), roomRepo), rm
}

func TestService_Report(t *testing.T) {
	ctx := context.Background()
	svc, rm := setup(t)

	ni := issue.NewIssue{RoomID: rm.ID, Message: "the projector is broken"}

	if _, err := svc.Report(ctx, student, ni); err != core.ErrPermissionDenied {
		t.Errorf("Report() error = %v, wantErr %v", err, core.ErrPermissionDenied)
	}
	if _, err := svc.Report(ctx, spoc, ni); err != core.ErrPermissionDenied {
		t.Errorf("Report() error = %v, wantErr %v", err, core.ErrPermissionDenied)
	}
	if _, err := svc.Report(ctx, jane, issue.NewIssue{RoomID: uuid.New().String(), Message: "phantom room issue"}); err != room.ErrNotFound {
		t.Errorf("Report() error = %v, wantErr %v", err, room.ErrNotFound)
	}

	iss, err := svc.Report(ctx, jane, ni)
	if err != nil {
		t.Fatalf("Report(): %v", err)
	}
	if iss.Status != issue.StatusOpen {
		t.Errorf("Report() status = %v, want %v", iss.Status, issue.StatusOpen)
	}
	if iss.TeacherID != jane.ID || iss.Room.ID != rm.ID {
		t.Errorf("Report() = %+v", iss)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, rm := setup(t)

	iss, err := svc.Report(ctx, jane, issue.NewIssue{RoomID: rm.ID, Message: "whiteboard markers are dry"})
	if err != nil {
		t.Fatalf("Report(): %v", err)
	}

	if _, err = svc.Update(ctx, jane, iss.ID, issue.UpdateIssue{Status: issue.StatusResolved}); err != core.ErrPermissionDenied {
		t.Errorf("Update() error = %v, wantErr %v", err, core.ErrPermissionDenied)
	}

	response := "replaced the markers"
	iss, err = svc.Update(ctx, spoc, iss.ID, issue.UpdateIssue{Status: issue.StatusResolved, Response: &response})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if iss.Status != issue.StatusResolved || iss.Response != response {
		t.Errorf("Update() = %+v", iss)
	}

	if _, err = svc.Update(ctx, spoc, uuid.New().String(), issue.UpdateIssue{Status: issue.StatusClosed}); err != issue.ErrNotFound {
		t.Errorf("Update() error = %v, wantErr %v", err, issue.ErrNotFound)
	}
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc, rm := setup(t)

	if _, err := svc.Report(ctx, jane, issue.NewIssue{RoomID: rm.ID, Message: "the projector is broken"}); err != nil {
		t.Fatalf("Report(): %v", err)
	}
	iss, err := svc.Report(ctx, john, issue.NewIssue{RoomID: rm.ID, Message: "the AC leaks on the desk"})
	if err != nil {
		t.Fatalf("Report(): %v", err)
	}
	if _, err = svc.Update(ctx, spoc, iss.ID, issue.UpdateIssue{Status: issue.StatusInProgress}); err != nil {
		t.Fatalf("Update(): %v", err)
	}

	// teachers only see their own reports
	issues, err := svc.Query(ctx, jane, issue.QueryFilter{})
	if err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(issues) != 1 || issues[0].TeacherID != jane.ID {
		t.Errorf("Query() as teacher = %d issues, want 1 owned", len(issues))
	}

	// staff see everything
	if issues, err = svc.Query(ctx, spoc, issue.QueryFilter{}); err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(issues) != 2 {
		t.Errorf("Query() as staff = %d issues, want 2", len(issues))
	}

	// status filter, case-insensitive
	if issues, err = svc.Query(ctx, spoc, issue.QueryFilter{Status: "in_progress"}); err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(issues) != 1 || issues[0].ID != iss.ID {
		t.Errorf("Query() by status = %d issues, want 1", len(issues))
	}
}
