package issue

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
)

// ErrNotFound is returned for unknown issue ids.
var ErrNotFound = errors.New("issue not found")

type (
	Repository interface {
		CreateIssue(ctx context.Context, iss Issue, exec ...core.DBExecutor) (Issue, error)
		GetIssueByID(ctx context.Context, id string, exec ...core.DBExecutor) (Issue, error)
		// QueryIssues returns issues ordered by creation time descending.
		QueryIssues(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Issue, error)
		UpdateIssue(ctx context.Context, iss Issue, exec ...core.DBExecutor) (Issue, error)
	}

	ServiceInterface interface {
		Report(ctx context.Context, actor user.User, ni NewIssue) (Issue, error)
		Update(ctx context.Context, actor user.User, id string, ui UpdateIssue) (Issue, error)
		Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Issue, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		roomRepo room.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(db core.DB, repo Repository, roomRepo room.Repository) *Service {
	return &Service{db: db, repo: repo, roomRepo: roomRepo}
}

func (svc *Service) Report(ctx context.Context, actor user.User, ni NewIssue) (Issue, error) {
	if !actor.IsTeacher() {
		return Issue{}, core.ErrPermissionDenied
	}

	rm, err := svc.roomRepo.GetRoomByID(ctx, ni.RoomID)
	if err != nil {
		return Issue{}, err
	}

	now := time.Now().UTC()
	iss := Issue{
		RoomID:    rm.ID,
		TeacherID: actor.ID,
		Message:   ni.Message,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
		Room:      rm,
		Teacher:   actor.Summary(),
	}
	return svc.repo.CreateIssue(ctx, iss)
}

func (svc *Service) Update(ctx context.Context, actor user.User, id string, ui UpdateIssue) (Issue, error) {
	if !actor.IsStaff() {
		return Issue{}, core.ErrPermissionDenied
	}

	iss, err := svc.repo.GetIssueByID(ctx, id)
	if err != nil {
		return Issue{}, err
	}

	iss.Status = ui.Status
	if ui.Response != nil {
		iss.Response = *ui.Response
	}
	iss.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateIssue(ctx, iss)
}

func (svc *Service) Query(ctx context.Context, actor user.User, filter QueryFilter) ([]Issue, error) {
	filter.Clean()
	if !actor.IsStaff() {
		filter.TeacherID = actor.ID
	}
	return svc.repo.QueryIssues(ctx, filter)
}
