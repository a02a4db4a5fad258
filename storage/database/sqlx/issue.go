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
	"github.com/trezcool/darasa/core/issue"
)

const issueColumns = `
	i.id, i.room_id, i.teacher_id, i.message, i.status, i.response, i.created_at, i.updated_at,
	r.id AS "room.id", r.building AS "room.building", r.room_no AS "room.room_no",
	r.capacity AS "room.capacity", r.type AS "room.type", r.is_active AS "room.is_active",
	r.remarks AS "room.remarks", r.created_at AS "room.created_at", r.updated_at AS "room.updated_at",
	t.id AS "teacher.id", t.name AS "teacher.name", t.email AS "teacher.email", t.role AS "teacher.role"`

const issueFrom = `
	FROM issue i
	JOIN room r ON r.id = i.room_id
	JOIN users t ON t.id = i.teacher_id`

type IssueRepository struct {
	db *sqlx.DB
}

var _ issue.Repository = (*IssueRepository)(nil) // interface compliance check

func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (repo IssueRepository) CreateIssue(ctx context.Context, iss issue.Issue, exec ...core.DBExecutor) (issue.Issue, error) {
	iss.ID = uuid.New().String()
	q := `
		INSERT INTO issue (id, room_id, teacher_id, message, status, response, created_at, updated_at)
		VALUES (:id, :room_id, :teacher_id, :message, :status, :response, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, iss); err != nil {
		return issue.Issue{}, errors.Wrap(err, "inserting issue")
	}
	return iss, nil
}

func (repo IssueRepository) GetIssueByID(ctx context.Context, id string, exec ...core.DBExecutor) (issue.Issue, error) {
	var iss issue.Issue
	q := `SELECT` + issueColumns + issueFrom + ` WHERE i.id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &iss, q, id); err != nil {
		if err == sql.ErrNoRows {
			return issue.Issue{}, issue.ErrNotFound
		}
		return issue.Issue{}, errors.Wrap(err, "getting issue by id")
	}
	return iss, nil
}

func (repo IssueRepository) QueryIssues(ctx context.Context, filter issue.QueryFilter, exec ...core.DBExecutor) ([]issue.Issue, error) {
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conds = append(conds, fmt.Sprintf("i.teacher_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}

	q := `SELECT` + issueColumns + issueFrom
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY i.created_at DESC`

	issues := make([]issue.Issue, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &issues, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying issues")
	}
	return issues, nil
}

func (repo IssueRepository) UpdateIssue(ctx context.Context, iss issue.Issue, exec ...core.DBExecutor) (issue.Issue, error) {
	q := `UPDATE issue SET status = :status, response = :response, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, iss)
	if err != nil {
		return issue.Issue{}, errors.Wrap(err, "updating issue")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return issue.Issue{}, issue.ErrNotFound
	}
	return iss, nil
}
