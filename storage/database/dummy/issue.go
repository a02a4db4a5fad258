package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/issue"
)

type issueRepository struct {
	db *issueTable
}

var _ issue.Repository = (*issueRepository)(nil) // interface compliance check

func NewIssueRepository(db *DB) issue.Repository {
	return &issueRepository{db: db.issue}
}

func (repo *issueRepository) CreateIssue(ctx context.Context, iss issue.Issue, exec ...core.DBExecutor) (issue.Issue, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	iss.ID = uuid.New().String()
	repo.db.table[iss.ID] = &iss
	return iss, nil
}

func (repo *issueRepository) GetIssueByID(ctx context.Context, id string, exec ...core.DBExecutor) (issue.Issue, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if iss, ok := repo.db.table[id]; ok {
		return *iss, nil
	}
	return issue.Issue{}, issue.ErrNotFound
}

func (repo *issueRepository) QueryIssues(ctx context.Context, filter issue.QueryFilter, exec ...core.DBExecutor) ([]issue.Issue, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	issues := make([]issue.Issue, 0, len(repo.db.table))
	for _, iss := range repo.db.table {
		if filter.TeacherID != "" && iss.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && iss.Status != filter.Status {
			continue
		}
		issues = append(issues, *iss)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].CreatedAt.After(issues[j].CreatedAt) })
	return issues, nil
}

func (repo *issueRepository) UpdateIssue(ctx context.Context, iss issue.Issue, exec ...core.DBExecutor) (issue.Issue, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[iss.ID]; !ok {
		return issue.Issue{}, issue.ErrNotFound
	}
	repo.db.table[iss.ID] = &iss
	return iss, nil
}
