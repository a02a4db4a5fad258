// Package dummydb provides a goroutine-safe in-memory store for tests.
package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/booking"
	"github.com/trezcool/darasa/core/issue"
	"github.com/trezcool/darasa/core/room"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		noSQL

		user       *userTable
		room       *roomTable
		booking    *bookingTable
		attendance *attendanceTable
		issue      *issueTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	roomTable struct {
		sync.RWMutex
		table map[string]*room.Room
	}
	bookingTable struct {
		sync.RWMutex
		table map[string]*booking.Booking
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
	issueTable struct {
		sync.RWMutex
		table map[string]*issue.Issue
	}
)

var _ core.DB = (*DB)(nil)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		room:       &roomTable{table: make(map[string]*room.Room)},
		booking:    &bookingTable{table: make(map[string]*booking.Booking)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
		issue:      &issueTable{table: make(map[string]*issue.Issue)},
	}
	return db, nil
}

// BeginTx returns a no-op transactor; writes against the maps are already
// atomic under the per-table locks.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (core.DBTransactor, error) {
	return noopTx{}, nil
}

// noSQL satisfies core.DBExecutor for stores that never run raw SQL.
type noSQL struct{}

func (noSQL) Exec(string, ...interface{}) (sql.Result, error) { return nil, sql.ErrConnDone }
func (noSQL) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
func (noSQL) Query(string, ...interface{}) (*sql.Rows, error) { return nil, sql.ErrConnDone }
func (noSQL) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, sql.ErrConnDone
}
func (noSQL) QueryRow(string, ...interface{}) *sql.Row                            { return nil }
func (noSQL) QueryRowContext(context.Context, string, ...interface{}) *sql.Row    { return nil }

type noopTx struct {
	noSQL
}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }
