package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/booking"
	"github.com/trezcool/darasa/core/user"
)

// approvedBooking books a slot as teacher and approves it as approver,
// going through the API so the fixture matches real traffic.
func approvedBooking(t *testing.T, teacher, approver user.User, roomID, date, slot string) *booking.Booking {
	t.Helper()
	bk, code, body := postBooking(t, getToken(t, teacher), marchallObj(t, booking.NewBooking{RoomID: roomID, Date: date, Slot: slot}))
	if code != http.StatusCreated {
		t.Fatalf("create code = %v; body %v", code, body)
	}
	req, rec := newAuthRequest(http.MethodPatch, "/v1/bookings/"+bk.ID, getToken(t, approver), []byte(`{"status": "APPROVED"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve code = %v; body %v", rec.Code, rec.Body.String())
	}
	bk.Status = booking.StatusApproved
	return bk
}

func TestAttendanceApi_record(t *testing.T) {
	admin := createUser(t, "Att Admin", "att.admin@test.test", user.RoleAdmin)
	spoc := createUser(t, "Att Spoc", "att.spoc@test.test", user.RoleSPOC)
	jane := createUser(t, "Att Jane", "att.jane@test.test", user.RoleTeacher)
	john := createUser(t, "Att John", "att.john@test.test", user.RoleTeacher)
	rm := createRoom(t, admin, "AT-A", "101")

	bk := approvedBooking(t, jane, spoc, rm.ID, "2026-10-10", "08:00-09:00")

	t.Run("staff may not mark attendance", func(t *testing.T) {
		body := marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 40, Present: 35})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, spoc), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("only the owning teacher may mark attendance", func(t *testing.T) {
		body := marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 40, Present: 35})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, john), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("present cannot exceed total", func(t *testing.T) {
		body := marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 40, Present: 41})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, jane), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var fldErrs map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &fldErrs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if _, ok := fldErrs["present"]; !ok {
			t.Errorf("field errors = %v, want a \"present\" entry", fldErrs)
		}
	})

	t.Run("owner marks attendance", func(t *testing.T) {
		body := marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 40, Present: 35, Remarks: "projector flickered"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, jane), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var att attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if att.BookingID != bk.ID || att.RoomID != rm.ID || att.Slot != bk.Slot || att.Present != 35 {
			t.Errorf("record = %+v", att)
		}

		// the booking is completed in the same go
		req, rec = newAuthRequest(http.MethodGet, "/v1/bookings/"+bk.ID, getToken(t, jane))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("retrieve code = %v; body %v", rec.Code, rec.Body.String())
		}
		var completed booking.Booking
		if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if completed.Status != booking.StatusCompleted {
			t.Errorf("booking status = %v, want %v", completed.Status, booking.StatusCompleted)
		}
	})

	t.Run("attendance is write-once", func(t *testing.T) {
		body := marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 40, Present: 30})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, jane), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "attendance can only be marked for approved bookings"}),
		}, rec)
	})

	t.Run("pending booking", func(t *testing.T) {
		pending, code, body := postBooking(t, getToken(t, jane), marchallObj(t, booking.NewBooking{RoomID: rm.ID, Date: "2026-10-10", Slot: "09:00-10:00"}))
		if code != http.StatusCreated {
			t.Fatalf("create code = %v; body %v", code, body)
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, jane), marchallObj(t, attendance.NewAttendance{BookingID: pending.ID, Total: 40, Present: 35}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "attendance can only be marked for approved bookings"}),
		}, rec)
	})
}

func TestAttendanceApi_query(t *testing.T) {
	admin := createUser(t, "AQ Admin", "aq.admin@test.test", user.RoleAdmin)
	spoc := createUser(t, "AQ Spoc", "aq.spoc@test.test", user.RoleSPOC)
	jane := createUser(t, "AQ Jane", "aq.jane@test.test", user.RoleTeacher)
	john := createUser(t, "AQ John", "aq.john@test.test", user.RoleTeacher)
	rm := createRoom(t, admin, "AQ-A", "101")

	record := func(teacher user.User, date, slot string) {
		bk := approvedBooking(t, teacher, spoc, rm.ID, date, slot)
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, teacher), marchallObj(t, attendance.NewAttendance{BookingID: bk.ID, Total: 30, Present: 28}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("record code = %v; body %v", rec.Code, rec.Body.String())
		}
	}
	record(jane, "2026-10-11", "08:00-09:00")
	record(jane, "2026-10-12", "08:00-09:00")
	record(john, "2026-10-11", "09:00-10:00")

	t.Run("teachers only see their own records", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", getToken(t, jane))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var records []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("query = %d records, want 2", len(records))
		}
		for _, att := range records {
			if att.TeacherID != jane.ID {
				t.Errorf("teacher sees a foreign record: %+v", att)
			}
		}
	})

	t.Run("staff filter by date", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance?date=2026-10-11", getToken(t, spoc))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var records []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("query = %d records, want 2", len(records))
		}
		seen := map[string]bool{}
		for _, att := range records {
			seen[att.TeacherID] = true
		}
		if !seen[jane.ID] || !seen[john.ID] {
			t.Errorf("staff query misses a teacher: %v", fmt.Sprint(seen))
		}
	})
}
