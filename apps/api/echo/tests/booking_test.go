package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/booking"
	"github.com/trezcool/darasa/core/user"
)

func postBooking(t *testing.T, token string, body []byte) (*booking.Booking, int, string) {
	t.Helper()
	req, rec := newAuthRequest(http.MethodPost, "/v1/bookings", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		return nil, rec.Code, rec.Body.String()
	}
	var bk booking.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &bk); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	return &bk, rec.Code, rec.Body.String()
}

func TestBookingApi_lifecycle(t *testing.T) {
	admin := createUser(t, "Book Admin", "book.admin@test.test", user.RoleAdmin)
	spoc := createUser(t, "Book Spoc", "book.spoc@test.test", user.RoleSPOC)
	jane := createUser(t, "Book Jane", "book.jane@test.test", user.RoleTeacher)
	john := createUser(t, "Book John", "book.john@test.test", user.RoleTeacher)
	student := createUser(t, "Book Stu", "book.stu@test.test", user.RoleStudent)
	rm := createRoom(t, admin, "BK-A", "101")

	nb := booking.NewBooking{RoomID: rm.ID, Date: "2026-10-01", Slot: "08:00-09:00"}

	// students may not book
	_, code, _ := postBooking(t, getToken(t, student), marchallObj(t, nb))
	if code != http.StatusForbidden {
		t.Fatalf("student create code = %v, want %v", code, http.StatusForbidden)
	}

	// teacher books
	bk, code, body := postBooking(t, getToken(t, jane), marchallObj(t, nb))
	if code != http.StatusCreated {
		t.Fatalf("create code = %v; body %v", code, body)
	}
	if bk.Status != booking.StatusPending || bk.Room.ID != rm.ID || bk.Teacher.ID != jane.ID {
		t.Errorf("create = %+v", bk)
	}

	// the slot is now taken, also for its owner
	for _, actor := range []user.User{jane, john} {
		if _, code, _ = postBooking(t, getToken(t, actor), marchallObj(t, nb)); code != http.StatusConflict {
			t.Errorf("duplicate create code = %v, want %v", code, http.StatusConflict)
		}
	}

	// conflict preview
	checkURL := fmt.Sprintf("/v1/bookings/conflicts?room_id=%s&date=2026-10-01&slot=08:00-09:00", rm.ID)
	req, rec := newAuthRequest(http.MethodGet, checkURL, getToken(t, john))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, ConflictCheckResponse{Available: false})}, rec)

	freeURL := fmt.Sprintf("/v1/bookings/conflicts?room_id=%s&date=2026-10-01&slot=09:00-10:00", rm.ID)
	req, rec = newAuthRequest(http.MethodGet, freeURL, getToken(t, john))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, ConflictCheckResponse{Available: true})}, rec)

	// teachers may not decide
	req, rec = newAuthRequest(http.MethodPatch, "/v1/bookings/"+bk.ID, getToken(t, jane), []byte(`{"status": "APPROVED"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)

	// SPOC approves
	req, rec = newAuthRequest(http.MethodPatch, "/v1/bookings/"+bk.ID, getToken(t, spoc), []byte(`{"status": "APPROVED"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve code = %v; body %v", rec.Code, rec.Body.String())
	}
	var approved booking.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &approved); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if approved.Status != booking.StatusApproved {
		t.Errorf("approve status = %v", approved.Status)
	}

	// approved bookings cannot be rejected anymore
	req, rec = newAuthRequest(http.MethodPatch, "/v1/bookings/"+bk.ID, getToken(t, spoc), []byte(`{"status": "REJECTED"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "booking cannot change to this status"}),
	}, rec)

	// decisions outside APPROVED|REJECTED are rejected up front
	req, rec = newAuthRequest(http.MethodPatch, "/v1/bookings/"+bk.ID, getToken(t, spoc), []byte(`{"status": "COMPLETED"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("complete-by-hand code = %v, want %v", rec.Code, http.StatusBadRequest)
	}
}

func TestBookingApi_cancel(t *testing.T) {
	admin := createUser(t, "Cxl Admin", "cxl.admin@test.test", user.RoleAdmin)
	jane := createUser(t, "Cxl Jane", "cxl.jane@test.test", user.RoleTeacher)
	john := createUser(t, "Cxl John", "cxl.john@test.test", user.RoleTeacher)
	rm := createRoom(t, admin, "CX-A", "101")

	nb := booking.NewBooking{RoomID: rm.ID, Date: "2026-10-02", Slot: "10:00-11:00"}
	bk, code, body := postBooking(t, getToken(t, jane), marchallObj(t, nb))
	if code != http.StatusCreated {
		t.Fatalf("create code = %v; body %v", code, body)
	}

	// only the owner may cancel
	req, rec := newAuthRequest(http.MethodPost, "/v1/bookings/"+bk.ID+"/cancel", getToken(t, john))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/bookings/"+bk.ID+"/cancel", getToken(t, jane))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel code = %v; body %v", rec.Code, rec.Body.String())
	}
	var cancelled booking.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &cancelled); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if cancelled.Status != booking.StatusCancelled {
		t.Errorf("cancel status = %v", cancelled.Status)
	}

	// the freed slot may be re-booked
	if _, code, body = postBooking(t, getToken(t, john), marchallObj(t, nb)); code != http.StatusCreated {
		t.Errorf("re-book code = %v; body %v", code, body)
	}
}

func TestBookingApi_visibility(t *testing.T) {
	admin := createUser(t, "Vis Admin", "vis.admin@test.test", user.RoleAdmin)
	spoc := createUser(t, "Vis Spoc", "vis.spoc@test.test", user.RoleSPOC)
	jane := createUser(t, "Vis Jane", "vis.jane@test.test", user.RoleTeacher)
	john := createUser(t, "Vis John", "vis.john@test.test", user.RoleTeacher)
	rm := createRoom(t, admin, "VS-A", "101")

	janeBk, code, body := postBooking(t, getToken(t, jane), marchallObj(t, booking.NewBooking{RoomID: rm.ID, Date: "2026-10-03", Slot: "08:00-09:00"}))
	if code != http.StatusCreated {
		t.Fatalf("create code = %v; body %v", code, body)
	}
	if _, code, body = postBooking(t, getToken(t, john), marchallObj(t, booking.NewBooking{RoomID: rm.ID, Date: "2026-10-03", Slot: "09:00-10:00"})); code != http.StatusCreated {
		t.Fatalf("create code = %v; body %v", code, body)
	}

	// teachers only see their own bookings
	req, rec := newAuthRequest(http.MethodGet, "/v1/bookings", getToken(t, jane))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query code = %v; body %v", rec.Code, rec.Body.String())
	}
	var bks []booking.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &bks); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	for _, bk := range bks {
		if bk.TeacherID != jane.ID {
			t.Errorf("teacher sees a foreign booking: %+v", bk)
		}
	}

	// a foreign booking id reads as absent
	req, rec = newAuthRequest(http.MethodGet, "/v1/bookings/"+janeBk.ID, getToken(t, john))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "booking not found"})}, rec)

	// staff can read it
	req, rec = newAuthRequest(http.MethodGet, "/v1/bookings/"+janeBk.ID, getToken(t, spoc))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("staff retrieve code = %v; body %v", rec.Code, rec.Body.String())
	}

	// date filter
	req, rec = newAuthRequest(http.MethodGet, "/v1/bookings?date=2026-10-03&status=pending", getToken(t, spoc))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query code = %v; body %v", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bks); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(bks) != 2 {
		t.Errorf("query by date = %d bookings, want 2", len(bks))
	}

	// a bad date param is a validation error
	req, rec = newAuthRequest(http.MethodGet, "/v1/bookings?date=03/10/2026", getToken(t, spoc))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date code = %v, want %v", rec.Code, http.StatusBadRequest)
	}
}
