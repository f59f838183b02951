package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/constants"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/middlewares/auth"
)

func uintPtr(v uint) *uint { return &v }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&studentModel.StudentModel{},
		&attendanceModel.AttendanceModel{},
	))
	return db
}

func newApp(db *gorm.DB, id access.Identity) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.LocUserID, id.UserID)
		c.Locals(auth.LocUserRole, id.Role)
		if id.SchoolID != nil {
			c.Locals(auth.LocSchoolID, *id.SchoolID)
		}
		return c.Next()
	})

	ctl := NewAttendanceController(db, nil, nil)
	app.Get("/attendance", ctl.GetAttendance)
	app.Get("/attendance/summary", ctl.GetSummary)
	app.Post("/attendance", ctl.MarkAttendance)
	app.Put("/attendance/:id", ctl.UpdateAttendance)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func seedStudent(t *testing.T, db *gorm.DB, schoolID uint) *studentModel.StudentModel {
	t.Helper()
	s := &studentModel.StudentModel{
		UserID:        1,
		AdmissionDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        "active",
		SchoolID:      schoolID,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func markBody(studentID uint, date string) fiber.Map {
	return fiber.Map{
		"student_id": studentID,
		"class_id":   1,
		"subject_id": 1,
		"teacher_id": 1,
		"date":       date,
		"status":     "present",
	}
}

// The composite unique index makes a second mark for the same tuple a
// Conflict, regardless of request interleaving.
func TestMarkAttendanceDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, 1)

	teacher := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, teacher)

	resp, raw := doJSON(t, app, http.MethodPost, "/attendance", markBody(student.ID, "2026-03-02"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = doJSON(t, app, http.MethodPost, "/attendance", markBody(student.ID, "2026-03-02"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// A different day is a fresh row.
	resp, _ = doJSON(t, app, http.MethodPost, "/attendance", markBody(student.ID, "2026-03-03"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestMarkAttendanceStudentWriteDenied(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, 1)

	caller := access.Identity{UserID: 11, Role: constants.RoleStudent, SchoolID: uintPtr(1)}
	app := newApp(db, caller)

	resp, _ := doJSON(t, app, http.MethodPost, "/attendance", markBody(student.ID, "2026-03-02"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAttendanceSummaryPercentage(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, 1)

	teacher := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, teacher)

	days := []struct {
		date   string
		status string
	}{
		{"2026-03-02", "present"},
		{"2026-03-03", "present"},
		{"2026-03-04", "late"},
		{"2026-03-05", "absent"},
	}
	for _, d := range days {
		body := markBody(student.ID, d.date)
		body["status"] = d.status
		resp, raw := doJSON(t, app, http.MethodPost, "/attendance", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/attendance/summary?student_id=%d", student.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary attendanceModel.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(4), body.Summary.TotalRecords)
	assert.Equal(t, int64(2), body.Summary.Present)
	assert.Equal(t, int64(1), body.Summary.Late)
	assert.Equal(t, int64(1), body.Summary.Absent)
	// present + late over total.
	assert.InDelta(t, 75.0, body.Summary.AttendancePercentage, 0.001)
}

func TestUpdateAttendanceStatus(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, 1)

	teacher := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, teacher)

	resp, raw := doJSON(t, app, http.MethodPost, "/attendance", markBody(student.ID, "2026-03-02"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Attendance attendanceModel.AttendanceModel `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/attendance/%d", created.Attendance.ID), fiber.Map{"status": "excused"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var row attendanceModel.AttendanceModel
	require.NoError(t, db.First(&row, created.Attendance.ID).Error)
	assert.Equal(t, attendanceModel.StatusExcused, row.Status)
}
