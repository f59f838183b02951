package controller

import (
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
	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
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
		&classModel.ClassModel{},
		&studentModel.StudentModel{},
		&subjectModel.SubjectModel{},
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

	ctl := NewClassController(db, nil, nil)
	app.Get("/classes/:id", ctl.GetClass)
	app.Delete("/classes/:id", ctl.DeleteClass)
	return app
}

func doReq(t *testing.T, app *fiber.App, method, path string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func seedClass(t *testing.T, db *gorm.DB, schoolID uint) *classModel.ClassModel {
	t.Helper()
	cls := &classModel.ClassModel{
		Name: "10", Section: "A", AcademicYear: "2026-2027",
		Capacity: 30, Status: "active", SchoolID: schoolID,
	}
	require.NoError(t, db.Create(cls).Error)
	return cls
}

func TestDeleteClassWithEnrolledStudentsConflicts(t *testing.T) {
	db := newTestDB(t)
	cls := seedClass(t, db, 1)

	enrolled := &studentModel.StudentModel{
		UserID: 1, Status: "active", SchoolID: 1,
		CurrentClassID: &cls.ID,
		AdmissionDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(enrolled).Error)

	caller := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, caller)

	resp, _ := doReq(t, app, http.MethodDelete, fmt.Sprintf("/classes/%d", cls.ID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// After the student moves out, the delete goes through.
	require.NoError(t, db.Model(enrolled).Update("current_class_id", nil).Error)
	resp, _ = doReq(t, app, http.MethodDelete, fmt.Sprintf("/classes/%d", cls.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetClassDerivedFields(t *testing.T) {
	db := newTestDB(t)
	cls := seedClass(t, db, 1)
	require.NoError(t, db.Model(cls).Update("current_strength", 12).Error)

	for day := 1; day <= 2; day++ {
		require.NoError(t, db.Create(&attendanceModel.AttendanceModel{
			StudentID: 1, ClassID: cls.ID, SubjectID: 1, TeacherID: 1,
			Date:   time.Date(2026, 3, day+1, 0, 0, 0, 0, time.UTC),
			Status: "present", SchoolID: 1,
		}).Error)
	}

	caller := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, caller)

	resp, raw := doReq(t, app, http.MethodGet, fmt.Sprintf("/classes/%d", cls.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var body struct {
		FullName          string                  `json:"full_name"`
		AvailableSeats    int                     `json:"available_seats"`
		IsFull            bool                    `json:"is_full"`
		AttendanceSummary attendanceModel.Summary `json:"attendance_summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "10-A", body.FullName)
	assert.Equal(t, 18, body.AvailableSeats)
	assert.False(t, body.IsFull)
	assert.Equal(t, int64(2), body.AttendanceSummary.TotalRecords)
	assert.InDelta(t, 100.0, body.AttendanceSummary.AttendancePercentage, 0.001)
}

func TestGetClassCrossTenantForbidden(t *testing.T) {
	db := newTestDB(t)
	cls := seedClass(t, db, 2)

	caller := access.Identity{UserID: 10, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, caller)

	resp, _ := doReq(t, app, http.MethodGet, fmt.Sprintf("/classes/%d", cls.ID))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
