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
	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	userModel "schoolku_backend/internals/features/users/user/model"
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
		&userModel.UserModel{},
		&teacherModel.TeacherModel{},
		&subjectModel.SubjectModel{},
		&classModel.ClassModel{},
		&studentModel.StudentModel{},
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

	ctl := NewTeacherController(db, nil, nil)
	app.Get("/teachers/:id", ctl.GetTeacher)
	app.Delete("/teachers/:id", ctl.DeleteTeacher)
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

func seedTeacher(t *testing.T, db *gorm.DB, schoolID uint) *teacherModel.TeacherModel {
	t.Helper()
	schoolPtr := schoolID
	account := &userModel.UserModel{
		Email: "guru@test.id", UserName: "guru", PasswordHash: "x",
		Role: constants.RoleTeacher, FirstName: "Guru", LastName: "Satu",
		SchoolID: &schoolPtr, IsActive: true,
	}
	require.NoError(t, db.Create(account).Error)

	teacher := &teacherModel.TeacherModel{
		UserID:   account.ID,
		HireDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:   "active",
		SchoolID: schoolID,
	}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}

// Deleting a teacher who still owns subjects is a conflict; classes would
// otherwise lose their subject teacher silently.
func TestDeleteTeacherWithSubjectsConflicts(t *testing.T) {
	db := newTestDB(t)
	teacher := seedTeacher(t, db, 1)

	subject := &subjectModel.SubjectModel{
		Name: "Matematika", ClassID: 1, TeacherID: teacher.ID,
		Status: "active", SchoolID: 1,
	}
	require.NoError(t, db.Create(subject).Error)

	admin := access.Identity{UserID: 99, Role: constants.RoleSchoolAdmin, SchoolID: uintPtr(1)}
	app := newApp(db, admin)

	resp, _ := doReq(t, app, http.MethodDelete, fmt.Sprintf("/teachers/%d", teacher.ID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, db.Delete(subject).Error)
	resp, _ = doReq(t, app, http.MethodDelete, fmt.Sprintf("/teachers/%d", teacher.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Teacher-level callers cannot manage teacher records; that needs admin level.
func TestDeleteTeacherRequiresAdminLevel(t *testing.T) {
	db := newTestDB(t)
	teacher := seedTeacher(t, db, 1)

	caller := access.Identity{UserID: 50, Role: constants.RoleTeacher, SchoolID: uintPtr(1)}
	app := newApp(db, caller)

	resp, _ := doReq(t, app, http.MethodDelete, fmt.Sprintf("/teachers/%d", teacher.ID))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetTeacherWorkload(t *testing.T) {
	db := newTestDB(t)
	teacher := seedTeacher(t, db, 1)

	require.NoError(t, db.Create(&subjectModel.SubjectModel{
		Name: "Fisika", ClassID: 1, TeacherID: teacher.ID, Status: "active", SchoolID: 1,
	}).Error)
	cls := &classModel.ClassModel{
		Name: "11", Section: "B", AcademicYear: "2026-2027",
		Capacity: 30, ClassTeacherID: &teacher.ID, Status: "active", SchoolID: 1,
	}
	require.NoError(t, db.Create(cls).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&studentModel.StudentModel{
			UserID: uint(100 + i), Status: "active", SchoolID: 1,
			CurrentClassID: &cls.ID,
			AdmissionDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		}).Error)
	}

	admin := access.Identity{UserID: 99, Role: constants.RoleSchoolAdmin, SchoolID: uintPtr(1)}
	app := newApp(db, admin)

	resp, raw := doReq(t, app, http.MethodGet, fmt.Sprintf("/teachers/%d", teacher.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var body struct {
		SubjectCount int64 `json:"subject_count"`
		ClassCount   int64 `json:"class_count"`
		StudentCount int64 `json:"student_count"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(1), body.SubjectCount)
	assert.Equal(t, int64(1), body.ClassCount)
	assert.Equal(t, int64(3), body.StudentCount)
}
