package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

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
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	userModel "schoolku_backend/internals/features/users/user/model"
	"schoolku_backend/internals/middlewares/auth"
)

func uintPtr(v uint) *uint { return &v }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&subjectModel.SubjectModel{},
		&attendanceModel.AttendanceModel{},
		&gradeModel.GradeModel{},
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

	ctl := NewSchoolController(db, nil, nil)
	app.Get("/schools", ctl.GetSchools)
	app.Post("/schools", ctl.CreateSchool)
	app.Get("/schools/:id", ctl.GetSchool)
	app.Put("/schools/:id", ctl.UpdateSchool)
	app.Delete("/schools/:id", ctl.DeleteSchool)
	app.Get("/schools/:id/statistics", ctl.GetStatistics)
	app.Get("/schools/:id/config", ctl.GetConfig)
	app.Put("/schools/:id/config", ctl.UpdateConfig)
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
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func seedSchool(t *testing.T, db *gorm.DB, name string) *schoolModel.SchoolModel {
	t.Helper()
	s := &schoolModel.SchoolModel{Name: name, IsActive: true}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestCreateSchoolGeneratesCode(t *testing.T) {
	db := newTestDB(t)
	super := access.Identity{UserID: 1, Role: constants.RoleSuperAdmin}
	app := newApp(db, super)

	resp, raw := doJSON(t, app, http.MethodPost, "/schools", fiber.Map{"name": "SMA Merdeka"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created struct {
		School schoolModel.SchoolModel `json:"school"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Len(t, created.School.Code, 6)
	assert.Equal(t, "SMA Merdeka", created.School.Name)
}

// Deleting a school that still has users is refused with Conflict and leaves
// the school in place.
func TestDeleteSchoolWithUsersConflicts(t *testing.T) {
	db := newTestDB(t)
	school := seedSchool(t, db, "SMA 1")
	require.NoError(t, db.Create(&userModel.UserModel{
		Email: "guru@sma1.test", UserName: "guru1", PasswordHash: "x",
		Role: constants.RoleTeacher, FirstName: "Agus", LastName: "Wijaya",
		SchoolID: uintPtr(school.ID), IsActive: true,
	}).Error)

	super := access.Identity{UserID: 1, Role: constants.RoleSuperAdmin}
	app := newApp(db, super)

	resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/schools/%d", school.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var n int64
	db.Model(&schoolModel.SchoolModel{}).Where("id = ?", school.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	// Without users the delete goes through.
	require.NoError(t, db.Where("school_id = ?", school.ID).Delete(&userModel.UserModel{}).Error)
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/schools/%d", school.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// The RESTRICT constraint refuses the delete at the store, so a user created
// between the handler's count and the delete can never be orphaned.
func TestDeleteSchoolRefusedByConstraint(t *testing.T) {
	db := newTestDB(t)
	school := seedSchool(t, db, "SMA 1")
	require.NoError(t, db.Create(&userModel.UserModel{
		Email: "siswa@sma1.test", UserName: "siswa1", PasswordHash: "x",
		Role: constants.RoleStudent, FirstName: "Siti", LastName: "Aminah",
		SchoolID: uintPtr(school.ID), IsActive: true,
	}).Error)

	err := db.Delete(&schoolModel.SchoolModel{}, school.ID).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	var n int64
	db.Model(&schoolModel.SchoolModel{}).Where("id = ?", school.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestGetSchoolsScopedByRole(t *testing.T) {
	db := newTestDB(t)
	s1 := seedSchool(t, db, "SMA 1")
	seedSchool(t, db, "SMA 2")

	admin := access.Identity{UserID: 1, Role: constants.RoleSchoolAdmin, SchoolID: uintPtr(s1.ID)}
	app := newApp(db, admin)

	resp, raw := doJSON(t, app, http.MethodGet, "/schools", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Schools []schoolModel.SchoolModel `json:"schools"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Schools, 1)
	assert.Equal(t, s1.ID, page.Schools[0].ID)

	super := access.Identity{UserID: 2, Role: constants.RoleSuperAdmin}
	superApp := newApp(db, super)
	resp, raw = doJSON(t, superApp, http.MethodGet, "/schools", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Schools, 2)
}

func TestGetSchoolCrossTenantForbidden(t *testing.T) {
	db := newTestDB(t)
	s1 := seedSchool(t, db, "SMA 1")
	s2 := seedSchool(t, db, "SMA 2")

	admin := access.Identity{UserID: 1, Role: constants.RoleSchoolAdmin, SchoolID: uintPtr(s1.ID)}
	app := newApp(db, admin)

	resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/schools/%d", s2.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/schools/99999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateSchoolDeniedForTeacher(t *testing.T) {
	db := newTestDB(t)
	school := seedSchool(t, db, "SMA 1")

	teacher := access.Identity{UserID: 3, Role: constants.RoleTeacher, SchoolID: uintPtr(school.ID)}
	app := newApp(db, teacher)

	resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/schools/%d", school.ID), fiber.Map{
		"name": "SMA Baru",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSchoolStatisticsCounts(t *testing.T) {
	db := newTestDB(t)
	school := seedSchool(t, db, "SMA 1")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&studentModel.StudentModel{
			UserID:   uint(100 + i),
			Status:   "active",
			SchoolID: school.ID,
		}).Error)
	}

	admin := access.Identity{UserID: 1, Role: constants.RoleSchoolAdmin, SchoolID: uintPtr(school.ID)}
	app := newApp(db, admin)

	resp, raw := doJSON(t, app, http.MethodGet, fmt.Sprintf("/schools/%d/statistics", school.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Statistics map[string]int64 `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(3), body.Statistics["total_students"])
	assert.Equal(t, int64(0), body.Statistics["total_teachers"])
}

func TestUpdateConfigPartial(t *testing.T) {
	db := newTestDB(t)
	school := seedSchool(t, db, "SMA 1")

	admin := access.Identity{UserID: 1, Role: constants.RolePrincipal, SchoolID: uintPtr(school.ID)}
	app := newApp(db, admin)

	resp, raw := doJSON(t, app, http.MethodPut, fmt.Sprintf("/schools/%d/config", school.ID), fiber.Map{
		"academic_year":          "2026-2027",
		"max_students_per_class": 35,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var updated schoolModel.SchoolModel
	require.NoError(t, db.First(&updated, school.ID).Error)
	assert.Equal(t, "2026-2027", updated.AcademicYear)
	assert.Equal(t, 35, updated.MaxStudentsPerClass)
	// Untouched knobs keep their defaults.
	assert.Equal(t, "percentage", updated.GradingSystem)
}
