package controller

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	userDTO "schoolku_backend/internals/features/users/user/dto"
	userModel "schoolku_backend/internals/features/users/user/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

type AdminController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewAdminController(db, readDB *gorm.DB, cacheSvc *cache.Service) *AdminController {
	return &AdminController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *AdminController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetDashboard — headline counts; super admins without a school_id filter see
// platform-wide totals.
func (ctl *AdminController) GetDashboard(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	db := ctl.read().WithContext(c.Context())
	var scopes []func(*gorm.DB) *gorm.DB

	// Super admins see platform totals unless they ask for one school.
	platformWide := id.IsSuperAdmin() && helper.QueryUint(c, "school_id") == nil
	if !platformWide {
		schoolID, err := helper.ResolveTenant(c, id)
		if err != nil {
			return helper.FromError(c, err)
		}
		scopes = append(scopes, repository.TenantScope(schoolID))
	}

	dashboard := fiber.Map{}
	counts := []struct {
		name  string
		count func() (int64, error)
	}{
		{"total_users", func() (int64, error) { return repository.Count[userModel.UserModel](db, scopes...) }},
		{"total_students", func() (int64, error) { return repository.Count[studentModel.StudentModel](db, scopes...) }},
		{"total_teachers", func() (int64, error) { return repository.Count[teacherModel.TeacherModel](db, scopes...) }},
		{"total_classes", func() (int64, error) { return repository.Count[classModel.ClassModel](db, scopes...) }},
	}
	for _, item := range counts {
		n, err := item.count()
		if err != nil {
			return helper.FromError(c, err)
		}
		dashboard[item.name] = n
	}
	if platformWide {
		n, err := repository.Count[schoolModel.SchoolModel](db)
		if err != nil {
			return helper.FromError(c, err)
		}
		dashboard["total_schools"] = n
	}

	return helper.JsonOK(c, "", fiber.Map{"dashboard": dashboard})
}

// GetUsers — cursor-paginated account list with role/active filters.
func (ctl *AdminController) GetUsers(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	cur := helper.ParseCursor(c)
	role := c.Query("role")

	var scopes []func(*gorm.DB) *gorm.DB
	if !(id.IsSuperAdmin() && helper.QueryUint(c, "school_id") == nil) {
		schoolID, err := helper.ResolveTenant(c, id)
		if err != nil {
			return helper.FromError(c, err)
		}
		scopes = append(scopes, repository.TenantScope(schoolID))
	}
	if role != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("role = ?", role)
		})
	}

	page, err := repository.ListPage[userModel.UserModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonOK(c, "", fiber.Map{
		"users":         userDTO.FromModels(page.Items),
		"next_after_id": page.NextAfterID,
	})
}

// GetUser — manage-user policy applies to reads here too: this view exposes
// account status and contact data, not just the public profile.
func (ctl *AdminController) GetUser(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := repository.Find[userModel.UserModel](ctl.read().WithContext(c.Context()), userID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ManageUser(user.SchoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	return helper.JsonOK(c, "", fiber.Map{"user": userDTO.FromModel(user)})
}

// UpdateUser — partial account update. A role change is a separate privilege:
// only super admin, and only to a role the caller may assign.
func (ctl *AdminController) UpdateUser(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := repository.Find[userModel.UserModel](ctl.DB.WithContext(c.Context()), userID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ManageUser(user.SchoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Role != nil && *req.Role != user.Role {
		if !access.CanChangeRole(id) {
			return helper.JsonError(c, fiber.StatusForbidden, "Only super admin can change roles")
		}
		if !access.CanCreateWithRole(id, *req.Role) {
			return helper.JsonError(c, fiber.StatusForbidden, "Cannot assign this role")
		}
		user.Role = *req.Role
	}
	req.ApplyToModel(user)

	if err := ctl.DB.WithContext(c.Context()).Save(user).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "User updated", fiber.Map{"user": userDTO.FromModel(user)})
}

// DeleteUser removes the account together with its role profile and academic
// rows. Self-deletion is refused.
func (ctl *AdminController) DeleteUser(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	if userID == id.UserID {
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot delete your own account")
	}

	user, err := repository.Find[userModel.UserModel](ctl.DB.WithContext(c.Context()), userID, "User not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ManageUser(user.SchoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var student studentModel.StudentModel
		if err := tx.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
			if err := tx.Where("student_id = ?", student.ID).
				Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
				return apperr.FromGorm(err, "")
			}
			if err := tx.Where("student_id = ?", student.ID).
				Delete(&gradeModel.GradeModel{}).Error; err != nil {
				return apperr.FromGorm(err, "")
			}
			if err := tx.Delete(&student).Error; err != nil {
				return apperr.FromGorm(err, "")
			}
		}
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&teacherModel.TeacherModel{}).Error; err != nil {
			return apperr.FromGorm(err, "")
		}
		if err := authService.RevokeAll(tx, user.ID); err != nil {
			return apperr.FromGorm(err, "")
		}
		return apperr.FromGorm(tx.Delete(user).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	if user.SchoolID != nil {
		ctl.Cache.Invalidate(c.Context(), "students", *user.SchoolID)
		ctl.Cache.Invalidate(c.Context(), "teachers", *user.SchoolID)
	}
	return helper.JsonOK(c, "User deleted", nil)
}

// CreateSchoolUser — provision an account directly into a school.
func (ctl *AdminController) CreateSchoolUser(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if d := access.ManageSchool(schoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !access.CanCreateWithRole(id, req.Role) {
		return helper.JsonError(c, fiber.StatusForbidden, "Cannot assign this role")
	}
	if err := authService.ValidatePasswordStrength(req.Password); err != nil {
		return helper.FromError(c, err)
	}

	user := req.ToModel()
	user.SchoolID = &schoolID
	if err := user.SetPassword(req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.Find[schoolModel.SchoolModel](tx, schoolID, "School not found"); err != nil {
			return err
		}
		return apperr.FromGorm(tx.Create(user).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonCreated(c, "User created", fiber.Map{"user": userDTO.FromModel(user)})
}

// GetAttendanceReport — per-status breakdown for the school in the path,
// optional from/to date range (inclusive, "2006-01-02").
func (ctl *AdminController) GetAttendanceReport(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if d := access.ManageSchool(schoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	q := ctl.read().WithContext(c.Context()).
		Model(&attendanceModel.AttendanceModel{}).
		Where("school_id = ?", schoolID)
	if from := c.Query("from"); from != "" {
		q = q.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		q = q.Where("date <= ?", to)
	}

	var summary attendanceModel.Summary
	if err := q.Session(&gorm.Session{}).Count(&summary.TotalRecords).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := q.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	for _, r := range rows {
		switch r.Status {
		case attendanceModel.StatusPresent:
			summary.Present = r.N
		case attendanceModel.StatusAbsent:
			summary.Absent = r.N
		case attendanceModel.StatusLate:
			summary.Late = r.N
		case attendanceModel.StatusExcused:
			summary.Excused = r.N
		}
	}
	if summary.TotalRecords > 0 {
		summary.AttendancePercentage = float64(summary.Present+summary.Late) / float64(summary.TotalRecords) * 100
	}

	return helper.JsonOK(c, "", fiber.Map{"report": summary})
}

// GetGradesReport — grade distribution and averages for the school in the
// path.
func (ctl *AdminController) GetGradesReport(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	if d := access.ManageSchool(schoolID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	q := ctl.read().WithContext(c.Context()).
		Model(&gradeModel.GradeModel{}).
		Where("school_id = ?", schoolID)
	if t := c.Query("assignment_type"); t != "" {
		q = q.Where("assignment_type = ?", t)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}

	report := fiber.Map{
		"total_grades":       total,
		"average_percentage": 0.0,
		"pass_rate":          0.0,
		"letter_distribution": fiber.Map{
			"A": int64(0), "B": int64(0), "C": int64(0), "D": int64(0), "F": int64(0),
		},
	}
	if total == 0 {
		return helper.JsonOK(c, "", fiber.Map{"report": report})
	}

	var avg float64
	if err := q.Session(&gorm.Session{}).Select("AVG(percentage)").Scan(&avg).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	report["average_percentage"] = avg

	var rows []struct {
		LetterGrade string
		N           int64
	}
	if err := q.Session(&gorm.Session{}).
		Select("letter_grade, COUNT(*) AS n").Group("letter_grade").Scan(&rows).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	dist := fiber.Map{"A": int64(0), "B": int64(0), "C": int64(0), "D": int64(0), "F": int64(0)}
	var passing int64
	for _, r := range rows {
		dist[r.LetterGrade] = r.N
		if r.LetterGrade != "F" {
			passing += r.N
		}
	}
	report["letter_distribution"] = dist
	report["pass_rate"] = float64(passing) / float64(total) * 100

	return helper.JsonOK(c, "", fiber.Map{"report": report})
}

// GetSystemHealth — super admin only; liveness of the store plus runtime info.
func (ctl *AdminController) GetSystemHealth(c *fiber.Ctx) error {
	dbStatus := "up"
	if sqlDB, err := ctl.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}
	cacheStatus := "disabled"
	if ctl.Cache != nil {
		cacheStatus = "up"
	}

	return helper.JsonOK(c, "", fiber.Map{
		"health": fiber.Map{
			"database":   dbStatus,
			"cache":      cacheStatus,
			"goroutines": runtime.NumGoroutine(),
			"timestamp":  time.Now().UTC(),
		},
	})
}
