package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	studentDTO "schoolku_backend/internals/features/school/students/dto"
	studentModel "schoolku_backend/internals/features/school/students/model"
	userDTO "schoolku_backend/internals/features/users/user/dto"
	userModel "schoolku_backend/internals/features/users/user/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const studentCollection = "students"

type StudentController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewStudentController(db, readDB *gorm.DB, cacheSvc *cache.Service) *StudentController {
	return &StudentController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *StudentController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetStudents — cursor-paginated, tenant-scoped list with a best-effort
// cache in front. A cache hit returns the stored page verbatim; any cache
// failure silently falls through to the store.
func (ctl *StudentController) GetStudents(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ResolveTenant(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	cur := helper.ParseCursor(c)
	classID := helper.QueryUint(c, "class_id")
	status := strings.TrimSpace(c.Query("status"))
	q := strings.TrimSpace(c.Query("q"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if classID != nil {
		params["class_id"] = strconv.FormatUint(uint64(*classID), 10)
	}
	if status != "" {
		params["status"] = status
	}
	if q != "" {
		params["q"] = q
	}

	ckey := cache.ListKey(studentCollection, schoolID, params)
	if data, ok := ctl.Cache.GetPage(c.Context(), ckey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	scopes := []func(*gorm.DB) *gorm.DB{repository.TenantScope(schoolID)}
	if classID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("current_class_id = ?", *classID)
		})
	}
	if status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	if q != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("student_id ILIKE ?", "%"+q+"%")
		})
	}

	page, err := repository.ListPage[studentModel.StudentModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"students":      page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetStudent — detail plus the account row and on-read academic aggregates.
func (ctl *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	student, err := repository.Find[studentModel.StudentModel](ctl.read().WithContext(c.Context()), studentID, "Student not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, student.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this student")
	}

	db := ctl.read().WithContext(c.Context())

	var user userModel.UserModel
	if err := db.First(&user, student.UserID).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, "Student account not found"))
	}

	summary, err := attendanceSummaryFor(db, student.ID)
	if err != nil {
		return helper.FromError(c, err)
	}

	var avg *float64
	row := db.Model(&gradeModel.GradeModel{}).
		Select("AVG(percentage)").
		Where("student_id = ?", student.ID).
		Row()
	if err := row.Scan(&avg); err != nil {
		avg = nil
	}

	resp := fiber.Map{
		"student":            student,
		"user":               userDTO.FromModel(&user),
		"attendance_summary": summary,
	}
	if avg != nil {
		resp["average_grade"] = *avg
	}
	return helper.JsonOK(c, "", resp)
}

// CreateStudent — builds the academic profile on top of an existing student
// account. The tenant comes from the caller, never from the payload.
func (ctl *StudentController) CreateStudent(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req studentDTO.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	schoolID, err := helper.ResolveTenantForWrite(id, req.SchoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, schoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data siswa"))
	}

	student, err := req.ToModel(schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var user userModel.UserModel
		if err := tx.First(&user, student.UserID).Error; err != nil {
			return apperr.FromGorm(err, "User account not found")
		}
		if user.Role != constants.RoleStudent {
			return apperr.New(apperr.Validation, "User is not a student account")
		}
		if user.SchoolID == nil || *user.SchoolID != schoolID {
			return apperr.New(apperr.Validation, "User belongs to a different school")
		}

		if student.CurrentClassID != nil {
			class, err := repository.FindInTenant[classModel.ClassModel](tx, *student.CurrentClassID, schoolID, "Class not found")
			if err != nil {
				return err
			}
			if !class.CanEnrollStudent() {
				return apperr.New(apperr.Conflict, "Class is full or inactive")
			}
		}

		if err := tx.Create(student).Error; err != nil {
			return apperr.FromGorm(err, "")
		}
		if student.CurrentClassID != nil {
			return syncClassStrength(tx, *student.CurrentClassID)
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), studentCollection, schoolID)
	return helper.JsonCreated(c, "Student created", fiber.Map{"student": student})
}

// UpdateStudent — partial update; a class move resyncs both class strengths.
func (ctl *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	student, err := repository.Find[studentModel.StudentModel](ctl.DB.WithContext(c.Context()), studentID, "Student not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, student.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data siswa"))
	}

	var req studentDTO.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	oldClassID := student.CurrentClassID
	req.ApplyToModel(student)

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		classChanged := req.CurrentClassID != nil &&
			(oldClassID == nil || *oldClassID != *req.CurrentClassID)

		if classChanged {
			class, err := repository.FindInTenant[classModel.ClassModel](tx, *req.CurrentClassID, student.SchoolID, "Class not found")
			if err != nil {
				return err
			}
			if !class.CanEnrollStudent() {
				return apperr.New(apperr.Conflict, "Class is full or inactive")
			}
		}

		if err := tx.Save(student).Error; err != nil {
			return apperr.FromGorm(err, "")
		}

		if classChanged {
			if oldClassID != nil {
				if err := syncClassStrength(tx, *oldClassID); err != nil {
					return err
				}
			}
			return syncClassStrength(tx, *req.CurrentClassID)
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), studentCollection, student.SchoolID)
	return helper.JsonOK(c, "Student updated", fiber.Map{"student": student})
}

// DeleteStudent removes the academic profile along with its attendance and
// grade rows. The user account stays; deleting accounts is an admin concern.
func (ctl *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	student, err := repository.Find[studentModel.StudentModel](ctl.DB.WithContext(c.Context()), studentID, "Student not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, student.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data siswa"))
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).
			Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
			return apperr.FromGorm(err, "")
		}
		if err := tx.Where("student_id = ?", student.ID).
			Delete(&gradeModel.GradeModel{}).Error; err != nil {
			return apperr.FromGorm(err, "")
		}
		if err := tx.Delete(student).Error; err != nil {
			return apperr.FromGorm(err, "")
		}
		if student.CurrentClassID != nil {
			return syncClassStrength(tx, *student.CurrentClassID)
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), studentCollection, student.SchoolID)
	ctl.Cache.Invalidate(c.Context(), "attendance", student.SchoolID)
	ctl.Cache.Invalidate(c.Context(), "grades", student.SchoolID)
	return helper.JsonOK(c, "Student deleted", nil)
}

// syncClassStrength recomputes current_strength from actual active
// membership instead of incrementing, so it self-heals after any drift.
func syncClassStrength(tx *gorm.DB, classID uint) error {
	err := tx.Model(&classModel.ClassModel{}).
		Where("id = ?", classID).
		Update("current_strength", tx.Model(&studentModel.StudentModel{}).
			Select("COUNT(*)").
			Where("current_class_id = ? AND status = ?", classID, "active")).
		Error
	if err != nil {
		return apperr.FromGorm(err, "")
	}
	return nil
}

func attendanceSummaryFor(db *gorm.DB, studentID uint) (attendanceModel.Summary, error) {
	var s attendanceModel.Summary
	base := db.Model(&attendanceModel.AttendanceModel{}).Where("student_id = ?", studentID)

	if err := base.Session(&gorm.Session{}).Count(&s.TotalRecords).Error; err != nil {
		return s, apperr.FromGorm(err, "")
	}
	type statusCount struct {
		Status string
		N      int64
	}
	var rows []statusCount
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return s, apperr.FromGorm(err, "")
	}
	for _, r := range rows {
		switch r.Status {
		case attendanceModel.StatusPresent:
			s.Present = r.N
		case attendanceModel.StatusAbsent:
			s.Absent = r.N
		case attendanceModel.StatusLate:
			s.Late = r.N
		case attendanceModel.StatusExcused:
			s.Excused = r.N
		}
	}
	if s.TotalRecords > 0 {
		s.AttendancePercentage = float64(s.Present+s.Late) / float64(s.TotalRecords) * 100
	}
	return s, nil
}
