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
	classDTO "schoolku_backend/internals/features/school/classes/dto"
	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const classCollection = "classes"

type ClassController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewClassController(db, readDB *gorm.DB, cacheSvc *cache.Service) *ClassController {
	return &ClassController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *ClassController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetClasses — cursor-paginated tenant list, cached.
func (ctl *ClassController) GetClasses(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ResolveTenant(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	cur := helper.ParseCursor(c)
	academicYear := strings.TrimSpace(c.Query("academic_year"))
	status := strings.TrimSpace(c.Query("status"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if academicYear != "" {
		params["academic_year"] = academicYear
	}
	if status != "" {
		params["status"] = status
	}

	ckey := cache.ListKey(classCollection, schoolID, params)
	if data, ok := ctl.Cache.GetPage(c.Context(), ckey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	scopes := []func(*gorm.DB) *gorm.DB{repository.TenantScope(schoolID)}
	if academicYear != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("academic_year = ?", academicYear)
		})
	}
	if status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}

	page, err := repository.ListPage[classModel.ClassModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"classes":       page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetClass — detail plus derived seat info, subject count and the class
// attendance summary.
func (ctl *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class id")
	}

	db := ctl.read().WithContext(c.Context())
	class, err := repository.Find[classModel.ClassModel](db, classID, "Class not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, class.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this class")
	}

	subjects, err := repository.Count[subjectModel.SubjectModel](db, func(q *gorm.DB) *gorm.DB {
		return q.Where("class_id = ?", class.ID)
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	summary, err := classAttendanceSummary(db, class.ID)
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonOK(c, "", fiber.Map{
		"class":              class,
		"full_name":          class.FullName(),
		"available_seats":    class.AvailableSeats(),
		"is_full":            class.IsFull(),
		"subject_count":      subjects,
		"attendance_summary": summary,
	})
}

func classAttendanceSummary(db *gorm.DB, classID uint) (attendanceModel.Summary, error) {
	var s attendanceModel.Summary
	base := db.Model(&attendanceModel.AttendanceModel{}).Where("class_id = ?", classID)
	if err := base.Session(&gorm.Session{}).Count(&s.TotalRecords).Error; err != nil {
		return s, apperr.FromGorm(err, "")
	}
	var rows []struct {
		Status string
		N      int64
	}
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

// GetClassStudents — current roster of one class, cursor-paginated.
func (ctl *ClassController) GetClassStudents(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class id")
	}

	class, err := repository.Find[classModel.ClassModel](ctl.read().WithContext(c.Context()), classID, "Class not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, class.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this class")
	}

	cur := helper.ParseCursor(c)
	page, err := repository.ListPage[studentModel.StudentModel](
		ctl.read().WithContext(c.Context()), cur,
		repository.TenantScope(class.SchoolID),
		func(db *gorm.DB) *gorm.DB { return db.Where("current_class_id = ?", class.ID) },
	)
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonOK(c, "", fiber.Map{
		"class_id":      class.ID,
		"students":      page.Items,
		"next_after_id": page.NextAfterID,
	})
}

// CreateClass — teacher-level within tenant.
func (ctl *ClassController) CreateClass(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req classDTO.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	schoolID, err := helper.ResolveTenantForWrite(id, req.SchoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, schoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data kelas"))
	}

	class := req.ToModel(schoolID)

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if class.ClassTeacherID != nil {
			if _, err := repository.FindInTenant[teacherModel.TeacherModel](tx, *class.ClassTeacherID, schoolID, "Class teacher not found"); err != nil {
				return err
			}
		}
		return apperr.FromGorm(tx.Create(class).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), classCollection, schoolID)
	return helper.JsonCreated(c, "Class created", fiber.Map{"class": class})
}

// UpdateClass — partial update, teacher-level within tenant.
func (ctl *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class id")
	}

	class, err := repository.Find[classModel.ClassModel](ctl.DB.WithContext(c.Context()), classID, "Class not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, class.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data kelas"))
	}

	var req classDTO.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if req.ClassTeacherID != nil {
			if _, err := repository.FindInTenant[teacherModel.TeacherModel](tx, *req.ClassTeacherID, class.SchoolID, "Class teacher not found"); err != nil {
				return err
			}
		}
		req.ApplyToModel(class)
		return apperr.FromGorm(tx.Save(class).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), classCollection, class.SchoolID)
	return helper.JsonOK(c, "Class updated", fiber.Map{"class": class})
}

// DeleteClass — refused while students are still enrolled.
func (ctl *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class id")
	}

	class, err := repository.Find[classModel.ClassModel](ctl.DB.WithContext(c.Context()), classID, "Class not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, class.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data kelas"))
	}

	enrolled, err := repository.Count[studentModel.StudentModel](ctl.DB.WithContext(c.Context()), func(q *gorm.DB) *gorm.DB {
		return q.Where("current_class_id = ?", class.ID)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	if enrolled > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Cannot delete class with enrolled students")
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(class).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), classCollection, class.SchoolID)
	return helper.JsonOK(c, "Class deleted", nil)
}
